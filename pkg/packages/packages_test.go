// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package packages

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

// 🔧 MockRunner is a mock implementation of CommandRunner
type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Available(name string) bool {
	return m.Called(name).Bool(0)
}

func (m *MockRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	result := m.Called(ctx, name, args)
	out, _ := result.Get(0).([]byte)
	return out, result.Error(1)
}

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func TestParsePip(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "basic_listing",
			in:   []string{"Package    Version", "----       -------", "alpha 1.0.0", "beta  2.3.1"},
			want: []string{"alpha", "beta"},
		},
		{
			name: "header_only",
			in:   []string{"Package    Version", "----       -------"},
			want: []string{},
		},
		{
			name: "blank_lines_skipped",
			in:   []string{"Package Version", "------- -------", "", "gamma\t0.1", "   "},
			want: []string{"gamma"},
		},
		{
			name: "empty_output",
			in:   nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePip(strings.Join(tt.in, "\n"))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCargo(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "single_crate",
			in:   "ripgrep v13.0.0:",
			want: []string{"ripgrep"},
		},
		{
			name: "line_without_v",
			in:   "bat 0.24.0:",
			want: []string{},
		},
		{
			name: "indented_binaries_skipped",
			in:   "ripgrep v13.0.0:\n    rg\nvivid v0.9.0:\n    vivid\n\n",
			want: []string{"ripgrep", "vivid"},
		},
		{
			name: "name_containing_v",
			in:   "cargo-valgrind v0.1.0:\n    cargo-valgrind\nvhs-tool v1.0.0:",
			want: []string{"cargo-valgrind", "vhs-tool"},
		},
		{
			name: "crate_from_path",
			in:   "cargo-edit v0.12.2 (/home/me/src/cargo-edit):\n    cargo-add",
			want: []string{"cargo-edit"},
		},
		{
			name: "windows_line_endings",
			in:   "fd-find v8.7.0:\r\n    fd\r\n",
			want: []string{"fd-find"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCargo(tt.in))
		})
	}
}

func TestListPip(t *testing.T) {
	ctx := testContext(t)
	runner := &MockRunner{}
	runner.On("Available", "pip").Return(true)
	runner.On("Run", ctx, "pip", []string{"list"}).
		Return([]byte("Package Version\n------- -------\nrich 13.7.0\nrequests 2.31.0\n"), nil)

	got, err := NewLister(runner).ListPip(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"rich", "requests"}, got)
	runner.AssertExpectations(t)
}

func TestListPipFallsBackToPip3(t *testing.T) {
	ctx := testContext(t)
	runner := &MockRunner{}
	runner.On("Available", "pip").Return(false)
	runner.On("Available", "pip3").Return(true)
	runner.On("Run", ctx, "pip3", []string{"list"}).
		Return([]byte("Package Version\n------- -------\nwheel 0.42.0\n"), nil)

	got, err := NewLister(runner).ListPip(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"wheel"}, got)
	runner.AssertExpectations(t)
}

func TestListCargoUnavailable(t *testing.T) {
	tests := []struct {
		name  string
		setup func(r *MockRunner, ctx context.Context)
	}{
		{
			name: "not_installed",
			setup: func(r *MockRunner, ctx context.Context) {
				r.On("Available", "cargo").Return(false)
			},
		},
		{
			name: "non_zero_exit",
			setup: func(r *MockRunner, ctx context.Context) {
				r.On("Available", "cargo").Return(true)
				r.On("Run", ctx, "cargo", []string{"install", "--list"}).
					Return(nil, errors.New("exit status 101"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			runner := &MockRunner{}
			tt.setup(runner, ctx)

			got, err := NewLister(runner).ListCargo(ctx)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrToolUnavailable), "error should wrap ErrToolUnavailable")
			assert.Empty(t, got)
			assert.NotNil(t, got, "an empty list is returned, not nil")
			runner.AssertExpectations(t)
		})
	}
}
