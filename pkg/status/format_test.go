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

package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// 🧪 TestDefaultFileFormatter tests the default file formatter implementation
func TestDefaultFileFormatter(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		status      FileStatus
		want        string
		description string
	}{
		{
			name:        "new_file",
			path:        "fish/config.fish",
			status:      StatusNew,
			want:        "✨ Created fish/config.fish",
			description: "should show creation symbol for new files",
		},
		{
			name:        "modified_file",
			path:        "tmux/.tmux.conf",
			status:      StatusModified,
			want:        "📝 Modified tmux/.tmux.conf",
			description: "should show modification symbol for changed files",
		},
		{
			name:        "unchanged_file",
			path:        "report.txt",
			status:      StatusUnchanged,
			want:        "👍 Unchanged report.txt",
			description: "should show unchanged symbol for stable files",
		},
		{
			name:        "skipped_file",
			path:        "vscode/settings.json",
			status:      StatusSkipped,
			want:        "⏭️  Skipped vscode/settings.json",
			description: "should show skip symbol for files that could not be copied",
		},
		{
			name:        "empty_path",
			path:        "",
			status:      StatusNew,
			want:        "✨ Created ",
			description: "should handle empty path gracefully",
		},
		{
			name:        "unknown_status",
			path:        "x",
			status:      StatusUnknown,
			want:        "❔ Unknown x",
			description: "should fall back for unknown status",
		},
	}

	formatter := NewDefaultFileFormatter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatter.FormatFileOperation(tt.path, tt.status)
			assert.Equal(t, tt.want, got, tt.description)
		})
	}
}

// 🧪 TestProgressFormatting tests progress message formatting
func TestProgressFormatting(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		total    int
		expected string
	}{
		{
			name:     "zero_progress",
			current:  0,
			total:    10,
			expected: "⏳ Progress: 0/10 (0%)",
		},
		{
			name:     "half_progress",
			current:  5,
			total:    10,
			expected: "⏳ Progress: 5/10 (50%)",
		},
		{
			name:     "complete",
			current:  10,
			total:    10,
			expected: "✅ Progress: 10/10 (100%)",
		},
		{
			name:     "zero_total",
			current:  0,
			total:    0,
			expected: "✅ Progress: 0/0 (0%)",
		},
		{
			name:     "zero_total_with_current",
			current:  5,
			total:    0,
			expected: "✅ Progress: 5/0 (100%)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := NewDefaultFileFormatter()
			assert.Equal(t, tt.expected, formatter.FormatProgress(tt.current, tt.total))
		})
	}
}

// 🧪 TestErrorFormatting tests error message formatting
func TestErrorFormatting(t *testing.T) {
	formatter := NewDefaultFileFormatter()

	assert.Equal(t, "❌ Error: assert.AnError general error for testing", formatter.FormatError(assert.AnError))
	assert.Equal(t, "", formatter.FormatError(nil), "should return empty string for nil errors")
}

func TestFileStatusString(t *testing.T) {
	assert.Equal(t, "new", StatusNew.String())
	assert.Equal(t, "modified", StatusModified.String())
	assert.Equal(t, "unchanged", StatusUnchanged.String())
	assert.Equal(t, "skipped", StatusSkipped.String())
	assert.Equal(t, "unknown", FileStatus(42).String())
}
