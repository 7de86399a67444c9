/*
Package config loads the optional cfgbackup settings file and resolves the
backup destination.

	            +-------------+
	            |  Settings   |
	            +------+------+
	                   |
	  +--------+-------+-------+--------+
	  |        |               |        |
	+-+--+  +--+--+         +--+--+  +--+--+
	|YAML|  | HCL |         |TOML |  |JSON |
	+----+  +-----+         +-----+  +-----+

🎯 Purpose:
- Provides defaults for every command line flag
- Picks a parser from the file extension
- Rejects unknown fields and malformed exclude patterns

🔄 Flow:
1. Load --config, or .cfgbackup.yaml from the working directory if present
2. Parse with the registered Parser for the extension
3. Validate exclude patterns
4. The command overlays flags that were set explicitly
5. ResolveDestination expands ~ and checks the directory exists

🚧 Notes:
- The settings file never changes which applications are backed up
- HCL files may use home, config_home and env.<NAME> in expressions

🔍 Example:

	s, err := config.Load(ctx, "cfgbackup.toml")
	if err != nil {
		return err
	}
	dest, err := config.ResolveDestination(s.Destination, cwd, xdg.Home)
	if errors.Is(err, config.ErrInvalidDestination) {
		// exit 1 before doing any work
	}
*/
package config
