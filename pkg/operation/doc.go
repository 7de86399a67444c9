/*
Package operation implements the backup run: copy discovered configs, copy
fonts, list packages and write the report.

	+-------------+
	|  Discovery  |
	| (registry)  |
	+------+------+
	       |
	+------+------+
	|    Copy     |
	| (configs/)  |
	+------+------+
	       |
	+------+------+
	|  Packages   |
	| pip, cargo  |
	+------+------+
	       |
	+------+------+
	|   Report    |
	| report.txt  |
	+-------------+

🎯 Purpose:
- Drives one synchronous backup from start to finish
- Copies every existing candidate path, files and directories alike
- Degrades gracefully: permission errors and missing package managers warn

🔄 Flow:
1. Discover which registered paths exist (always)
2. Copy them into configs/<app>/ (unless dry run)
3. Copy fonts into configs/fonts/ (if requested)
4. List pip and cargo packages (if requested)
5. Write package lists and report.txt (unless dry run)

⚡ Failure policy:
- Permission denied on a path: warning, path recorded as skipped, run goes on
- Package manager missing or failing: warning, empty list
- Any other I/O error: the run stops and the error names the path

🤝 Interfaces:
- PackageLister: lists packages, backed by packages.Lister
- status.Manager: owns every write under the destination
- log.Logger: user facing output, carried in the context

🔍 Example:

	sum, err := operation.Backup(ctx, operation.Options{
		Registry:    registry.Default(registry.HostDirs()),
		Destination: dest,
		Pip:         true,
		Lister:      packages.NewLister(packages.NewExecRunner()),
	})
*/
package operation
