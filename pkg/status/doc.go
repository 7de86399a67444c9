/*
Package status manages the backup destination tree and tracks what was written.

	            +-------------+
	            |   Status    |
	            | (configs/)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|   Files   |           | Report  |
	| (Storage) |           | (.txt)  |
	+-----------+           +---------+

🎯 Purpose:
- Owns every write under <destination>/configs
- Tracks file status (new, modified, unchanged, skipped)
- Writes the package lists and report.txt

🔄 Flow:
1. operation asks the Manager to copy a host file to a relative path
2. Manager compares content, writes through a temp file and renames it
3. The result is tracked so the run can print a summary
4. After copying, package lists and the sync report are written

📝 Layout produced:

	<destination>/configs/<app>/...     one directory per discovered app
	<destination>/configs/fonts/...     optional
	<destination>/configs/pip_pkg.txt
	<destination>/configs/cargo_pkg.txt
	<destination>/configs/report.txt    "Backup last synced at\nYY:MM:DD:HH:MM:SS\n"

Nothing in the destination is ever deleted: directories are merged and files
with the same relative path are overwritten.

🔍 Example:

	mgr := status.New(dest, &logger)

	st, err := mgr.CopyFile(ctx, "/home/me/.tmux.conf", "tmux/.tmux.conf")

	err = mgr.WritePackageList(ctx, status.PipListFile, pkgs)
	err = mgr.WriteReport(ctx, time.Now())
*/
package status
