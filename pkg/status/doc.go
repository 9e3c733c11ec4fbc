/*
Package status manages file storage and status tracking for patchrc.

	            +-------------+
	            |   Manager   |
	            | (workspace) |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|   Files   |           | Status  |
	| (in place)|           | (track) |
	+-----------+           +---------+

🎯 Purpose:
- Reads and rewrites patch targets relative to a workspace root
- Expands doublestar target globs
- Keeps optional .bak copies and restores them
- Tracks the outcome of every (file, patch) pair

⚡ Key Responsibilities:
- Writes are in place: the file is opened with truncation and never created,
  and its mode is left as it was. A target that cannot be opened for writing
  is therefore untouched.
- Backups copy the target byte for byte to <target>.bak with the same mode.
- Status entries are keyed by path and patch name, so several patches on one
  file each get their own entry.

🤝 Interfaces:
- FileManager: file operations
- StatusReporter: outcome tracking and progress
- FileFormatter: message formatting

🔍 Example:

	mgr := status.NewManager(".", status.NewDefaultFileFormatter())

	content, err := mgr.ReadFile(ctx, "src/lib/api/admin.js")
	if err != nil {
		return err
	}

	if err := mgr.BackupFile(ctx, "src/lib/api/admin.js"); err != nil {
		return err
	}

	err = mgr.WriteFile(ctx, "src/lib/api/admin.js", patched)

	mgr.TrackFile(ctx, "src/lib/api/admin.js", status.FileInfo{
		Patch:  "get-admin-products",
		Status: status.StatusPatched,
	})
*/
package status
