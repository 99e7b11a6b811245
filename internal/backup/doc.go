// Package backup takes directory-based snapshots of files mcpi is about to
// change and restores them on request.
//
// Two kinds of subject use it. The git-clone installer snapshots an existing
// install directory before replacing it, and the backup command snapshots a
// client's scope and disabled-set files. Snapshots are stored as:
//
//	<data home>/mcpi/backups/
//	└── {subject}/
//	    └── {timestamp}/
//	        ├── manifest.json
//	        └── {copied files...}
//
// Each manifest records a SHA256 hash per file; [Manager.Restore] verifies
// every hash before it writes anything and returns [ErrBackupCorrupted] on a
// mismatch. Paths that did not exist at snapshot time are listed as absent and
// removed on restore.
//
// These snapshots are separate from the sibling .bak files that
// [fileutil.Transaction] leaves next to each rewritten config file.
package backup
