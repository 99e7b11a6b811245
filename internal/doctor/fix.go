package doctor

import (
	"fmt"
	"os"

	"github.com/thoreinstein/mcpi/internal/errors"
)

// Fixer is implemented by checks that can repair what they found.
// CanFix and Fix are only meaningful after Run.
type Fixer interface {
	CanFix() bool
	Fix() []FixResult
}

// FixResult describes one attempted repair.
type FixResult struct {
	Path        string `json:"path"`
	Fixed       bool   `json:"fixed"`
	Description string `json:"description"`
	Error       error  `json:"-"`
}

const (
	secureFilePerm os.FileMode = 0o644
	secureDirPerm  os.FileMode = 0o755
)

// PermissionFixer tightens the modes PathPermissionCheck flagged.
type PermissionFixer struct {
	issues []pathIssue
}

// CanFix reports whether any flagged issue is fixable.
func (f *PermissionFixer) CanFix() bool {
	return f.CountFixable() > 0
}

// CountFixable returns the number of fixable issues.
func (f *PermissionFixer) CountFixable() int {
	n := 0
	for _, i := range f.issues {
		if i.Fixable {
			n++
		}
	}
	return n
}

// Fix chmods every fixable path, once per path.
func (f *PermissionFixer) Fix() []FixResult {
	done := make(map[string]bool)
	results := make([]FixResult, 0, f.CountFixable())
	for _, i := range f.issues {
		if !i.Fixable || done[i.Path] {
			continue
		}
		done[i.Path] = true
		results = append(results, fixIssue(i))
	}
	return results
}

func fixIssue(i pathIssue) FixResult {
	perm := secureFilePerm
	if i.Dir {
		perm = secureDirPerm
	}
	res := FixResult{Path: i.Path}
	if err := os.Chmod(i.Path, perm); err != nil {
		res.Description = fmt.Sprintf("failed to chmod %04o: %v", perm, err)
		res.Error = errors.Wrapf(err, "chmod %04o %s", perm, i.Path)
		return res
	}
	res.Fixed = true
	res.Description = fmt.Sprintf("chmod %04o", perm)
	return res
}

func (f *PermissionFixer) setIssues(issues []pathIssue) {
	f.issues = issues
}
