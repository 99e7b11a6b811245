package doctor

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// maxSecureFilePerm is the loosest acceptable mode for files that may hold
// tokens in server env blocks.
const maxSecureFilePerm os.FileMode = 0o644

// Target is a path the permission check inspects.
type Target struct {
	Path string

	// Owner names the client the path belongs to.
	Owner string

	Dir bool
}

// PathPermissionCheck verifies client config files and directories are
// readable, writable where mcpi writes, and not open to other users.
type PathPermissionCheck struct {
	PermissionFixer

	targets []Target
	goos    string
}

var (
	_ Check = (*PathPermissionCheck)(nil)
	_ Fixer = (*PathPermissionCheck)(nil)
)

// NewPathPermissionCheck creates a check over targets. Missing paths are
// skipped: an unconfigured scope is not a problem.
func NewPathPermissionCheck(targets []Target) *PathPermissionCheck {
	return &PathPermissionCheck{targets: dedupe(targets), goos: runtime.GOOS}
}

func dedupe(targets []Target) []Target {
	seen := make(map[string]bool, len(targets))
	out := make([]Target, 0, len(targets))
	for _, t := range targets {
		if t.Path == "" || seen[t.Path] {
			continue
		}
		seen[t.Path] = true
		out = append(out, t)
	}
	return out
}

func (c *PathPermissionCheck) Name() string     { return "path-permissions" }
func (c *PathPermissionCheck) Category() string { return "filesystem" }

// Run inspects every target.
func (c *PathPermissionCheck) Run() *CheckResult {
	var issues []pathIssue
	checked := 0
	for _, t := range c.targets {
		found, ok := c.inspect(t)
		if ok {
			checked++
		}
		issues = append(issues, found...)
	}
	c.setIssues(issues)
	return c.buildResult(issues, checked)
}

type pathIssue struct {
	Path        string
	Owner       string
	Dir         bool
	Problem     string
	Severity    Severity
	Permissions string
	Fixable     bool
	FixHint     string
}

func (i pathIssue) kind() string {
	if i.Dir {
		return "directory"
	}
	return "file"
}

// inspect reports issues for t, and whether t existed.
func (c *PathPermissionCheck) inspect(t Target) ([]pathIssue, bool) {
	info, err := os.Stat(t.Path)
	if os.IsNotExist(err) {
		return nil, false
	}
	issue := pathIssue{Path: t.Path, Owner: t.Owner, Dir: t.Dir}
	if err != nil {
		issue.Problem = fmt.Sprintf("cannot stat %s: %v", issue.kind(), err)
		issue.Severity = SeverityError
		return []pathIssue{issue}, true
	}

	if info.IsDir() != t.Dir {
		issue.Problem = "expected a " + issue.kind() + " but found something else"
		issue.Severity = SeverityError
		return []pathIssue{issue}, true
	}

	var issues []pathIssue
	if t.Dir {
		if !writableDir(t.Path) {
			issue.Problem = "directory is not writable"
			issue.Severity = SeverityWarning
			issue.Permissions = formatPermissions(info.Mode())
			issue.FixHint = "chmod u+w " + t.Path
			issues = append(issues, issue)
		}
	} else if f, err := os.Open(t.Path); err != nil {
		issue.Problem = "file is not readable"
		issue.Severity = SeverityError
		issue.Permissions = formatPermissions(info.Mode())
		issue.FixHint = "chmod 644 " + t.Path
		return append(issues, issue), true
	} else {
		f.Close()
	}

	if c.goos != "windows" {
		issues = append(issues, modeIssues(t, info.Mode())...)
	}
	return issues, true
}

// modeIssues flags world-writable paths and config files looser than 0644.
func modeIssues(t Target, mode os.FileMode) []pathIssue {
	perm := mode.Perm()
	base := pathIssue{
		Path:        t.Path,
		Owner:       t.Owner,
		Dir:         t.Dir,
		Severity:    SeverityWarning,
		Permissions: formatPermissions(mode),
		Fixable:     true,
	}
	target := "644"
	if t.Dir {
		target = "755"
	}
	base.FixHint = "chmod " + target + " " + t.Path

	var issues []pathIssue
	if perm&0o002 != 0 {
		i := base
		i.Problem = i.kind() + " is world-writable (security risk)"
		issues = append(issues, i)
	}
	if !t.Dir && perm > maxSecureFilePerm {
		i := base
		i.Problem = fmt.Sprintf("file mode %s is looser than %04o and may expose server credentials", formatPermissions(mode), maxSecureFilePerm)
		issues = append(issues, i)
	}
	return issues
}

func writableDir(path string) bool {
	f, err := os.CreateTemp(path, ".mcpi-doctor-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}

func (c *PathPermissionCheck) buildResult(issues []pathIssue, checked int) *CheckResult {
	if len(issues) == 0 {
		return result(c, SeverityPass, fmt.Sprintf("all %d existing paths have sane permissions", checked))
	}

	status := SeverityWarning
	var hints []string
	fixable := false
	list := make([]map[string]any, 0, len(issues))
	for _, i := range issues {
		if i.Severity == SeverityError {
			status = SeverityError
		}
		if i.Fixable {
			fixable = true
			hints = append(hints, i.FixHint)
		}
		entry := map[string]any{
			"path":     i.Path,
			"client":   i.Owner,
			"type":     i.kind(),
			"problem":  i.Problem,
			"severity": i.Severity.String(),
		}
		if i.Permissions != "" {
			entry["permissions"] = i.Permissions
		}
		list = append(list, entry)
	}

	res := result(c, status, fmt.Sprintf("found %d permission issue(s) across %d paths", len(issues), checked))
	res.Details = map[string]any{
		"checked_paths": checked,
		"issue_count":   len(issues),
		"issues":        list,
	}
	res.Fixable = fixable
	res.FixHint = strings.Join(hints, "; ")
	return res
}

func formatPermissions(mode os.FileMode) string {
	return fmt.Sprintf("%04o", mode.Perm())
}
