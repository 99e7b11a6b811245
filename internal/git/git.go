// Package git wraps the git commands used by the git-clone installer.
package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/thoreinstein/mcpi/internal/errors"
	"github.com/thoreinstein/mcpi/internal/runner"
)

var scpPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+@[A-Za-z0-9.-]+:[A-Za-z0-9._/~-]+\.git$`)

var allowedSchemes = []string{"https://", "http://", "ssh://", "git://", "file://"}

// IsURL returns true if s looks like a git repository URL.
// It checks for:
//   - URLs containing "://" (e.g., https://, git://)
//   - URLs ending with ".git"
//   - SSH-style URLs starting with "git@"
func IsURL(s string) bool {
	if strings.Contains(s, "://") {
		return true
	}
	if strings.HasSuffix(s, ".git") {
		return true
	}
	if strings.HasPrefix(s, "git@") {
		return true
	}
	return false
}

// ValidateURL rejects anything that is not a plain clone URL with a known
// scheme or scp-like syntax. Values that git would treat as options or as
// transport helpers (ext::) are refused.
func ValidateURL(s string) error {
	switch {
	case s == "":
		return errors.New("repository URL is empty")
	case strings.HasPrefix(s, "-"):
		return errors.Newf("repository URL %q looks like an option", s)
	case strings.Contains(s, "::"):
		return errors.Newf("repository URL %q uses a transport helper", s)
	}
	for _, scheme := range allowedSchemes {
		if strings.HasPrefix(s, scheme) && len(s) > len(scheme) {
			return nil
		}
	}
	if scpPattern.MatchString(s) {
		return nil
	}
	return errors.Newf("unsupported repository URL %q", s)
}

// Clone clones url into dest with the given depth. Zero depth clones the
// full history.
func Clone(ctx context.Context, r runner.Runner, url, dest string, depth int) error {
	if err := ValidateURL(url); err != nil {
		return errors.Mark(err, errors.ErrInvalidSpec)
	}
	args := []string{"clone"}
	if depth > 0 {
		args = append(args, fmt.Sprintf("--depth=%d", depth))
	}
	args = append(args, "--", url, dest)

	if _, err := r.Run(ctx, runner.Command{Name: "git", Args: args}); err != nil {
		return errors.Wrap(err, "git clone failed")
	}
	return nil
}

// Head returns the commit hash checked out in repoPath.
func Head(ctx context.Context, r runner.Runner, repoPath string) (string, error) {
	res, err := r.Run(ctx, runner.Command{Name: "git", Args: []string{"-C", repoPath, "rev-parse", "HEAD"}})
	if err != nil {
		return "", errors.Wrap(err, "git rev-parse failed")
	}
	return strings.TrimSpace(res.Stdout), nil
}

// ValidateRemote checks if repoPath is a valid git repository by verifying
// the existence of a .git directory.
func ValidateRemote(repoPath string) error {
	gitDir := filepath.Join(repoPath, ".git")
	info, err := os.Stat(gitDir)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Newf("not a git repository: %s", repoPath)
		}
		return errors.Wrap(err, "checking git directory")
	}
	if !info.IsDir() {
		return errors.Newf(".git is not a directory: %s", gitDir)
	}
	return nil
}
