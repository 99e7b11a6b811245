package mcp

import (
	"fmt"
	"slices"
	"strings"

	"github.com/thoreinstein/mcpi/internal/validator"
)

// Option configures a Validator.
type Option func(*Validator)

// Validator checks command specs.
type Validator struct {
	transports []string
	launchers  []string
}

// NewValidator creates a Validator that accepts every transport in
// [Transports] and enforces no launcher rules.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{transports: Transports()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// WithTransports restricts the accepted transport tags.
func WithTransports(tags ...string) Option {
	return func(v *Validator) {
		v.transports = tags
	}
}

// WithLaunchers names commands that only make sense with at least one
// non-flag argument naming the package to launch.
func WithLaunchers(names ...string) Option {
	return func(v *Validator) {
		v.launchers = names
	}
}

// Validate checks s and returns every violation found.
func (v *Validator) Validate(s Spec) *validator.Result {
	res := &validator.Result{}

	if strings.TrimSpace(s.Command) == "" {
		res.AddError("command", "must not be empty", nil)
	}

	for i, arg := range s.Args {
		if strings.ContainsRune(arg, 0) {
			res.AddError(fmt.Sprintf("args[%d]", i), "contains a NUL byte", nil)
		}
	}

	for _, key := range sortedKeys(s.Env) {
		switch {
		case key == "":
			res.AddError("env", "variable names must not be empty", nil)
		case strings.ContainsAny(key, "=\x00"):
			res.AddError("env."+key, "variable name contains '=' or NUL", key)
		}
	}

	if s.Type != "" && !slices.Contains(v.transports, s.Type) {
		res.AddError("type", "must be one of "+strings.Join(v.transports, ", "), s.Type)
	}

	if v.isLauncher(s.Command) && !hasPositional(s.Args) {
		res.AddErrorWithHint("args",
			fmt.Sprintf("%s needs an argument naming the package to launch", launcherName(s.Command)),
			"Add the package name as the first argument")
	}

	return res
}

func (v *Validator) isLauncher(command string) bool {
	return command != "" && slices.Contains(v.launchers, launcherName(command))
}

// launcherName reduces a command path to its base name without a Windows
// executable suffix.
func launcherName(command string) string {
	base := command
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	for _, ext := range []string{".exe", ".cmd", ".bat"} {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

func hasPositional(args []string) bool {
	return slices.ContainsFunc(args, func(a string) bool {
		return a != "" && !strings.HasPrefix(a, "-")
	})
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
