package catalog

import (
	"github.com/thoreinstein/mcpi/internal/errors"
)

// Method is the closed set of installation strategies. The zero value is
// invalid; the only valid values are the package-level Method variables.
type Method struct {
	name string
}

var (
	// MethodJSPkg installs from the JavaScript package registry.
	MethodJSPkg = Method{"js-pkg"}

	// MethodPyPkg installs from the Python package index.
	MethodPyPkg = Method{"py-pkg"}

	// MethodGitClone clones a source repository and builds it in place.
	MethodGitClone = Method{"git-clone"}
)

// Methods returns every valid Method in declaration order.
func Methods() []Method {
	return []Method{MethodJSPkg, MethodPyPkg, MethodGitClone}
}

// ParseMethod returns the Method named s.
func ParseMethod(s string) (Method, error) {
	for _, m := range Methods() {
		if m.name == s {
			return m, nil
		}
	}
	return Method{}, errors.Newf("unknown installation method %q (valid: js-pkg, py-pkg, git-clone)", s)
}

// String returns the method's catalog name.
func (m Method) String() string {
	if m.name == "" {
		return "<unset>"
	}
	return m.name
}

// IsZero reports whether m is unset.
func (m Method) IsZero() bool {
	return m.name == ""
}

// MarshalText implements encoding.TextMarshaler for TOML, YAML and JSON.
func (m Method) MarshalText() ([]byte, error) {
	if m.IsZero() {
		return nil, errors.New("installation method is not set")
	}
	return []byte(m.name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Equal reports whether m and o name the same method.
func (m Method) Equal(o Method) bool {
	return m.name == o.name
}
