package mcp

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
)

// Transport tags.
const (
	// TransportStdio is local process communication over stdin/stdout. A spec
	// without a type uses it.
	TransportStdio = "stdio"

	// TransportSSE is a remote server over Server-Sent Events.
	TransportSSE = "sse"

	// TransportHTTP is a remote server over streamable HTTP.
	TransportHTTP = "http"
)

// Transports lists the permitted transport tags.
func Transports() []string {
	return []string{TransportStdio, TransportSSE, TransportHTTP}
}

// Spec is the launch description for one server.
type Spec struct {
	// Command is the executable or launcher.
	Command string

	// Args are passed to Command in order.
	Args []string

	// Env is merged into the server's environment.
	Env map[string]string

	// Type is the transport tag. Empty means stdio.
	Type string

	// Disabled is the inline sentinel some clients honor. mcpi reads it but
	// keeps disabled servers in a separate file.
	Disabled bool

	// unknownFields stores JSON fields not explicitly defined in this struct.
	unknownFields map[string]json.RawMessage
}

// Transport returns the effective transport tag.
func (s Spec) Transport() string {
	if s.Type == "" {
		return TransportStdio
	}
	return s.Type
}

// Clone returns a deep copy.
func (s Spec) Clone() Spec {
	c := s
	c.Args = slices.Clone(s.Args)
	c.Env = maps.Clone(s.Env)
	if s.unknownFields != nil {
		c.unknownFields = make(map[string]json.RawMessage, len(s.unknownFields))
		for k, v := range s.unknownFields {
			c.unknownFields[k] = slices.Clone(v)
		}
	}
	return c
}

// Extra returns the keys this type does not model, sorted.
func (s Spec) Extra() []string {
	return slices.Sorted(maps.Keys(s.unknownFields))
}

// MergeEnv overwrites env keys with those in extra. Keys are never
// concatenated.
func (s *Spec) MergeEnv(extra map[string]string) {
	if len(extra) == 0 {
		return
	}
	if s.Env == nil {
		s.Env = make(map[string]string, len(extra))
	}
	maps.Copy(s.Env, extra)
}

// Canonical returns the compact, key-sorted JSON form.
func (s Spec) Canonical() ([]byte, error) {
	return s.MarshalJSON()
}

// Equal reports whether both specs have the same canonical form.
func (s Spec) Equal(o Spec) bool {
	a, errA := s.Canonical()
	b, errB := o.Canonical()
	return errA == nil && errB == nil && bytes.Equal(a, b)
}

// MarshalJSON implements json.Marshaler to include unknown fields in output.
// encoding/json sorts map keys, which makes the output canonical.
func (s Spec) MarshalJSON() ([]byte, error) {
	result := make(map[string]any, len(s.unknownFields)+5)

	// Copy unknown fields first (so known fields take precedence)
	for k, v := range s.unknownFields {
		result[k] = v
	}

	if s.Command != "" {
		result["command"] = s.Command
	}
	if s.Args != nil {
		result["args"] = s.Args
	}
	if len(s.Env) > 0 {
		result["env"] = s.Env
	}
	if s.Type != "" {
		result["type"] = s.Type
	}
	if s.Disabled {
		result["disabled"] = true
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON implements json.Unmarshaler to capture unknown fields.
func (s *Spec) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = Spec{}
	fields := []struct {
		key string
		dst any
	}{
		{"command", &s.Command},
		{"args", &s.Args},
		{"env", &s.Env},
		{"type", &s.Type},
		{"disabled", &s.Disabled},
	}
	for _, f := range fields {
		v, ok := raw[f.key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, f.dst); err != nil {
			return err
		}
		delete(raw, f.key)
	}

	// Store remaining fields as unknown
	if len(raw) > 0 {
		s.unknownFields = raw
	}
	return nil
}
