package client

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/thoreinstein/mcpi/internal/errors"
	"github.com/thoreinstein/mcpi/internal/mcp"
	"github.com/thoreinstein/mcpi/pkg/fileutil"
)

//go:embed schema.json
var sectionSchema []byte

var loadSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(sectionSchema))
})

// document is one JSON file holding a server section somewhere inside it.
// Everything outside the section is carried through untouched.
type document struct {
	path    string
	pointer []string
	exists  bool
	root    map[string]any
	servers map[string]mcp.Spec
	dirty   bool
}

// readDocument loads path and extracts the server section at pointer. A
// missing file is an empty document. A file that exists but cannot be
// parsed, or whose section has the wrong shape, is an InconsistentState.
func readDocument(path string, pointer []string) (*document, error) {
	d := &document{
		path:    path,
		pointer: pointer,
		root:    map[string]any{},
		servers: map[string]mcp.Spec{},
	}

	data, exists, err := fileutil.ReadIfExists(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	d.exists = exists
	if !exists || len(bytes.TrimSpace(data)) == 0 {
		return d, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, inconsistent(errors.Wrapf(err, "parsing %s", path), path)
	}
	obj, ok := root.(map[string]any)
	if !ok {
		return nil, inconsistent(errors.Newf("%s: top level is not an object", path), path)
	}
	d.root = obj

	section, err := d.section()
	if err != nil {
		return nil, err
	}
	if section == nil {
		return d, nil
	}

	if err := checkSection(path, section); err != nil {
		return nil, err
	}

	for id, raw := range section {
		b, err := json.Marshal(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "re-encoding %s in %s", id, path)
		}
		var spec mcp.Spec
		if err := json.Unmarshal(b, &spec); err != nil {
			return nil, inconsistent(errors.Wrapf(err, "decoding server %s in %s", id, path), path)
		}
		d.servers[id] = spec
	}

	return d, nil
}

// section walks the pointer. A missing key anywhere along it means no
// section yet; a non-object along it is an inconsistency.
func (d *document) section() (map[string]any, error) {
	cur := d.root
	for i, key := range d.pointer {
		next, ok := cur[key]
		if !ok || next == nil {
			return nil, nil
		}
		obj, ok := next.(map[string]any)
		if !ok {
			at := strings.Join(d.pointer[:i+1], ".")
			return nil, inconsistent(errors.Newf("%s: %s is not an object", d.path, at), d.path)
		}
		cur = obj
	}
	return cur, nil
}

func checkSection(path string, section map[string]any) error {
	schema, err := loadSchema()
	if err != nil {
		return errors.Wrap(err, "compiling server section schema")
	}
	res, err := schema.Validate(gojsonschema.NewGoLoader(section))
	if err != nil {
		return inconsistent(errors.Wrapf(err, "checking %s", path), path)
	}
	if res.Valid() {
		return nil
	}

	err = errors.Newf("%s: server section does not match the expected shape", path)
	for _, re := range res.Errors() {
		err = errors.WithDetailf(err, "%s: %s", re.Field(), re.Description())
	}
	return inconsistent(err, path)
}

func (d *document) has(id string) bool {
	_, ok := d.servers[id]
	return ok
}

func (d *document) put(id string, spec mcp.Spec) {
	d.servers[id] = spec
	d.dirty = true
}

func (d *document) drop(id string) {
	if _, ok := d.servers[id]; ok {
		delete(d.servers, id)
		d.dirty = true
	}
}

func (d *document) ids() []string {
	return slices.Sorted(maps.Keys(d.servers))
}

// encode writes the servers back into the tree along the pointer and
// marshals the whole document.
func (d *document) encode() ([]byte, error) {
	section := make(map[string]any, len(d.servers))
	for id, spec := range d.servers {
		section[id] = spec
	}

	cur := d.root
	for _, key := range d.pointer[:len(d.pointer)-1] {
		next, ok := cur[key].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[key] = next
		}
		cur = next
	}
	cur[d.pointer[len(d.pointer)-1]] = section

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d.root); err != nil {
		return nil, errors.Wrapf(err, "encoding %s", d.path)
	}
	return buf.Bytes(), nil
}

func inconsistent(err error, paths ...string) error {
	for _, p := range paths {
		err = errors.WithDetail(err, fmt.Sprintf("file: %s", p))
	}
	return errors.Mark(err, errors.ErrInconsistentState)
}
