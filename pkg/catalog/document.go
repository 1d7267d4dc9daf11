package catalog

import (
	"encoding/json"
	"fmt"
)

// Document is one stored catalog record: a JSON object held as a generic
// map. Beyond the assigned "id" (and "slug" on kinds that carry one) the
// field set is open; the schema tables only constrain the fields they
// declare and everything else passes through untouched.
type Document map[string]interface{}

// ID returns the document identifier, or "" when unset.
func (d Document) ID() string {
	s, _ := d["id"].(string)
	return s
}

// Slug returns the document slug, or "" for kinds without one.
func (d Document) Slug() string {
	s, _ := d["slug"].(string)
	return s
}

// matches reports whether identifier names this document by id or slug.
// An empty slug never matches, so kinds without slugs only match by id.
func (d Document) matches(identifier string) bool {
	if d.ID() == identifier {
		return true
	}
	if s := d.Slug(); s != "" && s == identifier {
		return true
	}
	return false
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	cp := make(Document, len(d))
	for k, v := range d {
		cp[k] = copyValue(v)
	}
	return cp
}

func copyValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, vv := range t {
			m[k] = copyValue(vv)
		}
		return m
	case []interface{}:
		s := make([]interface{}, len(t))
		for i, vv := range t {
			s[i] = copyValue(vv)
		}
		return s
	default:
		return t
	}
}

// canonicalize round-trips a raw field bag through JSON encoding so every
// value takes its JSON-native Go shape: float64 numbers, []interface{}
// sequences, map[string]interface{} objects. A document built from the
// canonical bag compares equal to the same document re-read from storage.
func canonicalize(fields map[string]interface{}) (map[string]interface{}, error) {
	if len(fields) == 0 {
		return map[string]interface{}{}, nil
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encoding fields: %w", err)
	}
	out := make(map[string]interface{}, len(fields))
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding fields: %w", err)
	}
	return out, nil
}
