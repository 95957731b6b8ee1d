// ABOUTME: Decoder for the stored intake content tree ("roma data")
// ABOUTME: Normalizes loosely-typed section encodings into ordered, typed accessors
package roma

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Tree is a decoded intake document. Sections are keyed by name; a key that
// is absent, a key holding an explicit null, and a key holding an empty
// value are three distinct states and the accessors preserve that.
type Tree struct {
	sections map[string]any
}

// Decode parses a raw intake document. An empty document is an error; an
// empty JSON object is a valid tree with no sections.
func Decode(raw []byte) (*Tree, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty intake document")
	}

	var sections map[string]any
	if err := json.Unmarshal(raw, &sections); err != nil {
		return nil, fmt.Errorf("failed to decode intake document: %w", err)
	}

	return &Tree{sections: sections}, nil
}

// Has reports whether the named section key exists at all, including when it
// holds an explicit null.
func (t *Tree) Has(name string) bool {
	_, ok := t.sections[name]
	return ok
}

// SectionCount returns the number of top-level section keys.
func (t *Tree) SectionCount() int {
	return len(t.sections)
}

// Section returns the named section as an object. The second return is false
// when the key is absent, null, or not an object.
func (t *Tree) Section(name string) (map[string]any, bool) {
	v, ok := t.sections[name]
	if !ok {
		return nil, false
	}
	obj, ok := v.(map[string]any)
	return obj, ok
}

// Items returns the named repeatable section as an ordered slice of objects.
//
// Upstream enrichment stores repeatable sections in two encodings: a plain
// JSON array, or an object whose keys carry a numeric suffix (service_1,
// service_2, ...). Both normalize to the same ordered sequence; array order
// and numeric key order define the sync order. The second return is false
// when the section is absent; an empty array/object returns an empty slice
// with true.
func (t *Tree) Items(name string) ([]map[string]any, bool) {
	v, ok := t.sections[name]
	if !ok {
		return nil, false
	}

	switch enc := v.(type) {
	case []any:
		items := make([]map[string]any, 0, len(enc))
		for _, e := range enc {
			if obj, ok := e.(map[string]any); ok {
				items = append(items, obj)
			}
		}
		return items, true

	case map[string]any:
		keys := make([]string, 0, len(enc))
		for k := range enc {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			ni, iNum := keySuffix(keys[i])
			nj, jNum := keySuffix(keys[j])
			if iNum && jNum {
				return ni < nj
			}
			if iNum != jNum {
				return iNum // numbered keys sort before unnumbered ones
			}
			return keys[i] < keys[j]
		})

		items := make([]map[string]any, 0, len(keys))
		for _, k := range keys {
			if obj, ok := enc[k].(map[string]any); ok {
				items = append(items, obj)
			}
		}
		return items, true
	}

	return nil, false
}

// keySuffix extracts the trailing _N index from a repeatable-section key.
func keySuffix(key string) (int, bool) {
	idx := strings.LastIndex(key, "_")
	if idx < 0 || idx == len(key)-1 {
		return 0, false
	}
	n, err := strconv.Atoi(key[idx+1:])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Lookup returns a raw field value from a section object along with whether
// the key is present. A present key holding null returns (nil, true).
func Lookup(section map[string]any, key string) (any, bool) {
	v, ok := section[key]
	return v, ok
}

// Str returns a string field from a section object, or "" when the key is
// absent, null, or not a string.
func Str(section map[string]any, key string) string {
	v, ok := section[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
