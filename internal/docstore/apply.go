package docstore

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// The helpers below implement the operators for backends that keep documents
// as JSON objects (memstore, postgres). Values are normalized through
// encoding/json first so that structs, slices and numbers compare the same
// way they are stored.

// EncodeJSON converts data (struct or map) into a JSON object
func EncodeJSON(data any) (map[string]any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("document must encode to a JSON object: %w", err)
	}
	if obj == nil {
		obj = make(map[string]any)
	}
	return obj, nil
}

// DecodeJSON returns a decode function for NewDocument backed by raw JSON
func DecodeJSON(raw []byte) func(dst any) error {
	return func(dst any) error {
		if err := json.Unmarshal(raw, dst); err != nil {
			return fmt.Errorf("failed to decode document: %w", err)
		}
		return nil
	}
}

// ApplyUpdates applies operators to a JSON object in place
func ApplyUpdates(doc map[string]any, updates []Update) error {
	for _, u := range updates {
		if u.Path == "" {
			return fmt.Errorf("%s: empty field path", u.Op)
		}
		parent, field := walkPath(doc, u.Path)

		switch u.Op {
		case OpSet:
			v, err := normalize(u.Value)
			if err != nil {
				return fmt.Errorf("set %s: %w", u.Path, err)
			}
			parent[field] = v

		case OpArrayUnion:
			arr, _ := parent[field].([]any)
			out := make([]any, 0, len(arr)+len(u.Values))
			out = append(out, arr...)
			for _, raw := range u.Values {
				v, err := normalize(raw)
				if err != nil {
					return fmt.Errorf("arrayUnion %s: %w", u.Path, err)
				}
				if !containsValue(out, v) {
					out = append(out, v)
				}
			}
			parent[field] = out

		case OpArrayRemove:
			arr, _ := parent[field].([]any)
			remove := make([]any, 0, len(u.Values))
			for _, raw := range u.Values {
				v, err := normalize(raw)
				if err != nil {
					return fmt.Errorf("arrayRemove %s: %w", u.Path, err)
				}
				remove = append(remove, v)
			}
			out := make([]any, 0, len(arr))
			for _, v := range arr {
				if !containsValue(remove, v) {
					out = append(out, v)
				}
			}
			parent[field] = out

		case OpIncrement:
			current, _ := parent[field].(float64)
			parent[field] = current + float64(u.Delta)

		default:
			return fmt.Errorf("unknown operator %d on %s", u.Op, u.Path)
		}
	}
	return nil
}

// TimeField reads a timestamp stored as an RFC 3339 string
func TimeField(doc map[string]any, path string) (time.Time, bool) {
	parent, field := lookupPath(doc, path)
	if parent == nil {
		return time.Time{}, false
	}
	s, ok := parent[field].(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// walkPath returns the map holding the last path segment, creating
// intermediate maps as needed
func walkPath(doc map[string]any, path string) (map[string]any, string) {
	parts := strings.Split(path, ".")
	cur := doc
	for _, p := range parts[:len(parts)-1] {
		next, ok := cur[p].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[p] = next
		}
		cur = next
	}
	return cur, parts[len(parts)-1]
}

func lookupPath(doc map[string]any, path string) (map[string]any, string) {
	parts := strings.Split(path, ".")
	cur := doc
	for _, p := range parts[:len(parts)-1] {
		next, ok := cur[p].(map[string]any)
		if !ok {
			return nil, ""
		}
		cur = next
	}
	return cur, parts[len(parts)-1]
}

func normalize(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func containsValue(arr []any, v any) bool {
	for _, existing := range arr {
		if reflect.DeepEqual(existing, v) {
			return true
		}
	}
	return false
}
