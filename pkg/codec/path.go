package codec

// Lookup walks a decoded document along keys. It reports false as soon as a
// key is missing or an intermediate value is not a map.
func Lookup(doc map[string]any, keys ...string) (any, bool) {
	var cur any = doc
	for _, key := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// LookupMap is Lookup restricted to map values.
func LookupMap(doc map[string]any, keys ...string) (map[string]any, bool) {
	v, ok := Lookup(doc, keys...)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

// LookupString is Lookup restricted to leaf values.
func LookupString(doc map[string]any, keys ...string) (string, bool) {
	v, ok := Lookup(doc, keys...)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// List normalizes a decoded value into a slice. A single element decodes as
// a scalar or map, so it is wrapped; nil yields nil.
func List(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	default:
		return []any{t}
	}
}
