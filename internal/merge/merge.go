// Package merge deep-merges configuration documents.
//
// Documents are the generic form produced by decoding JSON, YAML or TOML:
// nested map[string]any with []any and scalar leaves. The generic form keeps
// the three states an override field can be in: a missing key (or null)
// means no opinion, "" or false is an explicit value, anything else is set.
package merge

// Merge returns a new document with override laid over base.
//
// For each key in override: a nil value is skipped and the base value
// survives. When both values are maps they are merged recursively.
// Otherwise the override value replaces the base value wholesale; arrays
// are never merged element by element.
//
// Neither input is modified and the result shares no maps or slices with
// them.
func Merge(base, override map[string]any) map[string]any {
	out := Clone(base)
	if out == nil {
		out = make(map[string]any, len(override))
	}

	for key, ov := range override {
		if ov == nil {
			continue
		}
		ovMap, ovIsMap := ov.(map[string]any)
		baseMap, baseIsMap := out[key].(map[string]any)
		if ovIsMap && baseIsMap {
			out[key] = Merge(baseMap, ovMap)
			continue
		}
		out[key] = cloneValue(ov)
	}

	return out
}

// Clone returns a deep copy of doc.
func Clone(doc map[string]any) map[string]any {
	if doc == nil {
		return nil
	}
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return Clone(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
