package collectionutil

// DeepMerge merges the tree `src` into the tree `dst` and returns the result. Neither input is
// modified. Trees are made of `map[string]any`, `[]any` and scalar values.
//
//   - maps are merged key by key: keys in both are merged recursively, keys only in `src` are added,
//     keys only in `dst` are kept
//   - slices are merged by index: `src[i]` replaces `dst[i]`, and elements of `dst` past the end of
//     `src` are kept
//   - in every other case `src` replaces `dst`
func DeepMerge(dst, src any) any {
	switch s := src.(type) {
	case map[string]any:
		d, ok := dst.(map[string]any)
		if !ok {
			return DeepCopy(s)
		}
		out := make(map[string]any, len(d)+len(s))
		for k, v := range d {
			out[k] = DeepCopy(v)
		}
		for k, v := range s {
			if existing, ok := d[k]; ok {
				out[k] = DeepMerge(existing, v)
			} else {
				out[k] = DeepCopy(v)
			}
		}
		return out

	case []any:
		d, ok := dst.([]any)
		if !ok {
			return DeepCopy(s)
		}
		out := make([]any, max(len(d), len(s)))
		for i := range out {
			if i < len(s) {
				out[i] = DeepCopy(s[i])
			} else {
				out[i] = DeepCopy(d[i])
			}
		}
		return out
	}
	return src
}

// MergeMaps is [DeepMerge] for two maps. A nil `dst` is treated as empty.
func MergeMaps(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = map[string]any{}
	}
	if src == nil {
		return DeepCopy(dst).(map[string]any)
	}
	return DeepMerge(dst, src).(map[string]any)
}

// DeepCopy copies the maps and slices of a tree. Scalars are returned as-is.
func DeepCopy(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = DeepCopy(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = DeepCopy(val)
		}
		return out
	}
	return v
}
