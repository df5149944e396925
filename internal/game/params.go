package game

// ExtractInt extracts an integer from a params map, accepting the
// numeric types that survive transport decoding.
func ExtractInt(params map[string]any, key string) (int, bool) {
	if params == nil {
		return 0, false
	}
	v, ok := params[key]
	if !ok {
		return 0, false
	}

	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		return int(val), true
	default:
		return 0, false
	}
}

// ExtractString extracts a string from a params map.
func ExtractString(params map[string]any, key string) (string, bool) {
	if params == nil {
		return "", false
	}
	v, ok := params[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// ExtractInts extracts an integer slice from a params map.
func ExtractInts(params map[string]any, key string) ([]int, bool) {
	if params == nil {
		return nil, false
	}
	v, ok := params[key]
	if !ok {
		return nil, false
	}

	switch val := v.(type) {
	case []int:
		return val, true
	case []any:
		out := make([]int, 0, len(val))
		for _, item := range val {
			switch n := item.(type) {
			case int:
				out = append(out, n)
			case int64:
				out = append(out, int(n))
			case float64:
				out = append(out, int(n))
			default:
				return nil, false
			}
		}
		return out, true
	default:
		return nil, false
	}
}
