package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ToInt converts various types to int using explicit type switching.
// Strings are trimmed before parsing; anything unparsable is an error.
func ToInt(val any) (int, error) {
	switch v := val.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case int32:
		return int(v), nil
	case uint:
		return int(v), nil
	case uint32:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(v))
	case []byte:
		return strconv.Atoi(strings.TrimSpace(string(v)))
	default:
		return 0, fmt.Errorf("cannot convert %T to int", val)
	}
}

// FirstNonEmpty returns the first value that is not blank, trimmed.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// CollapseSpace trims s and folds internal whitespace runs (including newlines
// left by pretty-printed XML) into single spaces.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
