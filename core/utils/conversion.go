package utils

import (
	"fmt"
	"strconv"
)

// ToString converts loosely typed JSON values to string.
// JSON numbers decode as float64 and are printed without a trailing ".0".
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		// multi-valued properties: the first value wins
		if len(v) == 0 {
			return ""
		}
		return ToString(v[0])
	default:
		return fmt.Sprintf("%v", v)
	}
}
