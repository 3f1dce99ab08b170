package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// StringParam reads a named parameter as a string. Numbers are rendered
// without a fractional part when integral; absent or null values yield "".
func StringParam(args map[string]interface{}, key string) string {
	return Stringify(args[key])
}

// Stringify renders a scalar parameter or spreadsheet cell as text.
func Stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		if val == math.Trunc(val) && math.Abs(val) < 1e15 {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return Stringify(float64(val))
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// ArgsOf converts a typed tool input into the parameter map executors take,
// keyed by the input's JSON field names.
func ArgsOf(input any) map[string]interface{} {
	args := map[string]interface{}{}
	if input == nil {
		return args
	}
	b, err := json.Marshal(input)
	if err != nil {
		return args
	}
	_ = json.Unmarshal(b, &args)
	return args
}
