package table

import (
	"strconv"
	"strings"
)

// ListSeparator joins multi-valued fields into a single column.
const ListSeparator = ";"

// JoinList trims each value and joins them with ListSeparator, an empty list
// is an empty field.
func JoinList(values []string) string {
	if len(values) == 0 {
		return ""
	}
	trimmed := make([]string, len(values))
	for i, v := range values {
		trimmed[i] = strings.TrimSpace(v)
	}
	return strings.Join(trimmed, ListSeparator)
}

func FormatInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func FormatBool(v *bool) string {
	if v == nil {
		return ""
	}
	return strconv.FormatBool(*v)
}

func FormatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func FormatString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
