package utils

import "strings"

func Ptr[T any](v T) *T {
	return &v
}

// StringOrNil trims s and returns nil when nothing is left, for optional text columns.
func StringOrNil(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
