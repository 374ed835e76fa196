// Only build for Go 1.10+ where strings.Builder is available.
//+build go1.10

package util

import "strings"

// StringBuilder is an alias for strings.Builder on Go 1.10+, which provides
// the real implementation. See string_builder_compat.go for the pre-1.10
// fallback.
type StringBuilder = strings.Builder

// StringWriter is an alias for io.StringWriter.
type StringWriter = interface {
	WriteString(s string) (n int, err error)
}
