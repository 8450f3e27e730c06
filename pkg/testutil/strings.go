package testutil

import "strings"

// UnIndent drops leading newlines, then removes the first line's indentation from every line. It lets
// tests embed YAML in an indented raw string:
//
//	cfg := UnIndent(`
//		constructs:
//		  jobs:
//		    type: queue`)
func UnIndent(s string) string {
	s = strings.TrimLeft(s, "\n")
	prefix := s[:len(s)-len(strings.TrimLeft(s, " \t"))]

	var sb strings.Builder
	sb.Grow(len(s))
	for _, line := range strings.Split(s, "\n") {
		sb.WriteString(strings.TrimPrefix(line, prefix))
		sb.WriteByte('\n')
	}
	return sb.String()
}
