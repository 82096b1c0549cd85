package bpmn

import "strings"

// Escape replaces the five reserved markup characters with their
// entities. The ampersand is replaced first so entities produced by the
// other substitutions are not escaped twice. The compiler never rejects
// content: whatever the records carry is escaped, not refused.
func Escape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}

// Unescape reverses Escape. The ampersand entity is restored last,
// mirroring the escape order.
func Unescape(s string) string {
	s = strings.ReplaceAll(s, "&apos;", "'")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&amp;", "&")
	return s
}
