package transindex

import "strings"

// CanonicalTag frames a user-supplied tag t as "|t|" with any literal "|"
// in t escaped as "\|", per spec §4.D's tag pre-processing convention. A
// single-tag query must pass its needle through this before running it
// against the tag index, so "a|b" and "a\|b" never collide, and so the
// framed needle lands on a tag boundary within a multi-tag FrameTags blob
// rather than matching a substring spanning two different tags.
func CanonicalTag(t string) string {
	return FrameTags([]string{t})
}

// FrameTags joins raw tags into the combined tag_str blob an entry carries
// (spec §4.D: "|t1|t2|...|tn|"), escaping each tag's literal "|" bytes as
// "\|". Adjacent tags share a single fence pipe, so CanonicalTag's
// single-tag "|t|" frame is always a literal substring of the result when
// t is one of tags.
func FrameTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteByte('|')
	for i, t := range tags {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(strings.ReplaceAll(t, `|`, `\|`))
	}
	b.WriteByte('|')
	return b.String()
}
