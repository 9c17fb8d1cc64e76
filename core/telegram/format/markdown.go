package format

import "regexp"

var mdV1Specials = regexp.MustCompile("([_*\\[`])")

// EscapeMarkdown escapes special characters in user-provided text so it can
// be embedded into a Markdown (V1) message without breaking the entities
// around it.
func EscapeMarkdown(text string) string {
	return mdV1Specials.ReplaceAllString(text, `\$1`)
}
