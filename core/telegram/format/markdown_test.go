package format

import "testing"

func TestEscapeMarkdown(t *testing.T) {
	cases := map[string]string{
		"Downtown":       "Downtown",
		"foo_bar":        `foo\_bar`,
		"*bold* [link]":  `\*bold\* \[link]`,
		"tick `quote`":   "tick \\`quote\\`",
		"":               "",
		"plain, text 12": "plain, text 12",
	}
	for in, want := range cases {
		if got := EscapeMarkdown(in); got != want {
			t.Errorf("EscapeMarkdown(%q) = %q, want %q", in, got, want)
		}
	}
}
