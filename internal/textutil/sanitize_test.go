package textutil

import "testing"

func TestSanitizeToken(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"anthropic_news", "anthropic_news"},
		{"OpenAI Blog", "openai_blog"},
		{"  spaced out  ", "spaced_out"},
		{"weird/../path", "weird____path"},
		{"", "unknown"},
		{"///", "unknown"},
	}
	for _, tc := range cases {
		if got := SanitizeToken(tc.in); got != tc.want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
