package card

import "testing"

func FuzzLines(f *testing.F) {
	seeds := []string{
		"",
		"plain text",
		"<p>Hello <b>world</b></p>",
		"<ul><li>a<ul><li>b</li></ul></li></ul>",
		"<<<<<<<<",
		"\x00\x01<script>alert(1)</script>",
		"ಕನ್ನಡ ಪಠ್ಯ &amp; हिन्दी",
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, raw string) {
		if len(raw) > 10_000 {
			raw = raw[:10_000]
		}
		for _, width := range []int{0, 1, 20, 72} {
			_ = Lines(raw, width)
			_ = Bullets([]string{raw}, width, "• ")
		}
		_ = Plain(raw)
	})
}
