package card

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func visibleWidth(s string) int {
	return lipgloss.Width(s)
}

func TestLines_PlainTextWraps(t *testing.T) {
	got := Lines("Standing in the Qutub Complex, this iron pillar has resisted corrosion.", 24)
	want := []string{
		"Standing in the Qutub",
		"Complex, this iron",
		"pillar has resisted",
		"corrosion.",
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected wrap:\n%q\nwant\n%q", got, want)
	}
}

func TestLines_KeepsParagraphBreaks(t *testing.T) {
	got := Lines("First.\n\nSecond.", 40)
	if strings.Join(got, "|") != "First.||Second." {
		t.Fatalf("unexpected lines: %q", got)
	}
}

func TestLines_InlineHTML(t *testing.T) {
	raw := `<p>Roots of <b>Ficus elastica</b> &amp; patience.</p><p>See <a href="https://example.com/bridges">the survey</a>.</p><script>alert(1)</script>`
	got := strings.Join(Lines(raw, 80), "|")
	want := "Roots of Ficus elastica & patience.||See the survey (https://example.com/bridges)."
	if got != want {
		t.Fatalf("unexpected render:\n%q\nwant\n%q", got, want)
	}
}

func TestLines_Lists(t *testing.T) {
	raw := `<ol><li>Smelt</li><li>Forge the pillar in one long continuous process</li></ol>`
	got := Lines(raw, 20)
	want := []string{
		"1. Smelt",
		"2. Forge the pillar",
		"   in one long",
		"   continuous",
		"   process",
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected list:\n%q\nwant\n%q", got, want)
	}
}

func TestLines_SplitsOverlongWordsByWidth(t *testing.T) {
	got := Lines("ಸಾಕ್ಷ್ಯಮಟ್ಟ abcdefghij", 4)
	for _, line := range got {
		if w := visibleWidth(line); w > 4 {
			t.Fatalf("line %q exceeds width (%d)", line, w)
		}
	}
	if strings.Join(got, "") == "" {
		t.Fatal("expected output")
	}
}

func TestPlain(t *testing.T) {
	if got := Plain("  <em>Made</em> with <br>care  "); got != "Made with\ncare" {
		t.Fatalf("unexpected plain text %q", got)
	}
	if got := Plain(""); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestBullets(t *testing.T) {
	got := Bullets([]string{"The pillar is 99.7% pure wrought iron", "", "Thin misawite layer"}, 22, "• ")
	want := []string{
		"• The pillar is 99.7%",
		"  pure wrought iron",
		"• Thin misawite layer",
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected bullets:\n%q\nwant\n%q", got, want)
	}
}
