package theme

import (
	"strings"
	"unicode/utf16"

	"github.com/charmbracelet/lipgloss"
)

// Gradient is a three-stop palette drawn behind a card with no image.
type Gradient [3]lipgloss.Color

var Gradients = []Gradient{
	{"#78350f", "#9a3412", "#7f1d1d"},
	{"#1e3a8a", "#3730a3", "#581c87"},
	{"#064e3b", "#115e59", "#164e63"},
	{"#881337", "#9d174d", "#701a75"},
	{"#4c1d95", "#6b21a8", "#312e81"},
	{"#164e63", "#1e40af", "#312e81"},
	{"#7c2d12", "#991b1b", "#881337"},
	{"#134e4a", "#065f46", "#14532d"},
	{"#701a75", "#9d174d", "#881337"},
	{"#312e81", "#1e40af", "#164e63"},
	{"#713f12", "#92400e", "#7c2d12"},
	{"#14532d", "#065f46", "#134e4a"},
}

// PlaceholderHash is djb2 with xor over UTF-16 code units, wrapped to int32
// at every step, then made non-negative. The same id always picks the same
// palette on every platform.
func PlaceholderHash(id string) int64 {
	h := int32(5381)
	for _, unit := range utf16.Encode([]rune(id)) {
		h = int32(uint32(h)*33) ^ int32(unit)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}

func GradientFor(id string) Gradient {
	return Gradients[PlaceholderHash(id)%int64(len(Gradients))]
}

// RenderPlaceholder paints a width x height block in the item's palette, one
// band per stop, with label centred in the middle band.
func RenderPlaceholder(id, label string, width, height int) string {
	if width < 1 || height < 1 {
		return ""
	}
	g := GradientFor(id)
	lines := make([]string, height)
	mid := height / 2
	for row := 0; row < height; row++ {
		stop := row * len(g) / height
		style := lipgloss.NewStyle().Background(g[stop]).Foreground(lipgloss.Color("#f5f5f5")).Width(width)
		text := strings.Repeat(" ", width)
		if row == mid && label != "" {
			style = style.Align(lipgloss.Center).Bold(true)
			text = label
		}
		lines[row] = style.Render(text)
	}
	return strings.Join(lines, "\n")
}
