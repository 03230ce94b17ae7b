package card

import (
	"html"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var punctuationJoiner = strings.NewReplacer(
	" .", ".",
	" ,", ",",
	" ;", ";",
	" :", ":",
	" !", "!",
	" ?", "?",
	" )", ")",
	"( ", "(",
)

// normalizeInlineText unescapes entities and collapses whitespace inside
// each line, dropping empty lines.
func normalizeInlineText(s string) string {
	s = html.UnescapeString(s)
	parts := strings.Split(s, "\n")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.Join(strings.Fields(part), " ")
		if part != "" {
			out = append(out, part)
		}
	}
	return punctuationJoiner.Replace(strings.Join(out, "\n"))
}

// wrapText wraps on word boundaries by display width. Width below 1 means no
// wrapping; words wider than width are split.
func wrapText(text string, width int) []string {
	paragraphs := strings.Split(text, "\n")
	out := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		words := strings.Fields(p)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		if width < 1 {
			out = append(out, strings.Join(words, " "))
			continue
		}
		line := ""
		for _, word := range words {
			for lipgloss.Width(word) > width {
				if line != "" {
					out = append(out, line)
					line = ""
				}
				head, rest := splitAtWidth(word, width)
				out = append(out, head)
				word = rest
			}
			switch {
			case line == "":
				line = word
			case lipgloss.Width(line)+1+lipgloss.Width(word) <= width:
				line += " " + word
			default:
				out = append(out, line)
				line = word
			}
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func splitAtWidth(word string, width int) (string, string) {
	w := 0
	for i, r := range word {
		rw := lipgloss.Width(string(r))
		if w+rw > width && i > 0 {
			return word[:i], word[i:]
		}
		w += rw
	}
	return word, ""
}

func wrapPrefixedText(text string, width int, firstPrefix, restPrefix string) []string {
	if text == "" {
		return nil
	}
	if width < 1 {
		return []string{firstPrefix + strings.ReplaceAll(text, "\n", " ")}
	}
	inner := max(1, width-lipgloss.Width(firstPrefix))
	wrapped := wrapText(text, inner)
	out := make([]string, 0, len(wrapped))
	for i, line := range wrapped {
		if i == 0 {
			out = append(out, firstPrefix+line)
			continue
		}
		out = append(out, restPrefix+line)
	}
	return out
}

func trimBlankLines(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	out := make([]string, 0, end-start)
	prevBlank := false
	for _, line := range lines[start:end] {
		blank := strings.TrimSpace(line) == ""
		if blank && prevBlank {
			continue
		}
		out = append(out, line)
		prevBlank = blank
	}
	return out
}
