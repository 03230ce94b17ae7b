// Package card turns card text into wrapped terminal lines. Imported cards
// may carry light inline HTML; plain text passes through unchanged apart
// from wrapping.
package card

import (
	"html"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	nethtml "golang.org/x/net/html"
)

// Lines renders raw as paragraphs wrapped to width. A width below 1 leaves
// paragraphs unwrapped.
func Lines(raw string, width int) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if !strings.ContainsAny(raw, "<&") {
		return wrapText(raw, width)
	}
	body := parseFragment(raw)
	if body == nil {
		return wrapText(html.UnescapeString(raw), width)
	}
	r := renderer{width: width}
	return r.renderNodes(elementChildren(body))
}

// Plain flattens raw to a single string with markup removed, keeping
// paragraph breaks.
func Plain(raw string) string {
	return strings.Join(Lines(raw, 0), "\n")
}

// Bullets wraps each entry behind marker with a hanging indent.
func Bullets(entries []string, width int, marker string) []string {
	out := make([]string, 0, len(entries))
	indent := strings.Repeat(" ", lipgloss.Width(marker))
	for _, e := range entries {
		text := Plain(e)
		if text == "" {
			continue
		}
		out = append(out, wrapPrefixedText(text, width, marker, indent)...)
	}
	return out
}

func parseFragment(raw string) *nethtml.Node {
	doc, err := nethtml.Parse(strings.NewReader("<html><body>" + raw + "</body></html>"))
	if err != nil {
		return nil
	}
	return findBodyNode(doc)
}

type renderer struct {
	width int
}

func (r renderer) renderNodes(nodes []*nethtml.Node) []string {
	lines := make([]string, 0, len(nodes)*2)
	inline := make([]string, 0, 4)
	appendBlock := func(block []string) {
		if len(block) == 0 {
			return
		}
		if len(lines) > 0 && lines[len(lines)-1] != "" {
			lines = append(lines, "")
		}
		lines = append(lines, block...)
	}
	flush := func() {
		text := normalizeInlineText(strings.Join(inline, ""))
		inline = inline[:0]
		if text != "" {
			appendBlock(wrapText(text, r.width))
		}
	}

	for _, node := range nodes {
		switch node.Type {
		case nethtml.TextNode:
			inline = append(inline, node.Data)
		case nethtml.ElementNode:
			if !isBlockElement(node.Data) {
				inline = append(inline, r.renderInline(node))
				continue
			}
			flush()
			appendBlock(r.renderBlock(node))
		}
	}
	flush()
	return trimBlankLines(lines)
}

func (r renderer) renderBlock(node *nethtml.Node) []string {
	switch strings.ToLower(node.Data) {
	case "script", "style", "noscript", "img":
		return nil
	case "ul", "ol":
		return r.renderList(node, strings.EqualFold(node.Data, "ol"))
	default:
		if hasBlockChild(node) {
			return r.renderNodes(elementChildren(node))
		}
		text := normalizeInlineText(r.renderInlineChildren(node))
		if text == "" {
			return nil
		}
		return wrapText(text, r.width)
	}
}

func (r renderer) renderList(node *nethtml.Node, ordered bool) []string {
	lines := make([]string, 0, 8)
	n := 0
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != nethtml.ElementNode || !strings.EqualFold(child.Data, "li") {
			continue
		}
		n++
		marker := "• "
		if ordered {
			marker = strconv.Itoa(n) + ". "
		}
		text := normalizeInlineText(r.renderInlineChildren(child))
		lines = append(lines, wrapPrefixedText(text, r.width, marker, strings.Repeat(" ", len(marker)))...)
	}
	return lines
}

func (r renderer) renderInlineChildren(node *nethtml.Node) string {
	var b strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		b.WriteString(r.renderInline(child))
	}
	return b.String()
}

func (r renderer) renderInline(node *nethtml.Node) string {
	switch node.Type {
	case nethtml.TextNode:
		return node.Data
	case nethtml.ElementNode:
		switch strings.ToLower(node.Data) {
		case "script", "style", "noscript", "img":
			return ""
		case "br":
			return "\n"
		case "a":
			text := normalizeInlineText(r.renderInlineChildren(node))
			href := nodeAttr(node, "href")
			switch {
			case href == "" || strings.EqualFold(text, href):
				return text
			case text == "":
				return href
			default:
				return text + " (" + href + ")"
			}
		default:
			return r.renderInlineChildren(node)
		}
	}
	return ""
}

func isBlockElement(tag string) bool {
	switch strings.ToLower(tag) {
	case "p", "div", "section", "article", "blockquote", "ul", "ol", "li",
		"h1", "h2", "h3", "h4", "h5", "h6", "pre", "figure", "figcaption", "img",
		"script", "style", "noscript":
		return true
	}
	return false
}

func hasBlockChild(node *nethtml.Node) bool {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == nethtml.ElementNode && isBlockElement(child.Data) {
			return true
		}
	}
	return false
}

func findBodyNode(node *nethtml.Node) *nethtml.Node {
	if node == nil {
		return nil
	}
	if node.Type == nethtml.ElementNode && strings.EqualFold(node.Data, "body") {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findBodyNode(child); found != nil {
			return found
		}
	}
	return nil
}

func elementChildren(node *nethtml.Node) []*nethtml.Node {
	children := make([]*nethtml.Node, 0, 4)
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == nethtml.TextNode && strings.TrimSpace(child.Data) == "" {
			continue
		}
		children = append(children, child)
	}
	return children
}

func nodeAttr(node *nethtml.Node, name string) string {
	for _, attr := range node.Attr {
		if strings.EqualFold(attr.Key, name) {
			return strings.TrimSpace(attr.Val)
		}
	}
	return ""
}
