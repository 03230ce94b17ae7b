package commons

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	reFilePrefix  = regexp.MustCompile(`(?i)^File:`)
	reImagePrefix = regexp.MustCompile(`(?i)^Image:`)
	reImageExt    = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|webp|gif)$`)
	reStopWords   = regexp.MustCompile(`(?i)\b(of|the|at|in|and|or)\b`)
	reSpaces      = regexp.MustCompile(`\s+`)
)

// minSearchTermLength is the shortest cleaned term worth sending to search.
const minSearchTermLength = 3

// ExtractFilename derives the bare media filename from an image URL or a
// File: page URL. It returns "" for empty or undecodable input.
func ExtractFilename(raw string) string {
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil || !utf8.ValidString(decoded) {
		return ""
	}
	name := decoded[strings.LastIndex(decoded, "/")+1:]
	if i := strings.Index(name, "?"); i >= 0 {
		name = name[:i]
	}
	name = reFilePrefix.ReplaceAllString(name, "")
	name = reImagePrefix.ReplaceAllString(name, "")
	return name
}

// SearchTerm turns a filename into full-text search keywords. The second
// return is false when the cleaned term is too short to be worth a query.
func SearchTerm(keywords string) (string, bool) {
	term := reImageExt.ReplaceAllString(keywords, "")
	term = strings.ReplaceAll(term, "_", " ")
	term = strings.ReplaceAll(term, "%20", " ")
	term = reStopWords.ReplaceAllString(term, "")
	term = strings.TrimSpace(reSpaces.ReplaceAllString(term, " "))
	if utf8.RuneCountInString(term) < minSearchTermLength {
		return "", false
	}
	return term, true
}
