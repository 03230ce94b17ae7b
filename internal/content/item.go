// Package content holds curiosity cards: the built-in samples, user imports
// and the filters the feed applies to them.
package content

import "strings"

const (
	TierVerified    = "verified"
	TierStrong      = "strong"
	TierEmerging    = "emerging"
	TierTheoretical = "theoretical"
	TierDebated     = "debated"
)

// All disables a language or collection filter.
const All = "all"

const (
	DefaultCollection = "Imported"
	DefaultLanguage   = "en"
)

type Item struct {
	ID           string   `json:"id" validate:"required"`
	Title        string   `json:"title" validate:"required"`
	Subtext      string   `json:"subtext"`
	ImageURL     string   `json:"image_url"`
	Badges       []string `json:"badges"`
	Collection   string   `json:"collection"`
	Summary      string   `json:"summary"`
	Anomaly      string   `json:"anomaly"`
	KnownFacts   []string `json:"known_facts"`
	Unknowns     []string `json:"unknowns"`
	Myths        []string `json:"myths"`
	EvidenceTier string   `json:"evidence_tier" validate:"oneof=verified strong emerging theoretical debated"`
	Language     string   `json:"language,omitempty"`
}

// Lang returns the item's content language, treating an empty one as English.
func (i Item) Lang() string {
	if i.Language == "" {
		return DefaultLanguage
	}
	return i.Language
}

// ShareText is what gets copied when a card is shared.
func (i Item) ShareText(url string) string {
	parts := []string{i.Title, i.Summary}
	if url != "" {
		parts = append(parts, url)
	}
	return strings.Join(parts, "\n\n")
}
