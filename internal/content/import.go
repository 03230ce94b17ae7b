package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidItem = errors.New("invalid item")

var validate = validator.New(validator.WithRequiredStructEnabled())

// importItem mirrors Item but also accepts the camel-case imageUrl key.
type importItem struct {
	Item
	ImageURLAlt string `json:"imageUrl"`
}

// ParseImport decodes a JSON array of items or a single item object, fills
// defaults and validates every entry.
func ParseImport(data []byte) ([]Item, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("parse import: empty input")
	}

	var raw []importItem
	if data[0] == '[' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse import: %w", err)
		}
	} else {
		var one importItem
		if err := json.Unmarshal(data, &one); err != nil {
			return nil, fmt.Errorf("parse import: %w", err)
		}
		raw = []importItem{one}
	}

	items := make([]Item, 0, len(raw))
	for i, r := range raw {
		it := normalize(r)
		if err := validate.Struct(it); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %s", ErrInvalidItem, i, describe(err))
		}
		items = append(items, it)
	}
	return items, nil
}

func normalize(r importItem) Item {
	it := r.Item
	it.ID = strings.TrimSpace(it.ID)
	it.Title = strings.TrimSpace(it.Title)
	if it.ImageURL == "" {
		it.ImageURL = r.ImageURLAlt
	}
	if it.Collection == "" {
		it.Collection = DefaultCollection
	}
	if it.EvidenceTier == "" {
		it.EvidenceTier = TierEmerging
	}
	if it.Language == "" {
		it.Language = DefaultLanguage
	}
	if it.Badges == nil {
		it.Badges = []string{}
	}
	if it.KnownFacts == nil {
		it.KnownFacts = []string{}
	}
	if it.Unknowns == nil {
		it.Unknowns = []string{}
	}
	if it.Myths == nil {
		it.Myths = []string{}
	}
	return it
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", jsonName(fe.Field())))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of %s", jsonName(fe.Field()), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", jsonName(fe.Field()), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

func jsonName(field string) string {
	switch field {
	case "ID":
		return "id"
	case "Title":
		return "title"
	case "EvidenceTier":
		return "evidence_tier"
	default:
		return strings.ToLower(field)
	}
}

// MergeImported puts incoming items whose ids are not already present in
// front of existing. Existing items win on id collisions.
func MergeImported(existing, incoming []Item) ([]Item, int) {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	for _, it := range existing {
		seen[it.ID] = struct{}{}
	}
	fresh := make([]Item, 0, len(incoming))
	for _, it := range incoming {
		if _, ok := seen[it.ID]; ok {
			continue
		}
		seen[it.ID] = struct{}{}
		fresh = append(fresh, it)
	}
	merged := make([]Item, 0, len(fresh)+len(existing))
	merged = append(merged, fresh...)
	merged = append(merged, existing...)
	return merged, len(fresh)
}
