package content

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed samples.json
var samplesJSON []byte

// Samples returns the built-in cards. Each call returns a fresh copy.
func Samples() []Item {
	var items []Item
	if err := json.Unmarshal(samplesJSON, &items); err != nil {
		panic(fmt.Sprintf("content: decode embedded samples: %v", err))
	}
	return items
}
