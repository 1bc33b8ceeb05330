// Package codec converts the selected catalogue id list to and from the text
// stored in the target settings table.
package codec

import (
	"fmt"
	"slices"

	"github.com/goccy/go-json"
)

// EncodeIDs returns ids as a JSON list. A nil or empty slice encodes as "[]".
func EncodeIDs(ids []int64) (string, error) {
	if len(ids) == 0 {
		return "[]", nil
	}

	data, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("failed to encode catalogue ids: %w", err)
	}

	return string(data), nil
}

// DecodeIDs parses a JSON list of ids. Empty input and "null" decode to an empty slice.
func DecodeIDs(s string) ([]int64, error) {
	if s == "" || s == "null" {
		return []int64{}, nil
	}

	var ids []int64
	if err := json.Unmarshal([]byte(s), &ids); err != nil {
		return nil, fmt.Errorf("failed to decode catalogue ids %q: %w", s, err)
	}
	if ids == nil {
		ids = []int64{}
	}

	return ids, nil
}

// Normalize sorts ids ascending and removes duplicates.
func Normalize(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
