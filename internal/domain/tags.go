package domain

import (
	"encoding/json"
	"strings"
)

// EncodeTags serializes a tag list to the JSON text-column format.
// Empty lists encode to nil so the column stores NULL rather than "[]".
func EncodeTags(tags []string) (*string, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return nil, err
	}
	s := string(data)
	return &s, nil
}

// DecodeTags parses a stored tag column. Legacy rows may hold a JSON array,
// a JSON-quoted string, or a bare unquoted tag; all three are accepted.
func DecodeTags(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil
	}

	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		return compactTags(list)
	}

	var single string
	if err := json.Unmarshal([]byte(raw), &single); err == nil {
		return compactTags([]string{single})
	}

	return compactTags([]string{raw})
}

func compactTags(tags []string) []string {
	out := tags[:0]
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
