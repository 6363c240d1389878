package model

import "strings"

// IDSeparator joins identifiers in CSV list columns.
const IDSeparator = "|"

// IDList is an ordered list of member identifiers.
type IDList []string

// ParseIDList splits a "12|7|103" column. Blank entries are dropped.
func ParseIDList(raw string) IDList {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, IDSeparator)
	out := make(IDList, 0, len(parts))
	for _, p := range parts {
		if id := normalizeID(p); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// String encodes the list back into its column form.
func (l IDList) String() string {
	return strings.Join(l, IDSeparator)
}

// Contains reports exact membership after trimming. An empty id never matches.
func (l IDList) Contains(id string) bool {
	key := normalizeID(id)
	if key == "" {
		return false
	}
	for _, v := range l {
		if normalizeID(v) == key {
			return true
		}
	}
	return false
}

// SameID compares two single-id fields. Empty values never match anything.
func SameID(field, id string) bool {
	key := normalizeID(id)
	return key != "" && normalizeID(field) == key
}

func normalizeID(id string) string {
	return strings.TrimSpace(id)
}
