package model

import "slices"

// Roster is the authoritative set of known user ids.
type Roster struct {
	ids []int64
}

// NewRoster builds a roster from ids, dropping duplicates.
func NewRoster(ids ...int64) Roster {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	return Roster{ids: slices.Compact(sorted)}
}

// Contains reports whether userID is a known user.
func (r Roster) Contains(userID int64) bool {
	_, found := slices.BinarySearch(r.ids, userID)
	return found
}

// IDs returns the known user ids in ascending order.
func (r Roster) IDs() []int64 {
	return slices.Clone(r.ids)
}

// Len returns the number of known users.
func (r Roster) Len() int {
	return len(r.ids)
}
