package models

import (
	"cmp"
	"slices"
)

// SortByRecency returns a copy of rels ordered by LastInteractionTime,
// most recent first. Ties keep their original order.
func SortByRecency(rels []Relationship) []Relationship {
	sorted := slices.Clone(rels)
	slices.SortStableFunc(sorted, func(a, b Relationship) int {
		return cmp.Compare(b.LastInteractionTime, a.LastInteractionTime)
	})
	return sorted
}

// FindRelationship looks up a relationship by its stable id.
func FindRelationship(rels []Relationship, id string) (Relationship, bool) {
	for _, r := range rels {
		if r.ID == id {
			return r, true
		}
	}
	return Relationship{}, false
}
