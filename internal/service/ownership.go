package service

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/dtroode/foodtracker-migrator/internal/codec"
	"github.com/dtroode/foodtracker-migrator/internal/model"
)

// Ownership is the catalogue regrouped by the users allowed to select each item.
type Ownership struct {
	// Visible maps every roster user to the ascending ids of the items they may select.
	Visible map[int64][]int64
	// Orphaned holds items owned by users missing from the roster.
	Orphaned []model.CatalogueItem
}

// For returns the visible item ids of userID, empty for unknown users.
func (o Ownership) For(userID int64) []int64 {
	ids, ok := o.Visible[userID]
	if !ok {
		return []int64{}
	}
	return slices.Clone(ids)
}

// Warnings describes every orphaned item as an ErrIncompleteRoster error.
func (o Ownership) Warnings() []error {
	warnings := make([]error, 0, len(o.Orphaned))
	for _, item := range o.Orphaned {
		owner, _ := item.Owner.UserID()
		warnings = append(warnings, fmt.Errorf("%w: catalogue item %d (%s) is owned by unknown user %d",
			model.ErrIncompleteRoster, item.ID, item.Name, owner))
	}
	return warnings
}

// GroupOwnership computes which catalogue items every roster user may select.
// Global items go to everyone, user items to their owner. Items of users
// outside the roster are left out and reported as orphaned.
func GroupOwnership(catalogue []model.CatalogueItem, roster model.Roster) Ownership {
	sets := make(map[int64]map[int64]struct{}, roster.Len())
	for _, userID := range roster.IDs() {
		sets[userID] = make(map[int64]struct{})
	}

	var orphaned []model.CatalogueItem
	for _, item := range catalogue {
		if item.Owner.IsGlobal() {
			for _, set := range sets {
				set[item.ID] = struct{}{}
			}
			continue
		}

		owner, _ := item.Owner.UserID()
		set, ok := sets[owner]
		if !ok {
			orphaned = append(orphaned, item)
			continue
		}
		set[item.ID] = struct{}{}
	}

	visible := make(map[int64][]int64, len(sets))
	for userID, set := range sets {
		ids := make([]int64, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		visible[userID] = codec.Normalize(ids)
	}

	slices.SortFunc(orphaned, func(a, b model.CatalogueItem) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return Ownership{Visible: visible, Orphaned: orphaned}
}

// ApplyOwnership replaces the selected catalogue ids of every settings record
// with the ids from ownership. Roster users without a record get a new one.
// Later duplicates of a user are dropped. The result is ordered by user id.
func ApplyOwnership(settings []model.SettingsRecord, ownership Ownership, roster model.Roster) ([]model.SettingsRecord, []error) {
	var warnings []error

	seen := make(map[int64]struct{}, len(settings))
	out := make([]model.SettingsRecord, 0, max(len(settings), roster.Len()))
	for _, rec := range settings {
		if _, dup := seen[rec.UserID]; dup {
			warnings = append(warnings, fmt.Errorf("%w: duplicate settings record for user %d dropped",
				model.ErrIncompleteRoster, rec.UserID))
			continue
		}
		seen[rec.UserID] = struct{}{}

		if !roster.Contains(rec.UserID) {
			warnings = append(warnings, fmt.Errorf("%w: settings record of unknown user %d gets no catalogue items",
				model.ErrIncompleteRoster, rec.UserID))
		}

		rec.SelectedCatalogueIDs = ownership.For(rec.UserID)
		out = append(out, rec)
	}

	for _, userID := range roster.IDs() {
		if _, ok := seen[userID]; ok {
			continue
		}
		out = append(out, model.SettingsRecord{
			UserID:               userID,
			SelectedCatalogueIDs: ownership.For(userID),
		})
	}

	slices.SortFunc(out, func(a, b model.SettingsRecord) int {
		return cmp.Compare(a.UserID, b.UserID)
	})

	return out, warnings
}
