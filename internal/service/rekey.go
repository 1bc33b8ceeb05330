package service

import (
	"fmt"
	"time"

	"github.com/dtroode/foodtracker-migrator/internal/model"
)

// dateLayouts are the calendar date formats the source emits for DATE and
// TIMESTAMP columns cast to text.
var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	time.DateTime,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05-07",
}

// ParseDate parses a source calendar date. Dates without a zone are UTC.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format %q", s)
}

// Timestamps turns dates into unique, strictly increasing unix timestamps.
// Entry i gets epoch(date) + baseOffset + i; when that would not exceed the
// previous timestamp (dates out of order) it gets previous + 1 instead.
func Timestamps(dates []string, baseOffset int64) ([]int64, error) {
	return timestamps(dates, nil, baseOffset)
}

// timestamps is Timestamps with the entry ids named in errors when ids is set.
func timestamps(dates []string, ids []int64, baseOffset int64) ([]int64, error) {
	out := make([]int64, len(dates))
	for i, d := range dates {
		t, err := ParseDate(d)
		if err != nil {
			if ids != nil {
				return nil, fmt.Errorf("%w: entry %d (id %d): %v", model.ErrInvalidDate, i, ids[i], err)
			}
			return nil, fmt.Errorf("%w: entry %d: %v", model.ErrInvalidDate, i, err)
		}

		ts := t.Unix() + baseOffset + int64(i)
		if i > 0 && ts <= out[i-1] {
			ts = out[i-1] + 1
		}
		out[i] = ts
	}

	return out, nil
}

// RekeyDiary assigns diary entries their target timestamps in the order given.
func RekeyDiary(entries []model.SourceDiaryEntry, baseOffset int64) ([]model.DiaryEntry, error) {
	dates := make([]string, len(entries))
	ids := make([]int64, len(entries))
	for i, e := range entries {
		dates[i], ids[i] = e.Date, e.ID
	}

	stamps, err := timestamps(dates, ids, baseOffset)
	if err != nil {
		return nil, fmt.Errorf("failed to rekey diary: %w", err)
	}

	out := make([]model.DiaryEntry, len(entries))
	for i, e := range entries {
		out[i] = model.DiaryEntry{
			ID:              e.ID,
			Timestamp:       stamps[i],
			DateISO:         isoDay(e.Date),
			CatalogueItemID: e.CatalogueItemID,
			WeightGrams:     e.WeightGrams,
			History:         e.History,
			UserID:          e.UserID,
		}
	}

	return out, nil
}

// RekeyWeights assigns weight entries their target timestamps in the order given.
func RekeyWeights(entries []model.SourceWeightEntry, baseOffset int64) ([]model.WeightEntry, error) {
	dates := make([]string, len(entries))
	ids := make([]int64, len(entries))
	for i, e := range entries {
		dates[i], ids[i] = e.Date, e.ID
	}

	stamps, err := timestamps(dates, ids, baseOffset)
	if err != nil {
		return nil, fmt.Errorf("failed to rekey body weights: %w", err)
	}

	out := make([]model.WeightEntry, len(entries))
	for i, e := range entries {
		out[i] = model.WeightEntry{
			ID:        e.ID,
			Timestamp: stamps[i],
			DateISO:   isoDay(e.Date),
			Weight:    e.Weight,
			UserID:    e.UserID,
		}
	}

	return out, nil
}

// isoDay is only called for dates Timestamps already accepted.
func isoDay(date string) string {
	t, _ := ParseDate(date)
	return t.Format(time.DateOnly)
}
