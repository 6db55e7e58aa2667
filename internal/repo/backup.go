package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"decidemate/internal/domain"
	"decidemate/internal/events"
)

// ExportJSON serializes the full current list as a pretty-printed JSON
// array, structurally identical to the persisted form.
func (r *Repository) ExportJSON(ctx context.Context) ([]byte, error) {
	decisions, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(decisions, "", "  ")
}

// ImportJSON merges a previously exported array into the store. Records
// whose id already exists are skipped (existing always wins). Malformed
// input is rejected before anything is written, so a failed import never
// mutates the store. Returns the number of records added.
func (r *Repository) ImportJSON(ctx context.Context, data []byte) (int, error) {
	var imported []domain.Decision
	if err := json.Unmarshal(data, &imported); err != nil {
		return 0, fmt.Errorf("%w: parse import payload: %v", ErrValidation, err)
	}
	existing, err := r.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(existing))
	for _, d := range existing {
		seen[d.ID] = true
	}
	added := 0
	merged := existing
	for _, d := range imported {
		if seen[d.ID] {
			continue
		}
		seen[d.ID] = true
		merged = append(merged, d)
		added++
	}
	if added == 0 {
		return 0, nil
	}
	if err := r.persist(ctx, merged); err != nil {
		return 0, err
	}
	if err := r.Events.Append(ctx, "journal.imported", "", r.ActorID, events.EventPayload{
		"added":   added,
		"skipped": len(imported) - added,
	}); err != nil {
		return 0, err
	}
	return added, nil
}
