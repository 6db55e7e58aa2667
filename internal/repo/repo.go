// Package repo is the sole owner of the persisted decision list. Every read
// loads the whole list from the kv store and every write replaces it whole;
// records number in the tens to low thousands on a single device, so the
// read-modify-write cycle is a deliberate trade-off, not a bottleneck.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"decidemate/internal/domain"
	"decidemate/internal/events"
	"decidemate/internal/kv"
)

var (
	// ErrNotFound signals an operation on a nonexistent id. Callers must
	// treat it as a reportable condition, not a crash.
	ErrNotFound = errors.New("not found")
	// ErrValidation signals a rejected input at the create/review boundary.
	ErrValidation = errors.New("invalid input")
)

// Repository performs all reads and writes of decision records. Construct
// with New; Now, NewID, Events and ActorID are overridable for tests and
// wiring.
type Repository struct {
	Store  kv.KV
	Events *events.Writer
	Now    func() time.Time
	NewID  func() string
	// ActorID is recorded on audit entries.
	ActorID string
}

func New(store kv.KV) *Repository {
	return &Repository{
		Store:   store,
		Now:     time.Now,
		NewID:   uuid.NewString,
		ActorID: "local-user",
	}
}

// WithActor returns a shallow copy attributing audit entries to actorID.
// The copy shares the underlying store.
func (r *Repository) WithActor(actorID string) *Repository {
	if actorID == "" {
		return r
	}
	clone := *r
	clone.ActorID = actorID
	return &clone
}

func (r *Repository) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Repository) newID() string {
	if r.NewID != nil {
		return r.NewID()
	}
	return uuid.NewString()
}

// GetAll returns every stored decision, oldest first. A never-written store
// yields an empty list; an unreadable or malformed payload is an error.
func (r *Repository) GetAll(ctx context.Context) ([]domain.Decision, error) {
	raw, ok, err := r.Store.Get(ctx, kv.KeyDecisions)
	if err != nil {
		return nil, fmt.Errorf("load decisions: %w", err)
	}
	if !ok {
		return []domain.Decision{}, nil
	}
	var decisions []domain.Decision
	if err := json.Unmarshal([]byte(raw), &decisions); err != nil {
		return nil, fmt.Errorf("decode decisions: %w", err)
	}
	if decisions == nil {
		decisions = []domain.Decision{}
	}
	return decisions, nil
}

func (r *Repository) persist(ctx context.Context, decisions []domain.Decision) error {
	if decisions == nil {
		decisions = []domain.Decision{}
	}
	data, err := json.Marshal(decisions)
	if err != nil {
		return fmt.Errorf("encode decisions: %w", err)
	}
	if err := r.Store.Set(ctx, kv.KeyDecisions, string(data)); err != nil {
		return fmt.Errorf("store decisions: %w", err)
	}
	return nil
}

// GetByID returns the matching decision or ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id string) (domain.Decision, error) {
	decisions, err := r.GetAll(ctx)
	if err != nil {
		return domain.Decision{}, err
	}
	for _, d := range decisions {
		if d.ID == id {
			return d, nil
		}
	}
	return domain.Decision{}, ErrNotFound
}

func validateCreate(in domain.CreateInput) error {
	if in.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if !in.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, in.Category)
	}
	if in.ConfidenceLevel < 1 || in.ConfidenceLevel > 10 {
		return fmt.Errorf("%w: confidence level must be in [1,10]", ErrValidation)
	}
	return nil
}

// Create assigns a fresh id and sets both timestamps to now, appends the
// record and persists the whole list.
func (r *Repository) Create(ctx context.Context, in domain.CreateInput) (domain.Decision, error) {
	if err := validateCreate(in); err != nil {
		return domain.Decision{}, err
	}
	decisions, err := r.GetAll(ctx)
	if err != nil {
		return domain.Decision{}, err
	}
	now := r.now().UTC()
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	d := domain.Decision{
		ID:              r.newID(),
		Title:           in.Title,
		Description:     in.Description,
		Category:        in.Category,
		ConfidenceLevel: in.ConfidenceLevel,
		ExpectedOutcome: in.ExpectedOutcome,
		ReviewDate:      in.ReviewDate,
		CreatedAt:       now,
		UpdatedAt:       now,
		Tags:            tags,
	}
	decisions = append(decisions, d)
	if err := r.persist(ctx, decisions); err != nil {
		return domain.Decision{}, err
	}
	if err := r.Events.Append(ctx, "decision.created", d.ID, r.ActorID, events.EventPayload{
		"title":    d.Title,
		"category": string(d.Category),
	}); err != nil {
		return domain.Decision{}, err
	}
	return d, nil
}

// Update merges the given partial fields onto the stored record and bumps
// UpdatedAt. The id and CreatedAt never change.
func (r *Repository) Update(ctx context.Context, id string, in domain.UpdateInput) (domain.Decision, error) {
	if in.Title != nil && *in.Title == "" {
		return domain.Decision{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if in.Category != nil && !in.Category.Valid() {
		return domain.Decision{}, fmt.Errorf("%w: unknown category %q", ErrValidation, *in.Category)
	}
	if in.ConfidenceLevel != nil && (*in.ConfidenceLevel < 1 || *in.ConfidenceLevel > 10) {
		return domain.Decision{}, fmt.Errorf("%w: confidence level must be in [1,10]", ErrValidation)
	}
	decisions, err := r.GetAll(ctx)
	if err != nil {
		return domain.Decision{}, err
	}
	idx := indexByID(decisions, id)
	if idx < 0 {
		return domain.Decision{}, ErrNotFound
	}
	d := decisions[idx]
	if in.Title != nil {
		d.Title = *in.Title
	}
	if in.Description != nil {
		d.Description = *in.Description
	}
	if in.Category != nil {
		d.Category = *in.Category
	}
	if in.ConfidenceLevel != nil {
		d.ConfidenceLevel = *in.ConfidenceLevel
	}
	if in.ExpectedOutcome != nil {
		d.ExpectedOutcome = *in.ExpectedOutcome
	}
	if in.ReviewDate != nil {
		d.ReviewDate = *in.ReviewDate
	}
	if in.Tags != nil {
		d.Tags = in.Tags
	}
	if in.IsArchived != nil {
		d.IsArchived = *in.IsArchived
	}
	d.UpdatedAt = r.now().UTC()
	decisions[idx] = d
	if err := r.persist(ctx, decisions); err != nil {
		return domain.Decision{}, err
	}
	if err := r.Events.Append(ctx, "decision.updated", d.ID, r.ActorID, nil); err != nil {
		return domain.Decision{}, err
	}
	return d, nil
}

// Delete removes the record entirely. It reports whether a record was
// removed and persists only when something changed.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	decisions, err := r.GetAll(ctx)
	if err != nil {
		return false, err
	}
	filtered := decisions[:0:0]
	for _, d := range decisions {
		if d.ID != id {
			filtered = append(filtered, d)
		}
	}
	if len(filtered) == len(decisions) {
		return false, nil
	}
	if err := r.persist(ctx, filtered); err != nil {
		return false, err
	}
	if err := r.Events.Append(ctx, "decision.deleted", id, r.ActorID, nil); err != nil {
		return false, err
	}
	return true, nil
}

// AddOutcome records the realized outcome with ReviewedAt set to now and
// bumps UpdatedAt. Submitting again replaces the prior outcome wholesale
// (an explicit re-review); the second payload wins.
func (r *Repository) AddOutcome(ctx context.Context, id string, in domain.OutcomeInput) (domain.Decision, error) {
	if in.Rating < 1 || in.Rating > 10 {
		return domain.Decision{}, fmt.Errorf("%w: rating must be in [1,10]", ErrValidation)
	}
	decisions, err := r.GetAll(ctx)
	if err != nil {
		return domain.Decision{}, err
	}
	idx := indexByID(decisions, id)
	if idx < 0 {
		return domain.Decision{}, ErrNotFound
	}
	now := r.now().UTC()
	d := decisions[idx]
	d.Outcome = &domain.Outcome{
		Description:    in.Description,
		Rating:         in.Rating,
		LessonsLearned: in.LessonsLearned,
		ReviewedAt:     now,
	}
	d.UpdatedAt = now
	decisions[idx] = d
	if err := r.persist(ctx, decisions); err != nil {
		return domain.Decision{}, err
	}
	if err := r.Events.Append(ctx, "decision.reviewed", d.ID, r.ActorID, events.EventPayload{
		"rating": in.Rating,
	}); err != nil {
		return domain.Decision{}, err
	}
	return d, nil
}

// GetFiltered returns the subset selected by f. Archived records appear
// only under FilterArchived.
func (r *Repository) GetFiltered(ctx context.Context, f domain.Filter) ([]domain.Decision, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("%w: unknown filter %q", ErrValidation, f)
	}
	decisions, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	res := []domain.Decision{}
	for _, d := range decisions {
		switch f {
		case domain.FilterPending:
			if !d.IsArchived && !d.Reviewed() {
				res = append(res, d)
			}
		case domain.FilterReviewed:
			if !d.IsArchived && d.Reviewed() {
				res = append(res, d)
			}
		case domain.FilterArchived:
			if d.IsArchived {
				res = append(res, d)
			}
		default:
			if !d.IsArchived {
				res = append(res, d)
			}
		}
	}
	return res, nil
}

// GetDueForReview returns non-archived, unreviewed decisions whose review
// date has arrived.
func (r *Repository) GetDueForReview(ctx context.Context) ([]domain.Decision, error) {
	decisions, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	now := r.now()
	res := []domain.Decision{}
	for _, d := range decisions {
		if d.IsArchived || d.Reviewed() {
			continue
		}
		if !d.ReviewDate.After(now) {
			res = append(res, d)
		}
	}
	return res, nil
}

// Archive soft-deletes a decision; it disappears from default views and
// statistics but stays in the store.
func (r *Repository) Archive(ctx context.Context, id string) (domain.Decision, error) {
	archived := true
	d, err := r.Update(ctx, id, domain.UpdateInput{IsArchived: &archived})
	if err != nil {
		return domain.Decision{}, err
	}
	if err := r.Events.Append(ctx, "decision.archived", id, r.ActorID, nil); err != nil {
		return domain.Decision{}, err
	}
	return d, nil
}

// Unarchive reverses Archive.
func (r *Repository) Unarchive(ctx context.Context, id string) (domain.Decision, error) {
	archived := false
	d, err := r.Update(ctx, id, domain.UpdateInput{IsArchived: &archived})
	if err != nil {
		return domain.Decision{}, err
	}
	if err := r.Events.Append(ctx, "decision.unarchived", id, r.ActorID, nil); err != nil {
		return domain.Decision{}, err
	}
	return d, nil
}

// GetCount returns the number of non-archived decisions; the premium gate
// compares it against the free-tier cap.
func (r *Repository) GetCount(ctx context.Context) (int, error) {
	decisions, err := r.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, d := range decisions {
		if !d.IsArchived {
			count++
		}
	}
	return count, nil
}

// ClearAll replaces the stored list with an empty one. Irreversible.
func (r *Repository) ClearAll(ctx context.Context) error {
	if err := r.persist(ctx, []domain.Decision{}); err != nil {
		return err
	}
	return r.Events.Append(ctx, "journal.cleared", "", r.ActorID, nil)
}

func indexByID(decisions []domain.Decision, id string) int {
	for i, d := range decisions {
		if d.ID == id {
			return i
		}
	}
	return -1
}
