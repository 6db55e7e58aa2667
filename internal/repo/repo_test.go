package repo_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"decidemate/internal/domain"
	"decidemate/internal/kv"
	"decidemate/internal/repo"
)

type testEnv struct {
	Repo  *repo.Repository
	Store *kv.Memory
	Ctx   context.Context
	Clock time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := kv.NewMemory()
	r := repo.New(store)
	env := &testEnv{
		Repo:  r,
		Store: store,
		Ctx:   context.Background(),
		Clock: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	seq := 0
	r.Now = func() time.Time { return env.Clock }
	r.NewID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	return env
}

func (env *testEnv) create(t *testing.T, title string, category domain.Category, confidence int) domain.Decision {
	t.Helper()
	d, err := env.Repo.Create(env.Ctx, domain.CreateInput{
		Title:           title,
		Category:        category,
		ConfidenceLevel: confidence,
		ReviewDate:      env.Clock.Add(30 * 24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create %q: %v", title, err)
	}
	return d
}

func TestCreateAssignsIdentityAndTimestamps(t *testing.T) {
	env := newTestEnv(t)
	d := env.create(t, "Take the job offer", domain.CategoryCareer, 8)
	if d.ID == "" {
		t.Fatal("expected assigned id")
	}
	if !d.CreatedAt.Equal(env.Clock) || !d.UpdatedAt.Equal(env.Clock) {
		t.Fatalf("expected both timestamps at %v, got created=%v updated=%v", env.Clock, d.CreatedAt, d.UpdatedAt)
	}
	if d.Tags == nil {
		t.Fatal("expected tags to default to an empty slice")
	}
	if d.Reviewed() {
		t.Fatal("new decision must be unreviewed")
	}
	// net effect on the collection is exactly one more record
	all, err := env.Repo.GetAll(env.Ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].ID != d.ID {
		t.Fatalf("expected exactly the created record, got %d", len(all))
	}
}

func TestCreateAssignsUniqueIDs(t *testing.T) {
	env := newTestEnv(t)
	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		d := env.create(t, fmt.Sprintf("decision %d", i), domain.CategoryOther, 5)
		if seen[d.ID] {
			t.Fatalf("duplicate id %s", d.ID)
		}
		seen[d.ID] = true
	}
}

func TestCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	cases := []struct {
		name string
		in   domain.CreateInput
	}{
		{"missing title", domain.CreateInput{Category: domain.CategoryOther, ConfidenceLevel: 5}},
		{"unknown category", domain.CreateInput{Title: "x", Category: "gambling", ConfidenceLevel: 5}},
		{"confidence too low", domain.CreateInput{Title: "x", Category: domain.CategoryOther, ConfidenceLevel: 0}},
		{"confidence too high", domain.CreateInput{Title: "x", Category: domain.CategoryOther, ConfidenceLevel: 11}},
	}
	for _, tc := range cases {
		if _, err := env.Repo.Create(env.Ctx, tc.in); !errors.Is(err, repo.ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
	all, _ := env.Repo.GetAll(env.Ctx)
	if len(all) != 0 {
		t.Fatalf("rejected creates must not persist anything, got %d records", len(all))
	}
}

func TestGetByIDNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "exists", domain.CategoryOther, 5)
	if _, err := env.Repo.GetByID(env.Ctx, "missing"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdatePartialMerge(t *testing.T) {
	env := newTestEnv(t)
	d := env.create(t, "original", domain.CategoryHealth, 4)
	env.Clock = env.Clock.Add(time.Hour)

	title := "revised"
	conf := 7
	updated, err := env.Repo.Update(env.Ctx, d.ID, domain.UpdateInput{Title: &title, ConfidenceLevel: &conf})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "revised" || updated.ConfidenceLevel != 7 {
		t.Fatalf("changed fields not applied: %+v", updated)
	}
	if updated.Category != domain.CategoryHealth {
		t.Fatalf("untouched field changed: %s", updated.Category)
	}
	if updated.ID != d.ID || !updated.CreatedAt.Equal(d.CreatedAt) {
		t.Fatal("id and CreatedAt must never change")
	}
	if !updated.UpdatedAt.After(d.UpdatedAt) {
		t.Fatalf("UpdatedAt not bumped: %v", updated.UpdatedAt)
	}
}

func TestUpdateValidatesTouchedFields(t *testing.T) {
	env := newTestEnv(t)
	d := env.create(t, "ok", domain.CategoryOther, 5)
	empty := ""
	if _, err := env.Repo.Update(env.Ctx, d.ID, domain.UpdateInput{Title: &empty}); !errors.Is(err, repo.ErrValidation) {
		t.Fatalf("empty title: expected validation error, got %v", err)
	}
	bad := domain.Category("astrology")
	if _, err := env.Repo.Update(env.Ctx, d.ID, domain.UpdateInput{Category: &bad}); !errors.Is(err, repo.ErrValidation) {
		t.Fatalf("bad category: expected validation error, got %v", err)
	}
}

func TestDeleteReportsRemoval(t *testing.T) {
	env := newTestEnv(t)
	d := env.create(t, "doomed", domain.CategoryOther, 5)

	removed, err := env.Repo.Delete(env.Ctx, d.ID)
	if err != nil || !removed {
		t.Fatalf("expected removal, got removed=%v err=%v", removed, err)
	}
	removed, err = env.Repo.Delete(env.Ctx, d.ID)
	if err != nil || removed {
		t.Fatalf("second delete must report false, got removed=%v err=%v", removed, err)
	}
	all, _ := env.Repo.GetAll(env.Ctx)
	if len(all) != 0 {
		t.Fatalf("expected empty journal, got %d", len(all))
	}
}

func TestAddOutcomeSecondSubmissionWins(t *testing.T) {
	env := newTestEnv(t)
	d := env.create(t, "review me", domain.CategoryBusiness, 6)

	first, err := env.Repo.AddOutcome(env.Ctx, d.ID, domain.OutcomeInput{Description: "went ok", Rating: 6, LessonsLearned: "patience"})
	if err != nil {
		t.Fatalf("first review: %v", err)
	}
	if !first.Reviewed() || first.Outcome.Rating != 6 {
		t.Fatalf("first outcome not recorded: %+v", first.Outcome)
	}
	if !first.Outcome.ReviewedAt.Equal(env.Clock) {
		t.Fatalf("ReviewedAt not set to now: %v", first.Outcome.ReviewedAt)
	}

	env.Clock = env.Clock.Add(48 * time.Hour)
	second, err := env.Repo.AddOutcome(env.Ctx, d.ID, domain.OutcomeInput{Description: "actually great", Rating: 9})
	if err != nil {
		t.Fatalf("re-review: %v", err)
	}
	if second.Outcome.Rating != 9 || second.Outcome.Description != "actually great" {
		t.Fatalf("second payload must replace the first: %+v", second.Outcome)
	}
	if second.Outcome.LessonsLearned != "" {
		t.Fatalf("replacement is wholesale, got leftover lessons %q", second.Outcome.LessonsLearned)
	}
	if !second.Outcome.ReviewedAt.Equal(env.Clock) {
		t.Fatalf("ReviewedAt not refreshed: %v", second.Outcome.ReviewedAt)
	}
}

func TestAddOutcomeValidatesRating(t *testing.T) {
	env := newTestEnv(t)
	d := env.create(t, "x", domain.CategoryOther, 5)
	for _, rating := range []int{0, 11, -3} {
		if _, err := env.Repo.AddOutcome(env.Ctx, d.ID, domain.OutcomeInput{Rating: rating}); !errors.Is(err, repo.ErrValidation) {
			t.Fatalf("rating %d: expected validation error, got %v", rating, err)
		}
	}
	if _, err := env.Repo.AddOutcome(env.Ctx, "missing", domain.OutcomeInput{Rating: 5}); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFilterPartition(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "pending one", domain.CategoryOther, 5)
	reviewed := env.create(t, "reviewed one", domain.CategoryOther, 5)
	archived := env.create(t, "archived one", domain.CategoryOther, 5)
	if _, err := env.Repo.AddOutcome(env.Ctx, reviewed.ID, domain.OutcomeInput{Rating: 7}); err != nil {
		t.Fatal(err)
	}
	if _, err := env.Repo.Archive(env.Ctx, archived.ID); err != nil {
		t.Fatal(err)
	}

	pending, _ := env.Repo.GetFiltered(env.Ctx, domain.FilterPending)
	done, _ := env.Repo.GetFiltered(env.Ctx, domain.FilterReviewed)
	all, _ := env.Repo.GetFiltered(env.Ctx, domain.FilterAll)
	arch, _ := env.Repo.GetFiltered(env.Ctx, domain.FilterArchived)

	// pending and reviewed partition the non-archived set
	if len(pending)+len(done) != len(all) {
		t.Fatalf("pending(%d) + reviewed(%d) != all(%d)", len(pending), len(done), len(all))
	}
	for _, p := range pending {
		for _, r := range done {
			if p.ID == r.ID {
				t.Fatalf("decision %s in both pending and reviewed", p.ID)
			}
		}
	}
	if len(all) != 2 {
		t.Fatalf("archived record leaked into all: %d", len(all))
	}
	if len(arch) != 1 || arch[0].ID != archived.ID {
		t.Fatalf("archived filter wrong: %+v", arch)
	}

	if _, err := env.Repo.GetFiltered(env.Ctx, "recent"); !errors.Is(err, repo.ErrValidation) {
		t.Fatalf("unknown filter: expected validation error, got %v", err)
	}
}

func TestGetDueForReview(t *testing.T) {
	env := newTestEnv(t)
	due, err := env.Repo.Create(env.Ctx, domain.CreateInput{
		Title: "due now", Category: domain.CategoryOther, ConfidenceLevel: 5,
		ReviewDate: env.Clock,
	})
	if err != nil {
		t.Fatal(err)
	}
	past, err := env.Repo.Create(env.Ctx, domain.CreateInput{
		Title: "overdue", Category: domain.CategoryOther, ConfidenceLevel: 5,
		ReviewDate: env.Clock.Add(-24 * time.Hour),
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := env.Repo.Create(env.Ctx, domain.CreateInput{
		Title: "future", Category: domain.CategoryOther, ConfidenceLevel: 5,
		ReviewDate: env.Clock.Add(24 * time.Hour),
	}); err != nil {
		t.Fatal(err)
	}
	alreadyReviewed, err := env.Repo.Create(env.Ctx, domain.CreateInput{
		Title: "overdue but reviewed", Category: domain.CategoryOther, ConfidenceLevel: 5,
		ReviewDate: env.Clock.Add(-48 * time.Hour),
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := env.Repo.AddOutcome(env.Ctx, alreadyReviewed.ID, domain.OutcomeInput{Rating: 8}); err != nil {
		t.Fatal(err)
	}

	got, err := env.Repo.GetDueForReview(env.Ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]bool{due.ID: true, past.ID: true}
	if len(got) != 2 {
		t.Fatalf("expected 2 due, got %d", len(got))
	}
	for _, d := range got {
		if !want[d.ID] {
			t.Fatalf("unexpected due decision %s (%s)", d.ID, d.Title)
		}
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	d := env.create(t, "hide me", domain.CategoryOther, 5)
	archived, err := env.Repo.Archive(env.Ctx, d.ID)
	if err != nil || !archived.IsArchived {
		t.Fatalf("archive: %v %+v", err, archived)
	}
	count, _ := env.Repo.GetCount(env.Ctx)
	if count != 0 {
		t.Fatalf("archived records must not count, got %d", count)
	}
	restored, err := env.Repo.Unarchive(env.Ctx, d.ID)
	if err != nil || restored.IsArchived {
		t.Fatalf("unarchive: %v %+v", err, restored)
	}
	count, _ = env.Repo.GetCount(env.Ctx)
	if count != 1 {
		t.Fatalf("expected count 1 after unarchive, got %d", count)
	}
}

func TestClearAll(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "a", domain.CategoryOther, 5)
	env.create(t, "b", domain.CategoryOther, 5)
	if err := env.Repo.ClearAll(env.Ctx); err != nil {
		t.Fatal(err)
	}
	all, err := env.Repo.GetAll(env.Ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 0 {
		t.Fatalf("expected empty journal, got %d", len(all))
	}
}

func TestStorageFailureSurfacesError(t *testing.T) {
	env := newTestEnv(t)
	env.Store.FailWrites = errors.New("disk full")
	if _, err := env.Repo.Create(env.Ctx, domain.CreateInput{
		Title: "x", Category: domain.CategoryOther, ConfidenceLevel: 5,
	}); err == nil {
		t.Fatal("expected storage error to surface")
	}
	env.Store.FailWrites = nil
	env.Store.FailReads = errors.New("corrupt page")
	if _, err := env.Repo.GetAll(env.Ctx); err == nil {
		t.Fatal("expected read error to surface")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	a := env.create(t, "alpha", domain.CategoryFinancial, 8)
	b := env.create(t, "beta", domain.CategoryCareer, 4)
	data, err := env.Repo.ExportJSON(env.Ctx)
	if err != nil {
		t.Fatal(err)
	}

	// fresh journal imports everything
	other := newTestEnv(t)
	added, err := other.Repo.ImportJSON(other.Ctx, data)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if added != 2 {
		t.Fatalf("expected 2 added, got %d", added)
	}
	got, _ := other.Repo.GetAll(other.Ctx)
	if len(got) != 2 || got[0].ID != a.ID || got[1].ID != b.ID {
		t.Fatalf("imported journal mismatch: %+v", got)
	}

	// re-import is a no-op: existing records win
	added, err = other.Repo.ImportJSON(other.Ctx, data)
	if err != nil || added != 0 {
		t.Fatalf("expected idempotent re-import, added=%d err=%v", added, err)
	}
}

func TestImportExistingRecordWins(t *testing.T) {
	env := newTestEnv(t)
	local := env.create(t, "local title", domain.CategoryOther, 5)

	incoming := []domain.Decision{
		{ID: local.ID, Title: "incoming title", Category: domain.CategoryOther, ConfidenceLevel: 9},
		{ID: "foreign-1", Title: "brand new", Category: domain.CategoryHealth, ConfidenceLevel: 3},
	}
	payload, _ := json.Marshal(incoming)
	added, err := env.Repo.ImportJSON(env.Ctx, payload)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if added != 1 {
		t.Fatalf("expected 1 added, got %d", added)
	}
	kept, err := env.Repo.GetByID(env.Ctx, local.ID)
	if err != nil {
		t.Fatal(err)
	}
	if kept.Title != "local title" {
		t.Fatalf("existing record overwritten: %q", kept.Title)
	}
	if _, err := env.Repo.GetByID(env.Ctx, "foreign-1"); err != nil {
		t.Fatalf("new record not merged: %v", err)
	}
}

func TestImportMalformedMutatesNothing(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "keep me", domain.CategoryOther, 5)
	before, _ := env.Repo.ExportJSON(env.Ctx)

	if _, err := env.Repo.ImportJSON(env.Ctx, []byte(`{"not":"an array"`)); !errors.Is(err, repo.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	after, _ := env.Repo.ExportJSON(env.Ctx)
	if string(before) != string(after) {
		t.Fatal("failed import must not mutate the journal")
	}
}

func TestAPIKeyLifecycle(t *testing.T) {
	env := newTestEnv(t)
	key, raw, err := env.Repo.CreateAPIKey(env.Ctx, "ci")
	if err != nil {
		t.Fatalf("create api key: %v", err)
	}
	if raw == "" || key.KeyHash == "" || key.KeyHash == raw {
		t.Fatalf("expected hashed storage, got hash=%q raw=%q", key.KeyHash, raw)
	}
	found, err := env.Repo.GetAPIKeyByHash(env.Ctx, repo.HashAPIKey(raw))
	if err != nil || found.ID != key.ID {
		t.Fatalf("lookup by hash: %v %+v", err, found)
	}
	keys, err := env.Repo.ListAPIKeys(env.Ctx)
	if err != nil || len(keys) != 1 {
		t.Fatalf("list: %v %d", err, len(keys))
	}
	removed, err := env.Repo.RevokeAPIKey(env.Ctx, key.ID)
	if err != nil || !removed {
		t.Fatalf("revoke: %v %v", err, removed)
	}
	if _, err := env.Repo.GetAPIKeyByHash(env.Ctx, repo.HashAPIKey(raw)); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after revoke, got %v", err)
	}
}
