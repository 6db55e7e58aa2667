// Package premium gates decision creation behind the free-tier cap. The
// check is advisory: nothing stops a caller from writing to the repository
// directly, so enforcement belongs at the creation surface.
package premium

import (
	"context"
	"encoding/json"
	"fmt"

	"decidemate/internal/kv"
)

// DefaultFreeTierLimit is the number of active (non-archived) decisions a
// free-tier journal may hold.
const DefaultFreeTierLimit = 30

type counter interface {
	GetCount(ctx context.Context) (int, error)
}

type Gate struct {
	Store kv.KV
	Repo  counter
	// Limit defaults to DefaultFreeTierLimit when zero.
	Limit int
}

func New(store kv.KV, repo counter) *Gate {
	return &Gate{Store: store, Repo: repo, Limit: DefaultFreeTierLimit}
}

func (g *Gate) limit() int {
	if g.Limit > 0 {
		return g.Limit
	}
	return DefaultFreeTierLimit
}

// IsPremium reads the persisted flag; absent means false.
func (g *Gate) IsPremium(ctx context.Context) (bool, error) {
	raw, ok, err := g.Store.Get(ctx, kv.KeyPremiumStatus)
	if err != nil {
		return false, fmt.Errorf("load premium status: %w", err)
	}
	if !ok {
		return false, nil
	}
	var premium bool
	if err := json.Unmarshal([]byte(raw), &premium); err != nil {
		return false, fmt.Errorf("decode premium status: %w", err)
	}
	return premium, nil
}

// SetPremium persists the flag.
func (g *Gate) SetPremium(ctx context.Context, premium bool) error {
	data, _ := json.Marshal(premium)
	if err := g.Store.Set(ctx, kv.KeyPremiumStatus, string(data)); err != nil {
		return fmt.Errorf("store premium status: %w", err)
	}
	return nil
}

// CanCreateDecision reports whether creating one more decision is allowed:
// always for premium journals, otherwise while the non-archived count is
// strictly below the cap.
func (g *Gate) CanCreateDecision(ctx context.Context) (bool, error) {
	premium, err := g.IsPremium(ctx)
	if err != nil {
		return false, err
	}
	if premium {
		return true, nil
	}
	count, err := g.Repo.GetCount(ctx)
	if err != nil {
		return false, err
	}
	return count < g.limit(), nil
}
