// Package kv provides the journal's key/value storage. Each key holds one
// serialized payload; the decision list lives under a single key and is
// rewritten whole on every mutation.
package kv

import "context"

// Storage keys. OnboardingCompleted and Settings are reserved for the
// presentation layer and unused by the core.
const (
	KeyDecisions           = "decisions"
	KeyPremiumStatus       = "premium_status"
	KeyAPIKeys             = "api_keys"
	KeyOnboardingCompleted = "onboarding_completed"
	KeySettings            = "settings"
)

// KV is the storage contract the repository and premium gate depend on.
// Get reports ok=false when the key has never been written.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
