package repo

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"decidemate/internal/domain"
	"decidemate/internal/kv"
)

// HashAPIKey returns a stable SHA-256 hex digest for the provided key.
func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(key)))
	return hex.EncodeToString(sum[:])
}

func (r *Repository) loadAPIKeys(ctx context.Context) ([]domain.APIKey, error) {
	raw, ok, err := r.Store.Get(ctx, kv.KeyAPIKeys)
	if err != nil {
		return nil, fmt.Errorf("load api keys: %w", err)
	}
	if !ok {
		return []domain.APIKey{}, nil
	}
	var keys []domain.APIKey
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		return nil, fmt.Errorf("decode api keys: %w", err)
	}
	return keys, nil
}

func (r *Repository) persistAPIKeys(ctx context.Context, keys []domain.APIKey) error {
	if keys == nil {
		keys = []domain.APIKey{}
	}
	data, err := json.Marshal(keys)
	if err != nil {
		return err
	}
	return r.Store.Set(ctx, kv.KeyAPIKeys, string(data))
}

// CreateAPIKey mints a new key, stores its hash, and returns the record
// plus the raw key. The raw key is never persisted.
func (r *Repository) CreateAPIKey(ctx context.Context, name string) (domain.APIKey, string, error) {
	keys, err := r.loadAPIKeys(ctx)
	if err != nil {
		return domain.APIKey{}, "", err
	}
	raw := r.newID() + "." + r.newID()
	k := domain.APIKey{
		ID:        r.newID(),
		Name:      name,
		KeyHash:   HashAPIKey(raw),
		CreatedAt: r.now().UTC(),
	}
	keys = append(keys, k)
	if err := r.persistAPIKeys(ctx, keys); err != nil {
		return domain.APIKey{}, "", err
	}
	return k, raw, nil
}

// GetAPIKeyByHash returns the key record matching the hash or ErrNotFound.
func (r *Repository) GetAPIKeyByHash(ctx context.Context, hash string) (domain.APIKey, error) {
	keys, err := r.loadAPIKeys(ctx)
	if err != nil {
		return domain.APIKey{}, err
	}
	for _, k := range keys {
		if k.KeyHash == hash {
			return k, nil
		}
	}
	return domain.APIKey{}, ErrNotFound
}

// ListAPIKeys returns all stored key records (hashes only).
func (r *Repository) ListAPIKeys(ctx context.Context) ([]domain.APIKey, error) {
	return r.loadAPIKeys(ctx)
}

// RevokeAPIKey removes the key with the given id; reports whether a key
// was removed.
func (r *Repository) RevokeAPIKey(ctx context.Context, id string) (bool, error) {
	keys, err := r.loadAPIKeys(ctx)
	if err != nil {
		return false, err
	}
	filtered := keys[:0:0]
	for _, k := range keys {
		if k.ID != id {
			filtered = append(filtered, k)
		}
	}
	if len(filtered) == len(keys) {
		return false, nil
	}
	return true, r.persistAPIKeys(ctx, filtered)
}
