// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// guard.go claims (template, slot, minute) firings in Valkey with SET NX so
// two overlapping scheduling passes cannot both trigger the same slot. It
// narrows the last-writer-wins window on the template document; it does not
// make firing exactly-once.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// fireKeyPrefix is the Valkey key prefix for slot claims.
	fireKeyPrefix = "fire:"

	// DefaultClaimTTL outlives the minute bucket with room for clock skew.
	DefaultClaimTTL = 10 * time.Minute
)

// FireGuard claims slot firings in Valkey.
type FireGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFireGuard creates a guard backed by the given Valkey client.
func NewFireGuard(client *redis.Client, ttl time.Duration) *FireGuard {
	if ttl == 0 {
		ttl = DefaultClaimTTL
	}
	return &FireGuard{client: client, ttl: ttl}
}

// Claim reports whether this caller won the firing of slot index slot of
// the template for the minute containing at. Errors leave the decision to
// the caller.
func (g *FireGuard) Claim(ctx context.Context, templateID string, slot int, at time.Time) (bool, error) {
	key := FireKey(templateID, slot, at)
	ok, err := g.client.SetNX(ctx, key, at.UTC().Format(time.RFC3339), g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim %s: %w", key, err)
	}
	if !ok {
		slog.Debug("slot already claimed", "key", key)
	}
	return ok, nil
}

// Release drops a claim so a later pass in the same minute may retry.
func (g *FireGuard) Release(ctx context.Context, templateID string, slot int, at time.Time) {
	key := FireKey(templateID, slot, at)
	if err := g.client.Del(ctx, key).Err(); err != nil {
		slog.Warn("fire guard release error", "key", key, "error", err)
	}
}

// FireKey returns the claim key for a template slot in the UTC minute
// containing at.
func FireKey(templateID string, slot int, at time.Time) string {
	return fmt.Sprintf("%s%s:%d:%s", fireKeyPrefix, templateID, slot, at.UTC().Format("200601021504"))
}
