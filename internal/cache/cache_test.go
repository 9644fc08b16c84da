// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, fireKeyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	client, err := ConnectValkey(envOr("VALKEY_HOST", "localhost"), envOr("VALKEY_PORT", "6379"), os.Getenv("VALKEY_PASSWORD"))
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	pong, err := client.Ping(context.Background()).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestFireKey(t *testing.T) {
	at := time.Date(2024, 1, 1, 9, 0, 42, 0, time.UTC)
	want := "fire:t1:0:202401010900"
	if got := FireKey("t1", 0, at); got != want {
		t.Errorf("FireKey = %q, want %q", got, want)
	}

	// Same instant expressed in another zone maps to the same key.
	loc := time.FixedZone("UTC+2", 2*3600)
	if got := FireKey("t1", 0, at.In(loc)); got != want {
		t.Errorf("FireKey in other zone = %q, want %q", got, want)
	}

	if FireKey("t1", 0, at.Add(time.Minute)) == want {
		t.Error("next minute must use a different key")
	}
}

func TestFireGuardClaimOnce(t *testing.T) {
	client := testValkeyClient(t)
	g := NewFireGuard(client, time.Minute)
	ctx := context.Background()
	at := time.Now().UTC()

	ok, err := g.Claim(ctx, "guard-test", 0, at)
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if !ok {
		t.Fatal("first claim should win")
	}

	ok, err = g.Claim(ctx, "guard-test", 0, at.Add(time.Second))
	if err != nil {
		t.Fatalf("second Claim: %v", err)
	}
	if ok && at.Add(time.Second).Minute() == at.Minute() {
		t.Error("second claim in the same minute should lose")
	}

	ok, err = g.Claim(ctx, "guard-test", 1, at)
	if err != nil || !ok {
		t.Errorf("other slot should be claimable, ok=%v err=%v", ok, err)
	}
}

func TestFireGuardRelease(t *testing.T) {
	client := testValkeyClient(t)
	g := NewFireGuard(client, time.Minute)
	ctx := context.Background()
	at := time.Now().UTC()

	if ok, _ := g.Claim(ctx, "release-test", 0, at); !ok {
		t.Fatal("first claim should win")
	}
	g.Release(ctx, "release-test", 0, at)
	if ok, _ := g.Claim(ctx, "release-test", 0, at); !ok {
		t.Error("claim after release should win")
	}
}

func TestNewFireGuardDefaultTTL(t *testing.T) {
	g := NewFireGuard(nil, 0)
	if g.ttl != DefaultClaimTTL {
		t.Errorf("expected DefaultClaimTTL (%v), got %v", DefaultClaimTTL, g.ttl)
	}
}
