// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces session keys in Valkey to avoid collisions.
const keyPrefix = "session:"

type valkeyBackend struct {
	client *redis.Client
}

// NewStore creates a session store backed by the given Valkey client.
// Cookie values are signed with secret; secure sets the cookie Secure flag.
func NewStore(client *redis.Client, secure bool, secret string) *Store {
	return newStore(valkeyBackend{client: client}, secure, secret)
}

func (b valkeyBackend) load(ctx context.Context, id string) ([]byte, bool, error) {
	payload, err := b.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

func (b valkeyBackend) store(ctx context.Context, id string, payload []byte, ttl time.Duration) error {
	return b.client.Set(ctx, keyPrefix+id, payload, ttl).Err()
}

func (b valkeyBackend) exists(ctx context.Context, id string) (bool, error) {
	n, err := b.client.Exists(ctx, keyPrefix+id).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (b valkeyBackend) remove(ctx context.Context, id string) error {
	return b.client.Del(ctx, keyPrefix+id).Err()
}
