// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"context"
	"sync"
	"time"
)

// NewMemoryStore creates a session store that keeps sessions in process
// memory. Sessions are lost on restart; use it for development and tests.
func NewMemoryStore(secure bool, secret string) *Store {
	return newStore(&memoryBackend{entries: make(map[string]memoryEntry)}, secure, secret)
}

type memoryEntry struct {
	payload []byte
	expires time.Time
}

type memoryBackend struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

func (b *memoryBackend) load(_ context.Context, id string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.live(id)
	if !ok {
		return nil, false, nil
	}
	return e.payload, true, nil
}

func (b *memoryBackend) store(_ context.Context, id string, payload []byte, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[id] = memoryEntry{payload: payload, expires: time.Now().Add(ttl)}
	return nil
}

func (b *memoryBackend) exists(_ context.Context, id string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.live(id)
	return ok, nil
}

func (b *memoryBackend) remove(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, id)
	return nil
}

// live returns the entry for id, dropping it when expired. Callers hold mu.
func (b *memoryBackend) live(id string) (memoryEntry, bool) {
	e, ok := b.entries[id]
	if !ok {
		return memoryEntry{}, false
	}
	if time.Now().After(e.expires) {
		delete(b.entries, id)
		return memoryEntry{}, false
	}
	return e, true
}
