// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"sync"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// mockKeyValue is an in-memory INatsKeyValue for repository tests.
type mockKeyValue struct {
	mu       sync.Mutex
	data     map[string][]byte
	getErr   error
	putErr   error
	listErr  error
	putCalls int
}

func newMockKeyValue() *mockKeyValue {
	return &mockKeyValue{data: map[string][]byte{}}
}

func (m *mockKeyValue) Get(_ context.Context, key string) (jetstream.KeyValueEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	value, ok := m.data[key]
	if !ok {
		return nil, jetstream.ErrKeyNotFound
	}
	return &mockKeyValueEntry{key: key, value: value}, nil
}

func (m *mockKeyValue) Put(_ context.Context, key string, value []byte) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putCalls++
	if m.putErr != nil {
		return 0, m.putErr
	}
	m.data[key] = value
	return uint64(m.putCalls), nil
}

func (m *mockKeyValue) ListKeys(_ context.Context, _ ...jetstream.WatchOpt) (jetstream.KeyLister, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	keys := make(chan string, len(m.data))
	for key := range m.data {
		keys <- key
	}
	close(keys)
	return &mockKeyLister{keys: keys}, nil
}

type mockKeyValueEntry struct {
	key   string
	value []byte
}

func (e *mockKeyValueEntry) Bucket() string                  { return "test" }
func (e *mockKeyValueEntry) Key() string                     { return e.key }
func (e *mockKeyValueEntry) Value() []byte                   { return e.value }
func (e *mockKeyValueEntry) Revision() uint64                { return 1 }
func (e *mockKeyValueEntry) Created() time.Time              { return time.Time{} }
func (e *mockKeyValueEntry) Delta() uint64                   { return 0 }
func (e *mockKeyValueEntry) Operation() jetstream.KeyValueOp { return jetstream.KeyValuePut }

type mockKeyLister struct {
	keys chan string
}

func (l *mockKeyLister) Keys() <-chan string { return l.keys }
func (l *mockKeyLister) Stop() error         { return nil }
