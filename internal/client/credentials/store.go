// Package credentials holds the single active bearer credential of the
// client process.
//
// There is exactly one slot. It is written on login, read by every outgoing
// request and cleared on logout or when the API reports the credential as
// expired. Reads never block. Expiry is not checked here: it is whatever the
// server says it is.
package credentials

import "sync/atomic"

// Store is the credential slot shared by the dispatcher, the interceptor and
// the session service.
type Store interface {
	// Get returns the current credential and whether one is present.
	Get() (string, bool)
	// Set replaces the current credential. An empty token clears the slot.
	Set(token string)
	// Clear empties the slot. It is idempotent.
	Clear()
	// Take empties the slot and returns what it held. Of several concurrent
	// callers at most one gets ok == true for a given credential.
	Take() (token string, ok bool)
}

// Memory is a lock-free in-memory Store.
type Memory struct {
	slot atomic.Pointer[string]
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Get() (string, bool) {
	p := m.slot.Load()
	if p == nil {
		return "", false
	}
	return *p, true
}

func (m *Memory) Set(token string) {
	if token == "" {
		m.Clear()
		return
	}
	m.slot.Store(&token)
}

func (m *Memory) Clear() {
	m.slot.Store(nil)
}

func (m *Memory) Take() (string, bool) {
	p := m.slot.Swap(nil)
	if p == nil {
		return "", false
	}
	return *p, true
}
