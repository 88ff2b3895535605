// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package bridge

import (
	"errors"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Contact is a phone book entry.
type Contact struct {
	Name   string
	Number string
}

var (
	// ErrContactExists is returned when adding a duplicate name.
	ErrContactExists = errors.New("contact already exists")

	// ErrInvalidContact is returned for blank names or numbers.
	ErrInvalidContact = errors.New("contact needs a name and a number")
)

// ContactBook is the in-memory contact list. It is safe for concurrent
// use; the config watcher replaces entries while the shell reads them.
type ContactBook struct {
	mu      sync.RWMutex
	entries []Contact
}

// NewContactBook returns a book holding a copy of entries.
func NewContactBook(entries []Contact) *ContactBook {
	b := &ContactBook{}
	b.Replace(entries)
	return b
}

// fold normalizes s for caseless comparison. A fresh Caser is used per
// call because Casers carry state.
func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}

// Resolve returns the first contact whose name contains query, ignoring
// case. An exact (folded) match wins over an earlier substring match.
func (b *ContactBook) Resolve(query string) (Contact, bool) {
	q := fold(query)
	if q == "" {
		return Contact{}, false
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, c := range b.entries {
		if fold(c.Name) == q {
			return c, true
		}
	}
	for _, c := range b.entries {
		if strings.Contains(fold(c.Name), q) {
			return c, true
		}
	}
	return Contact{}, false
}

// All returns a snapshot of all contacts in book order.
func (b *ContactBook) All() []Contact {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Contact, len(b.entries))
	copy(out, b.entries)
	return out
}

// Len returns the number of contacts.
func (b *ContactBook) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// Add appends a contact. Names are unique, compared caselessly.
func (b *ContactBook) Add(name, number string) error {
	name, number = strings.TrimSpace(name), strings.TrimSpace(number)
	if name == "" || number == "" {
		return ErrInvalidContact
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.entries {
		if fold(c.Name) == fold(name) {
			return ErrContactExists
		}
	}
	b.entries = append(b.entries, Contact{Name: name, Number: number})
	return nil
}

// Remove deletes the contact resolved by query and returns it.
func (b *ContactBook) Remove(query string) (Contact, bool) {
	c, ok := b.Resolve(query)
	if !ok {
		return Contact{}, false
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, e := range b.entries {
		if e == c {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			return c, true
		}
	}
	return Contact{}, false
}

// Replace swaps the whole book.
func (b *ContactBook) Replace(entries []Contact) {
	cp := make([]Contact, len(entries))
	copy(cp, entries)

	b.mu.Lock()
	b.entries = cp
	b.mu.Unlock()
}
