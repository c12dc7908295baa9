package ipfilter

import (
	"fmt"
	"strings"
)

// List is a validated, immutable allow/deny list keyed by address.
//
// The zero List is empty, which makes a Guard fail open.
type List struct {
	entries map[string]bool
	order   []Entry
}

// NewList validates entries and builds a List.
//
// Surrounding whitespace is trimmed from addresses. Empty addresses and
// addresses configured more than once are rejected; a duplicate is reported
// as a *DuplicateAddressError even when both entries agree on Denied.
func NewList(entries []Entry) (List, error) {
	if len(entries) == 0 {
		return List{}, nil
	}

	list := List{
		entries: make(map[string]bool, len(entries)),
		order:   make([]Entry, 0, len(entries)),
	}
	index := make(map[string]int, len(entries))

	for i, entry := range entries {
		addr := strings.TrimSpace(entry.Address)
		if addr == "" {
			return List{}, fmt.Errorf("entry %d: %w", i, ErrEmptyAddress)
		}

		if first, ok := index[addr]; ok {
			return List{}, &DuplicateAddressError{Address: addr, First: first, Second: i}
		}

		index[addr] = i
		list.entries[addr] = entry.Denied
		list.order = append(list.order, Entry{Address: addr, Denied: entry.Denied})
	}

	return list, nil
}

// MustNewList is like NewList but panics on error.
func MustNewList(entries []Entry) List {
	list, err := NewList(entries)
	if err != nil {
		panic(err)
	}
	return list
}

// Len returns the number of entries.
func (l List) Len() int {
	return len(l.order)
}

// Entries returns a copy of the entries in configuration order.
func (l List) Entries() []Entry {
	if len(l.order) == 0 {
		return nil
	}
	out := make([]Entry, len(l.order))
	copy(out, l.order)
	return out
}

// lookup reports whether addr is listed and, if so, whether it is denied.
func (l List) lookup(addr string) (denied, found bool) {
	denied, found = l.entries[addr]
	return denied, found
}
