package ipfilter

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewList(t *testing.T) {
	list, err := NewList([]Entry{
		{Address: " 192.168.0.196 "},
		{Address: "192.168.0.197", Denied: true},
	})
	if err != nil {
		t.Fatalf("NewList() error = %v", err)
	}

	want := []Entry{
		{Address: "192.168.0.196"},
		{Address: "192.168.0.197", Denied: true},
	}
	if diff := cmp.Diff(want, list.Entries()); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}

	if denied, found := list.lookup("192.168.0.197"); !found || !denied {
		t.Errorf("lookup() = %v, %v, want true, true", denied, found)
	}
	if _, found := list.lookup("192.168.0.198"); found {
		t.Error("lookup() found unlisted address")
	}
}

func TestNewList_Duplicate(t *testing.T) {
	_, err := NewList([]Entry{
		{Address: "10.0.0.1"},
		{Address: "10.0.0.2"},
		{Address: "10.0.0.1", Denied: true},
	})
	if !errors.Is(err, ErrDuplicateAddress) {
		t.Fatalf("NewList() error = %v, want ErrDuplicateAddress", err)
	}

	var dupErr *DuplicateAddressError
	if !errors.As(err, &dupErr) {
		t.Fatalf("error type = %T, want *DuplicateAddressError", err)
	}

	want := &DuplicateAddressError{Address: "10.0.0.1", First: 0, Second: 2}
	if diff := cmp.Diff(want, dupErr); diff != "" {
		t.Errorf("DuplicateAddressError mismatch (-want +got):\n%s", diff)
	}
}

func TestNewList_Empty(t *testing.T) {
	list, err := NewList(nil)
	if err != nil {
		t.Fatalf("NewList(nil) error = %v", err)
	}
	if list.Len() != 0 || list.Entries() != nil {
		t.Errorf("empty list = %+v, want zero", list)
	}
}

func TestNewList_EmptyAddress(t *testing.T) {
	if _, err := NewList([]Entry{{Address: ""}}); !errors.Is(err, ErrEmptyAddress) {
		t.Errorf("NewList() error = %v, want ErrEmptyAddress", err)
	}
}

func TestList_EntriesIsCopy(t *testing.T) {
	list := MustNewList([]Entry{{Address: "10.0.0.1"}})
	entries := list.Entries()
	entries[0].Denied = true

	if denied, _ := list.lookup("10.0.0.1"); denied {
		t.Error("mutating Entries() result changed the list")
	}
	if list.Entries()[0].Denied {
		t.Error("mutating Entries() result changed later copies")
	}
}
