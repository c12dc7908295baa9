package ipfilter

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateAddress = errors.New("duplicate address in ip filter list")

	ErrEmptyAddress = errors.New("empty address in ip filter list")
)

// Decision is the outcome of evaluating a request.
type Decision int

const (
	// Start at 1 so the zero value is never mistaken for a verdict.
	//
	// Allow lets the request continue down the handler chain.
	Allow Decision = iota + 1
	// Deny stops the request with a 403 response.
	Deny
)

// String returns the canonical text representation of d.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	default:
		return "unknown"
	}
}

// Reasons attached to a Result.
const (
	ReasonLocal       = "local"
	ReasonListEmpty   = "list_empty"
	ReasonAllowed     = "allowed"
	ReasonDeniedEntry = "denied_entry"
	ReasonNoMatch     = "no_match"
	ReasonNoAddress   = "no_address"
)

// Entry is one configured address with its permit-or-block flag.
type Entry struct {
	Address string `mapstructure:"address" json:"address" yaml:"address"`
	Denied  bool   `mapstructure:"denied" json:"denied" yaml:"denied"`
}

// Result describes how a decision was reached.
type Result struct {
	Decision Decision

	// Reason is one of the Reason* constants.
	Reason string

	// Address is the resolved client address, empty when none was resolved or
	// the request was local.
	Address string

	// Source names the clientaddr source that produced Address.
	Source string
}

// DuplicateAddressError reports an address configured more than once.
type DuplicateAddressError struct {
	Address string
	First   int
	Second  int
}

func (e *DuplicateAddressError) Error() string {
	return fmt.Sprintf("%v: %q (entries %d and %d)", ErrDuplicateAddress, e.Address, e.First, e.Second)
}

func (e *DuplicateAddressError) Unwrap() error {
	return ErrDuplicateAddress
}
