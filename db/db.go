// Package db implements database wrappers that match a common interface.
package db

import "math/big"

// Member associates an accumulated value with the nonce that was drawn when
// the value was added.
type Member struct {
	Value []byte
	Nonce []byte
}

// Store is the interface the accumulator engine uses to communicate with its
// database. Generator and Modulus are fixed when the accumulator is
// constructed; State and the member list are mutated by additions.
//
// Implementations return owned copies of every big integer and byte slice so
// that callers can mutate results without aliasing the stored values.
type Store interface {
	Generator() (*big.Int, error)
	Modulus() (*big.Int, error)

	// State returns the current accumulator state, and SetState replaces it.
	State() (*big.Int, error)
	SetState(*big.Int) error

	// MemberNonce returns the nonce recorded for value, or nil if the value
	// has never been added.
	MemberNonce(value []byte) ([]byte, error)
	// PutMember records the nonce used for value, overwriting any previous
	// entry for the same value.
	PutMember(value, nonce []byte) error
	// Members returns every recorded (value, nonce) pair. The order carries
	// no meaning.
	Members() ([]Member, error)

	// Commit flushes any writes staged by SetState and PutMember, so that a
	// state update and the member entry that caused it land together.
	Commit() error
}
