// Package accumulator implements an RSA accumulator: a compact, updatable
// representation of a set of byte strings. Each member is deterministically
// mapped to a prime exponent, and the accumulator state is a generator raised
// to the product of every member's exponent modulo an RSA-style composite.
// A witness for one member lets a verifier check membership against the
// public parameters without learning the rest of the set.
package accumulator

import (
	"fmt"
	"io"
	"math/big"

	"github.com/JumpPrivacy/seta/db"
)

// NonceSize is the length of the random nonce bound to each member.
const NonceSize = 32

// Witness proves membership of a single value: the generator raised to the
// product of every *other* member's exponent, plus the nonce the accumulator
// drew when the value was added. A verifier feeds the nonce back through
// MapToPrime to recover the member's own exponent.
type Witness struct {
	Value *big.Int
	Nonce []byte
}

// Accumulator orchestrates additions and witness generation over a Store. It
// assumes exclusive sequential access to the store: Add is read-modify-write,
// so concurrent callers must serialize around a single Accumulator
// themselves (one writer at a time).
type Accumulator struct {
	store  db.Store
	random io.Reader
}

// New returns an Accumulator over the given store. The random source supplies
// member nonces and must be cryptographically secure; pass crypto/rand.Reader
// outside of tests. The store is expected to already hold the accumulator
// parameters and state.
func New(store db.Store, random io.Reader) *Accumulator {
	return &Accumulator{store: store, random: random}
}

// Add inserts value into the accumulated set: a fresh nonce is drawn, the
// value is mapped to its prime exponent, and the state is raised to that
// exponent. Adding the same value twice is caller error: it mutates the state
// a second time and overwrites the recorded nonce, so the accumulator no
// longer matches the member list. Callers that need idempotence must check
// membership first.
func (a *Accumulator) Add(value []byte) error {
	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(a.random, nonce); err != nil {
		return fmt.Errorf("failed to draw nonce: %w", err)
	}
	exponent, err := MapToPrime(value, nonce)
	if err != nil {
		return err
	}

	modulus, err := a.store.Modulus()
	if err != nil {
		return err
	}
	state, err := a.store.State()
	if err != nil {
		return err
	}

	if err := a.store.SetState(state.Exp(state, exponent, modulus)); err != nil {
		return err
	} else if err := a.store.PutMember(value, nonce); err != nil {
		return err
	}
	return a.store.Commit()
}

// Witness returns the membership witness for value, or nil if the value was
// never added. A nil witness is a normal negative answer, not an error. The
// witness is
// computed by folding the generator through every other member's exponent, so
// the cost is linear in the size of the set, with one hash-to-prime search
// and one modular exponentiation per member.
func (a *Accumulator) Witness(value []byte) (*Witness, error) {
	nonce, err := a.store.MemberNonce(value)
	if err != nil {
		return nil, err
	} else if nonce == nil {
		return nil, nil
	}

	witness, err := a.store.Generator()
	if err != nil {
		return nil, err
	}
	modulus, err := a.store.Modulus()
	if err != nil {
		return nil, err
	}
	members, err := a.store.Members()
	if err != nil {
		return nil, err
	}

	for _, member := range members {
		if string(member.Value) == string(value) {
			continue
		}
		exponent, err := MapToPrime(member.Value, member.Nonce)
		if err != nil {
			return nil, err
		}
		witness.Exp(witness, exponent, modulus)
	}

	return &Witness{Value: witness, Nonce: nonce}, nil
}
