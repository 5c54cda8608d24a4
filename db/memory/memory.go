// Package memory provides an in-memory implementation of the database
// interfaces.
package memory

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/JumpPrivacy/seta/db"
)

func dup(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Store holds an accumulator entirely in memory. It is the reference Store
// implementation, used in tests and anywhere durability isn't needed.
type Store struct {
	Gen, Mod, Cur *big.Int
	Nonces        map[string][]byte
}

// NewStore returns a Store with the given parameters and the state
// initialized to the generator, representing the empty set.
func NewStore(generator, modulus *big.Int) *Store {
	return &Store{
		Gen:    new(big.Int).Set(generator),
		Mod:    new(big.Int).Set(modulus),
		Cur:    new(big.Int).Set(generator),
		Nonces: make(map[string][]byte),
	}
}

func (s *Store) Generator() (*big.Int, error) { return new(big.Int).Set(s.Gen), nil }
func (s *Store) Modulus() (*big.Int, error)   { return new(big.Int).Set(s.Mod), nil }
func (s *Store) State() (*big.Int, error)     { return new(big.Int).Set(s.Cur), nil }

func (s *Store) SetState(state *big.Int) error {
	s.Cur = new(big.Int).Set(state)
	return nil
}

func (s *Store) MemberNonce(value []byte) ([]byte, error) {
	return dup(s.Nonces[fmt.Sprintf("%x", value)]), nil
}

func (s *Store) PutMember(value, nonce []byte) error {
	s.Nonces[fmt.Sprintf("%x", value)] = dup(nonce)
	return nil
}

func (s *Store) Members() ([]db.Member, error) {
	out := make([]db.Member, 0, len(s.Nonces))
	for key, nonce := range s.Nonces {
		value, err := hex.DecodeString(key)
		if err != nil {
			return nil, fmt.Errorf("malformed member key %q: %v", key, err)
		}
		out = append(out, db.Member{Value: value, Nonce: dup(nonce)})
	}
	return out, nil
}

func (s *Store) Commit() error { return nil }
