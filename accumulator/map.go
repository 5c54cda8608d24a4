package accumulator

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/JumpPrivacy/seta/crypto/primes"
)

// maxIncrements bounds the incrementing prime search in MapToPrime. Primes
// near 2^256 are about 1/177 of all integers, so hitting this limit means the
// primality test is broken, not that the search was unlucky.
const maxIncrements = 1 << 16

var one = big.NewInt(1)

// MapToPrime deterministically derives a prime exponent from a (value, nonce)
// pair: SHA-256(value || nonce) is read as a big-endian integer and
// incremented until it passes the primality test. The same pair always yields
// the same prime, which is what lets a verifier holding only the nonce
// recompute the exponent the accumulator used.
func MapToPrime(value, nonce []byte) (*big.Int, error) {
	digest := sha256.Sum256(append(dup(value), nonce...))
	candidate := new(big.Int).SetBytes(digest[:])

	for i := 0; i < maxIncrements; i++ {
		if primes.IsPrime(rand.Reader, candidate) {
			return candidate, nil
		}
		candidate.Add(candidate, one)
	}

	return nil, fmt.Errorf("mapping value to a prime: %w", primes.ErrSearchExhausted)
}

// Verify reports whether witness proves that value is a member of the
// accumulator with the given public modulus and current state. It recomputes
// the member's exponent from the witness nonce and checks that raising the
// witness to it lands back on the state. A nil witness, as returned for a
// value that was never added, verifies as false.
func Verify(value []byte, witness *Witness, modulus, state *big.Int) (bool, error) {
	if witness == nil {
		return false, nil
	}
	exponent, err := MapToPrime(value, witness.Nonce)
	if err != nil {
		return false, err
	}
	return new(big.Int).Exp(witness.Value, exponent, modulus).Cmp(state) == 0, nil
}

func dup(in []byte) []byte {
	out := make([]byte, 0, len(in))
	return append(out, in...)
}
