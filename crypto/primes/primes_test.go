package primes

import (
	"crypto/rand"
	"math/big"
	"testing"
)

func TestIsPrime(t *testing.T) {
	for _, tc := range []struct {
		candidate string
		want      bool
	}{
		{"0", false},
		{"1", false},
		{"2", true},
		{"3", true},
		{"29", true},
		{"87", false}, // 3 * 29
		{"997", true},
		{"1009", true},                  // smallest prime past the table
		{"1022117", false},              // 1009 * 1013, no factor in the table
		{"55340232221128654847", true},  // known prime just below 2^66
		{"55340232221128654848", false}, // its successor
	} {
		candidate, ok := new(big.Int).SetString(tc.candidate, 10)
		if !ok {
			t.Fatalf("failed to parse candidate: %v", tc.candidate)
		}
		if got := IsPrime(rand.Reader, candidate); got != tc.want {
			t.Errorf("IsPrime(%v): got %v, want %v", tc.candidate, got, tc.want)
		}
	}
}

func TestRandom(t *testing.T) {
	p, err := Random(rand.Reader, 128)
	if err != nil {
		t.Fatal(err)
	}
	if p.BitLen() > 128 {
		t.Errorf("prime is too large: %v bits", p.BitLen())
	}
	if !IsPrime(rand.Reader, p) {
		t.Errorf("returned value is not prime: %v", p)
	}
}

func TestRandomTooSmall(t *testing.T) {
	if _, err := Random(rand.Reader, 1); err == nil {
		t.Error("expected an error for a 1-bit prime request")
	}
}

func TestDistinctPair(t *testing.T) {
	a, b, err := DistinctPair(rand.Reader, 96)
	if err != nil {
		t.Fatal(err)
	}
	if a.Cmp(b) == 0 {
		t.Error("returned primes are equal")
	}
	for _, p := range []*big.Int{a, b} {
		if p.BitLen() > 96 {
			t.Errorf("prime is too large: %v bits", p.BitLen())
		}
		if !IsPrime(rand.Reader, p) {
			t.Errorf("returned value is not prime: %v", p)
		}
	}
}
