// Package primes implements probabilistic primality testing and random prime
// generation, suitable for building RSA-style moduli.
package primes

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
)

// DefaultTrials is the number of independent Miller-Rabin witness trials run
// by IsPrime. The probability of accepting a composite is bounded by
// 4^-DefaultTrials, and is far smaller for random candidates.
const DefaultTrials = 5

// maxCandidates bounds how many random candidates a prime search tests before
// giving up. Prime density near 2^b is roughly 1/(b ln 2), so this limit is
// only reachable if the randomness source is broken.
const maxCandidates = 1 << 17

// ErrSearchExhausted is returned when a prime search tests its maximum number
// of candidates without finding a prime.
var ErrSearchExhausted = errors.New("prime search exhausted")

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// smallPrimes lists every prime below 1000.
var smallPrimes = []int64{
	2, 3, 5, 7, 11, 13, 17, 19, 23, 29,
	31, 37, 41, 43, 47, 53, 59, 61, 67, 71,
	73, 79, 83, 89, 97, 101, 103, 107, 109, 113,
	127, 131, 137, 139, 149, 151, 157, 163, 167, 173,
	179, 181, 191, 193, 197, 199, 211, 223, 227, 229,
	233, 239, 241, 251, 257, 263, 269, 271, 277, 281,
	283, 293, 307, 311, 313, 317, 331, 337, 347, 349,
	353, 359, 367, 373, 379, 383, 389, 397, 401, 409,
	419, 421, 431, 433, 439, 443, 449, 457, 461, 463,
	467, 479, 487, 491, 499, 503, 509, 521, 523, 541,
	547, 557, 563, 569, 571, 577, 587, 593, 599, 601,
	607, 613, 617, 619, 631, 641, 643, 647, 653, 659,
	661, 673, 677, 683, 691, 701, 709, 719, 727, 733,
	739, 743, 751, 757, 761, 769, 773, 787, 797, 809,
	811, 821, 823, 827, 829, 839, 853, 857, 859, 863,
	877, 881, 883, 887, 907, 911, 919, 929, 937, 941,
	947, 953, 967, 971, 977, 983, 991, 997,
}

// IsPrime reports whether candidate is prime. Candidates are first checked
// against a table of small primes: equality means prime, divisibility means
// composite. Anything the table doesn't resolve goes through Miller-Rabin
// with DefaultTrials witness trials, where `random` supplies the witnesses.
// The random source must not fail; crypto/rand.Reader is the usual choice.
func IsPrime(random io.Reader, candidate *big.Int) bool {
	return IsPrimeTrials(random, candidate, DefaultTrials)
}

// IsPrimeTrials is IsPrime with an explicit Miller-Rabin trial count.
func IsPrimeTrials(random io.Reader, candidate *big.Int, trials int) bool {
	if candidate.Sign() <= 0 || candidate.Cmp(one) == 0 {
		return false
	}

	mod := new(big.Int)
	for _, p := range smallPrimes {
		sp := big.NewInt(p)
		if candidate.Cmp(sp) == 0 {
			return true
		} else if mod.Mod(candidate, sp).Sign() == 0 {
			return false
		}
	}
	// Every integer in [2, 1000] was resolved above, so the candidate is now
	// known to be odd and greater than 3.
	return millerRabin(random, candidate, trials)
}

// millerRabin runs `trials` strong-pseudoprime tests against candidate, which
// must be odd and greater than 3. It returns false as soon as any witness
// proves the candidate composite.
func millerRabin(random io.Reader, candidate *big.Int, trials int) bool {
	// Write candidate-1 = 2^t * d with d odd.
	nMinusOne := new(big.Int).Sub(candidate, one)
	d := new(big.Int).Set(nMinusOne)
	t := 0
	for d.Bit(0) == 0 {
		d.Rsh(d, 1)
		t++
	}

	span := new(big.Int).Sub(candidate, big.NewInt(3))
	v := new(big.Int)
	for trial := 0; trial < trials; trial++ {
		// Witness drawn uniformly from [2, candidate-2].
		a, err := rand.Int(random, span)
		if err != nil {
			panic(fmt.Sprintf("failed to draw primality witness: %v", err))
		}
		a.Add(a, two)

		v.Exp(a, d, candidate)
		if v.Cmp(one) == 0 || v.Cmp(nMinusOne) == 0 {
			continue
		}
		witnessed := false
		for i := 0; i < t-1; i++ {
			v.Exp(v, two, candidate)
			if v.Cmp(nMinusOne) == 0 {
				witnessed = true
				break
			}
		}
		if !witnessed {
			return false
		}
	}

	return true
}

// Random returns a uniformly random prime of at most the requested bit
// length. It returns ErrSearchExhausted if no prime is found within the
// candidate budget.
func Random(random io.Reader, bits int) (*big.Int, error) {
	if bits < 2 {
		return nil, fmt.Errorf("bit length too small to contain a prime: %v", bits)
	}

	buf := make([]byte, (bits+7)/8)
	candidate := new(big.Int)
	for i := 0; i < maxCandidates; i++ {
		if _, err := io.ReadFull(random, buf); err != nil {
			return nil, fmt.Errorf("failed to read randomness: %w", err)
		}
		if rem := bits % 8; rem != 0 {
			buf[0] &= 1<<rem - 1
		}
		candidate.SetBytes(buf)

		if IsPrime(random, candidate) {
			return candidate, nil
		}
	}

	return nil, ErrSearchExhausted
}

// DistinctPair returns two distinct random primes of the requested bit
// length. The two searches are independent and CPU-bound, so they run as two
// goroutines and are joined before returning; the random source must be safe
// for concurrent use (crypto/rand.Reader is). In the astronomically unlikely
// event the searches collide, the second prime is resampled until the pair is
// distinct.
func DistinctPair(random io.Reader, bits int) (*big.Int, *big.Int, error) {
	type result struct {
		prime *big.Int
		err   error
	}
	ch := make(chan result, 2)
	for i := 0; i < 2; i++ {
		go func() {
			p, err := Random(random, bits)
			ch <- result{p, err}
		}()
	}

	first, second := <-ch, <-ch
	if first.err != nil {
		return nil, nil, first.err
	} else if second.err != nil {
		return nil, nil, second.err
	}

	a, b := first.prime, second.prime
	for a.Cmp(b) == 0 {
		var err error
		if b, err = Random(random, bits); err != nil {
			return nil, nil, err
		}
	}
	return a, b, nil
}
