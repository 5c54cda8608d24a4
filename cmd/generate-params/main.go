// Command generate-params outputs fresh RSA accumulator parameters: a
// modulus built from two random secret primes, and a random generator. The
// secret primes are discarded after the modulus is computed and are never
// printed.
package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"log"
	"math/big"

	"github.com/JumpPrivacy/seta/crypto/primes"
)

var (
	bits = flag.Int("bits", 512, "Bit length of each secret prime.")
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	flag.Parse()

	p, q, err := primes.DistinctPair(rand.Reader, *bits)
	if err != nil {
		log.Fatalf("Failed to generate primes: %v", err)
	}
	modulus := new(big.Int).Mul(p, q)

	var generator *big.Int
	for {
		generator, err = rand.Int(rand.Reader, modulus)
		if err != nil {
			log.Fatalf("Failed to generate generator: %v", err)
		}
		if generator.Sign() != 0 {
			break
		}
	}

	fmt.Printf("Generator: %x\n", generator)
	fmt.Printf("Modulus:   %x\n", modulus)
}
