package accumulator

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/JumpPrivacy/seta/crypto/primes"
	"github.com/JumpPrivacy/seta/db/memory"
)

// Two fixed 512-bit primes, so tests don't have to run their own prime
// searches to build a realistic modulus.
const (
	testPrimeP = "af71eda53ef1c37253f5ad14eec46c6c5bf8055b85281a16d49831cf6512382e017d265d0f1a3702015d953f339f110211b739bbce1b19ad4fe060c2a122777d"
	testPrimeQ = "90edf93066c39d90ba28e87cd5ab1f361f8a5a3ffb5cb19c0de1a6b45c01f6e6c716c8517d254846d3ccbff1ca2ed57922340de86af684deab152d063923b3e1"
)

func testParams(t *testing.T) (generator, modulus *big.Int) {
	p, ok := new(big.Int).SetString(testPrimeP, 16)
	if !ok {
		t.Fatal("failed to parse test prime")
	}
	q, ok := new(big.Int).SetString(testPrimeQ, 16)
	if !ok {
		t.Fatal("failed to parse test prime")
	}
	modulus = new(big.Int).Mul(p, q)

	for {
		var err error
		generator, err = rand.Int(rand.Reader, modulus)
		if err != nil {
			t.Fatal(err)
		}
		if generator.Sign() != 0 {
			return
		}
	}
}

func random(t *testing.T) []byte {
	out := make([]byte, NonceSize)
	if _, err := rand.Read(out); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestMapToPrimeDeterministic(t *testing.T) {
	value, nonce := []byte("some member"), random(t)

	first, err := MapToPrime(value, nonce)
	if err != nil {
		t.Fatal(err)
	}
	second, err := MapToPrime(value, nonce)
	if err != nil {
		t.Fatal(err)
	}

	if first.Cmp(second) != 0 {
		t.Errorf("two invocations disagree: %v != %v", first, second)
	}
	if !primes.IsPrime(rand.Reader, first) {
		t.Errorf("mapped value is not prime: %v", first)
	}
}

func TestAddAndVerify(t *testing.T) {
	generator, modulus := testParams(t)
	acc := New(memory.NewStore(generator, modulus), rand.Reader)

	value := []byte("Hello World!")
	if err := acc.Add(value); err != nil {
		t.Fatal(err)
	}

	witness, err := acc.Witness(value)
	if err != nil {
		t.Fatal(err)
	} else if witness == nil {
		t.Fatal("no witness returned for a member")
	}

	state, err := acc.store.State()
	if err != nil {
		t.Fatal(err)
	}

	// The whole predicate.
	ok, err := Verify(value, witness, modulus, state)
	if err != nil {
		t.Fatal(err)
	} else if !ok {
		t.Error("witness does not verify")
	}

	// And its two halves, the way an independent verifier would run them.
	exponent, err := MapToPrime(value, witness.Nonce)
	if err != nil {
		t.Fatal(err)
	}
	if new(big.Int).Exp(witness.Value, exponent, modulus).Cmp(state) != 0 {
		t.Error("witness^exponent mod modulus != state")
	}

	// A witness for one value proves nothing about another.
	ok, err = Verify([]byte("Goodbye World!"), witness, modulus, state)
	if err != nil {
		t.Fatal(err)
	} else if ok {
		t.Error("witness verified for a value that was never added")
	}
}

func TestWitnessNotMember(t *testing.T) {
	generator, modulus := testParams(t)
	store := memory.NewStore(generator, modulus)
	acc := New(store, rand.Reader)

	if err := acc.Add([]byte("present")); err != nil {
		t.Fatal(err)
	}
	witness, err := acc.Witness([]byte("absent"))
	if err != nil {
		t.Fatal(err)
	} else if witness != nil {
		t.Error("got a witness for a value that was never added")
	}

	// Feeding the negative answer straight into Verify is a clean false.
	state, err := store.State()
	if err != nil {
		t.Fatal(err)
	}
	ok, err := Verify([]byte("absent"), witness, modulus, state)
	if err != nil {
		t.Fatal(err)
	} else if ok {
		t.Error("nil witness verified as a member")
	}
}

func TestMultiMember(t *testing.T) {
	generator, modulus := testParams(t)
	store := memory.NewStore(generator, modulus)
	acc := New(store, rand.Reader)

	values := [][]byte{[]byte("v1"), []byte("v2"), []byte("v3")}
	for _, value := range values {
		if err := acc.Add(value); err != nil {
			t.Fatal(err)
		}
	}
	state, err := store.State()
	if err != nil {
		t.Fatal(err)
	}

	// Every member verifies individually against the final state.
	for _, value := range values {
		witness, err := acc.Witness(value)
		if err != nil {
			t.Fatal(err)
		} else if witness == nil {
			t.Fatalf("no witness returned for %q", value)
		}
		ok, err := Verify(value, witness, modulus, state)
		if err != nil {
			t.Fatal(err)
		} else if !ok {
			t.Errorf("witness for %q does not verify", value)
		}
	}

	// The final state is the generator raised to the product of all three
	// exponents, independent of the order they were multiplied in.
	product := big.NewInt(1)
	for _, value := range values {
		nonce, err := store.MemberNonce(value)
		if err != nil {
			t.Fatal(err)
		}
		exponent, err := MapToPrime(value, nonce)
		if err != nil {
			t.Fatal(err)
		}
		product.Mul(product, exponent)
	}
	if new(big.Int).Exp(generator, product, modulus).Cmp(state) != 0 {
		t.Error("state does not equal generator^(product of exponents)")
	}
}
