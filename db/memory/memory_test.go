package memory

import (
	"bytes"
	"math/big"
	"testing"
)

func TestStore(t *testing.T) {
	generator, modulus := big.NewInt(7), big.NewInt(143)
	store := NewStore(generator, modulus)

	if got, err := store.State(); err != nil || got.Cmp(generator) != 0 {
		t.Fatalf("State(): %v, %v", got, err)
	}
	if err := store.SetState(big.NewInt(99)); err != nil {
		t.Fatal(err)
	}
	if got, err := store.State(); err != nil || got.Cmp(big.NewInt(99)) != 0 {
		t.Fatalf("State(): %v, %v", got, err)
	}

	value, nonce := []byte("value"), []byte("nonce")
	if err := store.PutMember(value, nonce); err != nil {
		t.Fatal(err)
	}
	if got, err := store.MemberNonce(value); err != nil || !bytes.Equal(got, nonce) {
		t.Fatalf("MemberNonce(): %q, %v", got, err)
	}
	if got, err := store.MemberNonce([]byte("absent")); err != nil || got != nil {
		t.Fatalf("MemberNonce(): %q, %v", got, err)
	}

	members, err := store.Members()
	if err != nil {
		t.Fatal(err)
	} else if len(members) != 1 {
		t.Fatalf("expected 1 member, got %v", len(members))
	} else if !bytes.Equal(members[0].Value, value) || !bytes.Equal(members[0].Nonce, nonce) {
		t.Fatalf("unexpected member: %q, %q", members[0].Value, members[0].Nonce)
	}
}

func TestStoreReturnsCopies(t *testing.T) {
	store := NewStore(big.NewInt(7), big.NewInt(143))

	g, err := store.Generator()
	if err != nil {
		t.Fatal(err)
	}
	g.SetInt64(1000)
	if got, _ := store.Generator(); got.Cmp(big.NewInt(7)) != 0 {
		t.Fatal("mutating a returned generator changed the stored value")
	}

	if err := store.PutMember([]byte("v"), []byte("n")); err != nil {
		t.Fatal(err)
	}
	nonce, err := store.MemberNonce([]byte("v"))
	if err != nil {
		t.Fatal(err)
	}
	nonce[0] = 'x'
	if got, _ := store.MemberNonce([]byte("v")); !bytes.Equal(got, []byte("n")) {
		t.Fatal("mutating a returned nonce changed the stored value")
	}
}
