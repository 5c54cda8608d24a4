package db

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const (
	ldbGeneratorKey = "params-generator"
	ldbModulusKey   = "params-modulus"
	ldbStateKey     = "state"
	ldbMemberPrefix = "m"
)

func dup(in []byte) []byte {
	out := make([]byte, len(in))
	copy(out, in)
	return out
}

// ldbConn is a wrapper around a base LevelDB database that handles batching
// writes between commits transparently.
type ldbConn struct {
	conn     *leveldb.DB
	readonly bool
	batch    map[string][]byte
}

func newLDBConn(conn *leveldb.DB, readonly bool) *ldbConn {
	return &ldbConn{conn, readonly, make(map[string][]byte)}
}

func (c *ldbConn) Get(key string) ([]byte, error) {
	if value, ok := c.batch[key]; ok {
		return dup(value), nil
	}
	return c.conn.Get([]byte(key), nil)
}

func (c *ldbConn) Put(key string, value []byte) {
	if c.readonly {
		panic("connection is readonly")
	}
	c.batch[key] = dup(value)
}

func (c *ldbConn) Commit() error {
	if c.readonly {
		panic("connection is readonly")
	}

	b := new(leveldb.Batch)
	for key, value := range c.batch {
		b.Put([]byte(key), value)
	}
	if err := c.conn.Write(b, nil); err != nil {
		return err
	}
	c.batch = make(map[string][]byte)
	return nil
}

// LDBStore implements the Store interface over a LevelDB database.
type LDBStore struct {
	conn *ldbConn
}

func NewLDBStore(file string) (*LDBStore, error) {
	conn, err := leveldb.OpenFile(file, nil)
	if errors.IsCorrupted(err) {
		conn, err = leveldb.RecoverFile(file, nil)
	}
	if err != nil {
		return nil, err
	}
	return &LDBStore{newLDBConn(conn, false)}, nil
}

// Clone returns a read-only view of the store with its own write batch,
// suitable for distributing to child goroutines: the underlying LevelDB
// handle is safe for concurrent use, and nothing else is shared with the
// live store. Reads through a clone see only committed data; the mutating
// methods panic.
func (ldb *LDBStore) Clone() Store {
	return &LDBStore{newLDBConn(ldb.conn.conn, true)}
}

// Bootstrap installs the accumulator parameters in a fresh database, with the
// state initialized to the generator (the empty accumulator). If parameters
// are already present they must match the ones given; the state and member
// list are left untouched in that case.
func (ldb *LDBStore) Bootstrap(generator, modulus *big.Int) error {
	existing, err := ldb.conn.Get(ldbGeneratorKey)
	if err == leveldb.ErrNotFound {
		ldb.conn.Put(ldbGeneratorKey, generator.Bytes())
		ldb.conn.Put(ldbModulusKey, modulus.Bytes())
		ldb.conn.Put(ldbStateKey, generator.Bytes())
		return ldb.conn.Commit()
	} else if err != nil {
		return err
	}

	if !bytes.Equal(existing, generator.Bytes()) {
		return fmt.Errorf("database already holds a different generator")
	}
	existing, err = ldb.conn.Get(ldbModulusKey)
	if err != nil {
		return err
	} else if !bytes.Equal(existing, modulus.Bytes()) {
		return fmt.Errorf("database already holds a different modulus")
	}
	return nil
}

func (ldb *LDBStore) getInt(key string) (*big.Int, error) {
	raw, err := ldb.conn.Get(key)
	if err == leveldb.ErrNotFound {
		return nil, fmt.Errorf("database is not bootstrapped: %v missing", key)
	} else if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(raw), nil
}

func (ldb *LDBStore) Generator() (*big.Int, error) { return ldb.getInt(ldbGeneratorKey) }
func (ldb *LDBStore) Modulus() (*big.Int, error)   { return ldb.getInt(ldbModulusKey) }
func (ldb *LDBStore) State() (*big.Int, error)     { return ldb.getInt(ldbStateKey) }

func (ldb *LDBStore) SetState(state *big.Int) error {
	ldb.conn.Put(ldbStateKey, state.Bytes())
	return nil
}

func (ldb *LDBStore) MemberNonce(value []byte) ([]byte, error) {
	nonce, err := ldb.conn.Get(ldbMemberPrefix + fmt.Sprintf("%x", value))
	if err == leveldb.ErrNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return nonce, nil
}

func (ldb *LDBStore) PutMember(value, nonce []byte) error {
	ldb.conn.Put(ldbMemberPrefix+fmt.Sprintf("%x", value), nonce)
	return nil
}

func (ldb *LDBStore) Members() ([]Member, error) {
	out := make([]Member, 0)
	seen := make(map[string]struct{})

	iter := ldb.conn.conn.NewIterator(util.BytesPrefix([]byte(ldbMemberPrefix)), nil)
	defer iter.Release()
	for iter.Next() {
		key := string(iter.Key()[len(ldbMemberPrefix):])
		nonce := dup(iter.Value())
		// Writes staged since the last commit shadow the database.
		if staged, ok := ldb.conn.batch[ldbMemberPrefix+key]; ok {
			nonce = dup(staged)
		}
		value, err := hex.DecodeString(key)
		if err != nil {
			return nil, fmt.Errorf("malformed member key %q: %v", key, err)
		}
		out = append(out, Member{Value: value, Nonce: nonce})
		seen[key] = struct{}{}
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}

	// Staged members the iterator didn't see yet.
	for key, nonce := range ldb.conn.batch {
		if !strings.HasPrefix(key, ldbMemberPrefix) {
			continue
		}
		hexValue := key[len(ldbMemberPrefix):]
		if _, ok := seen[hexValue]; ok {
			continue
		}
		value, err := hex.DecodeString(hexValue)
		if err != nil {
			return nil, fmt.Errorf("malformed member key %q: %v", hexValue, err)
		}
		out = append(out, Member{Value: value, Nonce: dup(nonce)})
	}

	return out, nil
}

func (ldb *LDBStore) Commit() error {
	return ldb.conn.Commit()
}
