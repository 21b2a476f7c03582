// Package store archives commitment lists and serialized range proofs so a
// prover can serve them without recomputing.
package store

import (
	"encoding"
	"encoding/binary"
	"os"
	"sync"
	"vid/index"
	"vid/vid"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

var ErrNotFound = errors.New("not found")

// KV is the key value backend of a Store.
type KV interface {
	Get(key []byte) ([]byte, error)
	Put(key []byte, val []byte) error
	Close() error
}

type DB struct {
	levelDB *leveldb.DB
	path    string
}

func NewDB(path string) (*DB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed opening %s", path)
	}
	return &DB{levelDB: db, path: path}, nil
}

// NewMemLevelDB opens a leveldb instance kept entirely in memory.
func NewMemLevelDB() (*DB, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed opening in-memory leveldb")
	}
	return &DB{levelDB: db}, nil
}

func (db *DB) Get(key []byte) ([]byte, error) {
	data, err := db.levelDB.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "leveldb get")
	}
	return data, nil
}

func (db *DB) Put(key []byte, val []byte) error {
	return errors.Wrap(db.levelDB.Put(key, val, nil), "leveldb put")
}

func (db *DB) Close() error {
	return db.levelDB.Close()
}

// Destroy closes the database and removes its files.
func (db *DB) Destroy() error {
	if err := db.Close(); err != nil {
		return err
	}
	if db.path == "" {
		return nil
	}
	return os.RemoveAll(db.path)
}

type MemDB struct {
	lock sync.RWMutex
	m    map[string][]byte
}

func NewMemDB() *MemDB {
	return &MemDB{m: make(map[string][]byte)}
}

func (m *MemDB) Get(key []byte) ([]byte, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	val, exists := m.m[string(key)]
	if !exists {
		return nil, ErrNotFound
	}
	return val, nil
}

func (m *MemDB) Put(key []byte, val []byte) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.m[string(key)] = append([]byte(nil), val...)
	return nil
}

func (m *MemDB) Close() error {
	return nil
}

// Kind tells the two proof encodings apart.
type Kind byte

const (
	SmallRange Kind = 's'
	LargeRange Kind = 'l'
)

func (k Kind) String() string {
	switch k {
	case SmallRange:
		return "small"
	case LargeRange:
		return "large"
	default:
		return "unknown"
	}
}

func ParseKind(s string) (Kind, error) {
	switch s {
	case "small":
		return SmallRange, nil
	case "large":
		return LargeRange, nil
	default:
		return 0, errors.Errorf("unknown proof kind %q, expect small or large", s)
	}
}

const (
	commonPrefix = 'c'
	proofPrefix  = 'p'
)

// Store keeps Common lists keyed by commit and proofs keyed by commit, kind
// and range.
type Store struct {
	kv KV
}

func New(kv KV) *Store {
	return &Store{kv: kv}
}

func (s *Store) Close() error {
	return s.kv.Close()
}

func (s *Store) PutCommon(commit vid.Commit, c *vid.Common) error {
	return s.put(commonKey(commit), c)
}

func (s *Store) GetCommon(commit vid.Commit) (*vid.Common, error) {
	var c vid.Common
	if err := s.get(commonKey(commit), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) PutSmallRangeProof(commit vid.Commit, proof *vid.SmallRangeProof) error {
	return s.put(proofKey(commit, SmallRange, proof.ChunkRange), proof)
}

func (s *Store) GetSmallRangeProof(commit vid.Commit, r index.Range) (*vid.SmallRangeProof, error) {
	var proof vid.SmallRangeProof
	if err := s.get(proofKey(commit, SmallRange, r), &proof); err != nil {
		return nil, err
	}
	return &proof, nil
}

func (s *Store) PutLargeRangeProof(commit vid.Commit, proof *vid.LargeRangeProof) error {
	return s.put(proofKey(commit, LargeRange, proof.ChunkRange), proof)
}

func (s *Store) GetLargeRangeProof(commit vid.Commit, r index.Range) (*vid.LargeRangeProof, error) {
	var proof vid.LargeRangeProof
	if err := s.get(proofKey(commit, LargeRange, r), &proof); err != nil {
		return nil, err
	}
	return &proof, nil
}

func (s *Store) put(key []byte, v encoding.BinaryMarshaler) error {
	val, err := v.MarshalBinary()
	if err != nil {
		return err
	}
	return s.kv.Put(key, val)
}

func (s *Store) get(key []byte, v encoding.BinaryUnmarshaler) error {
	val, err := s.kv.Get(key)
	if err != nil {
		return err
	}
	return errors.Wrapf(v.UnmarshalBinary(val), "corrupted entry %x", key)
}

func commonKey(commit vid.Commit) []byte {
	key := make([]byte, 0, 1+vid.CommitSize)
	key = append(key, commonPrefix)
	return append(key, commit[:]...)
}

func proofKey(commit vid.Commit, kind Kind, r index.Range) []byte {
	key := make([]byte, 0, 2+vid.CommitSize+16)
	key = append(key, proofPrefix)
	key = append(key, commit[:]...)
	key = append(key, byte(kind))
	key = binary.BigEndian.AppendUint64(key, uint64(r.Start))
	return binary.BigEndian.AppendUint64(key, uint64(r.End))
}
