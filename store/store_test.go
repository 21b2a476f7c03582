package store

import (
	"crypto/rand"
	"math/big"
	"path/filepath"
	"testing"
	"vid/index"
	"vid/pp"
	"vid/vid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheme(t *testing.T) *vid.Scheme {
	params, err := pp.NewPublicParamsFromSecret(4, big.NewInt(42))
	require.NoError(t, err)
	s, err := vid.New(4, params)
	require.NoError(t, err)
	return s
}

func backends(t *testing.T) map[string]KV {
	db, err := NewDB(filepath.Join(t.TempDir(), "levelDB"))
	require.NoError(t, err)
	memLevelDB, err := NewMemLevelDB()
	require.NoError(t, err)
	return map[string]KV{
		"leveldb":        db,
		"leveldb-memory": memLevelDB,
		"memdb":          NewMemDB(),
	}
}

func TestStore(t *testing.T) {
	s := newTestScheme(t)
	payload := make([]byte, 300)
	_, err := rand.Read(payload)
	require.NoError(t, err)

	commit, c, err := s.Commit(payload)
	require.NoError(t, err)

	r := index.Range{Start: 130, End: 190}
	small, err := s.SmallRange().PayloadProof(payload, r)
	require.NoError(t, err)
	large, err := s.LargeRange().PayloadProof(payload, r)
	require.NoError(t, err)

	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			st := New(kv)
			defer st.Close()

			_, err := st.GetCommon(commit)
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, st.PutCommon(commit, c))
			require.NoError(t, st.PutSmallRangeProof(commit, small))
			require.NoError(t, st.PutLargeRangeProof(commit, large))

			storedCommon, err := st.GetCommon(commit)
			require.NoError(t, err)
			storedSmall, err := st.GetSmallRangeProof(commit, r)
			require.NoError(t, err)
			storedLarge, err := st.GetLargeRangeProof(commit, r)
			require.NoError(t, err)

			stmt := vid.Statement{
				PayloadSubslice: payload[r.Start:r.End],
				Range:           r,
				Commit:          &commit,
				Common:          storedCommon,
			}
			ok, err := s.SmallRange().PayloadVerify(stmt, storedSmall)
			require.NoError(t, err)
			assert.True(t, ok)
			ok, err = s.LargeRange().PayloadVerify(stmt, storedLarge)
			require.NoError(t, err)
			assert.True(t, ok)

			_, err = st.GetSmallRangeProof(commit, index.Range{Start: 130, End: 191})
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestCorruptedEntry(t *testing.T) {
	kv := NewMemDB()
	st := New(kv)

	var commit vid.Commit
	require.NoError(t, kv.Put(commonKey(commit), []byte{1, 2, 3}))

	_, err := st.GetCommon(commit)
	assert.ErrorIs(t, err, vid.ErrMalformedProof)
}

func TestDestroy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "levelDB")
	db, err := NewDB(path)
	require.NoError(t, err)
	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	require.NoError(t, db.Destroy())

	assert.NoDirExists(t, path)
}

func TestKind(t *testing.T) {
	for _, k := range []Kind{SmallRange, LargeRange} {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	_, err := ParseKind("medium")
	assert.Error(t, err)
}
