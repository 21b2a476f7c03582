package vid

import (
	"crypto/sha256"
	"fmt"
	"hash"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Hasher creates the hash used to fingerprint a commitment list. Its digest
// must be CommitSize bytes long.
type Hasher func() hash.Hash

const (
	SHA256     = "sha256"
	SHA3_256   = "sha3-256"
	Blake2b256 = "blake2b-256"
)

func HasherByName(name string) (Hasher, error) {
	switch name {
	case SHA256, "":
		return sha256.New, nil
	case SHA3_256:
		return sha3.New256, nil
	case Blake2b256:
		return func() hash.Hash {
			h, err := blake2b.New256(nil)
			if err != nil {
				panic(err)
			}
			return h
		}, nil
	default:
		return nil, fmt.Errorf("unknown hasher %q", name)
	}
}
