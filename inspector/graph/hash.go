package graph

import (
	"github.com/minio/highwayhash"
)

var key = []byte("0123456789ABCDEF0123456789ABCDEF")

// Hash returns a 64-bit highwayhash fingerprint of the given parts
func Hash(parts ...[]byte) (uint64, error) {
	hash, err := highwayhash.New64(key)
	if err != nil {
		return 0, err
	}
	for i, part := range parts {
		if i > 0 {
			if _, err = hash.Write([]byte{0}); err != nil {
				return 0, err
			}
		}
		if _, err = hash.Write(part); err != nil {
			return 0, err
		}
	}
	return hash.Sum64(), nil
}
