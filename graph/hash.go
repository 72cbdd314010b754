package graph

import (
	"fmt"
	"strings"

	"github.com/minio/highwayhash"
)

var key = []byte("0123456789ABCDEF0123456789ABCDEF")

// Hash returns the 64 bit highwayhash of data.
func Hash(data []byte) (uint64, error) {
	hash, err := highwayhash.New64(key)
	if err != nil {
		return 0, err
	}
	_, err = hash.Write(data)
	return hash.Sum64(), err
}

// Digest fingerprints the loaded content of the unit as 16 hex digits.
func (u *Unit) Digest() (string, error) {
	sum, err := Hash([]byte(strings.Join(u.Lines, "\n")))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", sum), nil
}
