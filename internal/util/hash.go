package util

import (
	"encoding/hex"
	"io"

	"github.com/minio/highwayhash"
)

var hashKey = []byte("ifcfilter-content-hash-key-00000")

// ContentHash returns a hex encoded 128 bit HighwayHash of data. It is used
// to detect repeated uploads of the same model file.
func ContentHash(data []byte) (string, error) {
	hash, err := highwayhash.New128(hashKey)
	if err != nil {
		return "", err
	}
	if _, err := hash.Write(data); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// ContentHashReader hashes everything read from r.
func ContentHashReader(r io.Reader) (string, error) {
	hash, err := highwayhash.New128(hashKey)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(hash, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
