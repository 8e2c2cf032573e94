package redact

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
)

// HashedObjID derives a replacement object ID from a salted SHA-256 hash of
// the original (catID, objID) pair. The first 8 bytes of the digest are read
// little-endian and reduced modulo MaxInt64, so the result is always
// non-negative and fits the datamodel's signed 64-bit object ID column.
//
// The derivation is deterministic for a given salt, so the same catalog
// object maps to the same masked ID across outputs, without revealing the
// original ID to anyone who does not hold the salt.
func HashedObjID(salt string, catID int32, objID int64) (int64, error) {
	if salt == "" {
		return 0, ErrMissingSalt
	}

	sum := sha256.Sum256([]byte(fmt.Sprintf("%s%d:%d", salt, catID, objID)))
	v := binary.LittleEndian.Uint64(sum[:8])
	return int64(v % uint64(math.MaxInt64)), nil
}
