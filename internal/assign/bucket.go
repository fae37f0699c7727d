// Package assign holds the deterministic bucketing and variant selection
// logic. Both functions are pure: no state, no locking, stable across
// process restarts. The bucket a user lands in decides which variant a
// returning user keeps seeing, so the hashing here is a compatibility
// contract and must reproduce the historical scheme byte for byte.
package assign

import (
	"crypto/md5"
	"math/big"
)

// Bucket maps a (subject, experiment) pair to a stable integer in [0,100).
// The pair is joined with ":" and hashed with MD5; the digest is read as a
// big unsigned integer and reduced mod 100. MD5 is used for partitioning
// only, never for security. Empty strings are valid inputs.
func Bucket(subjectID, experimentID string) int {
	sum := md5.Sum([]byte(subjectID + ":" + experimentID))
	n := new(big.Int).SetBytes(sum[:])
	return int(new(big.Int).Mod(n, big.NewInt(100)).Int64())
}
