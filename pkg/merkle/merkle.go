// Package merkle implements the hash-tree used by the shipment anchoring stub.
package merkle

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the hex-encoded SHA-256 of data.
func Hash(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

// Root folds a list of leaf hashes pairwise into a single root hash.
// An odd level duplicates its last leaf.
func Root(leaves []string) string {
	if len(leaves) == 0 {
		return ""
	}
	if len(leaves) == 1 {
		return leaves[0]
	}

	level := make([]string, len(leaves))
	copy(level, leaves)
	if len(level)%2 != 0 {
		level = append(level, level[len(level)-1])
	}

	next := make([]string, 0, len(level)/2)
	for i := 0; i < len(level); i += 2 {
		next = append(next, Hash(level[i]+level[i+1]))
	}

	return Root(next)
}
