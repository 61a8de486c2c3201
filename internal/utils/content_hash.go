package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// HashRows generates a SHA256 hash of the canonical JSON encoding of row
// data. encoding/json sorts map keys, so two row sets with the same content
// always hash identically regardless of insertion order. The autosave
// scheduler compares these hashes to skip redundant saves.
func HashRows(rows any) string {
	encoded, err := json.Marshal(rows)
	if err != nil {
		// Row payloads come from decoded JSON and always re-encode; an error
		// here means a non-serializable value sneaked in, and an empty hash
		// simply forces the next save through.
		return ""
	}
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:])
}
