package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey returns prefix:sha256(json(parts)). Hover options are hashed so
// keys stay short however many subplots or selectors they name.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data. Figure revisions are a prefix of
// the hash of the encoded document.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
