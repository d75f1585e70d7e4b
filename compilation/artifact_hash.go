package compilation

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// CanonicalJSON re-encodes a raw JSON document with stable key ordering, so that structurally
// identical documents serialize to identical bytes regardless of how the compiler ordered their
// object keys.
func CanonicalJSON(raw json.RawMessage) ([]byte, error) {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("could not canonicalize artifact JSON: %v", err)
	}
	// encoding/json serializes map keys in sorted order.
	return json.Marshal(decoded)
}

// HashArtifact computes the content digest of a contract artifact: the SHA3-256 hash over the
// contract name joined with the canonical JSON serialization of the raw artifact. The digest is
// deterministic and content-addressed; the proof engine uses it as a cache/dedup key.
func HashArtifact(contractName string, raw json.RawMessage) (string, error) {
	canonical, err := CanonicalJSON(raw)
	if err != nil {
		return "", err
	}

	hasher := sha3.New256()
	hasher.Write([]byte(contractName))
	hasher.Write([]byte(" - "))
	hasher.Write(canonical)
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
