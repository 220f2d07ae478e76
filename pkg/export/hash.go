package export

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/r3d91ll/meetup/pkg/agent"
)

// HashAlgorithm identifies the hashing algorithm used for listing hashes.
const HashAlgorithm = "SHA-256"

// ListingHash returns a hex SHA-256 over the listing's names and categories
// in order. Equal listings always hash equal, so a round can be reproduced
// from a recorded input hash.
func ListingHash(listing []agent.Agent) string {
	h := sha256.New()
	for _, a := range listing {
		h.Write([]byte(a.Name))
		h.Write([]byte{0})
		h.Write([]byte(a.Category))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ShortHash returns the first 12 characters of a hash for display.
func ShortHash(hash string) string {
	if len(hash) <= 12 {
		return hash
	}
	return strings.ToLower(hash[:12])
}
