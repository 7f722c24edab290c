package crypto

import (
	"crypto/sha256"
	"encoding/base64"
)

// HashToken fingerprints a bearer credential so it can be stored without the secret itself.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
