package wire

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"main/internal/errors"
)

// Digest signs an authentication payload. The message is
// "key=<keyID>;time=<seconds>", the key is the hex-decoded API secret, the
// result is lowercase hex of the HMAC-SHA256. Deterministic, no side effects.
func Digest(keyID, keySecretHex string, seconds uint64) (string, error) {
	if len(keySecretHex)%2 != 0 {
		keySecretHex = "0" + keySecretHex
	}

	key, err := hex.DecodeString(keySecretHex)
	if err != nil {
		return "", errors.Wrap(err, "decode api secret")
	}

	mac := hmac.New(sha256.New, key)
	fmt.Fprintf(mac, "key=%s;time=%d", keyID, seconds)
	return hex.EncodeToString(mac.Sum(nil)), nil
}
