package signature

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

/* Signature verification for inbound webhooks.
 * Two HMAC schemes are implemented here; a third (Standard Webhooks) is
 * delegated to the reference library by the provider registry.
 * Verification failures always come back as false, never as a panic or an
 * error: a malformed header is an unauthorized request, not a crash.
 * Errors are reserved for configuration problems (an empty secret), which
 * must fail closed and alert the operator rather than silently accept.
 */

const (
	// SecretPrefix marks a base64-encoded signing secret (Svix convention)
	SecretPrefix = "whsec_"

	// SignatureVersion is the scheme identifier inside signature tokens
	SignatureVersion = "v1"
)

// ErrEmptySecret signals a missing signing secret. Requests verified
// against an empty secret are always rejected.
var ErrEmptySecret = fmt.Errorf("signing secret is empty")

/* secretBytes resolves the raw key material for a configured secret.
 * Secrets carrying the whsec_ prefix are base64-encoded; anything else is
 * used as raw UTF-8 bytes.
 */
func secretBytes(secret string) ([]byte, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	if strings.HasPrefix(secret, SecretPrefix) {
		raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, SecretPrefix))
		if err != nil {
			return nil, fmt.Errorf("decoding base64 secret: %w", err)
		}
		return raw, nil
	}

	return []byte(secret), nil
}

// Sign computes the Svix-style signature over {msgID}.{timestamp}.{payload}
// and returns it base64-encoded.
func Sign(secret, msgID, timestamp string, payload []byte) (string, error) {
	key, err := secretBytes(secret)
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, key)
	fmt.Fprintf(mac, "%s.%s.", msgID, timestamp)
	mac.Write(payload)

	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

/* VerifySvix checks a Svix-style signature header against the payload.
 * The header holds one or more space-separated "v1,<base64>" tokens;
 * multiple tokens appear during secret rotation and the request is valid
 * if any token matches. Comparison is constant-time over the full base64
 * strings.
 */
func VerifySvix(secret, msgID, timestamp string, payload []byte, sigHeader string) (bool, error) {
	if sigHeader == "" || msgID == "" || timestamp == "" {
		if secret == "" {
			return false, ErrEmptySecret
		}
		return false, nil
	}

	expected, err := Sign(secret, msgID, timestamp, payload)
	if err != nil {
		return false, err
	}

	for _, token := range strings.Split(sigHeader, " ") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		parts := strings.SplitN(token, ",", 2)
		if len(parts) != 2 || parts[0] != SignatureVersion {
			continue
		}

		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(expected)) == 1 {
			return true, nil
		}
	}

	return false, nil
}

// SignSHA1Hex computes the legacy HMAC-SHA1 signature over the raw body
// and returns it hex-encoded.
func SignSHA1Hex(secret string, payload []byte) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}

	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write(payload)

	return hex.EncodeToString(mac.Sum(nil)), nil
}

/* VerifySHA1Hex checks a single hex-encoded HMAC-SHA1 signature header
 * computed over the raw body only. The comparison is case-sensitive and
 * constant-time.
 */
func VerifySHA1Hex(secret string, payload []byte, sigHeader string) (bool, error) {
	expected, err := SignSHA1Hex(secret, payload)
	if err != nil {
		return false, err
	}

	if sigHeader == "" {
		return false, nil
	}

	return subtle.ConstantTimeCompare([]byte(sigHeader), []byte(expected)) == 1, nil
}
