// Package session issues and validates the signed admin auth cookie.
//
// The token value is "<username>|<expiry-or-empty>|<hex-signature>". An
// empty expiry means a browser-session token that never expires by time.
// There is no server-side session store: possession of a token whose
// signature recomputes is the whole proof of login.
//
// Signing is a two-stage keyed hash inherited from earlier deployments:
// the payload is first MAC'd under the configured secret to derive a
// per-token key, then MAC'd again under that derived key. Because the
// derived key is a deterministic function of payload and secret, the
// scheme is no stronger than a single HMAC under the secret; it is kept
// as-is so previously issued cookies stay valid.
package session

import (
	"crypto/hmac"
	"strconv"
	"strings"
	"time"

	"github.com/velikanov/storefront/internal/hash"
)

// RememberTTL is the lifetime in seconds of a "remember me" token,
// 3600*24*30*12 (~360 days, deliberately not a calendar year).
const RememberTTL = 3600 * 24 * 30 * 12

const sep = "|"

// Codec signs and verifies auth tokens. It is stateless and safe for
// concurrent use; the secret is injected at construction and never read
// from a global.
type Codec struct {
	secret string
	now    func() time.Time
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: secret, now: time.Now}
}

// Issue builds a token for subject. With remember set the token expires
// RememberTTL seconds from now and the returned expiry mirrors it for the
// cookie's Expires attribute; otherwise expiry is the zero time and the
// cookie should be a browser-session cookie.
func (c *Codec) Issue(subject string, remember bool) (value string, expires time.Time) {
	exp := ""
	if remember {
		at := c.now().Unix() + RememberTTL
		exp = strconv.FormatInt(at, 10)
		expires = time.Unix(at, 0)
	}

	payload := subject + sep + exp
	key := hash.MAC(payload, c.secret)
	sig := hash.MAC(payload, key)

	return payload + sep + sig, expires
}

// Validate checks a token value and returns its subject. Every failure
// mode (malformed, expired, bad signature) collapses to ok=false so the
// caller cannot leak which check rejected the token. A non-empty expiry is
// valid through its exact second. The caller still has to resolve the
// subject against the user store.
func (c *Codec) Validate(value string) (subject string, ok bool) {
	parts := strings.Split(value, sep)
	if len(parts) != 3 {
		return "", false
	}

	exp := strings.TrimSpace(parts[1])
	if exp != "" {
		at, err := strconv.ParseInt(exp, 10, 64)
		if err != nil || at < c.now().Unix() {
			return "", false
		}
	}

	payload := parts[0] + sep + exp
	key := hash.MAC(payload, c.secret)
	want := hash.MAC(payload, key)
	if !hmac.Equal([]byte(want), []byte(parts[2])) {
		return "", false
	}

	return parts[0], true
}
