// Package avatars produces avatar references for users: a gravatar URL derived
// from the email address, or an uploaded image in S3-compatible storage.
package avatars

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strings"
)

const gravatarBase = "//www.gravatar.com/avatar/"

// Gravatar returns a protocol-relative gravatar URL for email: 200px,
// PG-rated, mystery-man fallback.
func Gravatar(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))

	q := url.Values{}
	q.Set("s", "200")
	q.Set("r", "pg")
	q.Set("d", "mm")

	return gravatarBase + hex.EncodeToString(sum[:]) + "?" + q.Encode()
}
