package school

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base32"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/trezcool/feedesk/core"
)

var (
	resetSalt = []byte("feedesk.core.school.reset_token")
	b32       = base32.StdEncoding.WithPadding(base32.NoPadding)

	// errors
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// EncodeUID base64 encodes the account id for use in reset links.
func EncodeUID(id string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(id))
}

func DecodeUID(uid string) (string, error) {
	id, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return "", ErrInvalidToken
	}
	return string(id), nil
}

// MakeResetToken generates a password reset token for usr.
// The token stops verifying as soon as the password hash changes.
func MakeResetToken(usr User, secret string) string {
	return makeTokenWithTimestamp(usr, secret, numDaysSince2001(core.NowFunc()))
}

// VerifyResetToken checks that token was issued for usr less than timeout ago.
func VerifyResetToken(usr User, token, secret string, timeout time.Duration) error {
	parts := strings.SplitN(token, "-", 2)
	if len(parts) < 2 {
		return ErrInvalidToken
	}

	data, err := b32.DecodeString(parts[0])
	if err != nil {
		return ErrInvalidToken
	}
	ts, err := strconv.Atoi(string(data))
	if err != nil {
		return ErrInvalidToken
	}

	if subtle.ConstantTimeCompare([]byte(makeTokenWithTimestamp(usr, secret, ts)), []byte(token)) == 0 {
		return ErrInvalidToken
	}
	if numDaysSince2001(core.NowFunc())-ts > int(timeout/(24*time.Hour)) {
		return ErrTokenExpired
	}
	return nil
}

func makeTokenWithTimestamp(usr User, secret string, ts int) string {
	key := sha256.Sum256(append(append([]byte{}, resetSalt...), secret...))
	h := hmac.New(sha256.New, key[:])
	_, _ = h.Write(hashValue(usr, ts))
	sig := base64.RawURLEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s-%s", b32.EncodeToString([]byte(strconv.Itoa(ts))), sig)
}

func numDaysSince2001(t time.Time) int {
	ref := time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)
	return int(math.Ceil(t.Sub(ref).Hours() / 24))
}

func hashValue(usr User, ts int) []byte {
	var val bytes.Buffer
	val.WriteString(usr.ID)
	val.Write(usr.PasswordHash)
	val.WriteString(strconv.Itoa(ts))
	return val.Bytes()
}
