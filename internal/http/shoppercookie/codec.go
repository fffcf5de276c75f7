// Package shoppercookie signs the anonymous shopper id kept in a cookie.
package shoppercookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var ErrInvalid = errors.New("invalid shopper cookie")

type Codec struct {
	Secret     []byte
	CookieName string
	Secure     bool
	MaxAge     time.Duration
}

func New(secret []byte, name string, secure bool, maxAge time.Duration) *Codec {
	if maxAge <= 0 {
		maxAge = 365 * 24 * time.Hour
	}
	return &Codec{Secret: secret, CookieName: name, Secure: secure, MaxAge: maxAge}
}

// value format: shopperID.base64(hmac(shopperID))
func (c *Codec) Encode(shopperID string) string {
	return shopperID + "." + sign(c.Secret, shopperID)
}

func (c *Codec) Decode(v string) (string, error) {
	id, sig, ok := strings.Cut(v, ".")
	if !ok || id == "" || strings.Contains(sig, ".") {
		return "", ErrInvalid
	}
	if !verify(c.Secret, id, sig) {
		return "", ErrInvalid
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", ErrInvalid
	}
	return id, nil
}

// Ensure returns the shopper id from the request cookie, issuing a fresh one
// when the cookie is missing or tampered with.
func (c *Codec) Ensure(ctx *gin.Context) (id string, issued bool) {
	if v, err := ctx.Cookie(c.CookieName); err == nil && v != "" {
		if id, err := c.Decode(v); err == nil {
			return id, false
		}
	}
	id = uuid.NewString()
	c.Set(ctx, id)
	return id, true
}

func (c *Codec) Set(ctx *gin.Context, shopperID string) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.CookieName, c.Encode(shopperID), int(c.MaxAge.Seconds()), "/", "", c.Secure, true)
}

func sign(secret []byte, payload string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func verify(secret []byte, payload, sig string) bool {
	return hmac.Equal([]byte(sign(secret, payload)), []byte(sig))
}
