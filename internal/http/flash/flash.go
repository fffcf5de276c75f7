// Package flash carries one-shot notices across a redirect in a signed cookie.
package flash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Bilal-Junaid-Jiwani/fake-API/pkg/view"
)

var ErrInvalid = errors.New("invalid flash cookie")

const maxAge = 2 * time.Minute

type Codec struct {
	Secret     []byte
	CookieName string
	Secure     bool
}

func NewCodec(secret []byte, cookieName string, secure bool) *Codec {
	return &Codec{Secret: secret, CookieName: cookieName, Secure: secure}
}

// value format: base64(json).base64(hmac)
func (c *Codec) Encode(f view.Flash) (string, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return "", err
	}
	payload := base64.RawURLEncoding.EncodeToString(b)
	return payload + "." + c.sign(payload), nil
}

func (c *Codec) Decode(v string) (*view.Flash, error) {
	payload, sig, ok := strings.Cut(v, ".")
	if !ok || !hmac.Equal([]byte(c.sign(payload)), []byte(sig)) {
		return nil, ErrInvalid
	}
	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrInvalid
	}
	var f view.Flash
	if err := json.Unmarshal(raw, &f); err != nil || strings.TrimSpace(f.Message) == "" {
		return nil, ErrInvalid
	}
	return &f, nil
}

// Set stores f for the next request.
func (c *Codec) Set(ctx *gin.Context, f view.Flash) error {
	v, err := c.Encode(f)
	if err != nil {
		return err
	}
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.CookieName, v, int(maxAge.Seconds()), "/", "", c.Secure, true)
	return nil
}

// Take reads and clears the pending flash. An invalid cookie is cleared too.
func (c *Codec) Take(ctx *gin.Context) *view.Flash {
	v, err := ctx.Cookie(c.CookieName)
	if err != nil || v == "" {
		return nil
	}
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.CookieName, "", -1, "/", "", c.Secure, true)

	f, err := c.Decode(v)
	if err != nil {
		return nil
	}
	return f
}

func (c *Codec) sign(payload string) string {
	mac := hmac.New(sha256.New, c.Secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
