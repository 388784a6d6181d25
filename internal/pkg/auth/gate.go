package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"

	domainErrors "github.com/zulfalsa/danusan-x/internal/domain/errors"
)

// Gate guards staff pages behind one shared password. A successful unlock
// yields a pass bound to both the password and the signing secret, so
// rotating either revokes every pass in circulation.
type Gate struct {
	password []byte
	pass     string
}

// NewGate builds a Gate for password signed with secret.
func NewGate(password, secret string) *Gate {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("gate:" + password))
	return &Gate{
		password: []byte(password),
		pass:     base64.RawURLEncoding.EncodeToString(mac.Sum(nil)),
	}
}

// Unlock compares password in constant time and returns the gate pass.
func (g *Gate) Unlock(password string) (string, error) {
	if !g.CheckPassword(password) {
		return "", domainErrors.ErrGateLocked
	}
	return g.pass, nil
}

// CheckPassword reports whether password equals the gate password.
func (g *Gate) CheckPassword(password string) bool {
	return subtle.ConstantTimeCompare(g.password, []byte(password)) == 1
}

// Valid reports whether pass was produced by Unlock.
func (g *Gate) Valid(pass string) bool {
	return pass != "" && hmac.Equal([]byte(g.pass), []byte(pass))
}
