package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/zulfalsa/danusan-x/internal/domain/model"
)

var seller = model.Principal{UserID: 42, Role: model.RoleSeller}

func signed(s *HMACStrategy, payload string) string {
	return base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("%s:%s", payload, s.sign(payload))))
}

func TestNewHMACStrategy_DefaultTTL(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})
	if string(strategy.secret) != "secret" {
		t.Fatalf("unexpected secret: %q", string(strategy.secret))
	}
	if strategy.ttl != 24*time.Hour {
		t.Fatalf("unexpected ttl: %s", strategy.ttl)
	}
}

func TestNewHMACStrategy_CustomTTL(t *testing.T) {
	ttl := 2 * time.Hour
	strategy := NewHMACStrategy("secret", Options{TTL: ttl})
	if strategy.ttl != ttl {
		t.Fatalf("unexpected ttl: %s", strategy.ttl)
	}
}

func TestHMACStrategy_IssueAndParse(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{TTL: time.Minute})
	for _, principal := range []model.Principal{seller, {UserID: 7, Role: model.RoleAdmin}} {
		token, err := strategy.IssueToken(principal)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		got, err := strategy.ParseToken(token)
		if err != nil {
			t.Fatalf("parse token: %v", err)
		}
		if got != principal {
			t.Fatalf("expected %+v, got %+v", principal, got)
		}
	}
}

func TestHMACStrategy_IssueRejectsAnonymous(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})
	if _, err := strategy.IssueToken(model.Principal{}); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := strategy.IssueToken(model.Principal{UserID: 1, Role: "buyer"}); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestHMACStrategy_ParseRejectsTampering(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{TTL: time.Minute})
	token, err := strategy.IssueToken(seller)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	raw, _ := base64.StdEncoding.DecodeString(token)
	parts := strings.Split(string(raw), ":")
	if len(parts) != 4 {
		t.Fatalf("unexpected parts count: %d", len(parts))
	}

	escalated := append([]string(nil), parts...)
	escalated[1] = string(model.RoleAdmin)
	forged := base64.StdEncoding.EncodeToString([]byte(strings.Join(escalated, ":")))
	if _, err := strategy.ParseToken(forged); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected role escalation to be rejected, got %v", err)
	}

	other := NewHMACStrategy("other-secret", Options{TTL: time.Minute})
	if _, err := other.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected foreign signature to be rejected, got %v", err)
	}
}

func TestHMACStrategy_ParseMalformed(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})
	future := time.Now().Add(time.Minute).Unix()

	cases := map[string]string{
		"not base64":    "not-base64",
		"parts":         base64.StdEncoding.EncodeToString([]byte("only:two")),
		"user id":       signed(strategy, fmt.Sprintf("abc:seller:%d", future)),
		"zero user":     signed(strategy, fmt.Sprintf("0:seller:%d", future)),
		"unknown role":  signed(strategy, fmt.Sprintf("1:buyer:%d", future)),
		"expiry":        signed(strategy, "1:seller:not-a-number"),
		"expired token": signed(strategy, fmt.Sprintf("1:seller:%d", time.Now().Add(-time.Minute).Unix())),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := strategy.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestHMACStrategy_ExpiryUsesClock(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	strategy := NewHMACStrategy("secret", Options{TTL: time.Hour, Now: func() time.Time { return now }})
	token, err := strategy.IssueToken(seller)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	now = now.Add(30 * time.Minute)
	if _, err := strategy.ParseToken(token); err != nil {
		t.Fatalf("expected token valid within ttl, got %v", err)
	}
	now = now.Add(2 * time.Hour)
	if _, err := strategy.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token, got %v", err)
	}
}

func TestHMACStrategy_Name(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})
	if strategy.Name() != "hmac" {
		t.Fatalf("unexpected name: %s", strategy.Name())
	}
}
