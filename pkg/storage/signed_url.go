package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Token validation failures.
var (
	ErrTokenMalformed = errors.New("invalid token format")
	ErrTokenSignature = errors.New("invalid token signature")
	ErrTokenExpired   = errors.New("token expired")
)

// DownloadGrant is the content of a signed download token. Tokens are scoped to one tenant.
type DownloadGrant struct {
	TenantID   string
	ResourceID string
	Path       string
	ExpiresAt  time.Time
}

// SignedURLSigner creates and validates signed download tokens.
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSignedURLSigner constructs a signer with the provided secret and TTL.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SignedURLSigner{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Generate returns a signed token granting access to relPath for the tenant.
func (s *SignedURLSigner) Generate(tenantID, resourceID, relPath string) (string, time.Time, error) {
	if tenantID == "" || resourceID == "" || relPath == "" {
		return "", time.Time{}, fmt.Errorf("tenantID, resourceID and relPath required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := s.now().Add(s.ttl).Truncate(time.Second)
	parts := []string{
		encode(tenantID),
		encode(resourceID),
		strconv.FormatInt(expiresAt.Unix(), 10),
		encode(relPath),
	}
	parts = append(parts, s.sign(parts))
	return strings.Join(parts, "."), expiresAt, nil
}

// Parse validates a token and returns its grant.
func (s *SignedURLSigner) Parse(token string) (*DownloadGrant, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 5 {
		return nil, ErrTokenMalformed
	}
	if !hmac.Equal([]byte(s.sign(parts[:4])), []byte(parts[4])) {
		return nil, ErrTokenSignature
	}
	expUnix, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return nil, ErrTokenMalformed
	}
	grant := &DownloadGrant{ExpiresAt: time.Unix(expUnix, 0)}
	for i, dst := range []*string{&grant.TenantID, &grant.ResourceID, nil, &grant.Path} {
		if dst == nil {
			continue
		}
		raw, err := base64.RawURLEncoding.DecodeString(parts[i])
		if err != nil {
			return nil, ErrTokenMalformed
		}
		*dst = string(raw)
	}
	if s.now().After(grant.ExpiresAt) {
		return nil, ErrTokenExpired
	}
	return grant, nil
}

func (s *SignedURLSigner) sign(parts []string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(mac.Sum(nil))
}

func encode(value string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(value))
}
