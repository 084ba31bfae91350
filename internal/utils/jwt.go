package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sarkargroup/smd-backend/internal/config"
)

var (
	ErrEmptySecret  = errors.New("token secret must not be empty")
	ErrInvalidToken = errors.New("invalid token")
	ErrRevokedToken = errors.New("token has been revoked")
)

// TokenPayload is the identity snapshot carried by every token.
type TokenPayload struct {
	UserID       string `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage,omitempty"`
	Role         string `json:"role"`
}

type TokenClaims struct {
	TokenPayload
	jwt.RegisteredClaims
}

// Sign issues an HS256 token for payload that expires after ttl.
func Sign(payload TokenPayload, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}

	now := time.Now()
	claims := TokenClaims{
		TokenPayload: payload,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   payload.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Verify checks signature, algorithm and expiry.
func Verify(tokenString, secret string) (*TokenClaims, error) {
	if tokenString == "" || secret == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Decode parses a token without verifying it. Returns nil when malformed.
func Decode(tokenString string) *TokenClaims {
	claims := &TokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil
	}
	return claims
}

// TokenKind selects one of the configured token classes.
type TokenKind int

const (
	AccessToken TokenKind = iota
	RefreshToken
	ResetToken
)

func (k TokenKind) String() string {
	switch k {
	case AccessToken:
		return "access"
	case RefreshToken:
		return "refresh"
	case ResetToken:
		return "reset"
	}
	return "unknown"
}

// TokenService signs and checks tokens per class and consults the blacklist.
type TokenService struct {
	classes   map[TokenKind]config.TokenClass
	blacklist Blacklist
}

// NewTokenService builds a service from config. A nil blacklist uses the
// process-wide default store.
func NewTokenService(cfg config.TokenConfig, blacklist Blacklist) *TokenService {
	return &TokenService{
		classes: map[TokenKind]config.TokenClass{
			AccessToken:  cfg.Access,
			RefreshToken: cfg.Refresh,
			ResetToken:   cfg.Reset,
		},
		blacklist: blacklist,
	}
}

func (s *TokenService) store() Blacklist {
	if s.blacklist != nil {
		return s.blacklist
	}
	return DefaultBlacklist()
}

// TTL returns the configured lifetime of kind.
func (s *TokenService) TTL(kind TokenKind) time.Duration {
	return s.classes[kind].TTL
}

// Issue signs payload with the secret and lifetime of kind.
func (s *TokenService) Issue(kind TokenKind, payload TokenPayload) (string, error) {
	class := s.classes[kind]
	return Sign(payload, class.Secret, class.TTL)
}

// Parse verifies a token of the given kind and rejects revoked ones.
func (s *TokenService) Parse(ctx context.Context, kind TokenKind, tokenString string) (*TokenClaims, error) {
	claims, err := Verify(tokenString, s.classes[kind].Secret)
	if err != nil {
		return nil, err
	}
	revoked, err := s.store().Contains(ctx, tokenString)
	if err != nil {
		return nil, fmt.Errorf("check blacklist: %w", err)
	}
	if revoked {
		return nil, ErrRevokedToken
	}
	return claims, nil
}

// Revoke blacklists a token until its own expiry. Malformed tokens are ignored.
func (s *TokenService) Revoke(ctx context.Context, tokenString string) error {
	if tokenString == "" {
		return nil
	}
	claims := Decode(tokenString)
	if claims == nil {
		return nil
	}
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return s.store().Add(ctx, tokenString, expiresAt)
}
