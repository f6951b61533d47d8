package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var (
	ErrTokenInvalid   = errors.New("token invalid")
	ErrRefreshInvalid = errors.New("refresh token invalid")
)

// IdentityLoader resolves the current identity of a user. It fails when the
// user no longer exists or may not sign in.
type IdentityLoader interface {
	LoadIdentity(ctx context.Context, userID string) (Identity, error)
}

type Service struct {
	secret     []byte
	tokens     TokenStore
	identities IdentityLoader
}

type Claims struct {
	UserID         string `json:"user_id"`
	Role           Role   `json:"role"`
	OrganizationID string `json:"organization_id,omitempty"`
	TokenType      string `json:"typ"`
	jwt.RegisteredClaims
}

func NewService(secret string, tokens TokenStore) *Service {
	if tokens == nil {
		tokens = NewMemoryTokenStore()
	}
	return &Service{
		secret: []byte(secret),
		tokens: tokens,
	}
}

func (s *Service) GenerateTokens(ctx context.Context, id Identity) (TokenResponse, error) {
	access, err := s.signToken(id, tokenTypeAccess, accessTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	refresh, err := s.signToken(id, tokenTypeRefresh, refreshTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	if err := s.tokens.Save(ctx, refresh, id.UserID, refreshTokenTTL); err != nil {
		return TokenResponse{}, err
	}

	return TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(accessTokenTTL.Seconds()),
	}, nil
}

// UseIdentityLoader makes Refresh re-read the user's identity instead of
// trusting the claims of the presented token.
func (s *Service) UseIdentityLoader(l IdentityLoader) {
	s.identities = l
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued for the user's current identity.
func (s *Service) Refresh(ctx context.Context, token string) (TokenResponse, error) {
	id, err := s.ValidateRefreshToken(ctx, token)
	if err != nil {
		return TokenResponse{}, err
	}
	if err := s.tokens.Revoke(ctx, token); err != nil {
		return TokenResponse{}, err
	}
	if s.identities != nil {
		current, err := s.identities.LoadIdentity(ctx, id.UserID)
		if err != nil {
			return TokenResponse{}, fmt.Errorf("%w: %v", ErrRefreshInvalid, err)
		}
		id = current
	}
	return s.GenerateTokens(ctx, id)
}

// RevokeUser drops every refresh token issued to userID.
func (s *Service) RevokeUser(ctx context.Context, userID string) error {
	return s.tokens.RevokeUser(ctx, userID)
}

func (s *Service) ValidateRefreshToken(ctx context.Context, token string) (Identity, error) {
	claims, err := s.parseToken(token, tokenTypeRefresh)
	if err != nil {
		return Identity{}, err
	}

	userID, err := s.tokens.Lookup(ctx, token)
	if err != nil || userID != claims.UserID {
		return Identity{}, ErrRefreshInvalid
	}
	return claims.identity(), nil
}

func (s *Service) ValidateAccessToken(token string) (Identity, error) {
	claims, err := s.parseToken(token, tokenTypeAccess)
	if err != nil {
		return Identity{}, err
	}
	return claims.identity(), nil
}

func (s *Service) signToken(id Identity, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:         id.UserID,
		Role:           id.Role,
		OrganizationID: id.OrganizationID,
		TokenType:      tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        newTokenID(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) parseToken(token, tokenType string) (*Claims, error) {
	claims, err := parseClaims(token, s.secret)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenType {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func parseClaims(token string, secret []byte) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (c *Claims) identity() Identity {
	return Identity{
		UserID:         c.UserID,
		Role:           c.Role,
		OrganizationID: c.OrganizationID,
	}
}
