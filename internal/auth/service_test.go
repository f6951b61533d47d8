package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var superAdmin = Identity{UserID: "superadmin@system.com", Role: RoleSuperAdmin}

func TestGenerateAndValidateTokens(t *testing.T) {
	svc := NewService("test-secret", nil)
	tokens, err := svc.GenerateTokens(context.Background(), Identity{UserID: "admin1@springfield.edu", Role: RoleAdmin, OrganizationID: "org_1"})
	if err != nil {
		t.Fatalf("generate tokens: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" || tokens.TokenType != "Bearer" {
		t.Fatalf("unexpected tokens: %+v", tokens)
	}
	if tokens.ExpiresIn != int64(accessTokenTTL.Seconds()) {
		t.Fatalf("unexpected expiry %d", tokens.ExpiresIn)
	}

	id, err := svc.ValidateAccessToken(tokens.AccessToken)
	if err != nil {
		t.Fatalf("validate access: %v", err)
	}
	if id.UserID != "admin1@springfield.edu" || id.Role != RoleAdmin || id.OrganizationID != "org_1" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestAccessAndRefreshAreNotInterchangeable(t *testing.T) {
	svc := NewService("test-secret", nil)
	tokens, err := svc.GenerateTokens(context.Background(), superAdmin)
	if err != nil {
		t.Fatalf("generate tokens: %v", err)
	}

	if _, err := svc.ValidateAccessToken(tokens.RefreshToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected refresh token rejected as access token, got %v", err)
	}
	if _, err := svc.ValidateRefreshToken(context.Background(), tokens.AccessToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected access token rejected as refresh token, got %v", err)
	}
}

func TestRefreshRotates(t *testing.T) {
	svc := NewService("test-secret", nil)
	first, err := svc.GenerateTokens(context.Background(), superAdmin)
	if err != nil {
		t.Fatalf("generate tokens: %v", err)
	}

	second, err := svc.Refresh(context.Background(), first.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Fatalf("expected a new refresh token")
	}

	if _, err := svc.Refresh(context.Background(), first.RefreshToken); !errors.Is(err, ErrRefreshInvalid) {
		t.Fatalf("expected reused refresh token to fail, got %v", err)
	}

	id, err := svc.ValidateRefreshToken(context.Background(), second.RefreshToken)
	if err != nil || id.Role != RoleSuperAdmin {
		t.Fatalf("expected rotated token to carry role, got %+v %v", id, err)
	}
}

func TestValidateAccessTokenWrongSecret(t *testing.T) {
	svc := NewService("secret-a", nil)
	other := NewService("secret-b", nil)
	token, err := other.signToken(superAdmin, tokenTypeAccess, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.ValidateAccessToken(token); err == nil {
		t.Fatalf("expected signature error")
	}
}

func TestValidateAccessTokenExpired(t *testing.T) {
	svc := NewService("test-secret", nil)
	token, err := svc.signToken(superAdmin, tokenTypeAccess, -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.ValidateAccessToken(token); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected expired error, got %v", err)
	}
}

func TestValidateAccessTokenRejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{UserID: "x", Role: RoleSuperAdmin, TokenType: tokenTypeAccess}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	svc := NewService("test-secret", nil)
	if _, err := svc.ValidateAccessToken(token); err == nil {
		t.Fatalf("expected unsigned token rejected")
	}
}

func TestGenerateTokensStoreError(t *testing.T) {
	svc := NewService("test-secret", failingStore{})
	if _, err := svc.GenerateTokens(context.Background(), superAdmin); !errors.Is(err, errStore) {
		t.Fatalf("expected store error, got %v", err)
	}
}

type failingStore struct{}

func (failingStore) Save(context.Context, string, string, time.Duration) error { return errStore }
func (failingStore) Lookup(context.Context, string) (string, error)          { return "", errStore }
func (failingStore) Revoke(context.Context, string) error                    { return errStore }
func (failingStore) RevokeUser(context.Context, string) error                { return errStore }

var errStore = errors.New("store error")

type staticIdentities map[string]Identity

func (s staticIdentities) LoadIdentity(_ context.Context, userID string) (Identity, error) {
	id, ok := s[userID]
	if !ok {
		return Identity{}, errors.New("unknown user")
	}
	return id, nil
}

func TestRefreshUsesCurrentIdentity(t *testing.T) {
	svc := NewService("test-secret", nil)
	admin := Identity{UserID: "admin@community.com", Role: RoleAdmin, OrganizationID: "org_1"}
	users := staticIdentities{admin.UserID: {UserID: admin.UserID, Role: RoleAdmin, OrganizationID: "org_2"}}
	svc.UseIdentityLoader(users)

	first, err := svc.GenerateTokens(context.Background(), admin)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	second, err := svc.Refresh(context.Background(), first.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	id, err := svc.ValidateAccessToken(second.AccessToken)
	if err != nil || id.OrganizationID != "org_2" {
		t.Fatalf("expected reloaded identity, got %+v %v", id, err)
	}

	delete(users, admin.UserID)
	if _, err := svc.Refresh(context.Background(), second.RefreshToken); !errors.Is(err, ErrRefreshInvalid) {
		t.Fatalf("expected refresh rejected for removed user, got %v", err)
	}
}

func TestRevokeUser(t *testing.T) {
	svc := NewService("test-secret", nil)
	admin := Identity{UserID: "admin@community.com", Role: RoleAdmin}
	a, _ := svc.GenerateTokens(context.Background(), admin)
	b, _ := svc.GenerateTokens(context.Background(), admin)
	other, _ := svc.GenerateTokens(context.Background(), superAdmin)

	if err := svc.RevokeUser(context.Background(), admin.UserID); err != nil {
		t.Fatalf("revoke user: %v", err)
	}
	for _, tok := range []string{a.RefreshToken, b.RefreshToken} {
		if _, err := svc.Refresh(context.Background(), tok); !errors.Is(err, ErrRefreshInvalid) {
			t.Fatalf("expected revoked token rejected, got %v", err)
		}
	}
	if _, err := svc.Refresh(context.Background(), other.RefreshToken); err != nil {
		t.Fatalf("other user's token should survive: %v", err)
	}
}
