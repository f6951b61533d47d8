package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"backend-lostfound/internal/auth"
	"backend-lostfound/internal/invite"
	"backend-lostfound/internal/shared/token"
	"backend-lostfound/internal/shared/validate"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUnauthorized       = errors.New("super admin access required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidActivation  = errors.New("invalid invite code or temporary password")
	ErrActivationExpired  = errors.New("invite code has expired")
	ErrSuperAdminDelete   = errors.New("cannot delete super admin")
	ErrAdminExists        = errors.New("admin with this email already exists")
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// InviteRedeemer consumes end-user invites during registration.
type InviteRedeemer interface {
	Redeem(ctx context.Context, code, email string) (invite.Invite, error)
	Release(ctx context.Context, id string) error
}

type Service struct {
	store    Store
	tokens   *auth.Service
	invites  InviteRedeemer
	now      func() time.Time
	hashCost int
}

// NewService also makes tokens refresh against this service's accounts, so
// deleted or inactive accounts cannot renew their sessions.
func NewService(store Store, tokens *auth.Service, invites InviteRedeemer) *Service {
	s := &Service{
		store:    store,
		tokens:   tokens,
		invites:  invites,
		now:      time.Now,
		hashCost: bcrypt.DefaultCost,
	}
	tokens.UseIdentityLoader(s)
	return s
}

// LoadIdentity returns the identity of an active account.
func (s *Service) LoadIdentity(ctx context.Context, userID string) (auth.Identity, error) {
	a, err := s.store.Get(ctx, userID)
	if err != nil {
		return auth.Identity{}, err
	}
	if a.Status != StatusActive {
		return auth.Identity{}, ErrInvalidCredentials
	}
	return a.Identity(), nil
}

// EnsureSuperAdmin creates the built-in super admin unless an account with
// that email already exists.
func (s *Service) EnsureSuperAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if _, err := s.store.FindByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	hash, err := s.hash(password)
	if err != nil {
		return err
	}
	a := Account{
		ID:          email,
		Email:       email,
		Name:        "System Administrator",
		Role:        auth.RoleSuperAdmin,
		Status:      StatusActive,
		Permissions: []string{"all"},
		CreatedAt:   s.now().UTC(),
		IsBuiltIn:   true,
	}
	if err := s.store.Create(ctx, a, hash); err != nil && !errors.Is(err, ErrEmailTaken) {
		return fmt.Errorf("create super admin: %w", err)
	}
	slog.Info("super admin ensured", "email", email)
	return nil
}

// Seed stores a ready-made active account with password, skipping accounts
// that already exist.
func (s *Service) Seed(ctx context.Context, a Account, password string) error {
	var hash string
	if password != "" {
		h, err := s.hash(password)
		if err != nil {
			return err
		}
		hash = h
	}
	if err := s.store.Create(ctx, a, hash); err != nil && !errors.Is(err, ErrEmailTaken) {
		return err
	}
	return nil
}

func (s *Service) CreateAdmin(ctx context.Context, in CreateAdminInput, requester auth.Identity) (Invitation, error) {
	if requester.Role != auth.RoleSuperAdmin {
		return Invitation{}, ErrUnauthorized
	}
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	in.OrganizationID = strings.TrimSpace(in.OrganizationID)
	if in.Email == "" || in.Name == "" || in.OrganizationID == "" {
		return Invitation{}, validate.Fail("Email, name, and organization are required")
	}
	if err := validate.Struct(in); err != nil {
		return Invitation{}, err
	}

	inviteCode, err := token.Generate(token.InviteCode, InviteCodeLength)
	if err != nil {
		return Invitation{}, err
	}
	tempPassword, err := token.Generate(token.TempPassword, TempPasswordLength)
	if err != nil {
		return Invitation{}, err
	}
	tempHash, err := s.hash(tempPassword)
	if err != nil {
		return Invitation{}, err
	}

	permissions := in.Permissions
	if len(permissions) == 0 {
		permissions = slices.Clone(DefaultPermissions)
	}
	now := s.now().UTC()
	expiry := now.Add(InviteTTL)
	orgID := in.OrganizationID

	a := Account{
		ID:               "pending_" + uuid.NewString(),
		Email:            in.Email,
		Name:             in.Name,
		Role:             auth.RoleAdmin,
		OrganizationID:   &orgID,
		Status:           StatusPendingActivation,
		Permissions:      permissions,
		CreatedAt:        now,
		CreatedBy:        requester.UserID,
		InviteCode:       inviteCode,
		InviteExpiry:     &expiry,
		TempPasswordHash: tempHash,
	}
	if err := s.store.Create(ctx, a, ""); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return Invitation{}, ErrAdminExists
		}
		return Invitation{}, err
	}

	slog.Info("admin invited", "admin_id", a.ID, "email", a.Email, "organization_id", orgID, "expires_at", expiry)
	return Invitation{
		ID:             a.ID,
		Email:          a.Email,
		Name:           a.Name,
		OrganizationID: orgID,
		Status:         a.Status,
		InviteCode:     inviteCode,
		TempPassword:   tempPassword,
		InviteExpiry:   expiry,
	}, nil
}

// ListAdmins returns pending admins when pending is set, otherwise active
// admins without the super admins.
func (s *Service) ListAdmins(ctx context.Context, pending bool, requester auth.Identity) ([]Account, error) {
	if requester.Role != auth.RoleSuperAdmin {
		return nil, ErrUnauthorized
	}
	if pending {
		return s.store.List(ctx, Filter{Status: StatusPendingActivation})
	}
	return s.store.List(ctx, Filter{Status: StatusActive, Role: auth.RoleAdmin})
}

// ListVisible returns the admins requester may see: all of them for a super
// admin, those of the requester's own organization for an admin.
func (s *Service) ListVisible(ctx context.Context, requester auth.Identity, organizationID string) ([]Account, error) {
	switch requester.Role {
	case auth.RoleSuperAdmin:
		return s.store.List(ctx, Filter{Role: auth.RoleAdmin, OrganizationID: organizationID})
	case auth.RoleAdmin:
		if requester.OrganizationID == "" || (organizationID != "" && organizationID != requester.OrganizationID) {
			return []Account{}, nil
		}
		return s.store.List(ctx, Filter{Role: auth.RoleAdmin, OrganizationID: requester.OrganizationID})
	default:
		return []Account{}, nil
	}
}

func (s *Service) DeleteAdmin(ctx context.Context, id string, requester auth.Identity) error {
	if requester.Role != auth.RoleSuperAdmin {
		return ErrUnauthorized
	}
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if a.Role == auth.RoleSuperAdmin {
		return ErrSuperAdminDelete
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.tokens.RevokeUser(ctx, id); err != nil {
		return fmt.Errorf("revoke sessions of %s: %w", id, err)
	}
	slog.Info("admin deleted", "admin_id", id, "deleted_by", requester.UserID)
	return nil
}

// Activate exchanges an invite code and temporary password for an active
// admin account with the chosen password.
func (s *Service) Activate(ctx context.Context, in ActivateInput) (Account, error) {
	if in.InviteCode == "" || in.TempPassword == "" || in.NewPassword == "" || in.ConfirmPassword == "" {
		return Account{}, validate.Fail("All fields are required")
	}
	if in.NewPassword != in.ConfirmPassword {
		return Account{}, validate.Fail("Passwords do not match")
	}
	if err := checkPassword(in.NewPassword); err != nil {
		return Account{}, err
	}

	pending, err := s.store.FindPendingByCode(ctx, strings.TrimSpace(in.InviteCode))
	if errors.Is(err, ErrNotFound) {
		return Account{}, ErrInvalidActivation
	}
	if err != nil {
		return Account{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(pending.TempPasswordHash), []byte(in.TempPassword)) != nil {
		return Account{}, ErrInvalidActivation
	}

	now := s.now().UTC()
	if pending.InviteExpiry != nil && now.After(*pending.InviteExpiry) {
		return Account{}, ErrActivationExpired
	}

	hash, err := s.hash(in.NewPassword)
	if err != nil {
		return Account{}, err
	}
	activated, err := s.store.Activate(ctx, pending.ID, now, hash)
	if errors.Is(err, ErrNotFound) {
		return Account{}, ErrInvalidActivation
	}
	if err != nil {
		return Account{}, err
	}
	slog.Info("admin activated", "admin_id", activated.ID)
	return activated, nil
}

// Login authenticates any active account. With an invite code it first
// registers a user account in the invite's organization.
func (s *Service) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validate.Struct(in); err != nil {
		return LoginResult{}, err
	}
	if in.InviteCode != "" {
		return s.register(ctx, in)
	}

	a, err := s.authenticate(ctx, in.Email, in.Password)
	if err != nil {
		return LoginResult{}, err
	}
	return s.loginResult(ctx, a, "")
}

// AdminLogin is Login restricted to admin and super admin accounts.
func (s *Service) AdminLogin(ctx context.Context, in LoginInput) (LoginResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validate.Struct(in); err != nil {
		return LoginResult{}, err
	}
	a, err := s.authenticate(ctx, in.Email, in.Password)
	if err != nil {
		return LoginResult{}, err
	}
	if !a.Role.IsAdmin() {
		return LoginResult{}, ErrInvalidCredentials
	}
	return s.loginResult(ctx, a, "")
}

func (s *Service) register(ctx context.Context, in LoginInput) (LoginResult, error) {
	if s.invites == nil {
		return LoginResult{}, invite.ErrInvalid
	}
	if err := checkPassword(in.Password); err != nil {
		return LoginResult{}, err
	}
	if _, err := s.store.FindByEmail(ctx, in.Email); err == nil {
		return LoginResult{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return LoginResult{}, err
	}
	hash, err := s.hash(in.Password)
	if err != nil {
		return LoginResult{}, err
	}

	inv, err := s.invites.Redeem(ctx, in.InviteCode, in.Email)
	if err != nil {
		return LoginResult{}, err
	}
	orgID := inv.OrganizationID
	a := Account{
		ID:             in.Email,
		Email:          in.Email,
		Name:           strings.SplitN(in.Email, "@", 2)[0],
		Role:           auth.RoleUser,
		OrganizationID: &orgID,
		Status:         StatusActive,
		Permissions:    []string{},
		CreatedAt:      s.now().UTC(),
		CreatedBy:      inv.InvitedBy,
	}
	if err := s.store.Create(ctx, a, hash); err != nil {
		if rerr := s.invites.Release(ctx, inv.ID); rerr != nil {
			slog.Error("release invite after failed registration", "invite_id", inv.ID, "error", rerr)
		}
		return LoginResult{}, err
	}
	slog.Info("user registered from invite", "email", a.Email, "organization_id", orgID)
	return s.loginResult(ctx, a, "Account created successfully")
}

func (s *Service) authenticate(ctx context.Context, email, password string) (Account, error) {
	a, err := s.store.FindByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return Account{}, ErrInvalidCredentials
	}
	if err != nil {
		return Account{}, err
	}
	if a.Status != StatusActive {
		return Account{}, ErrInvalidCredentials
	}

	hash, err := s.store.Credential(ctx, a.Email)
	if errors.Is(err, ErrNotFound) {
		return Account{}, ErrInvalidCredentials
	}
	if err != nil {
		return Account{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return Account{}, ErrInvalidCredentials
	}
	return a, nil
}

func (s *Service) loginResult(ctx context.Context, a Account, message string) (LoginResult, error) {
	tokens, err := s.tokens.GenerateTokens(ctx, a.Identity())
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Success: true, User: a.Profile(), Tokens: tokens, Message: message}, nil
}

func (s *Service) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func checkPassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return validate.Fail("Password must be at least %d characters long", MinPasswordLength)
	}
	if len(password) > MaxPasswordBytes {
		return validate.Fail("Password must be at most %d bytes", MaxPasswordBytes)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
