package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-service/internal/config"
	"storefront-service/internal/domain/auth"
	xerrors "storefront-service/internal/pkg/errors"
	"storefront-service/internal/pkg/token"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository is the persistence surface the auth flows need.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*auth.User, error)
	FindByID(ctx context.Context, id int64) (*auth.User, error)
	Create(ctx context.Context, user *auth.User) error
	LoadRoleGrants(ctx context.Context, userID int64) ([]auth.RoleGrant, error)
}

type AuthService struct {
	users  UserRepository
	cfg    config.AuthConfig
	logger *zap.Logger
}

func NewAuthService(users UserRepository, cfg config.AuthConfig, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:  users,
		cfg:    cfg,
		logger: logger,
	}
}

// Register creates a new account with a bcrypt-hashed credential.
func (s *AuthService) Register(ctx context.Context, req *auth.RegisterRequest) (*auth.RegisterResponse, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &auth.User{
		Email:    req.Email,
		Password: string(hashed),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return &auth.RegisterResponse{ID: user.ID, Email: user.Email}, nil
}

// VerifyCredentials checks an email/password pair against the stored
// hash. Every failure mode, including "no such account", collapses to
// ErrCredentialsInvalid so the response cannot reveal account existence.
func (s *AuthService) VerifyCredentials(ctx context.Context, email, password string) (*auth.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Debug("credential lookup failed", zap.Error(err))
		return nil, xerrors.ErrCredentialsInvalid
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, xerrors.ErrCredentialsInvalid
	}

	return user, nil
}

// Login authenticates the credentials and issues a fresh token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*auth.TokenPair, error) {
	user, err := s.VerifyCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.Issue(ctx, user.ID)
}

// Issue resolves the principal's current claims and signs one
// access/refresh pair. Claims are recomputed on every issuance so role
// and permission changes take effect without waiting for expiry. Both
// tokens carry the same payload; only the secret and lifetime differ.
func (s *AuthService) Issue(ctx context.Context, userID int64) (*auth.TokenPair, error) {
	payload, err := s.resolveClaims(ctx, userID)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(s.cfg.AccessTTL)

	accessToken, err := token.Sign(payload, []byte(s.cfg.AccessSecret), s.cfg.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken, err := token.Sign(payload, []byte(s.cfg.RefreshSecret), s.cfg.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &auth.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		Payload:      payload,
	}, nil
}

// Refresh re-issues a full token pair from a valid refresh token. The
// principal is re-resolved from storage first: a deleted account yields
// ErrPrincipalNotFound rather than a token minted from stale claims.
// The old refresh token stays valid until its own expiry; there is no
// reuse detection.
func (s *AuthService) Refresh(ctx context.Context, rawRefreshToken string) (*auth.TokenPair, error) {
	user, err := s.ResolveRefresh(ctx, rawRefreshToken)
	if err != nil {
		return nil, err
	}
	return s.Issue(ctx, user.ID)
}

// ResolveRefresh validates a refresh token and loads its principal.
func (s *AuthService) ResolveRefresh(ctx context.Context, rawRefreshToken string) (*auth.User, error) {
	claims, err := s.VerifyRefresh(rawRefreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.ErrPrincipalNotFound
		}
		return nil, err
	}

	return user, nil
}

// VerifyAccess validates a token against the access secret only. A
// refresh token presented here fails signature verification because the
// secrets are disjoint; there is no single entry point that tries both.
func (s *AuthService) VerifyAccess(raw string) (*token.Claims, error) {
	return token.Verify(raw, []byte(s.cfg.AccessSecret))
}

// VerifyRefresh validates a token against the refresh secret only.
func (s *AuthService) VerifyRefresh(raw string) (*token.Claims, error) {
	return token.Verify(raw, []byte(s.cfg.RefreshSecret))
}

// resolveClaims loads the principal's role assignments and flattens
// them into a deduplicated claims payload: roles are the user's role
// names, permissions the union over all of those roles' permissions.
func (s *AuthService) resolveClaims(ctx context.Context, userID int64) (token.Payload, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return token.Payload{}, xerrors.ErrPrincipalNotFound
		}
		return token.Payload{}, err
	}

	grants, err := s.users.LoadRoleGrants(ctx, userID)
	if err != nil {
		return token.Payload{}, fmt.Errorf("failed to load role grants: %w", err)
	}

	var roles, permissions []string
	seenRoles := make(map[string]bool)
	seenPerms := make(map[string]bool)
	for _, grant := range grants {
		if !seenRoles[grant.Role] {
			seenRoles[grant.Role] = true
			roles = append(roles, grant.Role)
		}
		for _, perm := range grant.Permissions {
			if !seenPerms[perm] {
				seenPerms[perm] = true
				permissions = append(permissions, perm)
			}
		}
	}

	return token.Payload{
		UserID:      userID,
		Roles:       roles,
		Permissions: permissions,
	}, nil
}
