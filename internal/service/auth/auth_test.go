package auth

import (
	"context"
	"testing"
	"time"

	"storefront-service/internal/config"
	"storefront-service/internal/domain/auth"
	xerrors "storefront-service/internal/pkg/errors"
	"storefront-service/internal/pkg/token"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// mockUserRepository is an in-memory UserRepository
type mockUserRepository struct {
	users      map[int64]*auth.User
	emailIndex map[string]*auth.User
	grants     map[int64][]auth.RoleGrant
	nextID     int64
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:      make(map[int64]*auth.User),
		emailIndex: make(map[string]*auth.User),
		grants:     make(map[int64][]auth.RoleGrant),
		nextID:     1,
	}
}

func (r *mockUserRepository) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	user, ok := r.emailIndex[email]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return user, nil
}

func (r *mockUserRepository) FindByID(ctx context.Context, id int64) (*auth.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return user, nil
}

func (r *mockUserRepository) Create(ctx context.Context, user *auth.User) error {
	if _, exists := r.emailIndex[user.Email]; exists {
		return xerrors.ErrDuplicateEntry
	}
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = user
	r.emailIndex[user.Email] = user
	return nil
}

func (r *mockUserRepository) LoadRoleGrants(ctx context.Context, userID int64) ([]auth.RoleGrant, error) {
	return r.grants[userID], nil
}

func (r *mockUserRepository) deleteUser(id int64) {
	if user, ok := r.users[id]; ok {
		delete(r.emailIndex, user.Email)
		delete(r.users, id)
	}
}

func testConfig() config.AuthConfig {
	return config.AuthConfig{
		AccessSecret:  "unit-access-secret",
		RefreshSecret: "unit-refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}
}

func newTestService(t *testing.T) (*AuthService, *mockUserRepository) {
	t.Helper()
	repo := newMockUserRepository()
	svc := NewAuthService(repo, testConfig(), zap.NewNop())
	return svc, repo
}

func seedUser(t *testing.T, repo *mockUserRepository, email, password string, grants ...auth.RoleGrant) *auth.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &auth.User{Email: email, Password: string(hashed)}
	require.NoError(t, repo.Create(context.Background(), user))
	repo.grants[user.ID] = grants
	return user
}

func TestVerifyCredentials(t *testing.T) {
	t.Parallel()

	svc, repo := newTestService(t)
	user := seedUser(t, repo, "alice@example.com", "correct-horse")

	t.Run("valid credentials", func(t *testing.T) {
		got, err := svc.VerifyCredentials(context.Background(), "alice@example.com", "correct-horse")
		require.NoError(t, err)
		require.Equal(t, user.ID, got.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.VerifyCredentials(context.Background(), "alice@example.com", "battery-staple")
		require.ErrorIs(t, err, xerrors.ErrCredentialsInvalid)
	})

	t.Run("unknown email collapses to the same error", func(t *testing.T) {
		_, err := svc.VerifyCredentials(context.Background(), "nobody@example.com", "whatever")
		require.ErrorIs(t, err, xerrors.ErrCredentialsInvalid)
	})
}

func TestIssueClaims(t *testing.T) {
	t.Parallel()

	svc, repo := newTestService(t)
	user := seedUser(t, repo, "admin@example.com", "pw-not-checked-here",
		auth.RoleGrant{Role: "admin", Permissions: []string{"product:write", "product:delete"}},
		auth.RoleGrant{Role: "seller", Permissions: []string{"product:write"}},
	)

	pair, err := svc.Issue(context.Background(), user.ID)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(testConfig().AccessTTL), pair.ExpiresAt, 2*time.Second)

	t.Run("access token decodes under access secret", func(t *testing.T) {
		claims, err := svc.VerifyAccess(pair.AccessToken)
		require.NoError(t, err)
		require.Equal(t, user.ID, claims.UserID)
		require.Equal(t, []string{"admin", "seller"}, claims.Roles)
		// union over both roles, deduplicated
		require.Equal(t, []string{"product:write", "product:delete"}, claims.Permissions)
	})

	t.Run("refresh token decodes under refresh secret with the same claims", func(t *testing.T) {
		claims, err := svc.VerifyRefresh(pair.RefreshToken)
		require.NoError(t, err)
		require.Equal(t, user.ID, claims.UserID)
		require.Equal(t, []string{"admin", "seller"}, claims.Roles)
	})

	t.Run("kinds are not interchangeable", func(t *testing.T) {
		_, err := svc.VerifyAccess(pair.RefreshToken)
		require.ErrorIs(t, err, xerrors.ErrTokenInvalid)

		_, err = svc.VerifyRefresh(pair.AccessToken)
		require.ErrorIs(t, err, xerrors.ErrTokenInvalid)
	})
}

func TestIssuePrincipalGone(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	_, err := svc.Issue(context.Background(), 404)
	require.ErrorIs(t, err, xerrors.ErrPrincipalNotFound)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	svc, repo := newTestService(t)
	seedUser(t, repo, "bob@example.com", "hunter22222",
		auth.RoleGrant{Role: "user", Permissions: nil},
	)

	pair, err := svc.Login(context.Background(), "bob@example.com", "hunter22222")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	_, err = svc.Login(context.Background(), "bob@example.com", "wrong")
	require.ErrorIs(t, err, xerrors.ErrCredentialsInvalid)
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	t.Run("mints a new pair with current claims", func(t *testing.T) {
		svc, repo := newTestService(t)
		user := seedUser(t, repo, "carol@example.com", "pw",
			auth.RoleGrant{Role: "user"},
		)

		pair, err := svc.Issue(context.Background(), user.ID)
		require.NoError(t, err)

		// Role assignments change between login and refresh; the new
		// tokens must reflect them.
		repo.grants[user.ID] = []auth.RoleGrant{
			{Role: "admin", Permissions: []string{"product:write"}},
		}

		renewed, err := svc.Refresh(context.Background(), pair.RefreshToken)
		require.NoError(t, err)

		claims, err := svc.VerifyAccess(renewed.AccessToken)
		require.NoError(t, err)
		require.Equal(t, []string{"admin"}, claims.Roles)
		require.Equal(t, []string{"product:write"}, claims.Permissions)

		refreshClaims, err := svc.VerifyRefresh(renewed.RefreshToken)
		require.NoError(t, err)
		require.Equal(t, user.ID, refreshClaims.UserID)
	})

	t.Run("deleted principal yields principal-not-found", func(t *testing.T) {
		svc, repo := newTestService(t)
		user := seedUser(t, repo, "dave@example.com", "pw",
			auth.RoleGrant{Role: "admin", Permissions: []string{"product:write"}},
		)

		pair, err := svc.Issue(context.Background(), user.ID)
		require.NoError(t, err)

		repo.deleteUser(user.ID)

		_, err = svc.Refresh(context.Background(), pair.RefreshToken)
		require.ErrorIs(t, err, xerrors.ErrPrincipalNotFound)
	})

	t.Run("access token is not accepted as a refresh token", func(t *testing.T) {
		svc, repo := newTestService(t)
		user := seedUser(t, repo, "erin@example.com", "pw")

		pair, err := svc.Issue(context.Background(), user.ID)
		require.NoError(t, err)

		_, err = svc.Refresh(context.Background(), pair.AccessToken)
		require.ErrorIs(t, err, xerrors.ErrTokenInvalid)
	})
}

func TestRegister(t *testing.T) {
	t.Parallel()

	svc, repo := newTestService(t)

	resp, err := svc.Register(context.Background(), &auth.RegisterRequest{
		Email:    "new@example.com",
		Password: "long-enough-pw",
	})
	require.NoError(t, err)
	require.Equal(t, "new@example.com", resp.Email)

	stored := repo.emailIndex["new@example.com"]
	require.NotNil(t, stored)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("long-enough-pw")))

	_, err = svc.Register(context.Background(), &auth.RegisterRequest{
		Email:    "new@example.com",
		Password: "another-pw-here",
	})
	require.ErrorIs(t, err, xerrors.ErrDuplicateEntry)
}

func TestScenarioAdminLifecycle(t *testing.T) {
	t.Parallel()

	svc, repo := newTestService(t)
	user := seedUser(t, repo, "admin7@example.com", "pw",
		auth.RoleGrant{Role: "admin", Permissions: []string{"product:write"}},
	)

	pair, err := svc.Issue(context.Background(), user.ID)
	require.NoError(t, err)

	claims, err := svc.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, token.Payload{
		UserID:      user.ID,
		Roles:       []string{"admin"},
		Permissions: []string{"product:write"},
	}, claims.Payload())

	repo.deleteUser(user.ID)

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	require.ErrorIs(t, err, xerrors.ErrPrincipalNotFound)
}
