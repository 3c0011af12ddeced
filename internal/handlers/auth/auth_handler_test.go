package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront-service/internal/config"
	domauth "storefront-service/internal/domain/auth"
	"storefront-service/internal/middleware"
	xerrors "storefront-service/internal/pkg/errors"
	authUsecase "storefront-service/internal/service/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type memUserRepo struct {
	users  map[int64]*domauth.User
	byMail map[string]*domauth.User
	grants map[int64][]domauth.RoleGrant
	nextID int64
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		users:  make(map[int64]*domauth.User),
		byMail: make(map[string]*domauth.User),
		grants: make(map[int64][]domauth.RoleGrant),
		nextID: 1,
	}
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*domauth.User, error) {
	if u, ok := r.byMail[email]; ok {
		return u, nil
	}
	return nil, xerrors.ErrNotFound
}

func (r *memUserRepo) FindByID(ctx context.Context, id int64) (*domauth.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, xerrors.ErrNotFound
}

func (r *memUserRepo) Create(ctx context.Context, user *domauth.User) error {
	if _, exists := r.byMail[user.Email]; exists {
		return xerrors.ErrDuplicateEntry
	}
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	r.byMail[user.Email] = user
	return nil
}

func (r *memUserRepo) LoadRoleGrants(ctx context.Context, userID int64) ([]domauth.RoleGrant, error) {
	return r.grants[userID], nil
}

func newAuthRouter(t *testing.T) (*gin.Engine, *memUserRepo, *authUsecase.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newMemUserRepo()
	svc := authUsecase.NewAuthService(repo, config.AuthConfig{
		AccessSecret:  "handler-access-secret",
		RefreshSecret: "handler-refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}, zap.NewNop())

	handler := NewAuthHandler(svc, false, zap.NewNop())
	mw := middleware.NewAuthMiddleware(svc, zap.NewNop())

	r := gin.New()
	r.POST("/auth/register", handler.Register)
	r.POST("/auth/login", handler.Login)
	r.POST("/auth/refresh", mw.RequireRefresh(), handler.Refresh)
	r.GET("/auth/me", mw.RequireAuth(), handler.Me)

	return r, repo, svc
}

func seed(t *testing.T, repo *memUserRepo, email, password string, grants ...domauth.RoleGrant) *domauth.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &domauth.User{Email: email, Password: string(hashed)}
	require.NoError(t, repo.Create(context.Background(), u))
	repo.grants[u.ID] = grants
	return u
}

func cookieByName(res *http.Response, name string) *http.Cookie {
	for _, ck := range res.Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestLoginSetsCookiePair(t *testing.T) {
	r, repo, _ := newAuthRouter(t)
	seed(t, repo, "alice@example.com", "correct-horse",
		domauth.RoleGrant{Role: "admin", Permissions: []string{"product:write"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"alice@example.com","password":"correct-horse"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	res := w.Result()
	access := cookieByName(res, middleware.AccessCookieName)
	refresh := cookieByName(res, middleware.RefreshCookieName)
	require.NotNil(t, access)
	require.NotNil(t, refresh)

	require.True(t, access.HttpOnly)
	require.True(t, refresh.HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, access.SameSite)
	require.Equal(t, http.SameSiteLaxMode, refresh.SameSite)
	require.Equal(t, "/", access.Path)

	// Access cookie expires with the token; the refresh cookie is a
	// session cookie with no explicit expiry.
	require.WithinDuration(t, time.Now().Add(15*time.Minute), access.Expires, 5*time.Second)
	require.True(t, refresh.Expires.IsZero())
}

func TestLoginBadCredentials(t *testing.T) {
	r, repo, _ := newAuthRouter(t)
	seed(t, repo, "alice@example.com", "correct-horse")

	for name, body := range map[string]string{
		"wrong password": `{"email":"alice@example.com","password":"nope-nope"}`,
		"unknown email":  `{"email":"ghost@example.com","password":"whatever1"}`,
	} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			require.Equal(t, http.StatusUnauthorized, w.Code)
			require.NotContains(t, w.Body.String(), "not found")
			require.Empty(t, w.Result().Cookies())
		})
	}
}

func TestRefreshRotatesBothTokens(t *testing.T) {
	r, repo, svc := newAuthRouter(t)
	user := seed(t, repo, "bob@example.com", "pw", domauth.RoleGrant{Role: "user"})

	pair, err := svc.Issue(context.Background(), user.ID)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: middleware.RefreshCookieName, Value: pair.RefreshToken})
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	res := w.Result()
	access := cookieByName(res, middleware.AccessCookieName)
	refresh := cookieByName(res, middleware.RefreshCookieName)
	require.NotNil(t, access)
	require.NotNil(t, refresh)

	claims, err := svc.VerifyAccess(access.Value)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)

	// rotation: the refresh token is replaced too
	newClaims, err := svc.VerifyRefresh(refresh.Value)
	require.NoError(t, err)
	require.Equal(t, user.ID, newClaims.UserID)
}

func TestRefreshWithoutCookie(t *testing.T) {
	r, _, _ := newAuthRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe(t *testing.T) {
	r, repo, svc := newAuthRouter(t)
	user := seed(t, repo, "carol@example.com", "pw",
		domauth.RoleGrant{Role: "seller", Permissions: []string{"product:write"}})

	pair, err := svc.Issue(context.Background(), user.ID)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AccessCookieName, Value: pair.AccessToken})
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"seller"`)
	require.Contains(t, w.Body.String(), `"product:write"`)
}

func TestRegister(t *testing.T) {
	r, _, _ := newAuthRouter(t)

	t.Run("creates account", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/register",
			strings.NewReader(`{"email":"new@example.com","password":"long-enough-pw"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/register",
			strings.NewReader(`{"email":"new@example.com","password":"long-enough-pw"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("short password rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/register",
			strings.NewReader(`{"email":"short@example.com","password":"tiny"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}
