package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	appmw "app/internal/middleware"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const testSecret = "test-secret-key"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func validClaims(userID int64, role string, tv int) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"tv":   tv,
		"iat":  now.Unix(),
		"exp":  now.Add(15 * time.Minute).Unix(),
	}
}

// ミドルウェアを1リクエスト分実行して結果を返す。
func runMiddleware(mw echo.MiddlewareFunc, authz string) (*httptest.ResponseRecorder, echo.Context, bool) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/order/1", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	nextCalled := false
	h := mw(func(c echo.Context) error {
		nextCalled = true
		return c.NoContent(http.StatusOK)
	})
	_ = h(c)
	return rec, c, nextCalled
}

func TestAuthJWT_ValidToken(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}
	token := signToken(t, testSecret, validClaims(42, "USER", 3))

	_, c, nextCalled := runMiddleware(appmw.AuthJWT(cfg), "Bearer "+token)

	assert.True(t, nextCalled)
	assert.Equal(t, int64(42), c.Get(appmw.CtxUserIDKey))
	assert.Equal(t, "USER", c.Get(appmw.CtxUserRoleKey))
	assert.Equal(t, 3, c.Get(appmw.CtxTokenVersionKey))
}

func TestAuthJWT_MissingHeader(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}

	rec, _, nextCalled := runMiddleware(appmw.AuthJWT(cfg), "")

	assert.False(t, nextCalled)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_NotBearer(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}

	rec, _, nextCalled := runMiddleware(appmw.AuthJWT(cfg), "Basic dXNlcjpwYXNz")

	assert.False(t, nextCalled)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_WrongSignature(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}
	token := signToken(t, "other-secret", validClaims(42, "USER", 0))

	rec, _, nextCalled := runMiddleware(appmw.AuthJWT(cfg), "Bearer "+token)

	assert.False(t, nextCalled)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_ExpiredToken(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}
	claims := validClaims(42, "USER", 0)
	claims["exp"] = time.Now().Add(-time.Minute).Unix()
	token := signToken(t, testSecret, claims)

	rec, _, nextCalled := runMiddleware(appmw.AuthJWT(cfg), "Bearer "+token)

	assert.False(t, nextCalled)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoleGuard(t *testing.T) {
	cases := []struct {
		name       string
		role       interface{}
		wantStatus int
		wantNext   bool
	}{
		{"admin passes", "ADMIN", http.StatusOK, true},
		{"user forbidden", "USER", http.StatusForbidden, false},
		{"missing role", nil, http.StatusUnauthorized, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/product", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tc.role != nil {
				c.Set(appmw.CtxUserRoleKey, tc.role)
			}

			nextCalled := false
			h := appmw.AdminRoleGuard()(func(c echo.Context) error {
				nextCalled = true
				return c.NoContent(http.StatusOK)
			})
			_ = h(c)

			assert.Equal(t, tc.wantNext, nextCalled)
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

type guardUserRepoMock struct{ mock.Mock }

func (m *guardUserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *guardUserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *guardUserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *guardUserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *guardUserRepoMock) IncrementTokenVersion(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func runTokenVersionGuard(t *testing.T, repo *guardUserRepoMock, userID interface{}, tv interface{}) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/order/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != nil {
		c.Set(appmw.CtxUserIDKey, userID)
	}
	if tv != nil {
		c.Set(appmw.CtxTokenVersionKey, tv)
	}

	nextCalled := false
	h := appmw.TokenVersionGuard(repo)(func(c echo.Context) error {
		nextCalled = true
		return c.NoContent(http.StatusOK)
	})
	_ = h(c)
	return rec, nextCalled
}

func TestTokenVersionGuard_Match(t *testing.T) {
	repo := new(guardUserRepoMock)
	repo.On("FindByID", mock.Anything, int64(42)).Return(&model.User{ID: 42, TokenVersion: 3}, nil)

	rec, nextCalled := runTokenVersionGuard(t, repo, int64(42), 3)

	assert.True(t, nextCalled)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTokenVersionGuard_StaleToken(t *testing.T) {
	repo := new(guardUserRepoMock)
	//ログアウトでtoken_versionが進んでいる
	repo.On("FindByID", mock.Anything, int64(42)).Return(&model.User{ID: 42, TokenVersion: 4}, nil)

	rec, nextCalled := runTokenVersionGuard(t, repo, int64(42), 3)

	assert.False(t, nextCalled)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTokenVersionGuard_UnknownUser(t *testing.T) {
	repo := new(guardUserRepoMock)
	repo.On("FindByID", mock.Anything, int64(42)).Return(nil, assert.AnError)

	rec, nextCalled := runTokenVersionGuard(t, repo, int64(42), 3)

	assert.False(t, nextCalled)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTokenVersionGuard_MissingContext(t *testing.T) {
	repo := new(guardUserRepoMock)

	rec, nextCalled := runTokenVersionGuard(t, repo, nil, nil)

	assert.False(t, nextCalled)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}
