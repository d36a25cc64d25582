package usecase

import (
	"context"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/gommon/log"
	"golang.org/x/crypto/bcrypt"
)

// accesstokenの有効期限
const accessTokenTTL = 15 * time.Minute

type AuthUsecase struct {
	users     repo.UserRepository
	jwtSecret []byte
}

// DI
func NewAuthUsecase(users repo.UserRepository, jwtSecret string) *AuthUsecase {
	return &AuthUsecase{
		users:     users,
		jwtSecret: []byte(jwtSecret),
	}
}

type UserDTO struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

type AccessTokenDTO struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type AuthRegisterOutput struct {
	User UserDTO `json:"user"`
}

type AuthLoginOutput struct {
	User  UserDTO        `json:"user"`
	Token AccessTokenDTO `json:"token"`
}

func toUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:       u.ID,
		Email:    u.Email,
		Role:     string(u.Role),
		IsActive: u.IsActive,
	}
}

func (u *AuthUsecase) Register(ctx context.Context, email string, password string) (AuthRegisterOutput, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return AuthRegisterOutput{}, NewHTTPError(http.StatusBadRequest, "email", "invalid email format")
	}
	if len(password) < 12 {
		return AuthRegisterOutput{}, NewHTTPError(http.StatusBadRequest, "password", "password too short")
	}

	//email重複チェック
	existing, err := u.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return AuthRegisterOutput{}, NewHTTPError(http.StatusConflict, "email", "email already exists")
	}
	if err != nil && err != repo.ErrNotFound {
		return AuthRegisterOutput{}, NewHTTPError(http.StatusInternalServerError, "db", "db error")
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return AuthRegisterOutput{}, NewHTTPError(http.StatusInternalServerError, "password", "internal error")
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(pwHash),
		Role:         model.RoleUser,
		TokenVersion: 0,
		IsActive:     true,
	}

	if err := u.users.Create(ctx, user); err != nil {
		return AuthRegisterOutput{}, NewHTTPError(http.StatusConflict, "email", "email already exists")
	}

	return AuthRegisterOutput{User: toUserDTO(user)}, nil
}

func (u *AuthUsecase) Login(ctx context.Context, email string, password string) (AuthLoginOutput, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return AuthLoginOutput{}, NewHTTPError(http.StatusBadRequest, "email", "email and password required")
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil || user == nil {
		return AuthLoginOutput{}, NewHTTPError(http.StatusUnauthorized, "email", "unauthorized")
	}

	//停止ユーザーはログイン不可
	if !user.IsActive {
		return AuthLoginOutput{}, NewHTTPError(http.StatusForbidden, "email", "forbidden")
	}

	//パスワード照合（bcrypt）
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return AuthLoginOutput{}, NewHTTPError(http.StatusUnauthorized, "password", "unauthorized")
	}

	//last_login更新。失敗してもログインは通すがログには残す
	now := time.Now()
	user.LastLoginAt = &now
	if err := u.users.Update(ctx, user); err != nil {
		log.Warnf("last login update failed: user=%d err=%v", user.ID, err)
	}

	token, expiresIn, err := u.issueAccessToken(user, now)
	if err != nil {
		return AuthLoginOutput{}, NewHTTPError(http.StatusInternalServerError, "token", "internal error")
	}

	return AuthLoginOutput{
		User: toUserDTO(user),
		Token: AccessTokenDTO{
			AccessToken: token,
			ExpiresIn:   expiresIn,
		},
	}, nil
}

// Logoutはtoken_versionを+1して発行済みトークンを全部失効させる。
func (u *AuthUsecase) Logout(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "user", "unauthorized")
	}
	if err := u.users.IncrementTokenVersion(ctx, userID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db", "db error")
	}
	return nil
}

func (u *AuthUsecase) issueAccessToken(user *model.User, now time.Time) (string, int, error) {
	expiresAt := now.Add(accessTokenTTL)

	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"tv":   user.TokenVersion,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(u.jwtSecret)
	if err != nil {
		return "", 0, err
	}

	return signed, int(accessTokenTTL.Seconds()), nil
}
