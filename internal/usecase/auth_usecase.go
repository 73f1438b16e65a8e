package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"marketplace/internal/config"
	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
)

// accesstokenの有効期限
const accessTokenTTL = 15 * time.Minute

// refreshtokenの有効期限
const refreshTokenTTL = 30 * 24 * time.Hour

type UserDTO struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	TokenVersion int    `json:"token_version"`
	IsActive     bool   `json:"is_active"`
}

type JwtAccessTokenDTO struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenVersion int    `json:"token_version"`
}

type AuthRegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,max=255"`
	//"CUSTOMER" か "VENDOR"。空ならCUSTOMER。
	Role string `json:"role" validate:"omitempty,oneof=CUSTOMER VENDOR"`
}

type AuthLoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	User              UserDTO
	Token             JwtAccessTokenDTO
	RefreshTokenPlain string
}

type RefreshResult struct {
	Token             JwtAccessTokenDTO
	RefreshTokenPlain string
}

type AuthUsecase struct {
	cfg    config.Config
	users  repo.UserRepository
	rtRepo repo.RefreshTokenRepository
}

func NewAuthUsecase(cfg config.Config, users repo.UserRepository, rtRepo repo.RefreshTokenRepository) *AuthUsecase {
	return &AuthUsecase{cfg: cfg, users: users, rtRepo: rtRepo}
}

func (u *AuthUsecase) Register(ctx context.Context, in AuthRegisterInput) (*UserDTO, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, errValidation("invalid email")
	}
	if len(in.Password) < 8 {
		return nil, errValidation("password must be at least 8 characters")
	}
	if in.Name == "" {
		return nil, errValidation("name is required")
	}

	role := model.RoleCustomer
	switch in.Role {
	case "", string(model.RoleCustomer):
	case string(model.RoleVendor):
		role = model.RoleVendor
	default:
		//ADMINは自己登録させない
		return nil, errValidation("invalid role")
	}

	existing, err := u.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, errInternal()
	}
	if existing != nil {
		return nil, errConflict("email already registered")
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errInternal()
	}

	user := &model.User{
		Email:        in.Email,
		PasswordHash: string(pwHash),
		Name:         in.Name,
		Role:         role,
		TokenVersion: 0,
		IsActive:     true,
	}
	if err := u.users.Create(ctx, user); err != nil {
		//unique違反との競合はここに落ちる
		return nil, errConflict("email already registered")
	}

	dto := toUserDTO(user)
	return &dto, nil
}

func (u *AuthUsecase) Login(ctx context.Context, in AuthLoginInput, userAgent string) (*LoginResult, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if in.Email == "" || in.Password == "" {
		return nil, errValidation("email and password are required")
	}

	user, err := u.users.FindByEmail(ctx, in.Email)
	if err != nil || user == nil {
		return nil, errUnauthorized()
	}

	//停止ユーザーはログイン不可
	if !user.IsActive {
		return nil, errForbidden("account is disabled")
	}

	//パスワード照合（bcrypt）
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, errUnauthorized()
	}

	now := time.Now()
	user.LastLoginAt = &now
	_ = u.users.Update(ctx, user)

	accessToken, expiresIn, err := u.issueAccessToken(user)
	if err != nil {
		return nil, errInternal()
	}

	//refresh tokenはhashだけDBに置く
	refreshPlain, refreshHash, err := newRandomTokenAndHash()
	if err != nil {
		return nil, errInternal()
	}
	rt := &model.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: refreshHash,
		UserAgent: userAgent,
		ExpiresAt: now.Add(refreshTokenTTL),
	}
	if err := u.rtRepo.Create(ctx, rt); err != nil {
		return nil, errInternal()
	}

	return &LoginResult{
		User: toUserDTO(user),
		Token: JwtAccessTokenDTO{
			AccessToken:  accessToken,
			ExpiresIn:    expiresIn,
			TokenVersion: user.TokenVersion,
		},
		RefreshTokenPlain: refreshPlain,
	}, nil
}

func (u *AuthUsecase) Me(ctx context.Context, userID int64) (*UserDTO, error) {
	if userID <= 0 {
		return nil, errUnauthorized()
	}
	user, err := u.users.FindByID(ctx, userID)
	if err != nil || user == nil {
		return nil, errUnauthorized()
	}
	if !user.IsActive {
		return nil, errForbidden("account is disabled")
	}
	dto := toUserDTO(user)
	return &dto, nil
}

// ローテーション付きrefresh。used済みトークンの再提示はreplayとみなし
// そのユーザーのrefresh tokenを全部破棄する。
func (u *AuthUsecase) Refresh(ctx context.Context, refreshTokenPlain string, userAgent string) (*RefreshResult, error) {
	if refreshTokenPlain == "" {
		return nil, errUnauthorized()
	}

	rt, err := u.rtRepo.FindByTokenHash(ctx, hashToken(refreshTokenPlain))
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errUnauthorized()
	}
	if err != nil {
		return nil, errInternal()
	}

	now := time.Now()

	if rt.ExpiresAt.Before(now) {
		_ = u.rtRepo.Revoke(ctx, rt.ID, now)
		return nil, errUnauthorized()
	}
	if rt.RevokedAt != nil {
		return nil, errUnauthorized()
	}
	if rt.UsedAt != nil {
		//replay検知
		_ = u.rtRepo.DeleteAllByUserID(ctx, rt.UserID)
		return nil, errUnauthorized()
	}
	if userAgent != "" && rt.UserAgent != "" && userAgent != rt.UserAgent {
		_ = u.rtRepo.DeleteAllByUserID(ctx, rt.UserID)
		return nil, errUnauthorized()
	}

	user, err := u.users.FindByID(ctx, rt.UserID)
	if err != nil || user == nil {
		return nil, errUnauthorized()
	}
	if !user.IsActive {
		return nil, errForbidden("account is disabled")
	}

	if err := u.rtRepo.MarkUsed(ctx, rt.ID, now); err != nil {
		_ = u.rtRepo.DeleteAllByUserID(ctx, rt.UserID)
		return nil, errUnauthorized()
	}

	newPlain, newHash, err := newRandomTokenAndHash()
	if err != nil {
		return nil, errInternal()
	}
	if err := u.rtRepo.Create(ctx, &model.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: newHash,
		UserAgent: userAgent,
		ExpiresAt: now.Add(refreshTokenTTL),
	}); err != nil {
		return nil, errInternal()
	}

	accessToken, expiresIn, err := u.issueAccessToken(user)
	if err != nil {
		return nil, errInternal()
	}

	return &RefreshResult{
		Token: JwtAccessTokenDTO{
			AccessToken:  accessToken,
			ExpiresIn:    expiresIn,
			TokenVersion: user.TokenVersion,
		},
		RefreshTokenPlain: newPlain,
	}, nil
}

func (u *AuthUsecase) Logout(ctx context.Context, refreshTokenPlain string) error {
	if refreshTokenPlain == "" {
		return errUnauthorized()
	}
	rt, err := u.rtRepo.FindByTokenHash(ctx, hashToken(refreshTokenPlain))
	if errors.Is(err, repo.ErrNotFound) {
		return errUnauthorized()
	}
	if err != nil {
		return errInternal()
	}
	if err := u.rtRepo.Revoke(ctx, rt.ID, time.Now()); err != nil {
		return errInternal()
	}
	return nil
}

// 管理者による強制ログアウト。token_versionを進めて発行済みaccess tokenも無効化する。
func (u *AuthUsecase) ForceLogout(ctx context.Context, targetUserID int64) (int, error) {
	if targetUserID <= 0 {
		return 0, errValidation("invalid user id")
	}
	if err := u.users.IncrementTokenVersion(ctx, targetUserID); err != nil {
		return 0, errInternal()
	}
	if err := u.rtRepo.DeleteAllByUserID(ctx, targetUserID); err != nil {
		return 0, errInternal()
	}
	user, err := u.users.FindByID(ctx, targetUserID)
	if err != nil || user == nil {
		return 0, errInternal()
	}
	return user.TokenVersion, nil
}

// jwt発行
func (u *AuthUsecase) issueAccessToken(user *model.User) (string, int, error) {
	now := time.Now()
	exp := now.Add(accessTokenTTL)

	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"tv":   user.TokenVersion,
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(u.cfg.JWTSecret))
	if err != nil {
		return "", 0, err
	}
	return signed, int(accessTokenTTL.Seconds()), nil
}

// refresh token生成（平文 + DB保存hash）
func newRandomTokenAndHash() (plain string, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	plain = base64.RawURLEncoding.EncodeToString(b)
	sum := sha256.Sum256([]byte(plain))
	hash = base64.RawURLEncoding.EncodeToString(sum[:])
	return plain, hash, nil
}

func hashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func toUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         string(u.Role),
		TokenVersion: u.TokenVersion,
		IsActive:     u.IsActive,
	}
}
