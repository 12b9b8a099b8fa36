package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"ecolabs/internal/store"
	"ecolabs/internal/utils"
	"ecolabs/pkg/types"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Claims is the access token payload. Role travels with the token so
// the middleware can build the caller without a user lookup.
type Claims struct {
	UserID string     `json:"user_id"`
	Role   types.Role `json:"role"`
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Name           string     `json:"name" form:"name"`
	Email          string     `json:"email" form:"email"`
	Password       string     `json:"password" form:"password"`
	Role           types.Role `json:"roles" form:"roles"`
	Phone          *string    `json:"phone" form:"phone"`
	UniversityName *string    `json:"universityName" form:"universityName"`
	Advisor        *string    `json:"advisor" form:"advisor"`
	ContactName    *string    `json:"contactName" form:"contactName"`
}

type AuthResult struct {
	User         *types.User `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

// Register creates a self-service account. Researchers start in the
// pending state and wait for an admin decision; the admin is notified
// by mail once the row is committed.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*types.User, error) {

	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, types.BadRequestError("name, email and password are required")
	}
	if !input.Role.Valid() || input.Role == types.RoleAdmin {
		return nil, types.BadRequestError("invalid role: %s", input.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &types.User{
		ID:             utils.NanoID(),
		Name:           input.Name,
		Email:          input.Email,
		Password:       string(hash),
		Role:           input.Role,
		Phone:          input.Phone,
		UniversityName: input.UniversityName,
		Advisor:        input.Advisor,
		ContactName:    input.ContactName,
	}
	if input.Role == types.RoleResearcher {
		user.Status = utils.Ptr(types.ResearcherStatusPending)
	}

	if err := s.store.Users.Create(ctx, user); err != nil {
		return nil, err
	}

	if input.Role == types.RoleResearcher {
		if err := s.mailer.SendResearcherApplication(user.Name, user.Email); err != nil {
			s.logger.WithError(err).WithField("user_id", user.ID).Warn("failed to send researcher application mail")
		}
	}

	return user, nil
}

// Login verifies credentials and issues an access/refresh token pair.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {

	user, err := s.store.Users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			return nil, types.NewStatusError(401, "invalid email or password")
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, types.NewStatusError(401, "invalid email or password")
	}

	if user.IsArchived {
		return nil, types.ForbiddenError("this account has been archived")
	}

	if user.Role == types.RoleResearcher && user.Status != nil && *user.Status != types.ResearcherStatusApproved {
		return nil, types.ForbiddenError("your researcher application is %s", *user.Status)
	}

	return s.issueTokens(ctx, user)
}

// Refresh rotates a refresh token and issues a new pair. The stored
// token row is the source of truth; a valid signature on a token we no
// longer hold is rejected.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {

	if _, err := s.parseToken(refreshToken, s.config.RefreshTokenSecret); err != nil {
		return nil, types.NewStatusError(401, "invalid refresh token")
	}

	stored, err := s.store.Tokens.RefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, types.ErrTokenNotFound) {
			return nil, types.NewStatusError(401, "invalid refresh token")
		}
		return nil, err
	}

	user, err := s.store.Users.User(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.store.Tokens.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	return s.store.Tokens.DeleteRefreshToken(ctx, refreshToken)
}

// ForgotPassword issues a reset token and mails it to the account
// holder. Unknown emails succeed silently so the endpoint cannot be
// used to enumerate accounts.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {

	user, err := s.store.Users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			return nil
		}
		return err
	}

	token := &types.ResetPasswordToken{
		ID:     utils.NanoID(),
		UserID: user.ID,
		Token:  utils.GenerateOTP(),
	}
	if err := s.store.Tokens.UpsertResetToken(ctx, token); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(user.Email, user.Name, token.Token); err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Warn("failed to send password reset mail")
	}

	return nil
}

const resetTokenTTL = time.Hour

// ResetPassword redeems a reset token. Every refresh token for the
// account is revoked at the same time.
func (s *Service) ResetPassword(ctx context.Context, email, code, newPassword string) error {

	if len(newPassword) < 8 {
		return types.BadRequestError("password must be at least 8 characters")
	}

	user, err := s.store.Users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			return types.BadRequestError("invalid or expired reset code")
		}
		return err
	}

	stored, err := s.store.Tokens.ResetTokenByUser(ctx, user.ID)
	if err != nil {
		if errors.Is(err, types.ErrTokenNotFound) {
			return types.BadRequestError("invalid or expired reset code")
		}
		return err
	}

	if subtle.ConstantTimeCompare([]byte(stored.Token), []byte(code)) != 1 {
		return types.BadRequestError("invalid or expired reset code")
	}

	if time.Since(stored.UpdatedAt) > resetTokenTTL {
		return types.BadRequestError("invalid or expired reset code")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.store.InTx(ctx, func(tx *store.Store) error {
		if err := tx.Users.UpdatePassword(ctx, stored.UserID, string(hash)); err != nil {
			return err
		}
		if err := tx.Tokens.DeleteResetToken(ctx, stored.ID); err != nil {
			return err
		}
		return tx.Tokens.DeleteRefreshTokensByUser(ctx, stored.UserID)
	})
	return types.TransactionError(err, "failed to reset password")
}

func (s *Service) issueTokens(ctx context.Context, user *types.User) (*AuthResult, error) {

	access, err := s.signToken(user, s.config.AccessTokenSecret, time.Duration(s.config.AccessTokenTTLMin)*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh, err := s.signToken(user, s.config.RefreshTokenSecret, time.Duration(s.config.RefreshTokenTTLHrs)*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	err = s.store.Tokens.CreateRefreshToken(ctx, &types.RefreshToken{
		ID:     utils.NanoID(),
		UserID: user.ID,
		Token:  refresh,
	})
	if err != nil {
		return nil, err
	}

	sanitized := user.Sanitized(types.Caller{ID: user.ID, Role: user.Role})

	return &AuthResult{
		User:         &sanitized,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func (s *Service) signToken(user *types.User, secret string, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func (s *Service) parseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}

// SignAccessToken issues a bare access token for a user, outside the
// usual login flow.
func (s *Service) SignAccessToken(user *types.User) (string, error) {
	return s.signToken(user, s.config.AccessTokenSecret, time.Duration(s.config.AccessTokenTTLMin)*time.Minute)
}

// ParseAccessToken validates an access token for the middleware.
func (s *Service) ParseAccessToken(tokenString string) (*Claims, error) {
	return s.parseToken(tokenString, s.config.AccessTokenSecret)
}
