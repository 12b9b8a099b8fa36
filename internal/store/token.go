package store

import (
	"context"
	"fmt"
	"time"

	"ecolabs/internal/utils"
	"ecolabs/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

const (
	refreshTokenTableName = "ecolabs.refresh_tokens"
	resetTokenTableName   = "ecolabs.reset_password_tokens"
)

var (
	refreshTokenColumns = utils.StructTagValues(types.RefreshToken{})
	resetTokenColumns   = utils.StructTagValues(types.ResetPasswordToken{})
)

type TokenRepository struct {
	db Querier
}

func NewTokenRepository(db Querier) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) withDB(db Querier) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) CreateRefreshToken(ctx context.Context, token *types.RefreshToken) error {
	token.CreatedAt = time.Now()

	query, args, err := psql().
		Insert(refreshTokenTableName).
		SetMap(utils.StructToMap(token)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create refresh token query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create refresh token: %w", err)
	}

	return nil
}

func (r *TokenRepository) RefreshToken(ctx context.Context, token string) (*types.RefreshToken, error) {
	query, args, err := psql().
		Select(refreshTokenColumns...).
		From(refreshTokenTableName).
		Where(sq.Eq{"token": token}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token query: %w", err)
	}

	var refreshToken types.RefreshToken
	err = pgxscan.Get(ctx, r.db, &refreshToken, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to fetch refresh token: %w", err)
	}

	return &refreshToken, nil
}

func (r *TokenRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	query, args, err := psql().
		Delete(refreshTokenTableName).
		Where(sq.Eq{"token": token}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete refresh token query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	return nil
}

func (r *TokenRepository) DeleteRefreshTokensByUser(ctx context.Context, userID string) error {
	query, args, err := psql().
		Delete(refreshTokenTableName).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete user refresh tokens query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete user refresh tokens: %w", err)
	}

	return nil
}

// UpsertResetToken replaces any previous reset token for the user; only
// the latest one can redeem a password reset.
func (r *TokenRepository) UpsertResetToken(ctx context.Context, token *types.ResetPasswordToken) error {
	now := time.Now()
	token.CreatedAt = now
	token.UpdatedAt = now

	query, args, err := psql().
		Insert(resetTokenTableName).
		SetMap(utils.StructToMap(token)).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET token = EXCLUDED.token, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate upsert reset token query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to upsert reset token: %w", err)
	}

	return nil
}

func (r *TokenRepository) ResetTokenByUser(ctx context.Context, userID string) (*types.ResetPasswordToken, error) {
	query, args, err := psql().
		Select(resetTokenColumns...).
		From(resetTokenTableName).
		Where(sq.Eq{"user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate reset token query: %w", err)
	}

	var resetToken types.ResetPasswordToken
	err = pgxscan.Get(ctx, r.db, &resetToken, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to fetch reset token: %w", err)
	}

	return &resetToken, nil
}

func (r *TokenRepository) DeleteResetToken(ctx context.Context, tokenID string) error {
	query, args, err := psql().
		Delete(resetTokenTableName).
		Where(sq.Eq{"id": tokenID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete reset token query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete reset token: %w", err)
	}

	return nil
}
