package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Skotchmaster/shop_erp/internal/store"
	jwthelp "github.com/Skotchmaster/shop_erp/pkg/jwt"
	"github.com/Skotchmaster/shop_erp/pkg/logging"
	"github.com/Skotchmaster/shop_erp/pkg/tokens"
)

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is stored. Reuse of a rotated token fails.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*tokens.Pair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRefreshToken, err)
	}

	stored, err := s.Repo.GetRefreshToken(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if stored.Token != jwthelp.Sha256Hex(refreshToken) {
		return nil, ErrInvalidRefreshToken
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	user, err := s.Repo.GetUser(ctx, uint(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	pair, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.RotateRefreshToken(ctx, claims.ID, refreshRecord(user.ID, pair)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Warn("refresh_rejected", "reason", "token revoked or expired", "user_id", user.ID)
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	l.Info("refresh_success", "user_id", user.ID)
	return pair, nil
}

// LogOut revokes the refresh token when it is one of ours. Unknown or
// malformed tokens are ignored.
func (s *AuthService) LogOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil
	}
	if err := s.Repo.RevokeRefreshToken(ctx, claims.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return nil
}
