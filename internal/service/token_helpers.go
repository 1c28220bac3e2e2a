package service

import (
	"context"
	"strconv"
	"time"

	"github.com/Skotchmaster/shop_erp/internal/models"
	jwthelp "github.com/Skotchmaster/shop_erp/pkg/jwt"
	"github.com/Skotchmaster/shop_erp/pkg/tokens"
)

const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour
)

func (s *AuthService) CreateAccessToken(role, id string, accessExp time.Time) (string, error) {
	return tokens.NewAccessToken(s.JWTSecret, id, role, accessExp)
}

func (s *AuthService) CreateRefreshToken(id string, refreshExp time.Time) (string, string, error) {
	jti := jwthelp.NewJTI()
	token, err := tokens.NewRefreshToken(s.RefreshSecret, id, jti, refreshExp)
	if err != nil {
		return "", "", err
	}
	return token, jti, nil
}

// issue signs a fresh pair for u. The refresh token is not persisted here.
func (s *AuthService) issue(u *models.User) (*tokens.Pair, error) {
	now := time.Now()
	sub := strconv.FormatUint(uint64(u.ID), 10)

	accessExp := now.Add(AccessTTL)
	access, err := s.CreateAccessToken(u.Role, sub, accessExp)
	if err != nil {
		return nil, err
	}

	refreshExp := now.Add(RefreshTTL)
	refresh, jti, err := s.CreateRefreshToken(sub, refreshExp)
	if err != nil {
		return nil, err
	}

	return &tokens.Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		RefreshJTI:   jti,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

func refreshRecord(userID uint, pair *tokens.Pair) *models.RefreshToken {
	return &models.RefreshToken{
		Token:     jwthelp.Sha256Hex(pair.RefreshToken),
		UserID:    userID,
		JTI:       pair.RefreshJTI,
		ExpiresAt: pair.RefreshExp.Unix(),
	}
}

func (s *AuthService) persistNew(ctx context.Context, u *models.User) (*tokens.Pair, error) {
	pair, err := s.issue(u)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.CreateRefreshToken(ctx, refreshRecord(u.ID, pair)); err != nil {
		return nil, err
	}
	return pair, nil
}
