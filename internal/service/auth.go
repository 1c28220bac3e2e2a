package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/shop_erp/internal/models"
	"github.com/Skotchmaster/shop_erp/internal/mykafka"
	"github.com/Skotchmaster/shop_erp/internal/store"
	"github.com/Skotchmaster/shop_erp/internal/transport"
	pkghash "github.com/Skotchmaster/shop_erp/pkg/hash"
	"github.com/Skotchmaster/shop_erp/pkg/logging"
	"github.com/Skotchmaster/shop_erp/pkg/tokens"
)

type AuthRepo interface {
	store.Users
	store.RefreshTokens
}

type AuthService struct {
	Repo          AuthRepo
	JWTSecret     []byte
	RefreshSecret []byte
	Events        mykafka.Publisher
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, *tokens.Pair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if req.Role != "" && !models.ValidRole(req.Role) {
		return nil, nil, invalid("role", "must be one of shop_owner vendor")
	}

	pwHash, err := pkghash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, nil, err
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: string(pwHash),
		FullName:     req.FullName,
		Email:        req.Email,
		Role:         req.Role,
		CompanyName:  req.CompanyName,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			l.Warn("register_error", "status", 409, "reason", "user already exist")
			return nil, nil, fmt.Errorf("%w: username is already taken", ErrConflict)
		}
		return nil, nil, err
	}

	pair, err := s.persistNew(ctx, &user)
	if err != nil {
		return nil, nil, err
	}

	mykafka.Emit(ctx, s.Events, mykafka.TopicUsers, mykafka.NewEvent("user_registered", user.ID, user.ID, map[string]any{
		"username": user.Username,
		"role":     user.Role,
	}))
	return &user, pair, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, *tokens.Pair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if username == "" || password == "" {
		return nil, nil, ErrInvalidCredentials
	}

	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Warn("login failed", "status", 401, "reason", "unknown username")
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !pkghash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login failed", "status", 401, "reason", "wrong password")
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.persistNew(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	mykafka.Emit(ctx, s.Events, mykafka.TopicUsers, mykafka.NewEvent("user_logged_in", user.ID, user.ID, nil))
	return user, pair, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		return nil, fromStore(err)
	}
	return user, nil
}
