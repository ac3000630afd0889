package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/pkg/hash"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

type AuthService struct {
	Repo      *repo.GormRepo
	Users     *UserService
	JWTSecret []byte
	TokenTTL  time.Duration
}

type LoginResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	u, err := s.Users.Create(ctx, UserInput{Name: name, Email: email, Password: password, Role: models.RoleUser})
	if err != nil {
		l.Warn("register_failed", "error", err)
		return nil, err
	}
	return s.issue(u)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	u, err := s.Repo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if isRecordNotFound(err) {
			l.Warn("login_failed", "status", 401, "reason", "unknown email")
			return nil, fmt.Errorf("%w: Invalid credentials.", ErrUnauthorized)
		}
		return nil, err
	}
	if !hash.CheckPassword(u.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password", "user_id", u.ID)
		return nil, fmt.Errorf("%w: Invalid credentials.", ErrUnauthorized)
	}

	l.Info("login_success", "user_id", u.ID)
	return s.issue(u)
}

func (s *AuthService) issue(u *models.User) (*LoginResult, error) {
	exp := time.Now().Add(s.TokenTTL)
	tok, err := tokens.IssueAccessToken(s.JWTSecret, u.ID, u.Role, exp)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: u, Token: tok, ExpiresAt: exp}, nil
}
