package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/pkg/hash"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const minPasswordLen = 8

type UserService struct {
	Repo *repo.GormRepo
}

type UserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type UserPatch struct {
	Name     *string
	Email    *string
	Password *string
	Role     *string
}

func validRole(r string) bool {
	return r == models.RoleAdmin || r == models.RoleUser
}

func (s *UserService) List(ctx context.Context, f repo.UserFilter) ([]models.User, int64, error) {
	if f.Role != "" && !validRole(f.Role) {
		return nil, 0, invalid("role", "The selected role is invalid.")
	}
	return s.Repo.ListUsers(ctx, f)
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

func (s *UserService) Create(ctx context.Context, in UserInput) (*models.User, error) {
	ve := &ValidationError{}
	if strings.TrimSpace(in.Name) == "" {
		ve.Add("name", "The name field is required.")
	}
	if strings.TrimSpace(in.Email) == "" {
		ve.Add("email", "The email field is required.")
	}
	if len(in.Password) < minPasswordLen {
		ve.Add("password", fmt.Sprintf("The password field must be at least %d characters.", minPasswordLen))
	}
	if in.Role == "" {
		in.Role = models.RoleUser
	}
	if !validRole(in.Role) {
		ve.Add("role", "The selected role is invalid.")
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}

	pw, err := hash.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: pw,
		Role:         in.Role,
	}
	if err := s.Repo.CreateUser(ctx, u); err != nil {
		return nil, duplicate(err, "The email has already been taken.")
	}
	logging.FromContext(ctx).Info("user_created", "svc", "user.create", "user_id", u.ID, "role", u.Role)
	return u, nil
}

// Update applies p to the user. On the self path role changes are ignored.
func (s *UserService) Update(ctx context.Context, id uint, p UserPatch, self bool) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "user.update", "user_id", id)

	u, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		return nil, notFound(err, "user")
	}

	ve := &ValidationError{}
	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			ve.Add("name", "The name field is required.")
		}
		u.Name = strings.TrimSpace(*p.Name)
	}
	if p.Email != nil {
		if strings.TrimSpace(*p.Email) == "" {
			ve.Add("email", "The email field is required.")
		}
		u.Email = strings.ToLower(strings.TrimSpace(*p.Email))
	}
	if p.Password != nil && *p.Password != "" {
		if len(*p.Password) < minPasswordLen {
			ve.Add("password", fmt.Sprintf("The password field must be at least %d characters.", minPasswordLen))
		} else {
			pw, err := hash.HashPassword(*p.Password)
			if err != nil {
				return nil, err
			}
			u.PasswordHash = pw
		}
	}
	if p.Role != nil && !self {
		if !validRole(*p.Role) {
			ve.Add("role", "The selected role is invalid.")
		} else if u.Role == models.RoleAdmin && *p.Role != models.RoleAdmin {
			if err := s.ensureOtherAdmin(ctx); err != nil {
				return nil, err
			}
		}
		u.Role = *p.Role
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}

	if err := s.Repo.SaveUser(ctx, u); err != nil {
		return nil, duplicate(err, "The email has already been taken.")
	}
	l.Info("user_updated", "self", self)
	return u, nil
}

func (s *UserService) ensureOtherAdmin(ctx context.Context) error {
	n, err := s.Repo.CountUsersByRole(ctx, models.RoleAdmin)
	if err != nil {
		return err
	}
	if n <= 1 {
		return fmt.Errorf("%w: Cannot remove the last admin user.", ErrForbidden)
	}
	return nil
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	l := logging.FromContext(ctx).With("svc", "user.delete", "user_id", id)

	u, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		return notFound(err, "user")
	}
	if u.Role == models.RoleAdmin {
		if err := s.ensureOtherAdmin(ctx); err != nil {
			l.Warn("user_delete_rejected", "status", 403, "reason", "last admin")
			return err
		}
	}
	if err := s.Repo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return fmt.Errorf("%w: Cannot delete user that has orders.", ErrConflict)
		}
		return notFound(err, "user")
	}
	l.Info("user_deleted")
	return nil
}
