package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type AddressService struct {
	Repo *repo.GormRepo
}

type AddressInput struct {
	UserID        uint
	RecipientName string
	Phone         string
	AddressLine   string
	City          string
	Province      string
	PostalCode    string
	Country       string
	IsDefault     bool
}

type AddressPatch struct {
	RecipientName *string
	Phone         *string
	AddressLine   *string
	City          *string
	Province      *string
	PostalCode    *string
	Country       *string
	IsDefault     *bool
}

func (s *AddressService) List(ctx context.Context, f repo.AddressFilter) ([]models.UserAddress, int64, error) {
	return s.Repo.ListAddresses(ctx, f)
}

func (s *AddressService) Get(ctx context.Context, id uint, userID *uint) (*models.UserAddress, error) {
	a, err := s.Repo.GetAddress(ctx, id, userID)
	if err != nil {
		return nil, notFound(err, "address")
	}
	return a, nil
}

// Create stores a new address. The user's first address, or one flagged
// is_default, becomes the only default.
func (s *AddressService) Create(ctx context.Context, in AddressInput) (*models.UserAddress, error) {
	l := logging.FromContext(ctx).With("svc", "address.create", "user_id", in.UserID)

	if in.UserID == 0 {
		return nil, invalid("user_id", "The user id field is required.")
	}
	if _, err := s.Repo.GetUser(ctx, in.UserID); err != nil {
		if isRecordNotFound(err) {
			return nil, invalid("user_id", "The selected user id is invalid.")
		}
		return nil, err
	}

	a := &models.UserAddress{
		UserID:        in.UserID,
		RecipientName: in.RecipientName,
		Phone:         in.Phone,
		AddressLine:   in.AddressLine,
		City:          in.City,
		Province:      in.Province,
		PostalCode:    in.PostalCode,
		Country:       in.Country,
		IsDefault:     in.IsDefault,
	}

	err := s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		n, err := tx.CountAddresses(ctx, in.UserID)
		if err != nil {
			return err
		}
		if n == 0 {
			a.IsDefault = true
		}
		if a.IsDefault {
			if err := tx.UnsetDefaultAddresses(ctx, in.UserID, 0); err != nil {
				return err
			}
		}
		return tx.CreateAddress(ctx, a)
	})
	if err != nil {
		l.Error("address_create_failed", "error", err)
		return nil, duplicate(err, "Another default address was saved concurrently.")
	}

	l.Info("address_created", "address_id", a.ID, "is_default", a.IsDefault)
	return a, nil
}

func (s *AddressService) Update(ctx context.Context, id uint, userID *uint, p AddressPatch) (*models.UserAddress, error) {
	l := logging.FromContext(ctx).With("svc", "address.update", "address_id", id)

	var a *models.UserAddress
	err := s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		var err error
		a, err = tx.GetAddress(ctx, id, userID)
		if err != nil {
			return notFound(err, "address")
		}

		setString(&a.RecipientName, p.RecipientName)
		setString(&a.Phone, p.Phone)
		setString(&a.AddressLine, p.AddressLine)
		setString(&a.City, p.City)
		setString(&a.Province, p.Province)
		setString(&a.PostalCode, p.PostalCode)
		setString(&a.Country, p.Country)

		if p.IsDefault != nil {
			if *p.IsDefault {
				if err := tx.UnsetDefaultAddresses(ctx, a.UserID, a.ID); err != nil {
					return err
				}
			}
			a.IsDefault = *p.IsDefault
		}
		return tx.SaveAddress(ctx, a)
	})
	if err != nil {
		l.Warn("address_update_failed", "error", err)
		return nil, duplicate(err, "Another default address was saved concurrently.")
	}

	l.Info("address_updated", "is_default", a.IsDefault)
	return a, nil
}

// SetDefault makes the address the user's only default.
func (s *AddressService) SetDefault(ctx context.Context, id uint, userID *uint) (*models.UserAddress, error) {
	t := true
	return s.Update(ctx, id, userID, AddressPatch{IsDefault: &t})
}

// Delete refuses addresses referenced by orders. Removing the default
// address leaves the user without one.
func (s *AddressService) Delete(ctx context.Context, id uint, userID *uint) error {
	l := logging.FromContext(ctx).With("svc", "address.delete", "address_id", id)

	return s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.GetAddress(ctx, id, userID); err != nil {
			return notFound(err, "address")
		}
		n, err := tx.OrdersUsingAddress(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			l.Warn("address_delete_rejected", "status", 409, "orders", n)
			return fmt.Errorf("%w: Cannot delete address that is used in orders.", ErrConflict)
		}
		if err := tx.DeleteAddress(ctx, id); err != nil {
			return notFound(err, "address")
		}
		l.Info("address_deleted")
		return nil
	})
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
