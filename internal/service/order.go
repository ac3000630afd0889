package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const (
	MinQuantity = 1
	MaxQuantity = 999
	MinPrice    = 0
	MaxPrice    = 99_999_999 // 999,999.99
)

type OrderService struct {
	Repo   *repo.GormRepo
	Files  FileStore
	Events EventBus
}

type OrderLine struct {
	ProductID uint  `json:"product_id"`
	Quantity  int   `json:"quantity"`
	Price     int64 `json:"price"`
}

type PlaceOrderInput struct {
	UserID        uint
	UserAddressID uint
	Status        string
	CartIDs       []uint
	Lines         []OrderLine
	PaymentProof  *Upload
}

func (s *OrderService) validatePlace(ctx context.Context, in *PlaceOrderInput) error {
	ve := &ValidationError{}

	if in.UserID == 0 {
		ve.Add("user_id", "The user id field is required.")
	}
	if in.UserAddressID == 0 {
		ve.Add("user_address_id", "The user address id field is required.")
	}
	switch {
	case len(in.CartIDs) == 0 && len(in.Lines) == 0:
		ve.Add("order_details", "The order details field is required when cart ids is not present.")
	case len(in.CartIDs) > 0 && len(in.Lines) > 0:
		ve.Add("cart_ids", "The cart ids field must not be present together with order details.")
	}
	if in.Status != "" && !models.ValidOrderStatus(in.Status) {
		ve.Add("status", "The selected status is invalid.")
	}
	for i, ln := range in.Lines {
		prefix := fmt.Sprintf("order_details[%d].", i)
		if ln.ProductID == 0 {
			ve.Add(prefix+"product_id", "The product id field is required.")
		}
		if ln.Quantity < MinQuantity || ln.Quantity > MaxQuantity {
			ve.Add(prefix+"quantity", fmt.Sprintf("The quantity field must be between %d and %d.", MinQuantity, MaxQuantity))
		}
		if ln.Price < MinPrice || ln.Price > MaxPrice {
			ve.Add(prefix+"price", fmt.Sprintf("The price field must be between %d and %d.", MinPrice, MaxPrice))
		}
	}
	checkUpload(ve, "payment_proof", in.PaymentProof, MaxPaymentProofSize, paymentProofExts)

	if ve.Err() != nil {
		return ve
	}

	// references, read-only
	if _, err := s.Repo.GetAddress(ctx, in.UserAddressID, &in.UserID); err != nil {
		if isRecordNotFound(err) {
			return invalid("user_address_id", "The selected user address id is invalid.")
		}
		return err
	}
	if len(in.Lines) > 0 {
		ids := make([]uint, 0, len(in.Lines))
		for _, ln := range in.Lines {
			ids = append(ids, ln.ProductID)
		}
		found, _, err := s.Repo.ListProducts(ctx, repo.ProductFilter{IDs: ids})
		if err != nil {
			return err
		}
		known := make(map[uint]bool, len(found))
		for _, p := range found {
			known[p.ID] = true
		}
		for i, ln := range in.Lines {
			if !known[ln.ProductID] {
				ve.Add(fmt.Sprintf("order_details[%d].product_id", i), "The selected product id is invalid.")
			}
		}
	}
	return ve.Err()
}

// PlaceOrder turns cart rows or explicit lines into an order with details.
// The order, its details, the proof path and the cart cleanup commit together.
func (s *OrderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.place", "user_id", in.UserID)

	if err := s.validatePlace(ctx, &in); err != nil {
		l.Warn("place_order_rejected", "status", 422, "error", err)
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = models.OrderStatusPending
	}

	var (
		order     *models.Order
		proofPath string
	)
	err := s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		lines := in.Lines
		var consumed []uint

		if len(in.CartIDs) > 0 {
			cartLines, err := tx.CartLinesForUser(ctx, in.UserID, in.CartIDs)
			if err != nil {
				return err
			}
			if len(cartLines) == 0 {
				return fmt.Errorf("%w: No valid cart items found.", ErrBadRequest)
			}
			lines = make([]OrderLine, 0, len(cartLines))
			for _, cl := range cartLines {
				lines = append(lines, OrderLine{ProductID: cl.ProductID, Quantity: cl.Quantity, Price: cl.Price})
				consumed = append(consumed, cl.CartID)
			}
		}

		var total int64
		details := make([]models.OrderDetail, 0, len(lines))
		for _, ln := range lines {
			total += int64(ln.Quantity) * ln.Price
			details = append(details, models.OrderDetail{
				ProductID: ln.ProductID,
				Quantity:  ln.Quantity,
				Price:     ln.Price,
			})
		}

		order = &models.Order{
			UserID:        in.UserID,
			UserAddressID: in.UserAddressID,
			TotalPrice:    total,
			Status:        status,
			OrderDetails:  details,
		}

		if in.PaymentProof != nil {
			p, err := s.Files.Put(PaymentProofDir, in.PaymentProof.Filename, in.PaymentProof.Reader)
			if err != nil {
				return fmt.Errorf("store payment proof: %w", err)
			}
			proofPath = p
			order.PaymentProof = &proofPath
		}

		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}
		return tx.DeleteCartRows(ctx, in.UserID, consumed)
	})
	if err != nil {
		if proofPath != "" {
			if derr := s.Files.Delete(proofPath); derr != nil {
				l.Warn("payment_proof_cleanup_failed", "path", proofPath, "error", derr)
			}
		}
		if errors.Is(err, ErrBadRequest) {
			l.Warn("place_order_rejected", "status", 400, "error", err)
			return nil, err
		}
		l.Error("place_order_failed", "status", 500, "error", err)
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	l.Info("order_placed", "order_id", order.ID, "total_price", order.TotalPrice, "lines", len(order.OrderDetails))
	s.publishCreated(ctx, order)

	return s.Repo.GetOrder(ctx, order.ID, nil)
}

func (s *OrderService) publishCreated(ctx context.Context, o *models.Order) {
	if s.Events == nil {
		return
	}
	items := make([]OrderItemEvent, 0, len(o.OrderDetails))
	for _, d := range o.OrderDetails {
		items = append(items, OrderItemEvent{ProductID: d.ProductID, Quantity: d.Quantity, Price: d.Price})
	}
	err := s.Events.PublishOrderCreated(ctx, OrderCreatedEvent{
		OrderID:       o.ID,
		UserID:        o.UserID,
		UserAddressID: o.UserAddressID,
		Status:        o.Status,
		TotalPrice:    o.TotalPrice,
		Items:         items,
		CreatedAt:     o.CreatedAt,
	})
	if err != nil {
		logging.FromContext(ctx).Warn("order_event_failed", "order_id", o.ID, "error", err)
	}
}

func (s *OrderService) List(ctx context.Context, f repo.OrderFilter) ([]models.Order, int64, error) {
	if f.Status != "" && !models.ValidOrderStatus(f.Status) {
		return nil, 0, invalid("status", "The selected status is invalid.")
	}
	return s.Repo.ListOrders(ctx, f)
}

// Get returns an order; a non-nil userID limits the lookup to that owner.
func (s *OrderService) Get(ctx context.Context, id uint, userID *uint) (*models.Order, error) {
	o, err := s.Repo.GetOrder(ctx, id, userID)
	if err != nil {
		return nil, notFound(err, "order")
	}
	return o, nil
}

type UpdateOrderInput struct {
	Status        *string
	UserAddressID *uint
	TotalPrice    *int64
	PaymentProof  *Upload

	// RequireStatus, when set, rejects the update with a conflict unless the
	// locked order still has this status.
	RequireStatus string
	// OwnerID, when set, limits the update to that user's order.
	OwnerID *uint
}

func (s *OrderService) Update(ctx context.Context, id uint, in UpdateOrderInput) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.update", "order_id", id)

	ve := &ValidationError{}
	if in.Status != nil && !models.ValidOrderStatus(*in.Status) {
		ve.Add("status", "The selected status is invalid.")
	}
	if in.TotalPrice != nil && *in.TotalPrice < 0 {
		ve.Add("total_price", "The total price field must be at least 0.")
	}
	checkUpload(ve, "payment_proof", in.PaymentProof, MaxPaymentProofSize, paymentProofExts)
	if err := ve.Err(); err != nil {
		return nil, err
	}

	var newProof, oldProof string
	err := s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		current, err := tx.LockOrder(ctx, id)
		if err != nil {
			return notFound(err, "order")
		}
		if in.OwnerID != nil && current.UserID != *in.OwnerID {
			return fmt.Errorf("%w: order not found", ErrNotFound)
		}
		if in.RequireStatus != "" && current.Status != in.RequireStatus {
			return fmt.Errorf("%w: Order must be %s, it is %s.", ErrConflict, in.RequireStatus, current.Status)
		}

		fields := map[string]any{}
		if in.Status != nil {
			fields["status"] = *in.Status
		}
		if in.TotalPrice != nil {
			fields["total_price"] = *in.TotalPrice
		}
		if in.UserAddressID != nil {
			if _, err := tx.GetAddress(ctx, *in.UserAddressID, &current.UserID); err != nil {
				if isRecordNotFound(err) {
					return invalid("user_address_id", "The selected user address id is invalid.")
				}
				return err
			}
			fields["user_address_id"] = *in.UserAddressID
		}
		if in.PaymentProof != nil {
			p, err := s.Files.Put(PaymentProofDir, in.PaymentProof.Filename, in.PaymentProof.Reader)
			if err != nil {
				return fmt.Errorf("store payment proof: %w", err)
			}
			newProof = p
			fields["payment_proof"] = p
			if current.PaymentProof != nil {
				oldProof = *current.PaymentProof
			}
		}
		return tx.UpdateOrder(ctx, id, fields)
	})
	if err != nil {
		if newProof != "" {
			_ = s.Files.Delete(newProof)
		}
		return nil, err
	}
	if oldProof != "" {
		if err := s.Files.Delete(oldProof); err != nil {
			l.Warn("payment_proof_cleanup_failed", "path", oldProof, "error", err)
		}
	}

	l.Info("order_updated")
	return s.Repo.GetOrder(ctx, id, nil)
}

// UploadProof attaches a payment proof to the caller's own pending order.
func (s *OrderService) UploadProof(ctx context.Context, id, userID uint, proof *Upload) (*models.Order, error) {
	if proof == nil {
		return nil, invalid("payment_proof", "The payment proof field is required.")
	}
	return s.Update(ctx, id, UpdateOrderInput{
		PaymentProof:  proof,
		RequireStatus: models.OrderStatusPending,
		OwnerID:       &userID,
	})
}

// Delete removes a pending or cancelled order. Other statuses are a conflict
// and leave the order untouched.
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	l := logging.FromContext(ctx).With("svc", "order.delete", "order_id", id)

	var proof string
	err := s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		o, err := tx.LockOrder(ctx, id)
		if err != nil {
			return notFound(err, "order")
		}
		if !models.Deletable(o.Status) {
			return fmt.Errorf("%w: Cannot delete orders that are paid, shipped, or completed.", ErrConflict)
		}
		if o.PaymentProof != nil {
			proof = *o.PaymentProof
		}
		return tx.DeleteOrder(ctx, id)
	})
	if err != nil {
		l.Warn("order_delete_rejected", "error", err)
		return err
	}
	if proof != "" {
		if err := s.Files.Delete(proof); err != nil {
			l.Warn("payment_proof_cleanup_failed", "path", proof, "error", err)
		}
	}
	l.Info("order_deleted")
	return nil
}

func (s *OrderService) ListDetails(ctx context.Context, f repo.OrderDetailFilter) ([]models.OrderDetail, int64, error) {
	return s.Repo.ListOrderDetails(ctx, f)
}

func (s *OrderService) GetDetail(ctx context.Context, id uint) (*models.OrderDetail, error) {
	d, err := s.Repo.GetOrderDetail(ctx, id)
	if err != nil {
		return nil, notFound(err, "order detail")
	}
	return d, nil
}
