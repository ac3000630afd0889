package transport

import "github.com/Skotchmaster/storefront/internal/models"

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateProductRequest struct {
	CategoryID  *uint  `json:"category_id" form:"category_id"`
	Name        string `json:"name" form:"name" validate:"required,max=255"`
	Description string `json:"description" form:"description" validate:"max=10000"`
	Price       int64  `json:"price" form:"price" validate:"gte=0,lte=99999999"`
	Stock       int    `json:"stock" form:"stock" validate:"gte=0"`
}

type UpdateProductRequest struct {
	CategoryID  *uint   `json:"category_id" form:"category_id"`
	Name        *string `json:"name" form:"name" validate:"omitempty,max=255"`
	Description *string `json:"description" form:"description" validate:"omitempty,max=10000"`
	Price       *int64  `json:"price" form:"price" validate:"omitempty,gte=0,lte=99999999"`
	Stock       *int    `json:"stock" form:"stock" validate:"omitempty,gte=0"`
}

type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=2000"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

type AddToCartRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,gte=1,lte=999"`
}

type UpdateCartRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1,lte=999"`
}

type AddressRequest struct {
	UserID        uint   `json:"user_id"`
	RecipientName string `json:"recipient_name" validate:"max=255"`
	Phone         string `json:"phone" validate:"max=32"`
	AddressLine   string `json:"address_line" validate:"required,max=255"`
	City          string `json:"city" validate:"required,max=100"`
	Province      string `json:"province" validate:"required,max=100"`
	PostalCode    string `json:"postal_code" validate:"required,max=20"`
	Country       string `json:"country" validate:"required,max=100"`
	IsDefault     bool   `json:"is_default"`
}

type UpdateAddressRequest struct {
	RecipientName *string `json:"recipient_name" validate:"omitempty,max=255"`
	Phone         *string `json:"phone" validate:"omitempty,max=32"`
	AddressLine   *string `json:"address_line" validate:"omitempty,min=1,max=255"`
	City          *string `json:"city" validate:"omitempty,min=1,max=100"`
	Province      *string `json:"province" validate:"omitempty,min=1,max=100"`
	PostalCode    *string `json:"postal_code" validate:"omitempty,min=1,max=20"`
	Country       *string `json:"country" validate:"omitempty,min=1,max=100"`
	IsDefault     *bool   `json:"is_default"`
}

type OrderLineRequest struct {
	ProductID uint  `json:"product_id"`
	Quantity  int   `json:"quantity"`
	Price     int64 `json:"price"`
}

// StoreOrderRequest is checked by the order service, not by tags.
type StoreOrderRequest struct {
	UserID        uint               `json:"user_id"`
	UserAddressID uint               `json:"user_address_id"`
	Status        string             `json:"status"`
	CartIDs       []uint             `json:"cart_ids"`
	OrderDetails  []OrderLineRequest `json:"order_details"`
}

type UpdateOrderRequest struct {
	Status        *string `json:"status" form:"status"`
	UserAddressID *uint   `json:"user_address_id" form:"user_address_id"`
	TotalPrice    *int64  `json:"total_price" form:"total_price"`
}

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=admin user"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=255"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin user"`
}

type GuestMessageRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Message string `json:"message" validate:"required,max=5000"`
}

type MarkReadRequest struct {
	IsRead *bool `json:"is_read" validate:"required"`
}

type ContentRequest struct {
	Value models.JSON `json:"value" validate:"required"`
}

type BulkContentRequest struct {
	Contents map[string]models.JSON `json:"contents" validate:"required,min=1"`
}
