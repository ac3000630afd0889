package models

import (
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID           uint      `gorm:"primaryKey"                json:"id"`
	Name         string    `gorm:"size:255;not null"         json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null"                  json:"-"`
	Role         string    `gorm:"size:16;not null;default:user" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Category struct {
	ID          uint      `gorm:"primaryKey"                json:"id"`
	Name        string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Product.Price is in minor units.
type Product struct {
	ID          uint      `gorm:"primaryKey"                json:"id"`
	CategoryID  *uint     `gorm:"index"                     json:"category_id"`
	Category    *Category `gorm:"constraint:OnDelete:RESTRICT" json:"category,omitempty"`
	Name        string    `gorm:"size:255;not null"         json:"name"`
	Description string    `json:"description"`
	Price       int64     `gorm:"not null;check:price >= 0" json:"price"`
	Stock       int       `gorm:"not null;default:0"        json:"stock"`
	Image       *string   `json:"image"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Cart struct {
	ID        uint      `gorm:"primaryKey"                               json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"user_id"`
	ProductID uint      `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"product_id"`
	Product   *Product  `gorm:"constraint:OnDelete:CASCADE"              json:"product,omitempty"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE"              json:"user,omitempty"`
	Quantity  int       `gorm:"not null;default:1;check:quantity > 0"    json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Cart) TableName() string {
	return "carts"
}

// UserAddress rows are unique per user on is_default = true, enforced by a
// partial index created in repo.Migrate.
type UserAddress struct {
	ID            uint      `gorm:"primaryKey"          json:"id"`
	UserID        uint      `gorm:"index;not null"      json:"user_id"`
	User          *User     `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	RecipientName string    `gorm:"size:255"            json:"recipient_name"`
	Phone         string    `gorm:"size:32"             json:"phone"`
	AddressLine   string    `gorm:"size:255;not null"   json:"address_line"`
	City          string    `gorm:"size:100;not null"   json:"city"`
	Province      string    `gorm:"size:100;not null"   json:"province"`
	PostalCode    string    `gorm:"size:20;not null"    json:"postal_code"`
	Country       string    `gorm:"size:100;not null"   json:"country"`
	IsDefault     bool      `gorm:"not null;default:false" json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Order struct {
	ID            uint          `gorm:"primaryKey"                  json:"id"`
	UserID        uint          `gorm:"index;not null"              json:"user_id"`
	User          *User         `gorm:"constraint:OnDelete:RESTRICT" json:"user,omitempty"`
	UserAddressID uint          `gorm:"index;not null"              json:"user_address_id"`
	UserAddress   *UserAddress  `gorm:"constraint:OnDelete:RESTRICT" json:"user_address,omitempty"`
	TotalPrice    int64         `gorm:"not null"                    json:"total_price"`
	PaymentProof  *string       `json:"payment_proof"`
	Status        string        `gorm:"size:16;index;not null;default:pending" json:"status"`
	OrderDetails  []OrderDetail `gorm:"constraint:OnDelete:CASCADE" json:"order_details,omitempty"`
	CreatedAt     time.Time     `gorm:"index"                       json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// OrderDetail.Price is the unit price captured when the order was placed.
type OrderDetail struct {
	ID        uint      `gorm:"primaryKey"                        json:"id"`
	OrderID   uint      `gorm:"index;not null"                    json:"order_id"`
	ProductID uint      `gorm:"index;not null"                    json:"product_id"`
	Product   *Product  `gorm:"constraint:OnDelete:RESTRICT"      json:"product,omitempty"`
	Quantity  int       `gorm:"not null;check:quantity > 0"       json:"quantity"`
	Price     int64     `gorm:"not null"                          json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Content struct {
	Key       string    `gorm:"primaryKey;size:191" json:"key"`
	Value     JSON      `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type GuestMessage struct {
	ID        uint      `gorm:"primaryKey"        json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	Message   string    `gorm:"not null"          json:"message"`
	IsRead    bool      `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
