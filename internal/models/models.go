package models

import (
	"time"
)

type Category struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"not null"                 json:"name"`
	Slug        string `gorm:"uniqueIndex;not null"     json:"slug"`
	Description string `json:"description,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null"                 json:"name"`
	Slug        string    `gorm:"uniqueIndex;not null"     json:"slug"`
	Description string    `json:"description,omitempty"`
	CategoryID  uint      `gorm:"index;not null"           json:"category_id"`
	Price       float64   `gorm:"not null;check:price>=0"  json:"price"`
	Stock       uint      `json:"stock"`
	ImageURL    string    `json:"image_url,omitempty"`
	Category    *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"category,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
}

// CartItem is one line of a user's cart. Price is snapshotted from the
// product at first add and never re-read from the catalog; Total is
// recomputed from that snapshot on every quantity change.
type CartItem struct {
	ID        uint      `gorm:"primaryKey"                            json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_user_product;not null" json:"user_id"`
	ProductID uint      `gorm:"uniqueIndex:idx_user_product;not null" json:"product_id"`
	Quantity  uint      `gorm:"default:1;check:quantity>0"            json:"quantity"`
	Price     float64   `gorm:"not null"                              json:"price"`
	Total     float64   `gorm:"not null"                              json:"total"`
	CreatedAt time.Time `json:"created_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
