package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	UserID    string    `json:"userId" gorm:"size:36;not null;uniqueIndex:idx_cart_user_product"`
	ProductID string    `json:"productId" gorm:"size:36;not null;uniqueIndex:idx_cart_user_product"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	Product   *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Cart struct {
	Items     []CartItem      `json:"items"`
	ItemCount int             `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// NewCart totals the items. Items without a loaded product contribute to the
// count but not to the subtotal.
func NewCart(items []CartItem) Cart {
	cart := Cart{Items: items, Subtotal: decimal.Zero}
	if cart.Items == nil {
		cart.Items = []CartItem{}
	}
	for _, it := range items {
		cart.ItemCount += it.Quantity
		if it.Product != nil {
			cart.Subtotal = cart.Subtotal.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
	}
	return cart
}
