package domain

import "time"

type NewsletterSubscription struct {
	ID             string     `json:"id" gorm:"primaryKey;size:36"`
	Email          string     `json:"email" gorm:"uniqueIndex;size:191;not null"`
	IsActive       bool       `json:"isActive" gorm:"not null"`
	SubscribedAt   time.Time  `json:"subscribedAt"`
	UnsubscribedAt *time.Time `json:"unsubscribedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// StockNotification is an outstanding request to be told when a product is
// back in stock. Rows are removed once the restock event is published.
type StockNotification struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	UserID    string    `json:"userId" gorm:"size:36;not null;uniqueIndex:idx_stock_notify_user_product"`
	ProductID string    `json:"productId" gorm:"size:36;not null;uniqueIndex:idx_stock_notify_user_product;index"`
	Email     string    `json:"email" gorm:"size:191;not null"`
	Product   *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	CreatedAt time.Time `json:"createdAt"`
}
