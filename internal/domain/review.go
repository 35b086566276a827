package domain

import "time"

type Review struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	UserID     string    `json:"userId" gorm:"size:36;not null;uniqueIndex:idx_review_user_product"`
	ProductID  string    `json:"productId" gorm:"size:36;not null;uniqueIndex:idx_review_user_product;index"`
	Rating     int       `json:"rating" gorm:"not null"`
	Title      string    `json:"title,omitempty" gorm:"size:150"`
	Comment    string    `json:"comment,omitempty" gorm:"type:text"`
	IsApproved bool      `json:"isApproved" gorm:"not null;index"`
	User       *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Product    *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type ReviewFilter struct {
	ProductID string
	Approved  *bool
}
