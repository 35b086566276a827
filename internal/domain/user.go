package domain

import "time"

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

type User struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:191;not null"`
	Name         string    `json:"name" gorm:"size:100"`
	Phone        string    `json:"phone,omitempty" gorm:"size:32"`
	PasswordHash string    `json:"-" gorm:"size:191;not null"`
	Role         Role      `json:"role" gorm:"type:varchar(16);not null;index"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

type UserFilter struct {
	Role   Role
	Search string
}
