package models

import "time"

// User represents a directory account. The password digest is never exposed
// in JSON; everything else mirrors the public account snapshot.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Never expose in JSON
	Age          int        `json:"age"`
	Phone        *string    `json:"phone"`
	CreatedAt    time.Time  `json:"created_at"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login"`
}

// Clone returns a deep copy so callers can hand out snapshots without
// exposing store-owned memory.
func (u *User) Clone() *User {
	cp := *u
	if u.Phone != nil {
		phone := *u.Phone
		cp.Phone = &phone
	}
	if u.LastLogin != nil {
		t := *u.LastLogin
		cp.LastLogin = &t
	}
	return &cp
}

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=50,handlechars"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Age      int     `json:"age" validate:"required,gte=18,lte=150"`
	Phone    *string `json:"phone" validate:"omitempty,phonefmt"`
}

// UpdateUserRequest represents the request body for updating a user.
// Absent fields are left untouched.
type UpdateUserRequest struct {
	Email *string `json:"email" validate:"omitempty,email"`
	Age   *int    `json:"age" validate:"omitempty,gte=18,lte=150"`
	Phone *string `json:"phone" validate:"omitempty,phonefmt"`
}
