package handler

import (
	"roster/internal/user/models"
	id "roster/pkg/domain"
)

// UserResponse is the wire shape for a single record.
type UserResponse struct {
	ID          id.UserID   `json:"id"`
	Email       string      `json:"email"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	BirthDate   models.Date `json:"birthDate"`
	Address     string      `json:"address,omitempty"`
	PhoneNumber string      `json:"phoneNumber,omitempty"`
}

// FromUser maps a record to its response shape.
func FromUser(u models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		BirthDate:   u.BirthDate,
		Address:     u.Address,
		PhoneNumber: u.PhoneNumber,
	}
}

// FromUsers maps a record list, keeping store order.
func FromUsers(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, FromUser(u))
	}
	return out
}
