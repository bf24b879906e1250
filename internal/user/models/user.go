package models

import (
	id "roster/pkg/domain"
)

// User is the persisted profile record.
//
// Invariants (enforced by internal/user/validation before any store write):
//   - Email, FirstName and LastName are non-blank
//   - Email is syntactically a valid address
//   - BirthDate is set and at least the configured minimum age in the past
//
// ID is assigned by the store on insert and never altered afterwards; a
// record reachable from a store always satisfies the rules above.
type User struct {
	ID          id.UserID `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	BirthDate   Date      `json:"birthDate"`
	Address     string    `json:"address,omitempty"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
}
