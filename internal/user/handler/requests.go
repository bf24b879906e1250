package handler

import (
	"roster/internal/user/models"
	dErrors "roster/pkg/domain-errors"
)

// UserRequest is the wire shape for create and full-update bodies. The ID
// is never accepted from the client; the store assigns it on create and the
// path names it on update.
type UserRequest struct {
	Email       string      `json:"email"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	BirthDate   models.Date `json:"birthDate"`
	Address     string      `json:"address"`
	PhoneNumber string      `json:"phoneNumber"`
}

// Validate checks the request shape. Field-level rules live in the
// service's validator so every violation is reported in one pass; this hook
// only guards against a missing body.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *UserRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return nil
}

// ToModel maps the request onto a candidate record.
func (r *UserRequest) ToModel() models.User {
	return models.User{
		Email:       r.Email,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		BirthDate:   r.BirthDate,
		Address:     r.Address,
		PhoneNumber: r.PhoneNumber,
	}
}
