package models

import (
	dErrors "roster/pkg/domain-errors"
)

// PatchRequest is a sparse field-name-to-string-value update. Fields absent
// from the map are left unchanged on the target record; unrecognized keys
// are ignored.
type PatchRequest map[string]string

// Patchable field names, matching the record's wire names.
const (
	FieldEmail       = "email"
	FieldFirstName   = "firstName"
	FieldLastName    = "lastName"
	FieldBirthDate   = "birthDate"
	FieldAddress     = "address"
	FieldPhoneNumber = "phoneNumber"
)

// MergePatch overlays patch onto existing and returns a new candidate for
// re-validation. The existing record is never mutated and its ID is never
// overwritten, whatever the patch contains.
//
// String values are parsed into each field's semantic type; an unparsable
// value fails with an invalid_input error naming the field and value.
func MergePatch(existing User, patch PatchRequest) (User, error) {
	merged := existing
	for field, value := range patch {
		switch field {
		case FieldEmail:
			merged.Email = value
		case FieldFirstName:
			merged.FirstName = value
		case FieldLastName:
			merged.LastName = value
		case FieldBirthDate:
			parsed, err := ParseDate(value)
			if err != nil {
				return User{}, dErrors.NewFieldViolation(FieldBirthDate, value)
			}
			merged.BirthDate = parsed
		case FieldAddress:
			merged.Address = value
		case FieldPhoneNumber:
			merged.PhoneNumber = value
		}
	}
	return merged, nil
}
