package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by domain constructors and repositories. The
// application layer maps these onto transport error codes.
var (
	ErrItemNotFound           = errors.New("item not found")
	ErrDuplicateSKU           = errors.New("sku already exists")
	ErrStaleItem              = errors.New("item was modified concurrently")
	ErrNegativeQuantity       = errors.New("quantity cannot be negative")
	ErrNegativeThreshold      = errors.New("threshold cannot be negative")
	ErrNoQuantityChange       = errors.New("quantity change cannot be zero")
	ErrInvalidQuantity        = errors.New("transaction quantity must be positive")
	ErrInvalidTransactionType = errors.New("transaction type does not match quantity delta")
	ErrFieldRequired          = errors.New("field is required")

	ErrCategoryNotFound    = errors.New("category not found")
	ErrDuplicateCategory   = errors.New("category name already exists")
	ErrDepartmentNotFound  = errors.New("department not found")
	ErrDuplicateDepartment = errors.New("department name already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrDuplicateUser       = errors.New("username or email already exists")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrForbidden           = errors.New("operation not permitted for role")
)

// RequiredFieldError wraps ErrFieldRequired with the missing field's name so
// callers can still match with errors.Is.
func RequiredFieldError(field string) error {
	return fmt.Errorf("%w: %s", ErrFieldRequired, field)
}
