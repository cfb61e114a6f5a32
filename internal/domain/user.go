package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// Role controls which inventory operations a user may perform.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}

// CanMutateInventory reports whether the role may create or update items and
// categories. Staff accounts are read-only.
func (r Role) CanMutateInventory() bool {
	return r == RoleAdmin || r == RoleManager
}

// CanDeleteItems reports whether the role may remove item or category records.
func (r Role) CanDeleteItems() bool {
	return r == RoleAdmin || r == RoleManager
}

// CanManageDepartments reports whether the role may administer departments.
func (r Role) CanManageDepartments() bool {
	return r == RoleAdmin
}

// CanManageUsers reports whether the role may administer accounts.
func (r Role) CanManageUsers() bool {
	return r == RoleAdmin
}

// User is an authenticated operator of the system.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"passwordHash"`
	FullName     string             `bson:"fullName,omitempty"`
	Role         Role               `bson:"role"`
	DepartmentID string             `bson:"departmentId,omitempty"`
	Active       bool               `bson:"active"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

// NewUser creates an active user with a bcrypt password hash. A missing role
// defaults to staff.
func NewUser(username, email, password, fullName string, role Role, departmentID string) (*User, error) {
	switch {
	case username == "":
		return nil, RequiredFieldError("username")
	case email == "":
		return nil, RequiredFieldError("email")
	case password == "":
		return nil, RequiredFieldError("password")
	}
	if role == "" {
		role = RoleStaff
	}
	if !ValidRole(role) {
		return nil, ErrForbidden
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Role:         role,
		DepartmentID: departmentID,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// CheckPassword compares the stored hash against a candidate password.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
