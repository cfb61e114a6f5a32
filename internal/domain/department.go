package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Department is a hospital unit that items and transactions can be
// attributed to.
type Department struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	Location    string             `bson:"location,omitempty"`
	HeadOfDept  string             `bson:"headOfDepartment,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// NewDepartment creates a department with a required name.
func NewDepartment(name, description, location, headOfDept string) (*Department, error) {
	if name == "" {
		return nil, RequiredFieldError("name")
	}
	now := time.Now().UTC()
	return &Department{
		Name:        name,
		Description: description,
		Location:    location,
		HeadOfDept:  headOfDept,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Update replaces the department's mutable fields.
func (d *Department) Update(name, description, location, headOfDept string) error {
	if name == "" {
		return RequiredFieldError("name")
	}
	d.Name = name
	d.Description = description
	d.Location = location
	d.HeadOfDept = headOfDept
	d.UpdatedAt = time.Now().UTC()
	return nil
}
