package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category groups items for reporting and browsing.
type Category struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// NewCategory creates a category with a required name.
func NewCategory(name, description string) (*Category, error) {
	if name == "" {
		return nil, RequiredFieldError("name")
	}
	now := time.Now().UTC()
	return &Category{
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Rename updates the category's name and description.
func (c *Category) Rename(name, description string) error {
	if name == "" {
		return RequiredFieldError("name")
	}
	c.Name = name
	c.Description = description
	c.UpdatedAt = time.Now().UTC()
	return nil
}
