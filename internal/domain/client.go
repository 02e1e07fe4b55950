package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Client is the trainee profile owned by exactly one User.
// Plan always mirrors the tier of the client's ACTIVA subscription, or FREE when none exists.
type Client struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	DNI          string             `bson:"dni,omitempty" json:"dni,omitempty"`
	Names        string             `bson:"names" json:"names"`
	LastNames    string             `bson:"lastNames" json:"lastNames"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	BirthDate    *time.Time         `bson:"birthDate,omitempty" json:"birthDate,omitempty"`
	Gender       string             `bson:"gender,omitempty" json:"gender,omitempty"`
	Address      string             `bson:"address,omitempty" json:"address,omitempty"`
	Weight       *float64           `bson:"weight,omitempty" json:"weight,omitempty"` // kg
	Height       *float64           `bson:"height,omitempty" json:"height,omitempty"` // cm
	Plan         PlanTier           `bson:"plan" json:"plan"`
	RegisteredAt time.Time          `bson:"registeredAt" json:"registeredAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FullName joins names and last names.
func (c *Client) FullName() string {
	if c.LastNames == "" {
		return c.Names
	}
	return c.Names + " " + c.LastNames
}
