package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trainer is the staff profile owned by exactly one User.
type Trainer struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"userId" json:"userId"`
	Names          string             `bson:"names" json:"names"`
	LastNames      string             `bson:"lastNames" json:"lastNames"`
	Specialty      string             `bson:"specialty,omitempty" json:"specialty,omitempty"`
	Certifications []string           `bson:"certifications,omitempty" json:"certifications,omitempty"`
	Phone          string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Bio            string             `bson:"bio,omitempty" json:"bio,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
