package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgressRecord is a dated snapshot of a client's body metrics.
// PhotoKeys are object storage keys, never URLs.
type ProgressRecord struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID   primitive.ObjectID `bson:"clientId" json:"clientId"`
	Date       time.Time          `bson:"date" json:"date"`
	Weight     *float64           `bson:"weight,omitempty" json:"weight,omitempty"`
	BodyFatPct *float64           `bson:"bodyFatPct,omitempty" json:"bodyFatPct,omitempty"`
	Chest      *float64           `bson:"chest,omitempty" json:"chest,omitempty"`
	Waist      *float64           `bson:"waist,omitempty" json:"waist,omitempty"`
	Hips       *float64           `bson:"hips,omitempty" json:"hips,omitempty"`
	Arm        *float64           `bson:"arm,omitempty" json:"arm,omitempty"`
	Leg        *float64           `bson:"leg,omitempty" json:"leg,omitempty"`
	PhotoKeys  []string           `bson:"photoKeys,omitempty" json:"photoKeys,omitempty"`
	Notes      string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
