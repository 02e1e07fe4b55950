package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Routine is a trainer-authored workout program.
// Generic routines are templates usable by any client regardless of plan;
// the rest are personalized and require a paid tier.
type Routine struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID     primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Goal          string             `bson:"goal,omitempty" json:"goal,omitempty"`
	DurationWeeks int                `bson:"durationWeeks,omitempty" json:"durationWeeks,omitempty"`
	IsGeneric     bool               `bson:"isGeneric" json:"isGeneric"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RoutineExercise places an Exercise on a given day of a Routine.
type RoutineExercise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RoutineID   primitive.ObjectID `bson:"routineId" json:"routineId"`
	ExerciseID  primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Day         int                `bson:"day" json:"day"`
	Order       int                `bson:"order" json:"order"`
	Sets        int                `bson:"sets" json:"sets"`
	Reps        string             `bson:"reps" json:"reps"` // "10" or "8-12"
	RestSeconds int                `bson:"restSeconds,omitempty" json:"restSeconds,omitempty"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
}
