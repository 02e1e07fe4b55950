package repository

import (
	"context"
	"time"

	"alcyxob/bodytrack/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound = RepositoryError("not found")
	ErrConflict = RepositoryError("conflict")
)

// RepositoryError helps distinguish repository errors from driver errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Transactor runs fn as a single unit of work. Repository calls made with the
// ctx handed to fn commit together or not at all.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserFilter narrows List results. Nil fields are ignored.
type UserFilter struct {
	Role   *domain.Role
	Active *bool
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]domain.User, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) error
	CountByRole(ctx context.Context) (map[domain.Role]int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Client, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Client, error)
	List(ctx context.Context) ([]domain.Client, error)
	// Update overwrites profile fields. Plan is not touched; use UpdatePlan.
	Update(ctx context.Context, client *domain.Client) error
	UpdatePlan(ctx context.Context, id primitive.ObjectID, plan domain.PlanTier) error
	UpdateWeight(ctx context.Context, id primitive.ObjectID, weight float64) error
	CountByPlan(ctx context.Context) (map[domain.PlanTier]int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type TrainerRepository interface {
	Create(ctx context.Context, trainer *domain.Trainer) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Trainer, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Trainer, error)
	List(ctx context.Context) ([]domain.Trainer, error)
	Update(ctx context.Context, trainer *domain.Trainer) error
}

// ExerciseFilter narrows List results. Empty fields are ignored; Search is a
// case-insensitive substring match on the name.
type ExerciseFilter struct {
	MuscleGroup string
	Equipment   string
	Search      string
}

type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	List(ctx context.Context, filter ExerciseFilter) ([]domain.Exercise, error)
	MuscleGroups(ctx context.Context) ([]string, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// RoutineFilter narrows List results. Nil fields are ignored.
type RoutineFilter struct {
	TrainerID *primitive.ObjectID
	Generic   *bool
}

type RoutineRepository interface {
	Create(ctx context.Context, routine *domain.Routine) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Routine, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Routine, error)
	List(ctx context.Context, filter RoutineFilter) ([]domain.Routine, error)
	Update(ctx context.Context, routine *domain.Routine) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountByTrainer(ctx context.Context, trainerID primitive.ObjectID) (int64, error)
}

type RoutineExerciseRepository interface {
	Create(ctx context.Context, entry *domain.RoutineExercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.RoutineExercise, error)
	// ListByRoutine orders entries by day, then order.
	ListByRoutine(ctx context.Context, routineID primitive.ObjectID) ([]domain.RoutineExercise, error)
	Update(ctx context.Context, entry *domain.RoutineExercise) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByRoutine(ctx context.Context, routineID primitive.ObjectID) (int64, error)
}

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.Assignment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Assignment, error)
	// FindActiveByClient returns the most recent active assignment, or ErrNotFound.
	FindActiveByClient(ctx context.Context, clientID primitive.ObjectID) (*domain.Assignment, error)
	ListByClient(ctx context.Context, clientID primitive.ObjectID, activeOnly bool) ([]domain.Assignment, error)
	ListByRoutine(ctx context.Context, routineID primitive.ObjectID) ([]domain.Assignment, error)
	ListByTrainer(ctx context.Context, trainerID primitive.ObjectID, activeOnly bool) ([]domain.Assignment, error)
	// DeactivateActiveByClient sets active=false and endDate=at on every active assignment of the client.
	DeactivateActiveByClient(ctx context.Context, clientID primitive.ObjectID, at time.Time) (int64, error)
	// DeactivateByIDs does the same for the given ids, skipping rows already inactive.
	DeactivateByIDs(ctx context.Context, ids []primitive.ObjectID, at time.Time) (int64, error)
	CountByTrainer(ctx context.Context, trainerID primitive.ObjectID) (int64, error)
	DeleteByRoutine(ctx context.Context, routineID primitive.ObjectID) (int64, error)
}

type ProgressRepository interface {
	Create(ctx context.Context, record *domain.ProgressRecord) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgressRecord, error)
	// ListByClient orders records newest first. A non-nil since drops older records.
	ListByClient(ctx context.Context, clientID primitive.ObjectID, since *time.Time) ([]domain.ProgressRecord, error)
	Update(ctx context.Context, record *domain.ProgressRecord) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ForumRepository interface {
	CreatePost(ctx context.Context, post *domain.ForumPost) (primitive.ObjectID, error)
	GetPost(ctx context.Context, id primitive.ObjectID) (*domain.ForumPost, error)
	// ListPosts orders posts newest first.
	ListPosts(ctx context.Context, limit int64) ([]domain.ForumPost, error)
	UpdatePost(ctx context.Context, post *domain.ForumPost) error
	// DeletePost removes the post together with its comments.
	DeletePost(ctx context.Context, id primitive.ObjectID) error

	CreateComment(ctx context.Context, comment *domain.ForumComment) (primitive.ObjectID, error)
	GetComment(ctx context.Context, id primitive.ObjectID) (*domain.ForumComment, error)
	// ListComments orders comments oldest first.
	ListComments(ctx context.Context, postID primitive.ObjectID) ([]domain.ForumComment, error)
	CountComments(ctx context.Context, postIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error)
	UpdateComment(ctx context.Context, comment *domain.ForumComment) error
	DeleteComment(ctx context.Context, id primitive.ObjectID) error
}

// SubscriptionTotals aggregates subscription rows for reporting.
type SubscriptionTotals struct {
	ByStatus      map[domain.SubscriptionStatus]int64
	ActiveRevenue float64
}

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *domain.Subscription) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Subscription, error)
	// FindActiveByClient returns the most recent ACTIVA subscription, or ErrNotFound.
	FindActiveByClient(ctx context.Context, clientID primitive.ObjectID) (*domain.Subscription, error)
	// ListByClient orders subscriptions newest first.
	ListByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.Subscription, error)
	// CancelActiveByClient moves every ACTIVA row of the client to CANCELADA.
	CancelActiveByClient(ctx context.Context, clientID primitive.ObjectID, at time.Time) (int64, error)
	// ListExpired returns ACTIVA rows whose end date is strictly before now.
	ListExpired(ctx context.Context, now time.Time) ([]domain.Subscription, error)
	// MarkExpired moves one ACTIVA row to EXPIRADA. ErrNotFound if it is no longer ACTIVA.
	MarkExpired(ctx context.Context, id primitive.ObjectID, at time.Time) error
	Totals(ctx context.Context) (*SubscriptionTotals, error)
}
