// Package memory is an in-process implementation of the repository
// interfaces. It backs the "memory" database driver and the service tests.
package memory

import (
	"bytes"
	"context"
	"maps"
	"sync"
	"time"

	"alcyxob/bodytrack/internal/domain"
	"alcyxob/bodytrack/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type txKey struct{}

// Store keeps every collection in maps guarded by one lock.
// Transactions are serialized and roll back by restoring a snapshot.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	users            map[primitive.ObjectID]domain.User
	clients          map[primitive.ObjectID]domain.Client
	trainers         map[primitive.ObjectID]domain.Trainer
	exercises        map[primitive.ObjectID]domain.Exercise
	routines         map[primitive.ObjectID]domain.Routine
	routineExercises map[primitive.ObjectID]domain.RoutineExercise
	assignments      map[primitive.ObjectID]domain.Assignment
	progress         map[primitive.ObjectID]domain.ProgressRecord
	posts            map[primitive.ObjectID]domain.ForumPost
	comments         map[primitive.ObjectID]domain.ForumComment
	subscriptions    map[primitive.ObjectID]domain.Subscription
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:            map[primitive.ObjectID]domain.User{},
		clients:          map[primitive.ObjectID]domain.Client{},
		trainers:         map[primitive.ObjectID]domain.Trainer{},
		exercises:        map[primitive.ObjectID]domain.Exercise{},
		routines:         map[primitive.ObjectID]domain.Routine{},
		routineExercises: map[primitive.ObjectID]domain.RoutineExercise{},
		assignments:      map[primitive.ObjectID]domain.Assignment{},
		progress:         map[primitive.ObjectID]domain.ProgressRecord{},
		posts:            map[primitive.ObjectID]domain.ForumPost{},
		comments:         map[primitive.ObjectID]domain.ForumComment{},
		subscriptions:    map[primitive.ObjectID]domain.Subscription{},
	}
}

func (s *Store) Users() repository.UserRepository { return &userRepo{s} }

func (s *Store) Clients() repository.ClientRepository { return &clientRepo{s} }

func (s *Store) Trainers() repository.TrainerRepository { return &trainerRepo{s} }

func (s *Store) Exercises() repository.ExerciseRepository { return &exerciseRepo{s} }

func (s *Store) Routines() repository.RoutineRepository { return &routineRepo{s} }

func (s *Store) RoutineExercises() repository.RoutineExerciseRepository {
	return &routineExerciseRepo{s}
}

func (s *Store) Assignments() repository.AssignmentRepository { return &assignmentRepo{s} }

func (s *Store) Progress() repository.ProgressRepository { return &progressRepo{s} }

func (s *Store) Forum() repository.ForumRepository { return &forumRepo{s} }

func (s *Store) Subscriptions() repository.SubscriptionRepository { return &subscriptionRepo{s} }

type snapshot struct {
	users            map[primitive.ObjectID]domain.User
	clients          map[primitive.ObjectID]domain.Client
	trainers         map[primitive.ObjectID]domain.Trainer
	exercises        map[primitive.ObjectID]domain.Exercise
	routines         map[primitive.ObjectID]domain.Routine
	routineExercises map[primitive.ObjectID]domain.RoutineExercise
	assignments      map[primitive.ObjectID]domain.Assignment
	progress         map[primitive.ObjectID]domain.ProgressRecord
	posts            map[primitive.ObjectID]domain.ForumPost
	comments         map[primitive.ObjectID]domain.ForumComment
	subscriptions    map[primitive.ObjectID]domain.Subscription
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		users:            maps.Clone(s.users),
		clients:          maps.Clone(s.clients),
		trainers:         maps.Clone(s.trainers),
		exercises:        maps.Clone(s.exercises),
		routines:         maps.Clone(s.routines),
		routineExercises: maps.Clone(s.routineExercises),
		assignments:      maps.Clone(s.assignments),
		progress:         maps.Clone(s.progress),
		posts:            maps.Clone(s.posts),
		comments:         maps.Clone(s.comments),
		subscriptions:    maps.Clone(s.subscriptions),
	}
}

func (s *Store) restore(sn snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = sn.users
	s.clients = sn.clients
	s.trainers = sn.trainers
	s.exercises = sn.exercises
	s.routines = sn.routines
	s.routineExercises = sn.routineExercises
	s.assignments = sn.assignments
	s.progress = sn.progress
	s.posts = sn.posts
	s.comments = sn.comments
	s.subscriptions = sn.subscriptions
}

// WithinTransaction implements repository.Transactor. Nested calls join the
// outer transaction.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	sn := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.restore(sn)
		return err
	}
	return nil
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

// newer orders by timestamp and falls back to the id, so rows created in the
// same instant keep insertion order.
func newer(at, bt time.Time, a, b primitive.ObjectID) bool {
	if !at.Equal(bt) {
		return at.After(bt)
	}
	return bytes.Compare(a[:], b[:]) > 0
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
