package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"alcyxob/bodytrack/internal/domain"
	"alcyxob/bodytrack/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type exerciseRepo struct{ s *Store }

func (r *exerciseRepo) Create(_ context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	exercise.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now
	r.s.exercises[exercise.ID] = *exercise
	return exercise.ID, nil
}

func (r *exerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (r *exerciseRepo) List(_ context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	search := strings.ToLower(filter.Search)
	out := []domain.Exercise{}
	for _, e := range r.s.exercises {
		if filter.MuscleGroup != "" && !strings.EqualFold(e.MuscleGroup, filter.MuscleGroup) {
			continue
		}
		if filter.Equipment != "" && !strings.EqualFold(e.Equipment, filter.Equipment) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(e.Name), search) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *exerciseRepo) MuscleGroups(_ context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	seen := map[string]struct{}{}
	out := []string{}
	for _, e := range r.s.exercises {
		if e.MuscleGroup == "" {
			continue
		}
		if _, ok := seen[e.MuscleGroup]; ok {
			continue
		}
		seen[e.MuscleGroup] = struct{}{}
		out = append(out, e.MuscleGroup)
	}
	sort.Strings(out)
	return out, nil
}

func (r *exerciseRepo) Update(_ context.Context, exercise *domain.Exercise) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.exercises[exercise.ID]
	if !ok {
		return repository.ErrNotFound
	}
	exercise.CreatedBy = existing.CreatedBy
	exercise.CreatedAt = existing.CreatedAt
	exercise.UpdatedAt = time.Now().UTC()
	r.s.exercises[exercise.ID] = *exercise
	return nil
}

func (r *exerciseRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.exercises[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.exercises, id)
	return nil
}

type routineRepo struct{ s *Store }

func (r *routineRepo) Create(_ context.Context, routine *domain.Routine) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	routine.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	routine.CreatedAt = now
	routine.UpdatedAt = now
	r.s.routines[routine.ID] = *routine
	return routine.ID, nil
}

func (r *routineRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Routine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rt, ok := r.s.routines[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rt, nil
}

func (r *routineRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.Routine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.Routine{}
	for _, id := range ids {
		if rt, ok := r.s.routines[id]; ok {
			out = append(out, rt)
		}
	}
	return out, nil
}

func (r *routineRepo) List(_ context.Context, filter repository.RoutineFilter) ([]domain.Routine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.Routine{}
	for _, rt := range r.s.routines {
		if filter.TrainerID != nil && rt.TrainerID != *filter.TrainerID {
			continue
		}
		if filter.Generic != nil && rt.IsGeneric != *filter.Generic {
			continue
		}
		out = append(out, rt)
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out, nil
}

func (r *routineRepo) Update(_ context.Context, routine *domain.Routine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.routines[routine.ID]
	if !ok {
		return repository.ErrNotFound
	}
	routine.TrainerID = existing.TrainerID
	routine.CreatedAt = existing.CreatedAt
	routine.UpdatedAt = time.Now().UTC()
	r.s.routines[routine.ID] = *routine
	return nil
}

func (r *routineRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.routines[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.routines, id)
	return nil
}

func (r *routineRepo) CountByTrainer(_ context.Context, trainerID primitive.ObjectID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, rt := range r.s.routines {
		if rt.TrainerID == trainerID {
			n++
		}
	}
	return n, nil
}

type routineExerciseRepo struct{ s *Store }

func (r *routineExerciseRepo) Create(_ context.Context, entry *domain.RoutineExercise) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entry.ID = primitive.NewObjectID()
	r.s.routineExercises[entry.ID] = *entry
	return entry.ID, nil
}

func (r *routineExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.RoutineExercise, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.routineExercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (r *routineExerciseRepo) ListByRoutine(_ context.Context, routineID primitive.ObjectID) ([]domain.RoutineExercise, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.RoutineExercise{}
	for _, e := range r.s.routineExercises {
		if e.RoutineID == routineID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		return out[i].Order < out[j].Order
	})
	return out, nil
}

func (r *routineExerciseRepo) Update(_ context.Context, entry *domain.RoutineExercise) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.routineExercises[entry.ID]
	if !ok {
		return repository.ErrNotFound
	}
	entry.RoutineID = existing.RoutineID
	r.s.routineExercises[entry.ID] = *entry
	return nil
}

func (r *routineExerciseRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.routineExercises[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.routineExercises, id)
	return nil
}

func (r *routineExerciseRepo) DeleteByRoutine(_ context.Context, routineID primitive.ObjectID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, e := range r.s.routineExercises {
		if e.RoutineID == routineID {
			delete(r.s.routineExercises, id)
			n++
		}
	}
	return n, nil
}

type assignmentRepo struct{ s *Store }

func (r *assignmentRepo) Create(_ context.Context, a *domain.Assignment) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	r.s.assignments[a.ID] = *a
	return a.ID, nil
}

func (r *assignmentRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Assignment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.assignments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r *assignmentRepo) FindActiveByClient(ctx context.Context, clientID primitive.ObjectID) (*domain.Assignment, error) {
	list, _ := r.ListByClient(ctx, clientID, true)
	if len(list) == 0 {
		return nil, repository.ErrNotFound
	}
	return &list[0], nil
}

func (r *assignmentRepo) filter(keep func(domain.Assignment) bool) []domain.Assignment {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.Assignment{}
	for _, a := range r.s.assignments {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.After(out[j].StartDate)
		}
		return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out
}

func (r *assignmentRepo) ListByClient(_ context.Context, clientID primitive.ObjectID, activeOnly bool) ([]domain.Assignment, error) {
	return r.filter(func(a domain.Assignment) bool {
		return a.ClientID == clientID && (!activeOnly || a.Active)
	}), nil
}

func (r *assignmentRepo) ListByRoutine(_ context.Context, routineID primitive.ObjectID) ([]domain.Assignment, error) {
	return r.filter(func(a domain.Assignment) bool { return a.RoutineID == routineID }), nil
}

func (r *assignmentRepo) ListByTrainer(_ context.Context, trainerID primitive.ObjectID, activeOnly bool) ([]domain.Assignment, error) {
	return r.filter(func(a domain.Assignment) bool {
		return a.TrainerID == trainerID && (!activeOnly || a.Active)
	}), nil
}

func (r *assignmentRepo) deactivate(match func(domain.Assignment) bool, at time.Time) int64 {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, a := range r.s.assignments {
		if !a.Active || !match(a) {
			continue
		}
		end := at
		a.Active = false
		a.EndDate = &end
		a.UpdatedAt = time.Now().UTC()
		r.s.assignments[id] = a
		n++
	}
	return n
}

func (r *assignmentRepo) DeactivateActiveByClient(_ context.Context, clientID primitive.ObjectID, at time.Time) (int64, error) {
	return r.deactivate(func(a domain.Assignment) bool { return a.ClientID == clientID }, at), nil
}

func (r *assignmentRepo) DeactivateByIDs(_ context.Context, ids []primitive.ObjectID, at time.Time) (int64, error) {
	return r.deactivate(func(a domain.Assignment) bool { return containsID(ids, a.ID) }, at), nil
}

func (r *assignmentRepo) CountByTrainer(_ context.Context, trainerID primitive.ObjectID) (int64, error) {
	return int64(len(r.filter(func(a domain.Assignment) bool { return a.TrainerID == trainerID }))), nil
}

func (r *assignmentRepo) DeleteByRoutine(_ context.Context, routineID primitive.ObjectID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, a := range r.s.assignments {
		if a.RoutineID == routineID {
			delete(r.s.assignments, id)
			n++
		}
	}
	return n, nil
}
