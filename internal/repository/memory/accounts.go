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

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	email := strings.ToLower(user.Email)
	for _, u := range r.s.users {
		if strings.ToLower(u.Email) == email {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.s.users[user.ID] = *user
	return user.ID, nil
}

func (r *userRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	email = strings.ToLower(email)
	for _, u := range r.s.users {
		if strings.ToLower(u.Email) == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.User{}
	for _, u := range r.s.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		if filter.Active != nil && u.Active != *filter.Active {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out, nil
}

func (r *userRepo) UpdatePassword(_ context.Context, id primitive.ObjectID, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now().UTC()
	r.s.users[id] = u
	return nil
}

func (r *userRepo) SetActive(_ context.Context, id primitive.ObjectID, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Active = active
	u.UpdatedAt = time.Now().UTC()
	r.s.users[id] = u
	return nil
}

func (r *userRepo) CountByRole(_ context.Context) (map[domain.Role]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := map[domain.Role]int64{}
	for _, u := range r.s.users {
		out[u.Role]++
	}
	return out, nil
}

func (r *userRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

type clientRepo struct{ s *Store }

func (r *clientRepo) Create(_ context.Context, client *domain.Client) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.clients {
		if c.UserID == client.UserID || (client.DNI != "" && c.DNI == client.DNI) {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	client.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	if client.RegisteredAt.IsZero() {
		client.RegisteredAt = now
	}
	client.UpdatedAt = now
	r.s.clients[client.ID] = *client
	return client.ID, nil
}

func (r *clientRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.clients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *clientRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) (*domain.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.clients {
		if c.UserID == userID {
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *clientRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.Client{}
	for _, id := range ids {
		if c, ok := r.s.clients[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *clientRepo) List(_ context.Context) ([]domain.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Client, 0, len(r.s.clients))
	for _, c := range r.s.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[i].RegisteredAt, out[j].RegisteredAt, out[i].ID, out[j].ID) })
	return out, nil
}

func (r *clientRepo) Update(_ context.Context, client *domain.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.clients[client.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if client.DNI != "" {
		for id, c := range r.s.clients {
			if id != client.ID && c.DNI == client.DNI {
				return repository.ErrConflict
			}
		}
	}
	updated := *client
	updated.UserID = existing.UserID
	updated.Plan = existing.Plan
	updated.RegisteredAt = existing.RegisteredAt
	updated.UpdatedAt = time.Now().UTC()
	r.s.clients[client.ID] = updated
	*client = updated
	return nil
}

func (r *clientRepo) UpdatePlan(_ context.Context, id primitive.ObjectID, plan domain.PlanTier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.clients[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.Plan = plan
	c.UpdatedAt = time.Now().UTC()
	r.s.clients[id] = c
	return nil
}

func (r *clientRepo) UpdateWeight(_ context.Context, id primitive.ObjectID, weight float64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.clients[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.Weight = &weight
	c.UpdatedAt = time.Now().UTC()
	r.s.clients[id] = c
	return nil
}

func (r *clientRepo) CountByPlan(_ context.Context) (map[domain.PlanTier]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := map[domain.PlanTier]int64{}
	for _, c := range r.s.clients {
		out[c.Plan]++
	}
	return out, nil
}

func (r *clientRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.clients[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.clients, id)
	return nil
}

type trainerRepo struct{ s *Store }

func (r *trainerRepo) Create(_ context.Context, trainer *domain.Trainer) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.trainers {
		if t.UserID == trainer.UserID {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	trainer.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	trainer.CreatedAt = now
	trainer.UpdatedAt = now
	t := *trainer
	t.Certifications = cloneStrings(trainer.Certifications)
	r.s.trainers[t.ID] = t
	return t.ID, nil
}

func (r *trainerRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Trainer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.trainers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	t.Certifications = cloneStrings(t.Certifications)
	return &t, nil
}

func (r *trainerRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) (*domain.Trainer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, t := range r.s.trainers {
		if t.UserID == userID {
			t.Certifications = cloneStrings(t.Certifications)
			return &t, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *trainerRepo) List(_ context.Context) ([]domain.Trainer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Trainer, 0, len(r.s.trainers))
	for _, t := range r.s.trainers {
		t.Certifications = cloneStrings(t.Certifications)
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Names < out[j].Names })
	return out, nil
}

func (r *trainerRepo) Update(_ context.Context, trainer *domain.Trainer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.trainers[trainer.ID]
	if !ok {
		return repository.ErrNotFound
	}
	updated := *trainer
	updated.UserID = existing.UserID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	updated.Certifications = cloneStrings(trainer.Certifications)
	r.s.trainers[trainer.ID] = updated
	*trainer = updated
	return nil
}
