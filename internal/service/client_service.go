package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"alcyxob/bodytrack/internal/domain"
	"alcyxob/bodytrack/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClientUpdate holds the profile fields a client or admin may change. Nil fields are kept.
// The plan is deliberately absent; it only moves through subscriptions.
type ClientUpdate struct {
	DNI       *string
	Names     *string
	LastNames *string
	Phone     *string
	BirthDate *time.Time
	Gender    *string
	Address   *string
	Weight    *float64
	Height    *float64
}

// ClientDetail is a client profile with its account and current activity.
type ClientDetail struct {
	Client       *domain.Client
	User         *domain.User
	Subscription *domain.Subscription
	Assignment   *domain.Assignment
}

type ClientService interface {
	List(ctx context.Context) ([]domain.Client, error)
	Get(ctx context.Context, id primitive.ObjectID) (*ClientDetail, error)
	Update(ctx context.Context, id primitive.ObjectID, in ClientUpdate) (*domain.Client, error)
	// Delete removes the client profile and its login account.
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type clientService struct {
	clients     repository.ClientRepository
	users       repository.UserRepository
	subs        repository.SubscriptionRepository
	assignments repository.AssignmentRepository
}

func NewClientService(
	clients repository.ClientRepository,
	users repository.UserRepository,
	subs repository.SubscriptionRepository,
	assignments repository.AssignmentRepository,
) ClientService {
	return &clientService{
		clients:     clients,
		users:       users,
		subs:        subs,
		assignments: assignments,
	}
}

func (s *clientService) List(ctx context.Context) ([]domain.Client, error) {
	return s.clients.List(ctx)
}

func (s *clientService) Get(ctx context.Context, id primitive.ObjectID) (*ClientDetail, error) {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrClientNotFound)
	}
	detail := &ClientDetail{Client: client}

	if detail.User, err = s.users.GetByID(ctx, client.UserID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if detail.Subscription, err = s.subs.FindActiveByClient(ctx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if detail.Assignment, err = s.assignments.FindActiveByClient(ctx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return detail, nil
}

func (s *clientService) Update(ctx context.Context, id primitive.ObjectID, in ClientUpdate) (*domain.Client, error) {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrClientNotFound)
	}

	if in.Names != nil {
		if strings.TrimSpace(*in.Names) == "" {
			return nil, invalidInput("names cannot be empty")
		}
		client.Names = strings.TrimSpace(*in.Names)
	}
	if in.LastNames != nil {
		client.LastNames = strings.TrimSpace(*in.LastNames)
	}
	if in.DNI != nil {
		client.DNI = strings.TrimSpace(*in.DNI)
	}
	if in.Phone != nil {
		client.Phone = *in.Phone
	}
	if in.BirthDate != nil {
		client.BirthDate = in.BirthDate
	}
	if in.Gender != nil {
		client.Gender = *in.Gender
	}
	if in.Address != nil {
		client.Address = *in.Address
	}
	if in.Weight != nil {
		if *in.Weight <= 0 {
			return nil, invalidInput("weight must be positive")
		}
		client.Weight = in.Weight
	}
	if in.Height != nil {
		if *in.Height <= 0 {
			return nil, invalidInput("height must be positive")
		}
		client.Height = in.Height
	}

	if err := s.clients.Update(ctx, client); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDNIAlreadyExists
		}
		return nil, notFound(err, ErrClientNotFound)
	}
	return client, nil
}

func (s *clientService) Delete(ctx context.Context, id primitive.ObjectID) error {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return notFound(err, ErrClientNotFound)
	}
	if err := s.clients.Delete(ctx, id); err != nil {
		return notFound(err, ErrClientNotFound)
	}
	if err := s.users.Delete(ctx, client.UserID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.WithFields(log.Fields{"client": id.Hex(), "user": client.UserID.Hex()}).WithError(err).Error("client removed but account was not")
		return err
	}
	log.WithField("client", id.Hex()).Info("client deleted")
	return nil
}
