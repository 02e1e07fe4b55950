package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"alcyxob/bodytrack/internal/authz"
	"alcyxob/bodytrack/internal/catalog"
	"alcyxob/bodytrack/internal/domain"
	"alcyxob/bodytrack/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrDNIAlreadyExists     = errors.New("a client with this DNI already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrAccountDisabled      = errors.New("account is disabled")
	ErrWrongPassword        = errors.New("current password is incorrect")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
)

// RegisterClientInput is the self-service signup form. New clients start on the free tier.
type RegisterClientInput struct {
	Email     string
	Password  string
	DNI       string
	Names     string
	LastNames string
	Phone     string
	BirthDate *time.Time
	Gender    string
	Address   string
	Weight    *float64
	Height    *float64
}

type RegisterTrainerInput struct {
	Email          string
	Password       string
	Names          string
	LastNames      string
	Specialty      string
	Certifications []string
	Phone          string
	Bio            string
}

// Profile is an account together with its role profile, if any.
type Profile struct {
	User    *domain.User
	Client  *domain.Client
	Trainer *domain.Trainer
}

// TokenClaims is the JWT payload.
type TokenClaims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	RegisterClient(ctx context.Context, in RegisterClientInput) (*Profile, error)
	RegisterTrainer(ctx context.Context, in RegisterTrainerInput) (*Profile, error)
	CreateAdmin(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, profile *Profile, err error)
	ParseToken(token string) (*TokenClaims, error)
	// Identify loads the caller behind a token and resolves their role profile ids.
	Identify(ctx context.Context, userID primitive.ObjectID) (*authz.Principal, error)
	Profile(ctx context.Context, userID primitive.ObjectID) (*Profile, error)
	ChangePassword(ctx context.Context, userID primitive.ObjectID, current, next string) error
}

type authService struct {
	users         repository.UserRepository
	clients       repository.ClientRepository
	trainers      repository.TrainerRepository
	plans         *catalog.Catalog
	jwtSecret     string
	jwtExpiration time.Duration
}

func NewAuthService(
	users repository.UserRepository,
	clients repository.ClientRepository,
	trainers repository.TrainerRepository,
	plans *catalog.Catalog,
	jwtSecret string,
	jwtExpiration time.Duration,
) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour
	}
	return &authService{
		users:         users,
		clients:       clients,
		trainers:      trainers,
		plans:         plans,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

func (s *authService) RegisterClient(ctx context.Context, in RegisterClientInput) (*Profile, error) {
	if strings.TrimSpace(in.Names) == "" {
		return nil, invalidInput("names are required")
	}
	if in.Weight != nil && *in.Weight <= 0 {
		return nil, invalidInput("weight must be positive")
	}
	if in.Height != nil && *in.Height <= 0 {
		return nil, invalidInput("height must be positive")
	}
	user, err := s.createUser(ctx, in.Email, in.Password, domain.RoleClient)
	if err != nil {
		return nil, err
	}

	client := &domain.Client{
		UserID:    user.ID,
		DNI:       strings.TrimSpace(in.DNI),
		Names:     strings.TrimSpace(in.Names),
		LastNames: strings.TrimSpace(in.LastNames),
		Phone:     in.Phone,
		BirthDate: in.BirthDate,
		Gender:    in.Gender,
		Address:   in.Address,
		Weight:    in.Weight,
		Height:    in.Height,
		Plan:      s.plans.Free().Code,
	}
	if _, err := s.clients.Create(ctx, client); err != nil {
		s.discardUser(ctx, user)
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDNIAlreadyExists
		}
		return nil, err
	}

	log.WithFields(log.Fields{"user": user.ID.Hex(), "client": client.ID.Hex()}).Info("client registered")
	return &Profile{User: user, Client: client}, nil
}

func (s *authService) RegisterTrainer(ctx context.Context, in RegisterTrainerInput) (*Profile, error) {
	if strings.TrimSpace(in.Names) == "" {
		return nil, invalidInput("names are required")
	}
	user, err := s.createUser(ctx, in.Email, in.Password, domain.RoleTrainer)
	if err != nil {
		return nil, err
	}

	trainer := &domain.Trainer{
		UserID:         user.ID,
		Names:          strings.TrimSpace(in.Names),
		LastNames:      strings.TrimSpace(in.LastNames),
		Specialty:      in.Specialty,
		Certifications: in.Certifications,
		Phone:          in.Phone,
		Bio:            in.Bio,
	}
	if _, err := s.trainers.Create(ctx, trainer); err != nil {
		s.discardUser(ctx, user)
		return nil, err
	}

	log.WithFields(log.Fields{"user": user.ID.Hex(), "trainer": trainer.ID.Hex()}).Info("trainer registered")
	return &Profile{User: user, Trainer: trainer}, nil
}

func (s *authService) CreateAdmin(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.createUser(ctx, email, password, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	log.WithField("user", user.ID.Hex()).Info("admin account created")
	return user, nil
}

// createUser validates credentials, hashes the password and stores an active account.
func (s *authService) createUser(ctx context.Context, email, password string, role domain.Role) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, invalidInput("a valid email is required")
	}
	if len(password) < minPasswordLength {
		return nil, invalidInput("password must be at least %d characters", minPasswordLength)
	}

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}
	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		// Lost a race with another signup for the same email.
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// discardUser removes an account whose profile could not be created.
func (s *authService) discardUser(ctx context.Context, user *domain.User) {
	if err := s.users.Delete(ctx, user.ID); err != nil {
		log.WithField("user", user.ID.Hex()).WithError(err).Error("failed to remove account after profile creation failed")
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *Profile, error) {
	if email == "" || password == "" {
		return "", nil, invalidInput("email and password cannot be empty")
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}
	if !user.Active {
		return "", nil, ErrAccountDisabled
	}

	token, err := s.generateJWT(user)
	if err != nil {
		log.WithField("user", user.ID.Hex()).WithError(err).Error("failed to sign token")
		return "", nil, ErrTokenGeneration
	}
	profile, err := s.profileFor(ctx, user)
	if err != nil {
		return "", nil, err
	}
	return token, profile, nil
}

func (s *authService) generateJWT(user *domain.User) (string, error) {
	now := time.Now()
	claims := &TokenClaims{
		UserID: user.ID.Hex(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "bodytrack",
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
}

func (s *authService) ParseToken(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *authService) Identify(ctx context.Context, userID primitive.ObjectID) (*authz.Principal, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.Active {
		return nil, ErrAccountDisabled
	}

	principal := &authz.Principal{UserID: user.ID, Role: user.Role}
	switch user.Role {
	case domain.RoleClient:
		client, err := s.clients.GetByUserID(ctx, user.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if client != nil {
			principal.ClientID = &client.ID
		}
	case domain.RoleTrainer:
		trainer, err := s.trainers.GetByUserID(ctx, user.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if trainer != nil {
			principal.TrainerID = &trainer.ID
		}
	}
	return principal, nil
}

func (s *authService) Profile(ctx context.Context, userID primitive.ObjectID) (*Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return s.profileFor(ctx, user)
}

func (s *authService) profileFor(ctx context.Context, user *domain.User) (*Profile, error) {
	user.PasswordHash = ""
	profile := &Profile{User: user}
	var err error
	switch user.Role {
	case domain.RoleClient:
		profile.Client, err = s.clients.GetByUserID(ctx, user.ID)
	case domain.RoleTrainer:
		profile.Trainer, err = s.trainers.GetByUserID(ctx, user.ID)
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return profile, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID primitive.ObjectID, current, next string) error {
	if len(next) < minPasswordLength {
		return invalidInput("password must be at least %d characters", minPasswordLength)
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return notFound(err, ErrUserNotFound)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrWrongPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return ErrHashingFailed
	}
	return notFound(s.users.UpdatePassword(ctx, userID, string(hash)), ErrUserNotFound)
}
