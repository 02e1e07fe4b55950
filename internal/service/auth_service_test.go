package service

import (
	"testing"
	"time"

	"alcyxob/bodytrack/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func (f *fixture) auth() AuthService {
	return NewAuthService(f.store.Users(), f.store.Clients(), f.store.Trainers(), f.plans, testSecret, time.Hour)
}

func TestRegisterClientAndLogin(t *testing.T) {
	f := newFixture(t)
	svc := f.auth()

	profile, err := svc.RegisterClient(f.ctx, RegisterClientInput{
		Email: " Ana@Example.com ", Password: "secret1", DNI: "12345678", Names: "Ana", Weight: floatPtr(61),
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", profile.User.Email)
	assert.Empty(t, profile.User.PasswordHash)
	require.NotNil(t, profile.Client)
	assert.Equal(t, domain.PlanFree, profile.Client.Plan)

	token, loggedIn, err := svc.Login(f.ctx, "ana@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, profile.Client.ID, loggedIn.Client.ID)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, profile.User.ID.Hex(), claims.UserID)
	assert.Equal(t, domain.RoleClient, claims.Role)

	principal, err := svc.Identify(f.ctx, profile.User.ID)
	require.NoError(t, err)
	require.NotNil(t, principal.ClientID)
	assert.Equal(t, profile.Client.ID, *principal.ClientID)
	assert.Nil(t, principal.TrainerID)

	_, _, err = svc.Login(f.ctx, "ana@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	_, _, err = svc.Login(f.ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestRegisterClientConflicts(t *testing.T) {
	f := newFixture(t)
	svc := f.auth()
	_, err := svc.RegisterClient(f.ctx, RegisterClientInput{Email: "a@example.com", Password: "secret1", DNI: "111", Names: "A"})
	require.NoError(t, err)

	_, err = svc.RegisterClient(f.ctx, RegisterClientInput{Email: "A@example.com", Password: "secret1", Names: "B"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	_, err = svc.RegisterClient(f.ctx, RegisterClientInput{Email: "c@example.com", Password: "secret1", DNI: "111", Names: "C"})
	assert.ErrorIs(t, err, ErrDNIAlreadyExists)
	// The account created before the DNI clash is gone.
	_, err = f.store.Users().GetByEmail(f.ctx, "c@example.com")
	assert.Error(t, err)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	svc := f.auth()

	cases := []RegisterClientInput{
		{Email: "not-an-email", Password: "secret1", Names: "A"},
		{Email: "a@example.com", Password: "123", Names: "A"},
		{Email: "a@example.com", Password: "secret1"},
		{Email: "a@example.com", Password: "secret1", Names: "A", Height: floatPtr(0)},
	}
	for _, in := range cases {
		_, err := svc.RegisterClient(f.ctx, in)
		assert.ErrorIs(t, err, ErrInvalidInput, "%+v", in)
	}
}

func TestRegisterTrainerIdentify(t *testing.T) {
	f := newFixture(t)
	svc := f.auth()

	profile, err := svc.RegisterTrainer(f.ctx, RegisterTrainerInput{
		Email: "coach@example.com", Password: "secret1", Names: "Marco", Certifications: []string{"NSCA"},
	})
	require.NoError(t, err)

	principal, err := svc.Identify(f.ctx, profile.User.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTrainer, principal.Role)
	require.NotNil(t, principal.TrainerID)
	assert.Equal(t, profile.Trainer.ID, *principal.TrainerID)
	assert.True(t, principal.IsStaff())
}

func TestDisabledAccount(t *testing.T) {
	f := newFixture(t)
	svc := f.auth()
	admin, err := svc.CreateAdmin(f.ctx, "root@example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, f.store.Users().SetActive(f.ctx, admin.ID, false))

	_, _, err = svc.Login(f.ctx, "root@example.com", "secret1")
	assert.ErrorIs(t, err, ErrAccountDisabled)
	_, err = svc.Identify(f.ctx, admin.ID)
	assert.ErrorIs(t, err, ErrAccountDisabled)
	_, err = svc.Identify(f.ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	svc := f.auth()
	profile, err := svc.RegisterClient(f.ctx, RegisterClientInput{Email: "a@example.com", Password: "secret1", Names: "A"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword(f.ctx, profile.User.ID, "nope", "secret2"), ErrWrongPassword)
	assert.ErrorIs(t, svc.ChangePassword(f.ctx, profile.User.ID, "secret1", "x"), ErrInvalidInput)
	require.NoError(t, svc.ChangePassword(f.ctx, profile.User.ID, "secret1", "secret2"))

	_, _, err = svc.Login(f.ctx, "a@example.com", "secret2")
	assert.NoError(t, err)
}

func TestParseTokenRejectsForeignSignature(t *testing.T) {
	f := newFixture(t)
	other := NewAuthService(f.store.Users(), f.store.Clients(), f.store.Trainers(), f.plans, "another-secret", time.Hour)
	_, err := other.CreateAdmin(f.ctx, "root@example.com", "secret1")
	require.NoError(t, err)
	token, _, err := other.Login(f.ctx, "root@example.com", "secret1")
	require.NoError(t, err)

	_, err = f.auth().ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = f.auth().ParseToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
