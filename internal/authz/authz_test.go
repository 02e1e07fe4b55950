package authz

import (
	"testing"

	"alcyxob/bodytrack/internal/domain"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func clientPrincipal() Principal {
	id := primitive.NewObjectID()
	return Principal{UserID: primitive.NewObjectID(), Role: domain.RoleClient, ClientID: &id}
}

func trainerPrincipal() Principal {
	id := primitive.NewObjectID()
	return Principal{UserID: primitive.NewObjectID(), Role: domain.RoleTrainer, TrainerID: &id}
}

func TestAuthorizeOwnership(t *testing.T) {
	p := DefaultPolicy()
	c := clientPrincipal()
	tr := trainerPrincipal()
	admin := Principal{UserID: primitive.NewObjectID(), Role: domain.RoleAdmin}

	own := &Subject{ClientID: *c.ClientID}
	other := &Subject{ClientID: primitive.NewObjectID()}

	tests := []struct {
		name    string
		op      Operation
		who     Principal
		subject *Subject
		allowed bool
	}{
		{"client reads own progress", OpProgressRead, c, own, true},
		{"client reads other progress", OpProgressRead, c, other, false},
		{"client without subject", OpProgressRead, c, nil, false},
		{"trainer reads any progress", OpProgressRead, tr, other, true},
		{"client cannot list clients", OpClientsList, c, nil, false},
		{"trainer edits own routine", OpRoutinesWrite, tr, &Subject{TrainerID: *tr.TrainerID}, true},
		{"trainer edits foreign routine", OpRoutinesWrite, tr, &Subject{TrainerID: primitive.NewObjectID()}, false},
		{"admin edits any routine", OpRoutinesWrite, admin, nil, true},
		{"client purchases", OpSubscriptionsPurchase, c, nil, true},
		{"trainer cannot purchase", OpSubscriptionsPurchase, tr, nil, false},
		{"only admin sweeps", OpSubscriptionsSweep, tr, nil, false},
		{"author moderates own post", OpForumModerate, c, &Subject{UserID: c.UserID}, true},
		{"non-author cannot moderate", OpForumModerate, c, &Subject{UserID: primitive.NewObjectID()}, false},
		{"unknown operation", Operation("nope"), admin, nil, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := p.Authorize(tc.op, tc.who, tc.subject)
			if tc.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrForbidden)
			}
		})
	}
}

func TestZeroSubjectNeverMatches(t *testing.T) {
	p := DefaultPolicy()
	c := Principal{UserID: primitive.NewObjectID(), Role: domain.RoleClient}
	// A client without a linked profile must not match an empty subject.
	assert.ErrorIs(t, p.Authorize(OpClientsRead, c, &Subject{}), ErrForbidden)
}

func TestNeedsSubject(t *testing.T) {
	p := DefaultPolicy()
	assert.True(t, p.NeedsSubject(OpProgressRead, domain.RoleClient))
	assert.False(t, p.NeedsSubject(OpProgressRead, domain.RoleTrainer))
	assert.True(t, p.NeedsSubject(OpRoutinesWrite, domain.RoleTrainer))
	assert.False(t, p.NeedsSubject(OpRoutinesWrite, domain.RoleAdmin))
	assert.False(t, p.NeedsSubject(OpSubscriptionsSweep, domain.RoleClient))
}
