// Package authz decides whether a caller may perform an operation.
//
// Every protected route names an Operation. The Policy maps each operation to
// the roles allowed to perform it and, per role, the ownership the caller must
// have over the target resource. The check runs once, before the handler.
package authz

import (
	"errors"
	"fmt"

	"alcyxob/bodytrack/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrForbidden = errors.New("forbidden")

// Operation identifies a protected action.
type Operation string

const (
	OpProfileRead     Operation = "profile.read"
	OpProfilePassword Operation = "profile.password"

	OpClientsList   Operation = "clients.list"
	OpClientsRead   Operation = "clients.read"
	OpClientsUpdate Operation = "clients.update"
	OpClientsDelete Operation = "clients.delete"

	OpTrainersRead    Operation = "trainers.read"
	OpTrainersUpdate  Operation = "trainers.update"
	OpTrainersClients Operation = "trainers.clients"

	OpExercisesRead  Operation = "exercises.read"
	OpExercisesWrite Operation = "exercises.write"

	OpRoutinesRead   Operation = "routines.read"
	OpRoutinesMine   Operation = "routines.mine"
	OpRoutinesCreate Operation = "routines.create"
	OpRoutinesWrite  Operation = "routines.write"

	OpAssignmentsAssign     Operation = "assignments.assign"
	OpAssignmentsDeactivate Operation = "assignments.deactivate"

	OpProgressRead  Operation = "progress.read"
	OpProgressWrite Operation = "progress.write"

	OpForumRead     Operation = "forum.read"
	OpForumWrite    Operation = "forum.write"
	OpForumModerate Operation = "forum.moderate"

	OpSubscriptionsRead     Operation = "subscriptions.read"
	OpSubscriptionsPurchase Operation = "subscriptions.purchase"
	OpSubscriptionsCancel   Operation = "subscriptions.cancel"
	OpSubscriptionsSweep    Operation = "subscriptions.sweep"

	OpAdminRead  Operation = "admin.read"
	OpAdminWrite Operation = "admin.write"
)

// Ownership is the relation the caller must have with the resource.
type Ownership int

const (
	// Anyone with the role may proceed.
	Anyone Ownership = iota
	// OwnClient requires the resource to belong to the caller's client profile.
	OwnClient
	// OwnTrainer requires the resource to belong to the caller's trainer profile.
	OwnTrainer
	// OwnUser requires the resource to be authored by the caller's account.
	OwnUser
)

func (o Ownership) String() string {
	switch o {
	case Anyone:
		return "anyone"
	case OwnClient:
		return "own-client"
	case OwnTrainer:
		return "own-trainer"
	case OwnUser:
		return "own-user"
	}
	return fmt.Sprintf("ownership(%d)", int(o))
}

// Rule grants an operation to a role under an ownership condition.
type Rule struct {
	Role      domain.Role
	Ownership Ownership
}

func Allow(role domain.Role) Rule {
	return Rule{Role: role, Ownership: Anyone}
}

func Own(role domain.Role, o Ownership) Rule {
	return Rule{Role: role, Ownership: o}
}

// Principal is the authenticated caller.
type Principal struct {
	UserID    primitive.ObjectID
	Role      domain.Role
	ClientID  *primitive.ObjectID // set for clients
	TrainerID *primitive.ObjectID // set for trainers
}

func (p Principal) IsStaff() bool {
	return p.Role == domain.RoleTrainer || p.Role == domain.RoleAdmin
}

// Subject describes who owns the resource an operation targets. Zero ids mean unknown.
type Subject struct {
	UserID    primitive.ObjectID
	ClientID  primitive.ObjectID
	TrainerID primitive.ObjectID
}

// Policy is the capability table.
type Policy map[Operation][]Rule

// NeedsSubject reports whether role can only pass op through an ownership rule,
// meaning the subject has to be resolved before Authorize.
func (p Policy) NeedsSubject(op Operation, role domain.Role) bool {
	needs := false
	for _, r := range p[op] {
		if r.Role != role {
			continue
		}
		if r.Ownership == Anyone {
			return false
		}
		needs = true
	}
	return needs
}

// Authorize returns nil when some rule for the caller's role is satisfied, ErrForbidden otherwise.
// Operations missing from the table are denied.
func (p Policy) Authorize(op Operation, principal Principal, subject *Subject) error {
	for _, r := range p[op] {
		if r.Role != principal.Role {
			continue
		}
		if r.satisfiedBy(principal, subject) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s may not %s", ErrForbidden, principal.Role, op)
}

func (r Rule) satisfiedBy(p Principal, s *Subject) bool {
	switch r.Ownership {
	case Anyone:
		return true
	case OwnClient:
		return s != nil && p.ClientID != nil && !s.ClientID.IsZero() && s.ClientID == *p.ClientID
	case OwnTrainer:
		return s != nil && p.TrainerID != nil && !s.TrainerID.IsZero() && s.TrainerID == *p.TrainerID
	case OwnUser:
		return s != nil && !s.UserID.IsZero() && s.UserID == p.UserID
	}
	return false
}

// DefaultPolicy is the access table of the BodyTrack API.
func DefaultPolicy() Policy {
	client, trainer, admin := domain.RoleClient, domain.RoleTrainer, domain.RoleAdmin
	everyone := []Rule{Allow(client), Allow(trainer), Allow(admin)}
	staff := []Rule{Allow(trainer), Allow(admin)}

	return Policy{
		OpProfileRead:     everyone,
		OpProfilePassword: everyone,

		OpClientsList:   staff,
		OpClientsRead:   {Own(client, OwnClient), Allow(trainer), Allow(admin)},
		OpClientsUpdate: {Own(client, OwnClient), Allow(admin)},
		OpClientsDelete: {Allow(admin)},

		OpTrainersRead:    everyone,
		OpTrainersUpdate:  {Own(trainer, OwnTrainer), Allow(admin)},
		OpTrainersClients: {Own(trainer, OwnTrainer), Allow(admin)},

		OpExercisesRead:  everyone,
		OpExercisesWrite: staff,

		OpRoutinesRead:   everyone,
		OpRoutinesMine:   {Allow(client)},
		OpRoutinesCreate: staff,
		OpRoutinesWrite:  {Own(trainer, OwnTrainer), Allow(admin)},

		OpAssignmentsAssign:     {Own(trainer, OwnTrainer), Allow(admin)},
		OpAssignmentsDeactivate: {Own(trainer, OwnTrainer), Allow(admin)},

		OpProgressRead:  {Own(client, OwnClient), Allow(trainer), Allow(admin)},
		OpProgressWrite: {Own(client, OwnClient), Allow(trainer), Allow(admin)},

		OpForumRead:     everyone,
		OpForumWrite:    everyone,
		OpForumModerate: {Own(client, OwnUser), Own(trainer, OwnUser), Allow(admin)},

		OpSubscriptionsRead:     {Allow(client)},
		OpSubscriptionsPurchase: {Allow(client)},
		OpSubscriptionsCancel:   {Allow(client)},
		OpSubscriptionsSweep:    {Allow(admin)},

		OpAdminRead:  {Allow(admin)},
		OpAdminWrite: {Allow(admin)},
	}
}
