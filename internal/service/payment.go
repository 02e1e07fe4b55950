package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"alcyxob/bodytrack/internal/catalog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrPaymentRejected = errors.New("payment rejected")

const defaultPaymentMethod = "simulated"

// PaymentSimulation lets the caller steer the simulated charge.
// A nil Success means the charge goes through.
type PaymentSimulation struct {
	Success *bool  `json:"success,omitempty"`
	Method  string `json:"method,omitempty"`
}

// PaymentReceipt describes a successful charge.
type PaymentReceipt struct {
	Reference string
	Method    string
	Amount    float64
	ChargedAt time.Time
}

// PaymentGateway charges a client for a tier.
type PaymentGateway interface {
	Charge(ctx context.Context, clientID primitive.ObjectID, tier catalog.Tier, sim PaymentSimulation) (*PaymentReceipt, error)
}

type simulatedGateway struct{}

// NewSimulatedGateway returns a gateway that never contacts a payment provider.
func NewSimulatedGateway() PaymentGateway {
	return simulatedGateway{}
}

func (simulatedGateway) Charge(_ context.Context, _ primitive.ObjectID, tier catalog.Tier, sim PaymentSimulation) (*PaymentReceipt, error) {
	if sim.Success != nil && !*sim.Success {
		return nil, ErrPaymentRejected
	}
	method := strings.TrimSpace(sim.Method)
	if method == "" {
		method = defaultPaymentMethod
	}
	return &PaymentReceipt{
		Reference: "sim_" + uuid.NewString(),
		Method:    method,
		Amount:    tier.Price,
		ChargedAt: time.Now().UTC(),
	}, nil
}
