package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanTier is a subscription level code.
type PlanTier string

const (
	PlanFree    PlanTier = "FREE"
	PlanPremium PlanTier = "PREMIUM"

	// planLegacyBasic is the historical name of the free tier.
	planLegacyBasic = "BASICO"
)

// NormalizePlanTier upper-cases a code and folds the legacy free alias into PlanFree.
func NormalizePlanTier(code string) PlanTier {
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == planLegacyBasic {
		return PlanFree
	}
	return PlanTier(c)
}

// SubscriptionStatus values are stored verbatim.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "ACTIVA"
	SubscriptionCanceled SubscriptionStatus = "CANCELADA"
	SubscriptionExpired  SubscriptionStatus = "EXPIRADA"
)

// Subscription is one purchased plan term. Rows are never deleted.
type Subscription struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID      primitive.ObjectID `bson:"clientId" json:"clientId"`
	Plan          PlanTier           `bson:"plan" json:"plan"`
	Status        SubscriptionStatus `bson:"status" json:"status"`
	StartDate     time.Time          `bson:"startDate" json:"startDate"`
	EndDate       time.Time          `bson:"endDate" json:"endDate"`
	Amount        float64            `bson:"amount" json:"amount"`
	PaymentMethod string             `bson:"paymentMethod" json:"paymentMethod"`
	PaymentRef    string             `bson:"paymentRef,omitempty" json:"paymentRef,omitempty"`
	CanceledAt    *time.Time         `bson:"canceledAt,omitempty" json:"canceledAt,omitempty"`
	ExpiredAt     *time.Time         `bson:"expiredAt,omitempty" json:"expiredAt,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ActiveAt reports whether s is ACTIVA and not yet past its end at t.
func (s *Subscription) ActiveAt(t time.Time) bool {
	return s.Status == SubscriptionActive && s.EndDate.After(t)
}
