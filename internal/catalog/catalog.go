// Package catalog holds the subscription tiers offered by the gym.
//
// A Catalog is built once at startup and never mutated afterwards; every
// accessor hands out copies so callers cannot alter the shared definition.
package catalog

import (
	"errors"
	"fmt"
	"time"

	"alcyxob/bodytrack/internal/domain"
)

// DefaultTerm is the length of one paid subscription period.
const DefaultTerm = 30 * 24 * time.Hour

var (
	ErrDuplicateTier = errors.New("catalog: duplicate tier code")
	ErrNoFreeTier    = errors.New("catalog: exactly one free tier is required")
	ErrInvalidTerm   = errors.New("catalog: term must be positive")
)

// Tier describes one subscription level.
type Tier struct {
	Code        domain.PlanTier `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       float64         `json:"price"`
	Currency    string          `json:"currency"`
	Features    []string        `json:"features"`
	// RetentionMonths limits how far back progress history is visible. Zero means unlimited.
	RetentionMonths int  `json:"retentionMonths"`
	Personalized    bool `json:"personalizedRoutines"`
}

// IsFree reports whether the tier costs nothing.
func (t Tier) IsFree() bool {
	return t.Price == 0
}

func (t Tier) clone() Tier {
	t.Features = append([]string(nil), t.Features...)
	return t
}

// Catalog is an immutable, ordered set of tiers.
type Catalog struct {
	tiers []Tier
	index map[domain.PlanTier]int
	free  int
	term  time.Duration
}

// New validates tiers and builds a Catalog. Order is preserved for All.
func New(term time.Duration, tiers ...Tier) (*Catalog, error) {
	if term <= 0 {
		return nil, ErrInvalidTerm
	}
	c := &Catalog{
		tiers: make([]Tier, 0, len(tiers)),
		index: make(map[domain.PlanTier]int, len(tiers)),
		free:  -1,
		term:  term,
	}
	for _, t := range tiers {
		if _, dup := c.index[t.Code]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTier, t.Code)
		}
		if t.IsFree() {
			if c.free >= 0 {
				return nil, ErrNoFreeTier
			}
			c.free = len(c.tiers)
		}
		c.index[t.Code] = len(c.tiers)
		c.tiers = append(c.tiers, t.clone())
	}
	if c.free < 0 {
		return nil, ErrNoFreeTier
	}
	return c, nil
}

// Default returns the FREE and PREMIUM tiers sold by BodyTrack.
func Default() *Catalog {
	c, err := New(DefaultTerm,
		Tier{
			Code:            domain.PlanFree,
			Name:            "Free",
			Description:     "Basic access with generic routines",
			Price:           0,
			Currency:        "USD",
			RetentionMonths: 3,
			Features: []string{
				"Generic routines",
				"Exercise library",
				"Progress history for the last 3 months",
				"Community forum",
			},
		},
		Tier{
			Code:         domain.PlanPremium,
			Name:         "Premium",
			Description:  "Personalized coaching and full history",
			Price:        29.99,
			Currency:     "USD",
			Personalized: true,
			Features: []string{
				"Everything in Free",
				"Personalized routines from your trainer",
				"Unlimited progress history",
			},
		},
	)
	if err != nil {
		panic(err)
	}
	return c
}

// All returns every tier in declaration order.
func (c *Catalog) All() []Tier {
	out := make([]Tier, len(c.tiers))
	for i, t := range c.tiers {
		out[i] = t.clone()
	}
	return out
}

// Lookup finds a tier by code. Codes are normalized first, so "basico" finds FREE.
func (c *Catalog) Lookup(code domain.PlanTier) (Tier, bool) {
	i, ok := c.index[domain.NormalizePlanTier(string(code))]
	if !ok {
		return Tier{}, false
	}
	return c.tiers[i].clone(), true
}

// Free returns the free tier.
func (c *Catalog) Free() Tier {
	return c.tiers[c.free].clone()
}

// IsFree reports whether code names the free tier. Unknown codes count as free.
func (c *Catalog) IsFree(code domain.PlanTier) bool {
	t, ok := c.Lookup(code)
	return !ok || t.IsFree()
}

// Term is the duration of one paid period.
func (c *Catalog) Term() time.Duration {
	return c.term
}

// RetentionCutoff returns the oldest visible progress timestamp for code at now.
// The boolean is false when history is unrestricted.
func (c *Catalog) RetentionCutoff(code domain.PlanTier, now time.Time) (time.Time, bool) {
	t, ok := c.Lookup(code)
	if !ok {
		t = c.Free()
	}
	if t.RetentionMonths <= 0 {
		return time.Time{}, false
	}
	return now.AddDate(0, -t.RetentionMonths, 0), true
}
