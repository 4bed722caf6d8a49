package models

import "time"

// ShopOwnership mirrors a shop owned by a user in the commerce system.
type ShopOwnership struct {
	ShopID string
	UserID string
}

// OfferOwnership mirrors an offer of a shop in the commerce system.
type OfferOwnership struct {
	OfferID string
	ShopID  string
	UserID  string
}

// Subscription mirrors a buyer's subscription to an offer in the payment system.
type Subscription struct {
	ID                   string
	BuyerUserID          string
	OfferID              string
	ShopID               string
	CurrentPeriodStart   time.Time
	CurrentPeriodEnd     time.Time
	Status               string
	PayedAt              time.Time
	PayedUntil           time.Time
	StripeSubscriptionID *string
	CanceledAt           *time.Time
	CancelAt             *time.Time
}

// Active reports whether the subscription grants access at now.
func (s *Subscription) Active(now time.Time) bool {
	return !s.PayedUntil.Before(now)
}
