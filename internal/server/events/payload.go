package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophmedia/internal/server/models"
	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protowire"
)

// Payloads are protobuf messages. The field numbers below are the wire
// contract with the publishers; timestamps are unix seconds.
//
//	Shop:         1 shop_id, 2 user_id
//	Offer:        1 offer_id, 2 shop_id, 3 user_id
//	Subscription: 1 subscription_id, 2 buyer_user_id, 3 offer_id, 4 shop_id,
//	              5 current_period_start, 6 current_period_end,
//	              7 subscription_status, 8 payed_at, 9 payed_until,
//	              10 stripe_subscription_id (optional),
//	              11 canceled_at (optional), 12 cancel_at (optional)

var errDecode = errors.New("decode payload")

type field struct {
	str    string
	varint uint64
	set    bool
}

// parseFields reads string and varint fields by number; unknown fields are
// skipped.
func parseFields(b []byte, maxField protowire.Number) (map[protowire.Number]field, error) {
	out := map[protowire.Number]field{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: %w", errDecode, protowire.ParseError(n))
		}
		b = b[n:]

		if num > maxField {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fmt.Errorf("%w: %w", errDecode, protowire.ParseError(n))
			}
			b = b[n:]
			continue
		}

		switch typ {
		case protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, fmt.Errorf("%w: field %d: %w", errDecode, num, protowire.ParseError(n))
			}
			out[num] = field{str: v, set: true}
			b = b[n:]
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("%w: field %d: %w", errDecode, num, protowire.ParseError(n))
			}
			out[num] = field{varint: v, set: true}
			b = b[n:]
		default:
			return nil, fmt.Errorf("%w: field %d has wire type %d", errDecode, num, typ)
		}
	}
	return out, nil
}

func requireUUIDField(f map[protowire.Number]field, num protowire.Number, name string) (string, error) {
	v := f[num].str
	if err := uuid.Validate(v); err != nil {
		return "", fmt.Errorf("%w: %s is not a uuid", errDecode, name)
	}
	return v, nil
}

func requireString(f map[protowire.Number]field, num protowire.Number, name string) (string, error) {
	v := f[num].str
	if v == "" {
		return "", fmt.Errorf("%w: %s is empty", errDecode, name)
	}
	return v, nil
}

func unixTime(v uint64) time.Time {
	return time.Unix(int64(v), 0).UTC()
}

func optionalTime(f field) *time.Time {
	if !f.set {
		return nil
	}
	t := unixTime(f.varint)
	return &t
}

func DecodeShop(b []byte) (*models.ShopOwnership, error) {
	f, err := parseFields(b, 2)
	if err != nil {
		return nil, err
	}
	s := &models.ShopOwnership{}
	if s.ShopID, err = requireUUIDField(f, 1, "shop_id"); err != nil {
		return nil, err
	}
	if s.UserID, err = requireString(f, 2, "user_id"); err != nil {
		return nil, err
	}
	return s, nil
}

func DecodeOffer(b []byte) (*models.OfferOwnership, error) {
	f, err := parseFields(b, 3)
	if err != nil {
		return nil, err
	}
	o := &models.OfferOwnership{}
	if o.OfferID, err = requireUUIDField(f, 1, "offer_id"); err != nil {
		return nil, err
	}
	if o.ShopID, err = requireUUIDField(f, 2, "shop_id"); err != nil {
		return nil, err
	}
	if o.UserID, err = requireString(f, 3, "user_id"); err != nil {
		return nil, err
	}
	return o, nil
}

func DecodeSubscription(b []byte) (*models.Subscription, error) {
	f, err := parseFields(b, 12)
	if err != nil {
		return nil, err
	}
	s := &models.Subscription{
		CurrentPeriodStart: unixTime(f[5].varint),
		CurrentPeriodEnd:   unixTime(f[6].varint),
		Status:             f[7].str,
		PayedAt:            unixTime(f[8].varint),
		PayedUntil:         unixTime(f[9].varint),
		CanceledAt:         optionalTime(f[11]),
		CancelAt:           optionalTime(f[12]),
	}
	if s.ID, err = requireUUIDField(f, 1, "subscription_id"); err != nil {
		return nil, err
	}
	if s.BuyerUserID, err = requireString(f, 2, "buyer_user_id"); err != nil {
		return nil, err
	}
	if s.OfferID, err = requireUUIDField(f, 3, "offer_id"); err != nil {
		return nil, err
	}
	if s.ShopID, err = requireUUIDField(f, 4, "shop_id"); err != nil {
		return nil, err
	}
	if v := f[10]; v.set {
		id := v.str
		s.StripeSubscriptionID = &id
	}
	return s, nil
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendTime(b []byte, num protowire.Number, t time.Time) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(t.Unix()))
}

func EncodeShop(s *models.ShopOwnership) []byte {
	var b []byte
	b = appendString(b, 1, s.ShopID)
	b = appendString(b, 2, s.UserID)
	return b
}

func EncodeOffer(o *models.OfferOwnership) []byte {
	var b []byte
	b = appendString(b, 1, o.OfferID)
	b = appendString(b, 2, o.ShopID)
	b = appendString(b, 3, o.UserID)
	return b
}

func EncodeSubscription(s *models.Subscription) []byte {
	var b []byte
	b = appendString(b, 1, s.ID)
	b = appendString(b, 2, s.BuyerUserID)
	b = appendString(b, 3, s.OfferID)
	b = appendString(b, 4, s.ShopID)
	b = appendTime(b, 5, s.CurrentPeriodStart)
	b = appendTime(b, 6, s.CurrentPeriodEnd)
	b = appendString(b, 7, s.Status)
	b = appendTime(b, 8, s.PayedAt)
	b = appendTime(b, 9, s.PayedUntil)
	if s.StripeSubscriptionID != nil {
		b = protowire.AppendTag(b, 10, protowire.BytesType)
		b = protowire.AppendString(b, *s.StripeSubscriptionID)
	}
	if s.CanceledAt != nil {
		b = appendTime(b, 11, *s.CanceledAt)
	}
	if s.CancelAt != nil {
		b = appendTime(b, 12, *s.CancelAt)
	}
	return b
}
