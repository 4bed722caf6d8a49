// Package events keeps the local authorization facts (shop ownership, offer
// ownership, subscriptions) in sync with upsert/delete events published by
// the commerce service and the Stripe webhook relay.
package events

import "strings"

type Kind string

const (
	KindShop         Kind = "shop"
	KindOffer        Kind = "offer"
	KindSubscription Kind = "subscription"
)

const (
	ActionUpsert = "upsert"
	ActionDelete = "delete"
)

// Route says where events of one kind come from. Subject and Queue are used
// on NATS; on Kafka the topics are TopicPrefix+".upsert" and
// TopicPrefix+".delete", consumed by the group Queue.
type Route struct {
	Kind        Kind
	Subject     string
	Queue       string
	TopicPrefix string
}

// Routes lists one route per kind. Every replica joins the same queue group,
// so each event is applied by exactly one of them.
var Routes = []Route{
	{Kind: KindShop, Subject: "commerce.shop.>", Queue: "gophmedia.shop", TopicPrefix: "commerce.shop"},
	{Kind: KindOffer, Subject: "commerce.offer.>", Queue: "gophmedia.offer", TopicPrefix: "commerce.offer"},
	{Kind: KindSubscription, Subject: "stripe-webhooks.subscription.>", Queue: "gophmedia.subscription", TopicPrefix: "stripe-webhooks.subscription"},
}

// ParseAction returns the last dot-separated segment of subject.
func ParseAction(subject string) string {
	if i := strings.LastIndexByte(subject, '.'); i >= 0 {
		return subject[i+1:]
	}
	return subject
}

// Topics returns the Kafka topics of r.
func (r Route) Topics() []string {
	return []string{r.TopicPrefix + "." + ActionUpsert, r.TopicPrefix + "." + ActionDelete}
}
