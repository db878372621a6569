package service

import (
	"context"
	"strconv"
	"time"

	"github.com/Skotchmaster/cse_motors/internal/logging"
	"github.com/Skotchmaster/cse_motors/internal/mykafka"
)

type AccountEvent struct {
	Type      string    `json:"type"`
	AccountID int       `json:"account_id"`
	At        time.Time `json:"at"`
}

type InventoryEvent struct {
	Type             string    `json:"type"`
	InvID            int       `json:"inv_id,omitempty"`
	ClassificationID int       `json:"classification_id,omitempty"`
	Name             string    `json:"name,omitempty"`
	At               time.Time `json:"at"`
}

// publish never fails the caller; a lost event is only logged.
func publish(ctx context.Context, events EventPublisher, topic, key string, event any) {
	if events == nil {
		return
	}
	if err := events.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "topic", topic, "key", key, "error", err)
	}
}

func publishAccount(ctx context.Context, events EventPublisher, typ string, accountID int) {
	publish(ctx, events, mykafka.TopicAccountEvents, strconv.Itoa(accountID), AccountEvent{
		Type:      typ,
		AccountID: accountID,
		At:        time.Now().UTC(),
	})
}

func publishInventory(ctx context.Context, events EventPublisher, key int, ev InventoryEvent) {
	ev.At = time.Now().UTC()
	publish(ctx, events, mykafka.TopicInventoryEvents, strconv.Itoa(key), ev)
}
