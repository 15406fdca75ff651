// Package usersink forwards shopper activity to a go-users ActivitySink.
package usersink

import (
	"context"
	"maps"
	"strings"

	"github.com/goliatone/go-storefront/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Hook writes each event as a go-users ActivityRecord. A nil Sink makes it a
// no-op.
type Hook struct {
	Sink usertypes.ActivitySink
}

var _ activity.ActivityHook = Hook{}

func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}
	record, ok := Record(event)
	if !ok {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return h.Sink.Log(ctx, record)
}

// Record maps event to an ActivityRecord. The shopper id becomes both actor
// and user; one that is not a UUID is kept in Data["actor"] and the ids stay
// nil. ok is false for events missing a verb or object.
func Record(event activity.Event) (usertypes.ActivityRecord, bool) {
	event = activity.NormalizeEvent(event)
	if event.Verb == "" || event.ObjectType == "" || event.ObjectID == "" {
		return usertypes.ActivityRecord{}, false
	}

	record := usertypes.ActivityRecord{
		TenantID:   uuidOrNil(event.TenantID),
		Verb:       event.Verb,
		ObjectType: event.ObjectType,
		ObjectID:   event.ObjectID,
		Channel:    event.Channel,
		Data:       maps.Clone(event.Metadata),
		OccurredAt: event.OccurredAt,
	}
	actor := uuidOrNil(event.ActorID)
	record.ActorID, record.UserID = actor, actor
	if actor == uuid.Nil && event.ActorID != "" {
		if record.Data == nil {
			record.Data = map[string]any{}
		}
		record.Data["actor"] = event.ActorID
	}
	return record, true
}

func uuidOrNil(value string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil
	}
	return id
}
