package availability

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type EventType string

const (
	EventInsert EventType = "insert"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
)

// Event is one booking change on a hall's change feed.
type Event struct {
	Type      EventType `json:"type"`
	HallID    int64     `json:"hall_id"`
	BookingID int64     `json:"booking_id"`
}

// Feed is the booking change feed, one Redis pub/sub channel per hall.
// Booking writers publish; availability subscribers listen.
type Feed struct {
	rdb  *redis.Client
	logf func(format string, args ...interface{})
}

func NewFeed(rdb *redis.Client, logf func(format string, args ...interface{})) *Feed {
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}
	return &Feed{rdb: rdb, logf: logf}
}

func channelFor(hallID int64) string {
	return fmt.Sprintf("hall:%d:bookings", hallID)
}

// Publish is best-effort: callers log the returned error and move on,
// the authoritative booking state already lives in the database.
func (f *Feed) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return f.rdb.Publish(ctx, channelFor(ev.HallID), payload).Err()
}

// Subscribe opens the hall's channel and decodes events onto the
// returned channel until ctx is cancelled. Undecodable payloads are
// logged and skipped.
func (f *Feed) Subscribe(ctx context.Context, hallID int64) <-chan Event {
	pubsub := f.rdb.Subscribe(ctx, channelFor(hallID))
	out := make(chan Event)

	go func() {
		defer close(out)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					f.logf("level=error msg=bad change feed payload hall_id=%d err=%v", hallID, err)
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}
