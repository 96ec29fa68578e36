package nats

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"disclosure-engine-be/pkg/events"
)

const (
	StreamName    = "EVENTS"
	subjectPrefix = "events."
)

type envelope struct {
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data"`
}

// Subject is the JetStream subject an event type is published on.
func Subject(eventType string) string {
	return subjectPrefix + eventType
}

func encode(event events.Event) ([]byte, error) {
	data, err := json.Marshal(envelope{
		Type:       event.EventType(),
		OccurredAt: event.Timestamp(),
		Data:       event.Payload(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	return data, nil
}

// decode rebuilds an event from a message body; the subject is used when the
// body carries no type.
func decode(subject string, body []byte) (events.BaseEvent, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return events.BaseEvent{}, err
	}
	if env.Type == "" {
		env.Type = strings.TrimPrefix(subject, subjectPrefix)
	}
	if env.OccurredAt.IsZero() {
		env.OccurredAt = time.Now()
	}
	if env.Data == nil {
		env.Data = map[string]interface{}{}
	}
	return events.BaseEvent{Type: env.Type, Data: env.Data, OccurredAt: env.OccurredAt}, nil
}
