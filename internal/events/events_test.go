package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"antiquites/internal/events"
)

func TestEventPayload(t *testing.T) {
	at := time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)
	price := 120.5

	tests := []struct {
		name string
		in   events.Event
		want string
	}{
		{
			name: "validated carries price",
			in:   events.Event{Subject: events.SubjectValidated, ID: 7, Status: "validated", Price: &price, At: at},
			want: `{"id":7,"status":"validated","price":120.5,"at":"2024-05-02T09:30:00Z"}`,
		},
		{
			name: "rejected omits price",
			in:   events.Event{Subject: events.SubjectRejected, ID: 8, Status: "rejected", At: at},
			want: `{"id":8,"status":"rejected","at":"2024-05-02T09:30:00Z"}`,
		},
		{
			name: "zero price is still sent",
			in:   events.Event{Subject: events.SubjectValidated, ID: 9, Status: "validated", Price: new(float64), At: at},
			want: `{"id":9,"status":"validated","price":0,"at":"2024-05-02T09:30:00Z"}`,
		},
		{
			name: "deleted has no status",
			in:   events.Event{Subject: events.SubjectDeleted, ID: 10, At: at},
			want: `{"id":10,"at":"2024-05-02T09:30:00Z"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.in)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
			assert.NotContains(t, string(got), "announcement.", "subject travels as the NATS subject only")
		})
	}
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, events.Nop{}.Publish(context.Background(), events.Event{ID: 1}))
}
