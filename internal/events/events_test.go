package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	t.Parallel()

	payload := map[string]string{"title": "ship it", "created_by": "bob"}
	event, err := NewEvent(TypeTaskCreated, payload)
	require.NoError(t, err)

	assert.Equal(t, TypeTaskCreated, event.Type)
	assert.False(t, event.CreatedAt.IsZero())

	var decoded map[string]string
	require.NoError(t, event.UnmarshalPayload(&decoded))
	assert.Equal(t, payload, decoded)
}

func TestEventMarshalRoundTrip(t *testing.T) {
	t.Parallel()

	event, err := NewEvent(TypeTaskCreated, map[string]int{"n": 1})
	require.NoError(t, err)

	data, err := event.Marshal()
	require.NoError(t, err)

	var back Event
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, event.Type, back.Type)
	assert.JSONEq(t, string(event.Payload), string(back.Payload))
}

func TestNewEventRejectsUnserializablePayload(t *testing.T) {
	t.Parallel()

	_, err := NewEvent(TypeTaskCreated, make(chan int))
	require.Error(t, err)
}
