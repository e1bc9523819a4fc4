package nats

import (
	"testing"
	"time"

	"stlc-manager-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	in := events.BaseEvent{
		Type:       events.TypeProcessStatusChanged,
		Data:       map[string]interface{}{"process_id": "code-review", "status": "running"},
		OccurredAt: at,
	}

	raw, err := Encode(in)
	require.NoError(t, err)

	out, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.Equal(t, "events.PROCESS_STATUS_CHANGED", Subject(out.EventType()))

	_, err = Decode([]byte("{"))
	assert.Error(t, err)
}
