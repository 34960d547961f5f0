package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/interconnection-etl/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	rec := domain.MergedRecord{
		QueueRecord: domain.QueueRecord{
			Position: "0421",
			Type:     "W",
			County:   "Lewis",
			State:    "New York",
			Status:   domain.StatusWithdrawn,
		},
		Tier:    4,
		Rank:    2100,
		HasTier: true,
	}

	msg, err := serializeToMessage("merged_NYISO_withdrawn.csv", rec, now)
	require.NoError(t, err)

	assert.Equal(t, []byte("Lewis, New York"), msg.Key)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "0421", decoded["position"])
	assert.Equal(t, "Lewis", decoded["county"])
	assert.InDelta(t, 4, decoded["tier"], 0)
	assert.InDelta(t, 0, decoded["status"], 0)

	require.Len(t, msg.Headers, 4)
	assert.Equal(t, "source_file", msg.Headers[0].Key)
	assert.Equal(t, []byte("merged_NYISO_withdrawn.csv"), msg.Headers[0].Value)
	assert.Equal(t, []byte("withdrawn"), msg.Headers[1].Value)
	assert.Equal(t, []byte("true"), msg.Headers[2].Value)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[3].Value)
}
