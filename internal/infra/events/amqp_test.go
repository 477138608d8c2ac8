package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope(t *testing.T) {
	env := newEnvelope(LeadCreated, map[string]string{"email": "ana@example.com"})

	assert.NotEmpty(t, env.ID)
	assert.Equal(t, "lead.created", env.Type)
	assert.False(t, env.OccurredAt.IsZero())

	raw, err := json.Marshal(env)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"data":{"email":"ana@example.com"}`)
}

func TestNop(t *testing.T) {
	var p Nop
	assert.NoError(t, p.Publish(context.Background(), EngagementCreated, nil))
	assert.NoError(t, p.Close())
}
