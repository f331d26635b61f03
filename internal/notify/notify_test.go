package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublish_Recorded(t *testing.T) {
	c := NewCenter(true, zap.NewNop())

	c.Publish(SeveritySuccess, "added to cart")
	c.Publish(SeverityError, "catalog unreachable")

	recent := c.Recent()
	require.Len(t, recent, 2)
	assert.Equal(t, SeveritySuccess, recent[0].Severity)
	assert.Equal(t, "added to cart", recent[0].Message)
	assert.NotEmpty(t, recent[0].ID)
	assert.Equal(t, SeverityError, recent[1].Severity)
}

func TestPublish_DisabledDropsSilently(t *testing.T) {
	c := NewCenter(false, zap.NewNop())
	c.Publish(SeverityInfo, "ignored")
	assert.Empty(t, c.Recent())
}

func TestPublish_HistoryBounded(t *testing.T) {
	c := NewCenter(true, zap.NewNop())
	for range maxRecent + 10 {
		c.Publish(SeverityInfo, "x")
	}
	assert.Len(t, c.Recent(), maxRecent)
}
