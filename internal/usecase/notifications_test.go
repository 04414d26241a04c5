package usecase

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifications_Drain(t *testing.T) {
	n := NewNotifications()
	n.Success("ok")
	n.Error("falhou")

	got := n.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, LevelSuccess, got[0].Level)
	assert.Equal(t, "falhou", got[1].Message)
	assert.Empty(t, n.Drain())
}

func TestNotifications_DropsOldest(t *testing.T) {
	n := NewNotifications()
	for i := 0; i < maxPendingNotifications+5; i++ {
		n.Success(fmt.Sprintf("msg %d", i))
	}

	got := n.Drain()
	require.Len(t, got, maxPendingNotifications)
	assert.Equal(t, "msg 5", got[0].Message)
}
