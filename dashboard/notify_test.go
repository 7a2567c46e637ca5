package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifierPushAndDismiss(t *testing.T) {
	n := NewNotifier()
	n.Push(NotifyError, "backend unreachable")
	n.Push(NotifyInfo, "refreshing")

	active := n.Active()
	require.Len(t, active, 2)
	assert.Equal(t, NotifyError, active[0].Kind)

	n.Dismiss("backend unreachable")
	active = n.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "refreshing", active[0].Message)
}

func TestNotifierAutoExpires(t *testing.T) {
	n := NewNotifier()
	now := time.Now()
	n.now = func() time.Time { return now }

	n.Push(NotifyError, "old")
	now = now.Add(6 * time.Second)
	n.Push(NotifySuccess, "new")

	active := n.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "new", active[0].Message)
}
