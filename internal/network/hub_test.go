package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emberdelve-server/pkg/api"
)

func TestRegisterAndSendTo(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Register("alice")

	b.SendTo("alice", api.ServerMessage{Type: api.ServerTypeDelta, Turn: 3})

	msg := <-ch
	assert.Equal(t, api.ServerTypeDelta, msg.Type)
	assert.Equal(t, 3, msg.Turn)
}

func TestBroadcastReachesAll(t *testing.T) {
	b := NewBroadcaster()
	a := b.Register("alice")
	c := b.Register("bob")

	b.Broadcast(api.ServerMessage{Type: api.ServerTypePhase})

	assert.Equal(t, api.ServerTypePhase, (<-a).Type)
	assert.Equal(t, api.ServerTypePhase, (<-c).Type)
}

func TestReRegisterClosesOldChannel(t *testing.T) {
	b := NewBroadcaster()
	old := b.Register("alice")
	_ = b.Register("alice")

	_, open := <-old
	assert.False(t, open)
	assert.Equal(t, 1, b.SubscriberCount())
}

func TestUnregister(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Register("alice")
	require.True(t, b.HasSubscriber("alice"))

	b.Unregister("alice")

	assert.False(t, b.HasSubscriber("alice"))
	_, open := <-ch
	assert.False(t, open)

	// Отправка отключенному - безопасный no-op
	b.SendTo("alice", api.ServerMessage{Type: api.ServerTypeError})
}
