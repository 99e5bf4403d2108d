package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub()
	done := make(chan struct{})
	go func() {
		h.Run()
		close(done)
	}()
	t.Cleanup(func() {
		h.Stop()
		<-done
	})
	return h
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func assertNothing(t *testing.T, c *Client) {
	t.Helper()
	select {
	case msg := <-c.Send:
		t.Fatalf("unexpected message %q", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_PublishToUserOnlyReachesThatUser(t *testing.T) {
	h := startHub(t)
	alice1 := NewClient(h, nil, 1)
	alice2 := NewClient(h, nil, 1)
	bob := NewClient(h, nil, 2)
	h.Register(alice1)
	h.Register(alice2)
	h.Register(bob)

	h.PublishToUser(1, []byte("hello alice"))

	assert.Equal(t, "hello alice", string(receive(t, alice1)))
	assert.Equal(t, "hello alice", string(receive(t, alice2)))
	assertNothing(t, bob)
}

func TestHub_ReplyOnlyReachesOneConnection(t *testing.T) {
	h := startHub(t)
	a := NewClient(h, nil, 1)
	b := NewClient(h, nil, 1)
	h.Register(a)
	h.Register(b)

	a.Reply([]byte("just a"))

	assert.Equal(t, "just a", string(receive(t, a)))
	assertNothing(t, b)
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	h := startHub(t)
	c := NewClient(h, nil, 3)
	h.Register(c)
	h.Unregister(c)

	_, ok := <-c.Send
	assert.False(t, ok)

	// a second unregister is harmless
	h.Unregister(c)
	h.PublishToUser(3, []byte("nobody home"))
}

func TestHub_DropsSlowConsumer(t *testing.T) {
	h := startHub(t)
	c := NewClient(h, nil, 4)
	h.Register(c)

	for i := 0; i < sendBufferSize+1; i++ {
		h.PublishToUser(4, []byte("x"))
	}
	// the hub is sequential, so once this arrives every publish above was handled
	barrier := NewClient(h, nil, 99)
	h.Register(barrier)
	h.PublishToUser(99, []byte("sync"))
	receive(t, barrier)

	n := 0
	for range c.Send {
		n++
	}
	assert.Equal(t, sendBufferSize, n)
}

func TestHub_StopUnblocksCallers(t *testing.T) {
	h := NewHub()
	go h.Run()
	h.Stop()
	h.Stop()

	c := NewClient(h, nil, 5)
	h.PublishToUser(5, []byte("late"))
	h.Unregister(c)
}

func TestHub_RegisterAfterStopIsRejected(t *testing.T) {
	h := NewHub()
	done := make(chan struct{})
	go func() {
		h.Run()
		close(done)
	}()
	assert.True(t, h.Register(NewClient(h, nil, 1)))

	h.Stop()
	<-done

	c := NewClient(h, nil, 1)
	assert.False(t, h.Register(c))
	select {
	case _, ok := <-c.Send:
		t.Fatalf("send channel touched, ok=%v", ok)
	default:
	}
}

func TestEncode(t *testing.T) {
	b, err := Encode("event", map[string]int{"n": 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"event","payload":{"n":1}}`, string(b))

	var msg Message
	require.NoError(t, json.Unmarshal(NewErrorMessage("boom"), &msg))
	assert.Equal(t, "error", msg.Action)
}
