package transcription

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/airenas/audio2text/internal/app/transcription/api"
	"github.com/airenas/audio2text/internal/pkg/persistence"
	"github.com/airenas/audio2text/internal/pkg/store"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWs_PushesUntilTerminal(t *testing.T) {
	st := store.NewMemory()
	require.Nil(t, st.Save(&persistence.Job{ID: "id1", Status: "processing", Progress: 0.5}))
	conn := newTestConn("id1")

	go handleConnection(conn, st, 5*time.Millisecond)

	res := conn.nextWritten(t)
	assert.Equal(t, "processing", res.Status)

	require.Nil(t, st.Save(&persistence.Job{ID: "id1", Status: "done", Progress: 1.0}))
	for i := 0; i < 100; i++ {
		res = conn.nextWritten(t)
		if res.Status == "done" {
			break
		}
	}
	assert.Equal(t, "done", res.Status)
	assert.InDelta(t, 1.0, res.Progress, 0.0001)

	conn.dropClient()
	conn.waitClosed(t)
}

func TestWs_UnknownID(t *testing.T) {
	conn := newTestConn("id1")

	go handleConnection(conn, store.NewMemory(), 5*time.Millisecond)

	res := conn.nextWritten(t)
	assert.Equal(t, "id1", res.ID)
	assert.Contains(t, res.Error, "Unknown ID")

	conn.dropClient()
	conn.waitClosed(t)
}

func TestWs_SubscriptionKeepsNewerID(t *testing.T) {
	var sub wsSubscription
	sub.set("id1")
	sub.clearIf("id1")
	assert.Equal(t, "", sub.get())

	sub.set("id2")
	sub.clearIf("id1")
	assert.Equal(t, "id2", sub.get())
}

func TestWs_Resubscribes(t *testing.T) {
	st := store.NewMemory()
	require.Nil(t, st.Save(&persistence.Job{ID: "id1", Status: "done", Progress: 1.0}))
	require.Nil(t, st.Save(&persistence.Job{ID: "id2", Status: "processing", Progress: 0.5}))
	conn := newTestConn("id1")

	go handleConnection(conn, st, 5*time.Millisecond)

	res := conn.nextWritten(t)
	assert.Equal(t, "id1", res.ID)
	assert.Equal(t, "done", res.Status)

	conn.messages <- "id2"
	for i := 0; i < 100; i++ {
		res = conn.nextWritten(t)
		if res.ID == "id2" {
			break
		}
	}
	assert.Equal(t, "id2", res.ID)
	assert.Equal(t, "processing", res.Status)

	conn.dropClient()
	conn.waitClosed(t)
}

func TestWs_ClosesOnClientDrop(t *testing.T) {
	conn := newTestConn()

	go handleConnection(conn, store.NewMemory(), 5*time.Millisecond)

	conn.dropClient()
	conn.waitClosed(t)
}

type testConn struct {
	messages chan string
	written  chan []byte
	closed   chan struct{}
}

func newTestConn(ids ...string) *testConn {
	c := &testConn{messages: make(chan string, len(ids)+1),
		written: make(chan []byte, 100), closed: make(chan struct{})}
	for _, id := range ids {
		c.messages <- id
	}
	return c
}

func (c *testConn) ReadMessage() (int, []byte, error) {
	msg, ok := <-c.messages
	if !ok {
		return 0, nil, errors.New("client gone")
	}
	return 1, []byte(msg), nil
}

func (c *testConn) WriteJSON(v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	select {
	case c.written <- b:
	default:
	}
	return nil
}

func (c *testConn) Close() error {
	close(c.closed)
	return nil
}

func (c *testConn) dropClient() {
	close(c.messages)
}

func (c *testConn) nextWritten(t *testing.T) *api.StatusResult {
	t.Helper()
	select {
	case b := <-c.written:
		var res api.StatusResult
		require.Nil(t, json.Unmarshal(b, &res))
		return &res
	case <-time.After(2 * time.Second):
		t.Fatal("No status pushed")
	}
	return nil
}

func (c *testConn) waitClosed(t *testing.T) {
	t.Helper()
	select {
	case <-c.closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Connection not closed")
	}
}
