package transcription

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/airenas/audio2text/internal/app/transcription/api"
	"github.com/airenas/audio2text/internal/pkg/cmdapp"
	"github.com/airenas/audio2text/internal/pkg/status"
	"github.com/airenas/audio2text/internal/pkg/store"
	"github.com/gorilla/websocket"
)

// WsConn is interface for websocket handling
type WsConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v interface{}) error
	Close() error
}

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	}}

var wsPollInterval = time.Second

type websocketHandler struct {
	data *ServiceData
}

func (h websocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cmdapp.Log.Infof("ws request from %s", r.Host)

	c, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		cmdapp.Log.Error(err)
		return
	}
	go handleConnection(c, h.data.JobStore, wsPollInterval)
}

type wsSubscription struct {
	lock sync.Mutex
	id   string
}

func (s *wsSubscription) set(id string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.id = id
}

func (s *wsSubscription) get() string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.id
}

// clearIf drops the subscription only if the client did not resubscribe meanwhile
func (s *wsSubscription) clearIf(id string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.id == id {
		s.id = ""
	}
}

// handleConnection pushes the job status to the client until a terminal state.
// The client sends the job ID as a text message, sending another ID resubscribes
func handleConnection(conn WsConn, st store.Store, interval time.Duration) {
	defer conn.Close()
	var sub wsSubscription
	changed := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				cmdapp.Log.Debug(err)
				return
			}
			sub.set(strings.TrimSpace(string(message)))
			select {
			case changed <- struct{}{}:
			default:
			}
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-changed:
		case <-ticker.C:
		}
		id := sub.get()
		if id == "" {
			continue
		}
		if !pushStatus(conn, st, id) {
			sub.clearIf(id)
		}
	}
}

// pushStatus sends the current job status, returns false when no more updates will follow
func pushStatus(conn WsConn, st store.Store, id string) bool {
	job, err := st.Load(id)
	if err != nil {
		cmdapp.Log.Error(err)
		return true
	}
	if job == nil {
		err = conn.WriteJSON(&api.StatusResult{ID: id, Error: "Unknown ID: " + id})
		if err != nil {
			cmdapp.Log.Debug(err)
		}
		return false
	}
	err = conn.WriteJSON(statusResult(job))
	if err != nil {
		cmdapp.Log.Debug(err)
		return false
	}
	return !status.Terminal(status.From(job.Status))
}
