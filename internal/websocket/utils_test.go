package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/graduat/graduat-backend/internal/model"
)

// Mirrors the notification stream handler: one goroutine forwards events
// while the read loop answers pings on the same connection.
func streamEcho(t *testing.T, notifyCount int) http.HandlerFunc {
	upgrader := websocket.Upgrader{}
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		conn := NewConn(raw)
		defer conn.Close()

		go func() {
			for i := 0; i < notifyCount; i++ {
				err := conn.WriteTyped(NotificationEvent{
					Event: EventNotification,
					Notification: &model.Notification{
						ID:        uuid.New(),
						Type:      model.NotificationTestCompleted,
						StudentID: "alumno1",
						Subject:   model.SubjectMatematicas,
						Score:     80,
						CreatedAt: time.Now(),
					},
				})
				if err != nil {
					return
				}
			}
		}()

		for {
			var msg RequestEnvelope
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if msg.Action == ActionPing {
				if err := conn.WriteTyped(PongResponse{Event: EventPong}); err != nil {
					return
				}
			}
		}
	}
}

// Events and pongs interleave from two server goroutines. Run with -race.
func TestConnConcurrentWriters(t *testing.T) {
	const (
		notifyCount = 200
		pingCount   = 200
	)

	srv := httptest.NewServer(streamEcho(t, notifyCount))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer client.Close()

	go func() {
		for i := 0; i < pingCount; i++ {
			if err := client.WriteJSON(RequestEnvelope{Action: ActionPing}); err != nil {
				return
			}
		}
	}()

	var notifications, pongs int
	client.SetReadDeadline(time.Now().Add(10 * time.Second))
	for notifications < notifyCount || pongs < pingCount {
		_, payload, err := client.ReadMessage()
		require.NoError(t, err)

		var envelope struct {
			Event Event `json:"event"`
		}
		require.NoError(t, json.Unmarshal(payload, &envelope))

		switch envelope.Event {
		case EventNotification:
			var ev NotificationEvent
			require.NoError(t, json.Unmarshal(payload, &ev))
			require.NotNil(t, ev.Notification)
			require.Equal(t, "alumno1", ev.Notification.StudentID)
			notifications++
		case EventPong:
			pongs++
		default:
			t.Fatalf("unexpected event %q", envelope.Event)
		}
	}

	require.Equal(t, notifyCount, notifications)
	require.Equal(t, pingCount, pongs)
}

func TestConnWriteError(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		conn := NewConn(raw)
		defer conn.Close()
		conn.WriteError("sin materias asignadas")
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer client.Close()

	var resp ErrorResponse
	client.SetReadDeadline(time.Now().Add(5 * time.Second))
	require.NoError(t, client.ReadJSON(&resp))
	require.Equal(t, EventError, resp.Event)
	require.Equal(t, "sin materias asignadas", resp.Error)
}
