package vault

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vsc-eco/vsc-btc-vault/schemas"
)

type fakeSource struct {
	requests map[string]*schemas.IssueRequest
}

func (s *fakeSource) IssueRequest(_ context.Context, id string) (*schemas.IssueRequest, error) {
	req, ok := s.requests[id]
	if !ok {
		return nil, errors.New("request not found")
	}
	return req, nil
}

// Mock WebSocket server for testing
func newMockLedger(t *testing.T, events []map[string]interface{}, complete bool) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			var msg map[string]interface{}
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}

			switch msg["type"] {
			case "connection_init":
				conn.WriteJSON(map[string]interface{}{"type": "connection_ack"})
			case "start":
				payload, _ := msg["payload"].(map[string]interface{})
				variables, _ := payload["variables"].(map[string]interface{})
				if variables["vault"] != testVaultID {
					conn.WriteJSON(map[string]interface{}{"type": "error", "id": msg["id"]})
				}

				conn.WriteJSON(map[string]interface{}{
					"type": "data",
					"id":   msg["id"],
					"payload": map[string]interface{}{
						"data": map[string]interface{}{
							"issueRequests": events,
						},
					},
				})
				if complete {
					conn.WriteJSON(map[string]interface{}{"type": "complete", "id": msg["id"]})
				}
			}
		}
	})

	return httptest.NewServer(mux)
}

func wsURL(s *httptest.Server) string {
	return "ws" + strings.TrimPrefix(s.URL, "http") + "/graphql"
}

func TestWatcher_ProcessesEvents(t *testing.T) {
	events := []map[string]interface{}{
		{"id": "issue-1", "vault": testVaultID, "blockHeight": float64(100)},
		{"id": "issue-missing", "vault": testVaultID, "blockHeight": float64(101)},
		{"id": "issue-other", "vault": "vault-carol", "blockHeight": float64(102)},
		{"id": "issue-2", "vault": testVaultID, "blockHeight": float64(103)},
	}
	ledger := newMockLedger(t, events, true)
	defer ledger.Close()

	other := testRequest("issue-other", 9)
	other.Vault = "vault-carol"
	source := &fakeSource{requests: map[string]*schemas.IssueRequest{
		"issue-1":     testRequest("issue-1", 3),
		"issue-2":     testRequest("issue-2", 4),
		"issue-other": other,
	}}

	wallet := &recordingWallet{}
	svc := newTestService(t, wallet, "")
	watcher := NewWatcher(wsURL(ledger), svc, source)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, watcher.Run(ctx))

	deposits := svc.Registry().List()
	require.Len(t, deposits, 2)
	assert.Equal(t, "issue-1", deposits[0].RequestID)
	assert.Equal(t, "issue-2", deposits[1].RequestID)
	assert.Equal(t, 2, wallet.imports())
}

func TestWatcher_StopsOnContextCancel(t *testing.T) {
	ledger := newMockLedger(t, nil, false)
	defer ledger.Close()

	svc := newTestService(t, nil, "")
	watcher := NewWatcher(wsURL(ledger), svc, &fakeSource{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestWatcher_DialFailure(t *testing.T) {
	svc := newTestService(t, nil, "")
	watcher := NewWatcher("ws://127.0.0.1:1/graphql", svc, &fakeSource{})

	err := watcher.Run(context.Background())
	assert.Error(t, err)
}

func TestWatcher_StreamClosed(t *testing.T) {
	upgrader := websocket.Upgrader{}
	ledger := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		// drop the connection once the subscription starts
		for {
			var msg map[string]interface{}
			if err := conn.ReadJSON(&msg); err != nil || msg["type"] == "start" {
				conn.Close()
				return
			}
		}
	}))
	defer ledger.Close()

	svc := newTestService(t, nil, "")
	watcher := NewWatcher("ws"+strings.TrimPrefix(ledger.URL, "http"), svc, &fakeSource{})

	done := make(chan error, 1)
	go func() { done <- watcher.Run(context.Background()) }()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not return after stream closed")
	}
}
