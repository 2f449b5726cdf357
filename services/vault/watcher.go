package vault

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/vsc-eco/vsc-btc-vault/schemas"
)

// RequestSource fetches the full issue request behind a ledger event.
type RequestSource interface {
	IssueRequest(ctx context.Context, id string) (*schemas.IssueRequest, error)
}

// IssueEvent is the subscription payload announcing a new issue request.
type IssueEvent struct {
	ID          string `json:"id"`
	Vault       string `json:"vault"`
	BlockHeight uint64 `json:"blockHeight"`
}

type wsMessage struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type issueEventsPayload struct {
	Data struct {
		IssueRequests []IssueEvent `json:"issueRequests"`
	} `json:"data"`
}

const issueSubscription = `subscription ($vault: String!) {
	issueRequests(vault: $vault) {
		id
		vault
		blockHeight
	}
}`

const subscriptionID = "issue-requests"

// Watcher follows issue request events on the ledger and hands them to the
// vault service.
type Watcher struct {
	wsURL  string
	vault  *Service
	source RequestSource
	dialer *websocket.Dialer
	logger *log.Entry
}

// NewWatcher creates a watcher for the vault's issue requests
func NewWatcher(wsURL string, svc *Service, source RequestSource) *Watcher {
	return &Watcher{
		wsURL:  wsURL,
		vault:  svc,
		source: source,
		dialer: websocket.DefaultDialer,
		logger: log.WithFields(log.Fields{"module": "watcher", "vault": svc.VaultID()}),
	}
}

// Run subscribes and processes events until ctx ends or the server
// completes the subscription. A failing request is logged and skipped.
func (w *Watcher) Run(ctx context.Context) error {
	conn, _, err := w.dialer.DialContext(ctx, w.wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", w.wsURL, err)
	}
	defer conn.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	if err := conn.WriteJSON(wsMessage{Type: "connection_init"}); err != nil {
		return fmt.Errorf("failed to init subscription: %w", err)
	}

	start, err := json.Marshal(map[string]interface{}{
		"query":     issueSubscription,
		"variables": map[string]string{"vault": w.vault.VaultID()},
	})
	if err != nil {
		return err
	}
	if err := conn.WriteJSON(wsMessage{ID: subscriptionID, Type: "start", Payload: start}); err != nil {
		return fmt.Errorf("failed to start subscription: %w", err)
	}
	w.logger.WithField("url", w.wsURL).Info("subscribed to issue requests")

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("subscription closed: %w", err)
		}

		switch msg.Type {
		case "data":
			var payload issueEventsPayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				w.logger.WithField("err", err).Warn("malformed event payload")
				continue
			}
			for _, event := range payload.Data.IssueRequests {
				w.handleEvent(ctx, event)
			}
		case "error":
			w.logger.WithField("payload", string(msg.Payload)).Error("subscription error")
		case "complete":
			w.logger.Info("subscription completed")
			return nil
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event IssueEvent) {
	logger := w.logger.WithFields(log.Fields{"request": event.ID, "height": event.BlockHeight})
	if event.Vault != "" && event.Vault != w.vault.VaultID() {
		logger.Debug("ignoring request for another vault")
		return
	}

	req, err := w.source.IssueRequest(ctx, event.ID)
	if err != nil {
		logger.WithField("err", err).Error("failed to fetch issue request")
		return
	}

	deposit, err := w.vault.HandleIssue(ctx, req)
	if err != nil {
		logger.WithField("err", err).Error("failed to handle issue request")
		return
	}
	logger.WithField("address", deposit.Address).Debug("issue event processed")
}
