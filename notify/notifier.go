// ABOUTME: Fire-and-forget go-live notification trigger
// ABOUTME: Posts a webhook event to the transactional email system; never fails a sync
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event is the payload consumed by the external email system.
type Event struct {
	CompanyID  string `json:"company_id"`
	ProfileURL string `json:"profile_url"`
	Event      string `json:"event"`
}

type Notifier struct {
	webhookURL string
	http       *http.Client
	log        *zap.Logger
}

func NewNotifier(webhookURL string, log *zap.Logger) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		http:       &http.Client{Timeout: 5 * time.Second},
		log:        log,
	}
}

// ProfileLive fires the "profile is live" event. Best effort: every failure
// path logs and returns; the caller never sees an error.
func (n *Notifier) ProfileLive(ctx context.Context, companyID uuid.UUID, profileURL string) {
	if n.webhookURL == "" {
		n.log.Debug("notify webhook not configured, skipping go-live event")
		return
	}

	payload, err := json.Marshal(Event{
		CompanyID:  companyID.String(),
		ProfileURL: profileURL,
		Event:      "profile_live",
	})
	if err != nil {
		n.log.Warn("failed to encode go-live event", zap.Error(err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		n.log.Warn("failed to build go-live request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		n.log.Warn("go-live notification failed",
			zap.String("company_id", companyID.String()),
			zap.Error(err))
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		n.log.Warn("go-live notification rejected",
			zap.String("company_id", companyID.String()),
			zap.Int("status", resp.StatusCode))
		return
	}

	n.log.Info("go-live notification sent", zap.String("company_id", companyID.String()))
}
