package messaging

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nyayaline/gateway/internal/utils"
)

// Sender is the direct-send capability of the messaging gateway, used for
// overflow chat chunks and the answer-by-text voice follow-up.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// GatewaySender posts messages to the gateway's send endpoint as a form,
// the way the gateway's own reply webhook receives them.
type GatewaySender struct {
	sendURL string
	from    string
	token   string
	hc      *http.Client
}

func NewGatewaySender(sendURL, from, token string, timeout time.Duration) *GatewaySender {
	return &GatewaySender{
		sendURL: sendURL,
		from:    from,
		token:   token,
		hc:      &http.Client{Timeout: timeout},
	}
}

func (s *GatewaySender) Send(ctx context.Context, to, body string) error {
	const op = "GatewaySender.Send"

	form := url.Values{}
	form.Set("MessageId", uuid.NewString())
	form.Set("From", s.from)
	form.Set("To", to)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.sendURL, strings.NewReader(form.Encode()))
	if err != nil {
		return utils.E(utils.CodeInternal, op, "build request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.hc.Do(req)
	if err != nil {
		return utils.E(utils.CodeTimeout, op, "messaging gateway unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return utils.E(utils.CodeUnavailable, op, "messaging gateway returned "+resp.Status, nil)
	}
	return nil
}
