package knowledge

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/nyayaline/gateway/internal/utils"
)

// HTTPProvider talks to the knowledge-query (RAG) service:
//
//	POST {base}/bots/{name}/query {"query"} -> {"answer","sources"}
//	GET  {base}/bots                        -> [{"name","description","available"}]
//	GET  {base}/health                      -> 2xx when healthy
type HTTPProvider struct {
	base string
	hc   *http.Client
}

func NewHTTPProvider(baseURL string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		base: baseURL,
		hc:   &http.Client{Timeout: timeout},
	}
}

type queryRequest struct {
	Query string `json:"query"`
}

func (p *HTTPProvider) Query(ctx context.Context, botName, query string) (*Result, error) {
	const op = "knowledge.Query"

	body, err := json.Marshal(queryRequest{Query: query})
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "encode request", err)
	}

	endpoint := p.base + "/bots/" + url.PathEscape(botName) + "/query"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.hc.Do(req)
	if err != nil {
		return nil, utils.E(utils.CodeTimeout, op, "query service unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, utils.E(utils.CodeUnavailable, op, "query service returned "+resp.Status, nil)
	}

	var out Result
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "malformed query response", err)
	}
	return &out, nil
}

func (p *HTTPProvider) AvailableBots(ctx context.Context) ([]BotInfo, error) {
	const op = "knowledge.AvailableBots"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.base+"/bots", nil)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "build request", err)
	}

	resp, err := p.hc.Do(req)
	if err != nil {
		return nil, utils.E(utils.CodeTimeout, op, "query service unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, utils.E(utils.CodeUnavailable, op, "query service returned "+resp.Status, nil)
	}

	var out []BotInfo
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "malformed bot listing", err)
	}
	return out, nil
}

func (p *HTTPProvider) Health(ctx context.Context) error {
	const op = "knowledge.Health"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.base+"/health", nil)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "build request", err)
	}

	resp, err := p.hc.Do(req)
	if err != nil {
		return utils.E(utils.CodeTimeout, op, "query service unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return utils.E(utils.CodeUnavailable, op, "query service returned "+resp.Status, nil)
	}
	return nil
}
