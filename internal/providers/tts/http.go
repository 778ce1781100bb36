package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/nyayaline/gateway/internal/utils"
)

// HTTPProvider speaks the text-to-speech service's JSON contract:
// POST {base}/text-to-speech {"text","language"} -> {"audio_file"}.
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

type synthesizeRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type synthesizeResponse struct {
	AudioFile string `json:"audio_file"`
}

func (p *HTTPProvider) Synthesize(ctx context.Context, text, language string) (string, error) {
	const op = "tts.Synthesize"

	body, err := json.Marshal(synthesizeRequest{Text: text, Language: language})
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.base+"/text-to-speech", bytes.NewReader(body))
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.hc.Do(req)
	if err != nil {
		return "", utils.E(utils.CodeTimeout, op, "speech synthesis unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", utils.E(utils.CodeUnavailable, op, "speech synthesis returned "+resp.Status, nil)
	}

	var out synthesizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", utils.E(utils.CodeUnavailable, op, "malformed synthesis response", err)
	}
	return out.AudioFile, nil
}
