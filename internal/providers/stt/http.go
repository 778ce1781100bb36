package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/nyayaline/gateway/internal/utils"
)

// HTTPProvider speaks the speech-to-text service's JSON contract:
// POST {base}/speech-to-text {"audio_url","language"} -> {"text"}.
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

type transcribeRequest struct {
	AudioURL string `json:"audio_url"`
	Language string `json:"language"`
}

type transcribeResponse struct {
	Text string `json:"text"`
}

func (p *HTTPProvider) Transcribe(ctx context.Context, audioRef, language string) (string, error) {
	const op = "stt.Transcribe"

	body, err := json.Marshal(transcribeRequest{AudioURL: audioRef, Language: language})
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.base+"/speech-to-text", bytes.NewReader(body))
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.hc.Do(req)
	if err != nil {
		return "", utils.E(utils.CodeTimeout, op, "speech service unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", utils.E(utils.CodeUnavailable, op, "speech service returned "+resp.Status, nil)
	}

	var out transcribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", utils.E(utils.CodeUnavailable, op, "malformed speech response", err)
	}
	return out.Text, nil
}
