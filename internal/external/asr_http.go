package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/jackzampolin/audiobook-master/internal/asr"
	"github.com/jackzampolin/audiobook-master/internal/perr"
)

// HTTPAsrAdapter implements asr.Adapter by POSTing the chapter audio as
// multipart form data to an external ASR service, retrying transient
// failures with retry-go rather than hand-rolled backoff.
type HTTPAsrAdapter struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
	Retries  uint
	client   *http.Client
}

// NewHTTPAsrAdapter builds an HTTP-backed ASR adapter against endpoint.
func NewHTTPAsrAdapter(endpoint, apiKey string, timeout time.Duration, retries uint) *HTTPAsrAdapter {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &HTTPAsrAdapter{
		Endpoint: endpoint,
		APIKey:   apiKey,
		Timeout:  timeout,
		Retries:  retries,
		client:   &http.Client{Timeout: timeout},
	}
}

// Transcribe posts the chapter's audio file to the ASR service and parses
// its JSON response into an asr.AsrResponse. Transient failures (non-2xx,
// connection errors) are retried up to Retries times; a failure on the
// final attempt is classified KindExternal's AsrUnavailable.
func (a *HTTPAsrAdapter) Transcribe(ctx context.Context, req asr.Request) (*asr.AsrResponse, error) {
	var result *asr.AsrResponse

	err := retry.Do(
		func() error {
			resp, err := a.doRequest(ctx, req)
			if err != nil {
				return err
			}
			result = resp
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(a.Retries+1),
		retry.Delay(2*time.Second),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, perr.Wrap(perr.KindExternal, "asr", fmt.Errorf("asr unavailable: %w", err))
	}
	return result, nil
}

func (a *HTTPAsrAdapter) doRequest(ctx context.Context, req asr.Request) (*asr.AsrResponse, error) {
	f, err := os.Open(req.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("open audio %s: %w", req.AudioPath, err)
	}
	defer f.Close()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("audio", filepath.Base(req.AudioPath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, err
	}
	_ = w.WriteField("language", req.Language)
	_ = w.WriteField("chapter_id", req.ChapterID)
	for _, hint := range req.Hints {
		_ = w.WriteField("hint", hint)
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.Endpoint, &body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())
	if a.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+a.APIKey)
	}

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("asr service returned %d: %s", resp.StatusCode, string(data))
	}

	var out asr.AsrResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode asr response: %w", err)
	}
	out.ChapterID = req.ChapterID
	return &out, nil
}
