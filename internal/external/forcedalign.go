package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/jackzampolin/audiobook-master/internal/external/mfa"
	"github.com/jackzampolin/audiobook-master/internal/perr"
)

// ForcedAlignRequest names the corpus a forced-alignment run operates over,
//'s "align(corpus_dir, dict_path, acoustic_model)".
type ForcedAlignRequest struct {
	WorkspaceDir   string
	AudioPath      string
	TranscriptPath string
	DictPath       string
	AcousticModel  string
}

// ForcedAligner is the §6 forced-alignment adapter contract: given a
// corpus laid out in a rented workspace directory, produce a Praat
// TextGrid. On out-of-vocabulary words the concrete Docker-backed
// implementation invokes MFA's own G2P step and extends the dictionary;
// that happens inside the container and is opaque to this interface.
type ForcedAligner interface {
	Align(ctx context.Context, req ForcedAlignRequest) (textGridPath string, err error)
}

// DockerForcedAligner drives a Montreal-Forced-Aligner container over
// HTTP, using the corpus files prepared in a jobs.WorkspacePool rental.
type DockerForcedAligner struct {
	Manager *mfa.Manager
	Timeout time.Duration
	Retries uint
	client  *http.Client
}

// NewDockerForcedAligner builds an aligner adapter against an already
// constructed mfa.Manager.
func NewDockerForcedAligner(m *mfa.Manager, timeout time.Duration, retries uint) *DockerForcedAligner {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &DockerForcedAligner{Manager: m, Timeout: timeout, Retries: retries, client: &http.Client{Timeout: timeout}}
}

type alignRequestBody struct {
	AudioPath      string `json:"audio_path"`
	TranscriptPath string `json:"transcript_path"`
	DictPath       string `json:"dict_path"`
	AcousticModel  string `json:"acoustic_model"`
}

type alignResponseBody struct {
	TextGrid string `json:"text_grid"`
}

// Align ensures the MFA container is running and posts the corpus paths to
// its align endpoint, retrying transient failures. It writes the TextGrid
// returned in the response to aligned.TextGrid in req.WorkspaceDir and
// returns that path.
func (d *DockerForcedAligner) Align(ctx context.Context, req ForcedAlignRequest) (string, error) {
	if err := d.Manager.Ensure(ctx); err != nil {
		return "", err
	}

	outPath := filepath.Join(req.WorkspaceDir, "aligned.TextGrid")

	err := retry.Do(
		func() error {
			return d.doAlign(ctx, req, outPath)
		},
		retry.Context(ctx),
		retry.Attempts(d.Retries+1),
		retry.Delay(3*time.Second),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", perr.Wrap(perr.KindExternal, "mfa", fmt.Errorf("forced alignment failed: %w", err))
	}
	return outPath, nil
}

func (d *DockerForcedAligner) doAlign(ctx context.Context, req ForcedAlignRequest, outPath string) error {
	payload, err := json.Marshal(alignRequestBody{
		AudioPath:      req.AudioPath,
		TranscriptPath: req.TranscriptPath,
		DictPath:       req.DictPath,
		AcousticModel:  req.AcousticModel,
	})
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, d.Manager.URL()+"/align", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mfa service returned %d", resp.StatusCode)
	}

	var out alignResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode mfa response: %w", err)
	}
	return os.WriteFile(outPath, []byte(out.TextGrid), 0o644)
}
