package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// HTTPScorer calls an external scoring service: POST {"text": ...} to URL,
// expecting {"score": f} with f in [0,1]. Calls are rate limited so a slow
// model server is not flooded by a large corpus.
type HTTPScorer struct {
	URL     string
	Timeout time.Duration
	HTTP    *http.Client

	limiter *rate.Limiter
}

func NewHTTPScorer(url string, timeout time.Duration, rps, burst int) *HTTPScorer {
	if rps <= 0 {
		rps = 50
	}
	if burst <= 0 {
		burst = rps
	}
	return &HTTPScorer{
		URL:     url,
		Timeout: timeout,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

type scoreRequest struct {
	Text string `json:"text"`
}

type scoreResponse struct {
	Score float64 `json:"score"`
	Error string  `json:"error,omitempty"`
}

func (s *HTTPScorer) Score(ctx context.Context, text string) (float64, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return 0, errors.Wrap(err, "rate limit wait")
		}
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(scoreRequest{Text: text})
	if err != nil {
		return 0, errors.Wrap(err, "encode request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return 0, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	client := s.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, errors.Wrap(err, "score request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return 0, fmt.Errorf("scorer status %d: %s", resp.StatusCode, string(b))
	}

	var out scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, errors.Wrap(err, "decode response")
	}
	if out.Error != "" {
		return 0, errors.Errorf("scorer error: %s", out.Error)
	}
	if out.Score < 0 || out.Score > 1 {
		return 0, errors.Errorf("score %v out of range", out.Score)
	}
	return out.Score, nil
}
