package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// httpBase is the shared HTTP plumbing every concrete C1 client embeds,
// grounded in the teacher's internal/ai/llm/client.go and
// internal/ai/sentiment/analyzer.go *http.Client-with-timeout shape.
// classify turns transport/HTTP-status failures into the typed outcomes
// spec.md §4.1 requires — a client must never panic or return a bare error.
type httpBase struct {
	id         string
	baseURL    string
	httpClient *http.Client
}

func newHTTPBase(id, baseURL string, timeout time.Duration) httpBase {
	return httpBase{
		id:      id,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// doJSON performs a GET request and decodes a JSON body into out. It
// returns a classified Outcome rather than a bare error, so callers can
// return it directly to the router.
func doJSON[V any](ctx context.Context, h httpBase, path string, headers map[string]string, out *V) Outcome[V] {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+path, nil)
	if err != nil {
		return Permanent[V](fmt.Sprintf("build request: %v", err))
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Transient[V]("deadline exceeded")
		}
		return Transient[V](fmt.Sprintf("transport error: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Transient[V](fmt.Sprintf("read body: %v", err))
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		var hint *int
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, convErr := strconv.Atoi(ra); convErr == nil {
				hint = &secs
			}
		}
		return RateLimited[V](hint)
	case resp.StatusCode >= 500:
		return Transient[V](fmt.Sprintf("server error: %d", resp.StatusCode))
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusUnprocessableEntity:
		return Unsupported[V](fmt.Sprintf("not supported: %d", resp.StatusCode))
	case resp.StatusCode >= 400:
		return Permanent[V](fmt.Sprintf("client error: %d", resp.StatusCode))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return Transient[V](fmt.Sprintf("decode response: %v", err))
	}
	return OK(*out)
}
