package apisports

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"

	"github.com/riskibarqy/sportcal/internal/domain/fixture"
	"github.com/riskibarqy/sportcal/internal/platform/logging"
	"github.com/riskibarqy/sportcal/internal/platform/resilience"
)

const (
	footballBaseURL   = "https://v3.football.api-sports.io"
	basketballBaseURL = "https://v1.basketball.api-sports.io"
	tennisBaseURL     = "https://v1.tennis.api-sports.io"

	maxResponseBytes = 6 << 20
)

var errTransient = crerr.New("api-sports transient failure")

// IsTransient reports whether an error from Fetch was a transport-level
// failure (connect/timeout/5xx) rather than a definitive provider answer.
func IsTransient(err error) bool {
	return crerr.Is(err, errTransient)
}

type ClientConfig struct {
	APIKey         string
	Timeout        time.Duration
	BaseURLs       map[fixture.Sport]string
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client is a thin, stateless fetcher against the api-sports.io hosts.
// It performs no caching and no retries; callers go through the cached
// proxy layer instead of using it directly.
type Client struct {
	client         *fasthttp.Client
	apiKey         string
	timeout        time.Duration
	baseURLs       map[fixture.Sport]string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	baseURLs := map[fixture.Sport]string{
		fixture.SportFootball:   footballBaseURL,
		fixture.SportBasketball: basketballBaseURL,
		fixture.SportTennis:     tennisBaseURL,
	}
	for sport, base := range cfg.BaseURLs {
		if trimmed := strings.TrimRight(strings.TrimSpace(base), "/"); trimmed != "" {
			baseURLs[sport] = trimmed
		}
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		client: &fasthttp.Client{
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxResponseBytes,
		},
		apiKey:         strings.TrimSpace(cfg.APIKey),
		timeout:        timeout,
		baseURLs:       baseURLs,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// Fetch issues one GET against the provider and returns the raw body of
// a 2xx response. Non-2xx and transport failures are wrapped with the
// transient sentinel when a retry could plausibly succeed.
func (c *Client) Fetch(ctx context.Context, sport fixture.Sport, endpoint string, params map[string]string) ([]byte, error) {
	base, ok := c.baseURLs[sport]
	if !ok {
		return nil, fmt.Errorf("no provider host configured for sport %q", sport)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "api-sports circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: provider temporarily unavailable", errTransient)
		}
	}

	fullURL := base + "/" + strings.TrimLeft(endpoint, "/")
	if encoded := encodeParams(params); encoded != "" {
		fullURL += "?" + encoded
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-apisports-key", c.apiKey)

	err := c.client.DoTimeout(req, resp, c.timeout)
	if c.circuitEnabled {
		if err != nil || resp.StatusCode() >= 500 {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: send request: %s", errTransient, sanitizeSensitiveText(err.Error(), c.apiKey))
	}

	status := resp.StatusCode()
	body := append([]byte(nil), resp.Body()...)
	if status >= 200 && status < 300 {
		return body, nil
	}
	if status >= 500 || status == fasthttp.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: provider status=%d body=%s", errTransient, status, abbreviateBody(body))
	}
	return nil, fmt.Errorf("provider status=%d body=%s", status, abbreviateBody(body))
}

func encodeParams(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(params[name])
	}
	return b.String()
}

func sanitizeSensitiveText(value, key string) string {
	value = strings.TrimSpace(value)
	if key != "" {
		value = strings.ReplaceAll(value, key, "REDACTED")
	}
	return value
}

func abbreviateBody(body []byte) string {
	const limit = 256
	text := strings.TrimSpace(string(body))
	if len(text) > limit {
		return text[:limit] + "..."
	}
	return text
}

// DetectError inspects a 2xx payload for the provider's in-band error
// envelope.
func (c *Client) DetectError(payload []byte) (string, bool, bool) {
	providerErr := DetectProviderError(payload)
	if providerErr == nil {
		return "", false, false
	}
	return providerErr.Message, providerErr.RateLimited, true
}

// ProviderError describes a provider-side failure delivered inside an
// HTTP 200 payload, the provider's convention for quota and validation
// problems.
type ProviderError struct {
	Message     string
	RateLimited bool
}

// DetectProviderError inspects a 200 payload for the provider's in-band
// error envelope: a non-empty "errors" object (or array). Rate limiting
// is recognized by an error key or message mentioning the word "rate".
func DetectProviderError(payload []byte) *ProviderError {
	var envelope struct {
		Errors any `json:"errors"`
	}
	if err := sonic.Unmarshal(payload, &envelope); err != nil {
		return nil
	}

	switch errs := envelope.Errors.(type) {
	case map[string]any:
		if len(errs) == 0 {
			return nil
		}
		out := &ProviderError{}
		parts := make([]string, 0, len(errs))
		keys := make([]string, 0, len(errs))
		for key := range errs {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			message := fmt.Sprintf("%s: %v", key, errs[key])
			parts = append(parts, message)
			if strings.Contains(strings.ToLower(message), "rate") {
				out.RateLimited = true
			}
		}
		out.Message = strings.Join(parts, "; ")
		return out
	case []any:
		if len(errs) == 0 {
			return nil
		}
		out := &ProviderError{}
		parts := make([]string, 0, len(errs))
		for _, item := range errs {
			message := fmt.Sprintf("%v", item)
			parts = append(parts, message)
			if strings.Contains(strings.ToLower(message), "rate") {
				out.RateLimited = true
			}
		}
		out.Message = strings.Join(parts, "; ")
		return out
	default:
		return nil
	}
}
