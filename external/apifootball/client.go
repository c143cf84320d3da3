package apifootball

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/matchday-catalog/internal/platform/logging"
	"github.com/riskibarqy/matchday-catalog/internal/platform/resilience"
	"github.com/riskibarqy/matchday-catalog/internal/usecase"
	"github.com/valyala/fasthttp"
)

const (
	defaultBaseURL = "https://v3.football.api-sports.io"
	defaultTimeout = 20 * time.Second
	maxBodySize    = 6 << 20

	headerAPIKey  = "x-apisports-key"
	headerAPIHost = "x-rapidapi-host"
)

var errProviderTransient = crerr.New("api-football transient failure")

type ClientConfig struct {
	HTTPClient     *fasthttp.Client
	BaseURL        string
	APIKey         string
	APIHost        string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *fasthttp.Client
	baseURL        string
	apiKey         string
	apiHost        string
	timeout        time.Duration
	maxRetries     int
	retryBackoff   time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                          "matchday-catalog",
			MaxResponseBodySize:           maxBodySize,
			NoDefaultUserAgentHeader:      true,
			DisableHeaderNamesNormalizing: true,
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)
	breaker := resilience.NewCircuitBreakerFromConfig(breakerCfg)
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		logger.Warn("api-football circuit breaker state changed", "from", from, "to", to)
	})

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		apiHost:        strings.TrimSpace(cfg.APIHost),
		timeout:        timeout,
		maxRetries:     max(cfg.MaxRetries, 0),
		retryBackoff:   backoff,
		logger:         logger,
		breaker:        breaker,
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchFixtures issues one GET /fixtures with params passed through verbatim.
// Every failure wraps usecase.ErrProviderTransport.
func (c *Client) FetchFixtures(ctx context.Context, params map[string]string) ([]usecase.ExternalFixtureItem, error) {
	var payload fixturesResponse
	if err := c.doJSON(ctx, "/fixtures", params, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", usecase.ErrProviderTransport, err)
	}
	if msg := providerErrorMessage(payload.Errors); msg != "" {
		return nil, fmt.Errorf("%w: %w", usecase.ErrProviderTransport, crerr.Newf("provider reported errors: %s", msg))
	}

	out := make([]usecase.ExternalFixtureItem, 0, len(payload.Response))
	for _, item := range payload.Response {
		out = append(out, mapFixtureItem(item))
	}

	c.logger.DebugContext(ctx, "api-football fixtures fetched", "results", payload.Results, "items", len(out))
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "api-football circuit breaker rejected request", "state", c.breaker.State())
			return crerr.Wrap(err, "sport data provider is temporarily unavailable")
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		c.recordCircuitResult(reqErr)
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return crerr.Newf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Wrap(err, "decode provider payload")
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("accept", "application/json")
	req.Header.Set(headerAPIKey, c.apiKey)
	if c.apiHost != "" {
		req.Header.Set(headerAPIHost, c.apiHost)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, crerr.Wrap(err, "provider request cancelled")
		}

		resp.Reset()
		err := c.httpClient.DoTimeout(req, resp, c.requestTimeout(ctx))
		if err != nil {
			lastErr = crerr.Wrapf(errProviderTransient, "send request: %s", sanitizeSensitiveText(err.Error(), c.apiKey))
		} else {
			status := resp.StatusCode()
			raw := append([]byte(nil), resp.Body()...)
			switch {
			case status >= 200 && status < 300:
				return raw, nil
			case isRetryableStatus(status):
				lastErr = crerr.Wrapf(errProviderTransient, "provider status=%d body=%s", status, abbreviateBody(raw))
			default:
				lastErr = crerr.Newf("provider status=%d body=%s", status, abbreviateBody(raw))
				c.logger.WarnContext(ctx, "api-football request rejected", "url", fullURL, "status", status)
				return nil, lastErr
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, crerr.Wrap(ctx.Err(), "provider request cancelled")
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = crerr.New("provider request failed")
	}
	c.logger.WarnContext(ctx, "api-football request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) requestTimeout(ctx context.Context) time.Duration {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		timeout = time.Millisecond
	}
	return timeout
}

func (c *Client) recordCircuitResult(err error) {
	if !c.circuitEnabled || c.breaker == nil {
		return
	}
	if err != nil && stderrors.Is(err, errProviderTransient) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

func mapFixtureItem(item fixtureItem) usecase.ExternalFixtureItem {
	out := usecase.ExternalFixtureItem{
		Goals: usecase.ExternalGoals{Home: item.Goals.Home, Away: item.Goals.Away},
	}
	if item.Fixture != nil {
		info := &usecase.ExternalFixtureInfo{
			ID:          item.Fixture.ID,
			Date:        item.Fixture.Date,
			Timestamp:   item.Fixture.Timestamp,
			Venue:       item.Fixture.Venue.Name,
			StatusShort: item.Fixture.Status.Short,
			StatusLong:  item.Fixture.Status.Long,
			Elapsed:     item.Fixture.Status.Elapsed,
		}
		if item.Fixture.Referee != nil {
			info.Referee = *item.Fixture.Referee
		}
		out.Fixture = info
	}
	if item.League != nil {
		out.League = &usecase.ExternalLeagueInfo{
			ID:      item.League.ID,
			Name:    item.League.Name,
			Country: item.League.Country,
			Logo:    item.League.Logo,
			Season:  item.League.Season,
		}
	}
	if item.Teams != nil {
		out.Teams = &usecase.ExternalTeamsPair{
			Home: mapTeam(item.Teams.Home),
			Away: mapTeam(item.Teams.Away),
		}
	}
	return out
}

func mapTeam(item *teamInfo) *usecase.ExternalTeamInfo {
	if item == nil {
		return nil
	}
	return &usecase.ExternalTeamInfo{ID: item.ID, Name: item.Name, Logo: item.Logo}
}

// providerErrorMessage flattens the envelope's errors field, which is an
// empty array on success and an object keyed by field on failure.
func providerErrorMessage(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, "; ")
	case map[string]any:
		if len(v) == 0 {
			return ""
		}
		parts := make([]string, 0, len(v))
		for key, value := range v {
			parts = append(parts, fmt.Sprintf("%s: %v", key, value))
		}
		sort.Strings(parts)
		return strings.Join(parts, "; ")
	case string:
		return strings.TrimSpace(v)
	default:
		return fmt.Sprint(v)
	}
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" || apiKey == "" {
		return value
	}
	return strings.ReplaceAll(value, apiKey, "REDACTED")
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}

func abbreviateBody(raw []byte) string {
	const limit = 512
	text := strings.TrimSpace(string(raw))
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "...(truncated)"
}
