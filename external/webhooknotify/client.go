// Package webhooknotify delivers league event notifications to a configured
// webhook endpoint, e.g. a chat integration the league commissioner set up.
package webhooknotify

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/bluelinehq/blueline/internal/platform/resilience"
)

var errWebhookTransient = crerr.New("webhook transient failure")

type ClientConfig struct {
	EndpointURL    string
	AuthToken      string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	client         *http.Client
	endpointURL    string
	authToken      string
	logger         *slog.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

type eventPayload struct {
	LeagueID string   `json:"leagueId"`
	TeamIDs  []string `json:"teamIds,omitempty"`
	Message  string   `json:"message"`
	SentAt   string   `json:"sentAt"`
}

func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		client: &http.Client{
			Timeout: timeout,
		},
		endpointURL:    strings.TrimRight(strings.TrimSpace(cfg.EndpointURL), "/"),
		authToken:      strings.TrimSpace(cfg.AuthToken),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// Send posts one league event to the webhook. teamIDs is empty for
// league-wide announcements.
func (c *Client) Send(ctx context.Context, leagueID string, teamIDs []string, message string) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "webhook circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("webhook is temporarily unavailable: %w", err)
		}
	}

	endpointURL, err := validateHTTPBaseURL(c.endpointURL)
	if err != nil {
		return crerr.Wrap(err, "invalid NOTIFY_WEBHOOK_URL")
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(eventPayload{
		LeagueID: leagueID,
		TeamIDs:  teamIDs,
		Message:  message,
		SentAt:   time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		return crerr.Wrap(err, "marshal webhook payload")
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("webhook.endpoint_url", endpointURL),
			attribute.String("webhook.league_id", leagueID),
			attribute.Int("webhook.team_count", len(teamIDs)),
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return crerr.Wrap(err, "create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		callErr := fmt.Errorf("%w: post webhook event league_id=%s: %v", errWebhookTransient, leagueID, err)
		c.recordCircuitResult(callErr)
		return callErr
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if isRetryableStatus(resp.StatusCode) {
			callErr := fmt.Errorf(
				"%w: post webhook event status=%d league_id=%s body=%s",
				errWebhookTransient,
				resp.StatusCode,
				leagueID,
				strings.TrimSpace(string(raw)),
			)
			c.recordCircuitResult(callErr)
			return callErr
		}

		callErr := fmt.Errorf(
			"post webhook event status=%d league_id=%s body=%s",
			resp.StatusCode,
			leagueID,
			strings.TrimSpace(string(raw)),
		)
		c.recordCircuitResult(callErr)
		return callErr
	}

	c.logger.InfoContext(ctx, "webhook event delivered", "league_id", leagueID, "team_count", len(teamIDs))
	c.recordCircuitResult(nil)
	return nil
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}

func (c *Client) recordCircuitResult(err error) {
	if !c.circuitEnabled || c.breaker == nil {
		return
	}
	if err == nil {
		c.breaker.RecordSuccess()
		return
	}
	if stderrors.Is(err, errWebhookTransient) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}
