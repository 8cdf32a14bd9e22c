package wechat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonwraymond/jsapisign/resilience"
)

// DefaultBaseURL is the production API host.
const DefaultBaseURL = "https://api.weixin.qq.com"

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// TicketTypeJSAPI is the ticket type used for JS-SDK page signatures.
const TicketTypeJSAPI = "jsapi"

// Config configures the credential API client.
type Config struct {
	// BaseURL is the API host. Default: DefaultBaseURL.
	BaseURL string

	// AppID is the application identifier.
	AppID string

	// AppSecret is the application secret. It is only ever sent upstream.
	AppSecret string

	// Timeout bounds each HTTP round trip.
	// Default: 10 seconds.
	Timeout time.Duration

	// HTTPClient is the HTTP client to use. If nil, a default client is used.
	HTTPClient *http.Client

	// Executor wraps each upstream call (timeout, circuit breaker).
	// If nil, calls are made directly.
	Executor *resilience.Executor
}

// Client issues credential requests to the platform.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Context: every call honors ctx cancellation/deadline.
// - Errors: failures are *UpstreamError; transport failures also match ErrTransport.
type Client struct {
	config     Config
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client.
func NewClient(config Config) *Client {
	// Apply defaults
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: config.Timeout,
		}
	}

	return &Client{
		config:     config,
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: httpClient,
	}
}

// AppID returns the configured application identifier.
func (c *Client) AppID() string {
	return c.config.AppID
}

// tokenResponse is the /cgi-bin/token response format.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	ErrCode     int    `json:"errcode"`
	ErrMsg      string `json:"errmsg"`
}

// ticketResponse is the /cgi-bin/ticket/getticket response format.
type ticketResponse struct {
	Ticket    string `json:"ticket"`
	ExpiresIn int64  `json:"expires_in"`
	ErrCode   int    `json:"errcode"`
	ErrMsg    string `json:"errmsg"`
}

// AccessToken exchanges the application credentials for an access token.
// It returns the token and the validity the platform declared for it.
func (c *Client) AccessToken(ctx context.Context) (string, time.Duration, error) {
	query := url.Values{}
	query.Set("grant_type", "client_credential")
	query.Set("appid", c.config.AppID)
	query.Set("secret", c.config.AppSecret)

	var resp tokenResponse
	if err := c.get(ctx, OpAccessToken, "/cgi-bin/token", query, &resp, func() bool {
		return resp.AccessToken != ""
	}, func(e *UpstreamError) {
		e.ErrCode, e.ErrMsg = resp.ErrCode, resp.ErrMsg
	}); err != nil {
		return "", 0, err
	}

	return resp.AccessToken, time.Duration(resp.ExpiresIn) * time.Second, nil
}

// JSAPITicket exchanges an access token for a jsapi ticket.
// It returns the ticket and the validity the platform declared for it.
func (c *Client) JSAPITicket(ctx context.Context, accessToken string) (string, time.Duration, error) {
	query := url.Values{}
	query.Set("access_token", accessToken)
	query.Set("type", TicketTypeJSAPI)

	var resp ticketResponse
	if err := c.get(ctx, OpJSAPITicket, "/cgi-bin/ticket/getticket", query, &resp, func() bool {
		return resp.Ticket != ""
	}, func(e *UpstreamError) {
		e.ErrCode, e.ErrMsg = resp.ErrCode, resp.ErrMsg
	}); err != nil {
		return "", 0, err
	}

	return resp.Ticket, time.Duration(resp.ExpiresIn) * time.Second, nil
}

// get performs one GET, decodes the JSON body into out and checks ok.
// annotate copies platform error fields onto a failure.
func (c *Client) get(
	ctx context.Context,
	op string,
	path string,
	query url.Values,
	out any,
	ok func() bool,
	annotate func(*UpstreamError),
) error {
	call := func(ctx context.Context) error {
		return c.do(ctx, op, path, query, out, ok, annotate)
	}
	if c.config.Executor != nil {
		err := c.config.Executor.Execute(ctx, call)
		var upstreamErr *UpstreamError
		if err != nil && !errors.As(err, &upstreamErr) {
			// Timeout or open circuit: the request never produced a response.
			return &UpstreamError{Op: op, Err: fmt.Errorf("%w: %w", ErrTransport, err)}
		}
		return err
	}
	return call(ctx)
}

func (c *Client) do(
	ctx context.Context,
	op string,
	path string,
	query url.Values,
	out any,
	ok func() bool,
	annotate func(*UpstreamError),
) error {
	endpoint := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &UpstreamError{Op: op, Err: fmt.Errorf("create request: %w", redactURLError(err))}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UpstreamError{Op: op, Err: fmt.Errorf("%w: %v", ErrTransport, redactURLError(err))}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &UpstreamError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: read body: %v", ErrTransport, err)}
	}
	body := strings.TrimSpace(string(raw))

	if resp.StatusCode != http.StatusOK {
		return &UpstreamError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       body,
			Err:        fmt.Errorf("unexpected status: %d", resp.StatusCode),
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &UpstreamError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       body,
			Err:        fmt.Errorf("decode response: %w", err),
		}
	}

	if !ok() {
		upstreamErr := &UpstreamError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       body,
			Err:        ErrMissingField,
		}
		annotate(upstreamErr)
		return upstreamErr
	}

	return nil
}

// redactURLError strips the request URL from a *url.Error. The URL carries
// the application secret or an access token in its query.
func redactURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
