package jssdk

import (
	"context"
	"time"

	"github.com/jonwraymond/jsapisign/cache"
	"github.com/jonwraymond/jsapisign/observe"
	"github.com/jonwraymond/jsapisign/wechat"
)

// TokenIssuer obtains a fresh access token and its validity.
type TokenIssuer interface {
	AccessToken(ctx context.Context) (string, time.Duration, error)
}

// TicketIssuer exchanges an access token for a fresh jsapi ticket.
type TicketIssuer interface {
	JSAPITicket(ctx context.Context, accessToken string) (string, time.Duration, error)
}

var (
	opTokenRefresh  = observe.Operation{Component: "jssdk", Name: "access_token.refresh"}
	opTicketRefresh = observe.Operation{Component: "jssdk", Name: "jsapi_ticket.refresh"}
)

// TokenProvider serves the access token from its cache, refreshing it from
// the issuer when expired.
type TokenProvider struct {
	issuer TokenIssuer
	cache  *cache.CredentialCache
	mw     *observe.Middleware
}

// NewTokenProvider creates a TokenProvider. A nil middleware disables telemetry.
func NewTokenProvider(issuer TokenIssuer, c *cache.CredentialCache, mw *observe.Middleware) *TokenProvider {
	if mw == nil {
		mw = observe.NoopMiddleware()
	}
	return &TokenProvider{issuer: issuer, cache: c, mw: mw}
}

// Fetch calls the issuer unconditionally.
func (p *TokenProvider) Fetch(ctx context.Context) (string, time.Duration, error) {
	var (
		token    string
		validFor time.Duration
	)
	err := p.mw.Do(ctx, opTokenRefresh, func(ctx context.Context) error {
		var err error
		token, validFor, err = p.issuer.AccessToken(ctx)
		return err
	})
	return token, validFor, err
}

// Token returns the cached access token, refreshing it if needed.
func (p *TokenProvider) Token(ctx context.Context) (string, error) {
	return p.cache.Get(ctx, p.Fetch)
}

// Cache returns the underlying credential cache.
func (p *TokenProvider) Cache() *cache.CredentialCache {
	return p.cache
}

// Invalidate drops the cached access token.
func (p *TokenProvider) Invalidate() {
	p.cache.Invalidate()
}

// TicketProvider serves the jsapi ticket from its cache. A refresh first
// obtains an access token from the TokenProvider, which may itself refresh.
type TicketProvider struct {
	tokens *TokenProvider
	issuer TicketIssuer
	cache  *cache.CredentialCache
	mw     *observe.Middleware
}

// NewTicketProvider creates a TicketProvider. A nil middleware disables telemetry.
func NewTicketProvider(tokens *TokenProvider, issuer TicketIssuer, c *cache.CredentialCache, mw *observe.Middleware) *TicketProvider {
	if mw == nil {
		mw = observe.NoopMiddleware()
	}
	return &TicketProvider{tokens: tokens, issuer: issuer, cache: c, mw: mw}
}

// Fetch obtains an access token and exchanges it for a new ticket.
//
// When the upstream rejects the access token as invalid or expired, the
// cached token is dropped so the next request fetches a new one. The
// current request still fails.
func (p *TicketProvider) Fetch(ctx context.Context) (string, time.Duration, error) {
	var (
		ticket   string
		validFor time.Duration
	)
	err := p.mw.Do(ctx, opTicketRefresh, func(ctx context.Context) error {
		token, err := p.tokens.Token(ctx)
		if err != nil {
			return err
		}
		ticket, validFor, err = p.issuer.JSAPITicket(ctx, token)
		if wechat.IsAccessTokenRejected(err) {
			p.tokens.Invalidate()
			p.mw.Logger().Warn(ctx, "access token rejected upstream, cached token dropped")
		}
		return err
	})
	return ticket, validFor, err
}

// Ticket returns the cached jsapi ticket, refreshing it if needed.
func (p *TicketProvider) Ticket(ctx context.Context) (string, error) {
	return p.cache.Get(ctx, p.Fetch)
}

// Cache returns the underlying credential cache.
func (p *TicketProvider) Cache() *cache.CredentialCache {
	return p.cache
}

// Tokens returns the access token provider this provider draws from.
func (p *TicketProvider) Tokens() *TokenProvider {
	return p.tokens
}

// Invalidate drops both the cached ticket and the cached access token.
func (p *TicketProvider) Invalidate() {
	p.cache.Invalidate()
	p.tokens.Invalidate()
}
