package jssdk

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonwraymond/jsapisign/observe"
)

// Signature is the signing result handed to the page.
type Signature struct {
	AppID     string `json:"appId"`
	Timestamp int64  `json:"timestamp"`
	NonceStr  string `json:"nonceStr"`
	Signature string `json:"signature"`
}

// TicketSource supplies a currently valid jsapi ticket.
type TicketSource interface {
	Ticket(ctx context.Context) (string, error)
}

var opSign = observe.Operation{Component: "jssdk", Name: "sign"}

// Signer produces page signatures.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Errors: either a complete Signature or an error, never both.
type Signer struct {
	appID       string
	tickets     TicketSource
	now         func() time.Time
	nonceLength int
	mw          *observe.Middleware
}

// SignerOption configures a Signer.
type SignerOption func(*Signer)

// WithSignerClock overrides the time source used for timestamps.
func WithSignerClock(now func() time.Time) SignerOption {
	return func(s *Signer) {
		if now != nil {
			s.now = now
		}
	}
}

// WithNonceLength overrides DefaultNonceLength.
func WithNonceLength(n int) SignerOption {
	return func(s *Signer) {
		s.nonceLength = n
	}
}

// WithMiddleware wraps each signing in the given observability middleware.
func WithMiddleware(mw *observe.Middleware) SignerOption {
	return func(s *Signer) {
		if mw != nil {
			s.mw = mw
		}
	}
}

// NewSigner creates a Signer for appID drawing tickets from tickets.
func NewSigner(appID string, tickets TicketSource, opts ...SignerOption) *Signer {
	s := &Signer{
		appID:       appID,
		tickets:     tickets,
		now:         time.Now,
		nonceLength: DefaultNonceLength,
		mw:          observe.NoopMiddleware(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AppID returns the application identifier placed in every Signature.
func (s *Signer) AppID() string {
	return s.appID
}

// Sign decodes encodedURL as a URI component and signs the result.
// A malformed encoding fails with *DecodeError before any ticket is requested.
func (s *Signer) Sign(ctx context.Context, encodedURL string) (*Signature, error) {
	var sig *Signature
	err := s.mw.Do(ctx, opSign, func(ctx context.Context) error {
		pageURL, err := DecodeComponent(encodedURL)
		if err != nil {
			return err
		}
		trace.SpanFromContext(ctx).SetAttributes(attribute.String("page.url", pageURL))

		ticket, err := s.tickets.Ticket(ctx)
		if err != nil {
			return err
		}

		nonce := NewNonce(s.nonceLength)
		timestamp := s.now().Unix()
		sig = &Signature{
			AppID:     s.appID,
			Timestamp: timestamp,
			NonceStr:  nonce,
			Signature: Sign(ticket, nonce, timestamp, pageURL),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sig, nil
}
