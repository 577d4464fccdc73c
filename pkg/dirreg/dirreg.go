// Package dirreg is the public API for bootstrapping a device identity
// with the directory service. It wires the registration core to default
// adapters (plist body codec, HTTPS transport, header signer) which can
// each be replaced through options.
package dirreg

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/sufield/dirreg/internal/adapters/httptransport"
	"github.com/sufield/dirreg/internal/adapters/logging"
	"github.com/sufield/dirreg/internal/adapters/plistcodec"
	"github.com/sufield/dirreg/internal/adapters/signing"
	"github.com/sufield/dirreg/internal/core/domain"
	"github.com/sufield/dirreg/internal/core/ports"
	"github.com/sufield/dirreg/internal/core/services"
)

// Re-exported core types so callers never import internal packages.
type (
	// Identity is a device's message identity.
	Identity = domain.Identity

	// KeyPair is a PEM certificate plus private key used for header
	// authentication.
	KeyPair = ports.KeyPair

	// Configuration selects the directory endpoint and device
	// metadata.
	Configuration = ports.Configuration

	// BodyCodec serializes request and response bodies.
	BodyCodec = ports.BodyCodec

	// HeaderSigner produces the directory's authentication headers.
	HeaderSigner = ports.HeaderSigner

	// Transport delivers signed bodies to the directory.
	Transport = ports.Transport

	// MetricsReporter receives registration outcome signals.
	MetricsReporter = ports.MetricsReporter

	// RegisterParams carries the per-call inputs of one registration.
	RegisterParams = services.RegisterParams

	// RegistrationResult maps service names to armoured certificates.
	RegistrationResult = services.RegistrationResult
)

// Client registers device identities with the directory.
type Client struct {
	service *services.RegistrationService
}

type clientOptions struct {
	codec      ports.BodyCodec
	signer     ports.HeaderSigner
	transport  ports.Transport
	httpClient *http.Client
	logger     *slog.Logger
	metrics    ports.MetricsReporter
}

// Option configures a Client.
type Option func(*clientOptions)

// WithHTTPClient sets the HTTP client of the default transport. Callers
// own timeout and cancellation policy; the library sets no timeout of
// its own.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = client }
}

// WithBodyCodec replaces the default plist body codec.
func WithBodyCodec(codec BodyCodec) Option {
	return func(o *clientOptions) { o.codec = codec }
}

// WithHeaderSigner replaces the default header signer.
func WithHeaderSigner(signer HeaderSigner) Option {
	return func(o *clientOptions) { o.signer = signer }
}

// WithTransport replaces the default HTTPS transport entirely.
func WithTransport(transport Transport) Option {
	return func(o *clientOptions) { o.transport = transport }
}

// WithLogger sets the logger. The client redacts sensitive attributes
// before they reach the handler.
func WithLogger(logger *slog.Logger) Option {
	return func(o *clientOptions) { o.logger = logger }
}

// WithMetrics sets a metrics reporter for registration outcomes.
func WithMetrics(reporter MetricsReporter) Option {
	return func(o *clientOptions) { o.metrics = reporter }
}

// NewClient creates a registration client. A nil configuration uses the
// defaults.
func NewClient(config *Configuration, opts ...Option) (*Client, error) {
	o := &clientOptions{}
	for _, opt := range opts {
		opt(o)
	}

	if o.codec == nil {
		o.codec = plistcodec.New()
	}
	if o.signer == nil {
		o.signer = signing.New()
	}
	if o.transport == nil {
		o.transport = httptransport.New(o.httpClient)
	}
	if o.logger == nil {
		o.logger = slog.New(logging.NewRedactorHandler(slog.NewTextHandler(os.Stderr, nil)))
	}

	svcOpts := []services.Option{services.WithLogger(o.logger)}
	if o.metrics != nil {
		svcOpts = append(svcOpts, services.WithMetrics(o.metrics))
	}

	service, err := services.NewRegistrationService(o.codec, o.signer, o.transport, config, svcOpts...)
	if err != nil {
		return nil, err
	}
	return &Client{service: service}, nil
}

// Register runs one registration transaction and returns the per-service
// armoured certificates.
func (c *Client) Register(ctx context.Context, params RegisterParams) (RegistrationResult, error) {
	return c.service.Register(ctx, params)
}

// NewIdentity generates a fresh identity with the key shapes the
// directory accepts.
func NewIdentity() (*Identity, error) {
	return domain.NewIdentity()
}

// EncodeIdentity serializes an identity's public keys into the binary
// container format.
func EncodeIdentity(id *Identity) ([]byte, error) {
	return domain.EncodeContainer(id)
}

// DecodeIdentity parses a binary identity container into a public-only
// identity.
func DecodeIdentity(data []byte) (*Identity, error) {
	return domain.DecodeContainer(data)
}

// DefaultConfiguration returns the configuration used when none is
// provided.
func DefaultConfiguration() *Configuration {
	return ports.DefaultConfiguration()
}
