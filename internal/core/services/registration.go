// Package services implements the registration protocol against the
// directory: catalog-driven request building, signed submission, and the
// response-validation state machine.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sufield/dirreg/internal/catalog"
	"github.com/sufield/dirreg/internal/core/domain"
	coreerrors "github.com/sufield/dirreg/internal/core/errors"
	"github.com/sufield/dirreg/internal/core/ports"
)

// ProtocolVersion is sent in the x-protocol-version header.
const ProtocolVersion = "1640"

// registerBagKey names the directory operation the signer binds the
// signature to.
const registerBagKey = "id-register"

// statusValidationExpired is the directory status code for stale
// validation data.
const statusValidationExpired = 6004

// RegisterParams carries the per-call inputs of one registration
// transaction.
type RegisterParams struct {
	// PushToken identifies the device's push channel; forwarded to the
	// signer and never interpreted here.
	PushToken []byte

	// Handles are the URIs the identity claims; every catalog service
	// registers all of them.
	Handles []string

	// UserID is the directory's opaque user token.
	UserID string

	// AuthKey and PushKey authenticate the request headers.
	AuthKey ports.KeyPair
	PushKey ports.KeyPair

	// Identity supplies the public keys embedded in each service's
	// client-data. Private material, if present, is never sent.
	Identity *domain.Identity

	// ValidationData is the device attestation blob, copied verbatim.
	// It expires; on ValidationExpiredError the caller must refresh it
	// upstream and retry with a new request.
	ValidationData []byte

	// Opaque pass-through blobs for services that embed them. Nil
	// omits the corresponding keys.
	NGMPrekeyData      []byte
	DeviceKeySignature []byte
	KTLoggableData     []byte
}

func (p *RegisterParams) validate() error {
	if len(p.Handles) == 0 {
		return &coreerrors.ValidationError{Field: "handles", Value: p.Handles, Message: "at least one handle is required"}
	}
	if strings.TrimSpace(p.UserID) == "" {
		return &coreerrors.ValidationError{Field: "user_id", Value: p.UserID, Message: "user id is required"}
	}
	if p.Identity == nil {
		return &coreerrors.ValidationError{Field: "identity", Value: nil, Message: "identity is required"}
	}
	if len(p.ValidationData) == 0 {
		return &coreerrors.ValidationError{Field: "validation_data", Value: p.ValidationData, Message: "validation data is required"}
	}
	return nil
}

// RegistrationResult maps canonical service names to armoured
// certificates, covering exactly the services of the catalog.
type RegistrationResult map[string]string

// RegistrationService drives registration transactions against the
// directory. Each call is an independent synchronous request/response
// pair; the service holds no mutable state across calls.
type RegistrationService struct {
	codec     ports.BodyCodec
	signer    ports.HeaderSigner
	transport ports.Transport
	config    *ports.Configuration
	catalog   []catalog.ServiceDescriptor
	logger    *slog.Logger
	metrics   ports.MetricsReporter
}

// Option configures a RegistrationService.
type Option func(*RegistrationService)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *RegistrationService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the metrics reporter. Defaults to a no-op.
func WithMetrics(reporter ports.MetricsReporter) Option {
	return func(s *RegistrationService) {
		if reporter != nil {
			s.metrics = reporter
		}
	}
}

// WithCatalog replaces the service descriptor table. Intended for tests;
// production callers register against the full catalog.
func WithCatalog(descriptors []catalog.ServiceDescriptor) Option {
	return func(s *RegistrationService) {
		s.catalog = descriptors
	}
}

// NewRegistrationService wires a registration service from its
// collaborators.
func NewRegistrationService(codec ports.BodyCodec, signer ports.HeaderSigner, transport ports.Transport, config *ports.Configuration, opts ...Option) (*RegistrationService, error) {
	if codec == nil || signer == nil || transport == nil {
		return nil, fmt.Errorf("codec, signer, and transport are all required")
	}
	if config == nil {
		config = ports.DefaultConfiguration()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s := &RegistrationService{
		codec:     codec,
		signer:    signer,
		transport: transport,
		config:    config,
		catalog:   catalog.Services(),
		logger:    slog.Default(),
		metrics:   ports.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// BuildRequest populates the static catalog with the per-call values. It
// performs no I/O and has no side effects beyond allocating the request.
func (s *RegistrationService) BuildRequest(params RegisterParams) (*RegistrationRequest, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	container, err := domain.EncodeContainer(params.Identity)
	if err != nil {
		return nil, err
	}

	uris := make([]RequestURI, len(params.Handles))
	for i, handle := range params.Handles {
		uris[i] = RequestURI{URI: handle}
	}

	req := &RegistrationRequest{
		DeviceName:        s.config.Device.Name,
		HardwareVersion:   s.config.Device.HardwareVersion,
		Language:          s.config.Device.Language,
		OSVersion:         s.config.Device.OSVersion,
		SoftwareVersion:   s.config.Device.SoftwareVersion,
		PrivateDeviceData: map[string]string{"u": deviceDataID()},
		Services:          make([]RequestService, 0, len(s.catalog)),
		ValidationData:    params.ValidationData,
	}

	for _, desc := range s.catalog {
		clientData := make(map[string]any, len(desc.ClientData)+4)
		for k, v := range desc.ClientData {
			clientData[k] = v
		}
		if desc.WantsIdentityKey {
			clientData[catalog.IdentityKeyField] = container
			clientData[catalog.IdentityVersionField] = desc.IdentityVersion
		}
		if desc.WantsNGMData {
			if len(params.NGMPrekeyData) > 0 {
				clientData[catalog.NGMPrekeyDataField] = params.NGMPrekeyData
			}
			if len(params.DeviceKeySignature) > 0 {
				clientData[catalog.DeviceKeySignatureField] = params.DeviceKeySignature
			}
		}

		user := RequestUser{
			ClientData: clientData,
			URIs:       uris,
			UserID:     params.UserID,
		}
		if desc.WantsNGMData && len(params.KTLoggableData) > 0 {
			user.KTLoggableData = params.KTLoggableData
		}

		capabilities := make([]RequestCapability, len(desc.Capabilities))
		for i, c := range desc.Capabilities {
			capabilities[i] = RequestCapability{Flags: c.Flags, Name: c.Name, Version: c.Version}
		}

		req.Services = append(req.Services, RequestService{
			Capabilities: capabilities,
			Service:      desc.Service,
			SubServices:  desc.SubServices,
			Users:        []RequestUser{user},
		})
	}

	return req, nil
}

// Register runs one registration transaction: serialize, sign, submit,
// and validate. All failures are typed; the caller decides whether to
// refresh validation data, retry, or abort.
func (s *RegistrationService) Register(ctx context.Context, params RegisterParams) (RegistrationResult, error) {
	start := time.Now()

	req, err := s.BuildRequest(params)
	if err != nil {
		return nil, err
	}

	body, err := s.codec.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize registration request: %w", err)
	}

	headers := map[string]string{
		"x-protocol-version": ProtocolVersion,
		"x-auth-user-id-0":   params.UserID,
	}
	if err := s.signer.AddAuthSignature(headers, body, registerBagKey, params.AuthKey, params.PushKey, params.PushToken, 0); err != nil {
		return nil, fmt.Errorf("failed to sign registration headers: %w", err)
	}

	s.logger.DebugContext(ctx, "submitting registration",
		"endpoint", s.config.Directory.Endpoint,
		"handles", len(params.Handles),
		"services", len(s.catalog))

	raw, err := s.transport.Post(ctx, s.config.Directory.Endpoint, headers, body)
	if err != nil {
		s.metrics.RecordRegistration(ports.OutcomeTransportError, time.Since(start).Seconds())
		return nil, fmt.Errorf("registration request failed: %w", err)
	}

	var resp RegistrationResponse
	if err := s.codec.Unmarshal(raw, &resp); err != nil {
		s.metrics.RecordRegistration(ports.OutcomeMalformed, time.Since(start).Seconds())
		return nil, &coreerrors.MalformedResponseError{Reason: "undecodable response body", Raw: raw, Err: err}
	}

	result, err := s.extractCertificates(&resp, raw)
	s.metrics.RecordRegistration(outcomeOf(err), time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "registration accepted", "certificates", len(result))
	return result, nil
}

// extractCertificates runs the response-validation state machine. The
// branches are evaluated strictly in order on the first service and user
// encountered; each terminal state maps to one typed failure, and the
// accepted state yields the full name-to-certificate mapping.
func (s *RegistrationService) extractCertificates(resp *RegistrationResponse, raw []byte) (RegistrationResult, error) {
	switch {
	case resp.Status != nil && *resp.Status == statusValidationExpired:
		return nil, &coreerrors.ValidationExpiredError{Status: *resp.Status}
	case resp.Status != nil && *resp.Status != 0:
		return nil, &coreerrors.RegistrationRejectedError{Status: *resp.Status, Raw: raw}
	case len(resp.Services) == 0:
		return nil, &coreerrors.MalformedResponseError{Reason: "no services in response", Raw: raw}
	case len(resp.Services[0].Users) == 0:
		return nil, &coreerrors.MalformedResponseError{Reason: "no users in response", Raw: raw}
	case resp.Services[0].Users[0].Cert == nil:
		return nil, &coreerrors.MalformedResponseError{Reason: "no cert in response", Raw: raw}
	}

	if len(resp.Services) < len(s.catalog) {
		return nil, &coreerrors.MalformedResponseError{
			Reason: fmt.Sprintf("response has %d services, want %d", len(resp.Services), len(s.catalog)),
			Raw:    raw,
		}
	}

	result := make(RegistrationResult, len(s.catalog))
	for i, desc := range s.catalog {
		svc := &resp.Services[i]
		if svc.Service != "" && svc.Service != desc.Service {
			// The directory has only been observed to answer in
			// request order. If it ever names services and the
			// order disagrees, rebind by name instead of trusting
			// position.
			s.logger.Warn("response service order mismatch",
				"index", i, "want", desc.Service, "got", svc.Service)
			svc = findService(resp.Services, desc.Service)
			if svc == nil {
				return nil, &coreerrors.MalformedResponseError{
					Reason: fmt.Sprintf("service %s missing from response", desc.Service),
					Raw:    raw,
				}
			}
		}
		if len(svc.Users) == 0 || svc.Users[0].Cert == nil {
			return nil, &coreerrors.MalformedResponseError{
				Reason: fmt.Sprintf("no cert for service %s", desc.Service),
				Raw:    raw,
			}
		}
		result[desc.Service] = domain.ArmourCertificate(svc.Users[0].Cert)
	}
	return result, nil
}

func findService(services []ResponseService, name string) *ResponseService {
	for i := range services {
		if services[i].Service == name {
			return &services[i]
		}
	}
	return nil
}

func outcomeOf(err error) string {
	switch err.(type) {
	case nil:
		return ports.OutcomeAccepted
	case *coreerrors.ValidationExpiredError:
		return ports.OutcomeExpired
	case *coreerrors.RegistrationRejectedError:
		return ports.OutcomeRejected
	default:
		return ports.OutcomeMalformed
	}
}

// deviceDataID produces the per-request private-device-data identifier.
func deviceDataID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}
