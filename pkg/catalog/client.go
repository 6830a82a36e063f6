// Package catalog is a client for the web endpoints of the Paris public library catalog
// (bibliotheques.paris.fr) and the branch pages on paris.fr.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"time"

	"parislib/internal/components/assert"
	"parislib/internal/components/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

const (
	report_client_new  = "client.new"
	report_client_call = "client.call"
)

const (
	DefaultBaseUrl = "https://bibliotheques.paris.fr"
	DefaultDocbase = "SYRACUSE"
)

// DefaultHeaders returns the headers the catalog expects on its json endpoints.
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Accept":  "application/json, text/plain, */*",
		"Origin":  "https://bibliotheques.paris.fr",
		"Referer": "https://bibliotheques.paris.fr/",
	}
}

type ClientOptions struct {
	// BaseUrl is what relative endpoints are resolved against.
	BaseUrl string
	// Headers are sent on every envelope call, Content-Type is always application/json.
	Headers map[string]string
	// Timeout of a single http call, 0 means no timeout.
	Timeout time.Duration
	// CloudflareBypass wraps the http transport with a browser-like TLS fingerprint.
	CloudflareBypass bool
}

func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		BaseUrl: DefaultBaseUrl,
		Headers: DefaultHeaders(),
		Timeout: 30 * time.Second,
	}
}

type ClientOption func(c *Client)

// WithTelemetryAPI sets the telemetry API of the client, it defaults to telemetry.SlogAPI.
func WithTelemetryAPI(tel telemetry.API) ClientOption {
	assert.NotNil(tel, "tel")
	return func(c *Client) {
		c.tel = tel
	}
}

// WithMessageOutput dumps every http exchange of the client to `output`.
func WithMessageOutput(output telemetry.MessageOutput) ClientOption {
	assert.NotNil(output, "output")
	return func(c *Client) {
		c.output = output
	}
}

// Client is safe for concurrent use, it holds no state besides its configuration.
type Client struct {
	http    *resty.Client
	headers map[string]string
	tel     telemetry.API
	output  telemetry.MessageOutput
}

func NewClient(opts ClientOptions, options ...ClientOption) (*Client, error) {
	c := &Client{tel: telemetry.SlogAPI{}}
	for _, opt := range options {
		opt(c)
	}
	c.tel = telemetry.NewScopedAPI("catalog", c.tel)

	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err == nil && (baseUrl.Scheme == "" || baseUrl.Host == "") {
		err = errors.New("base url must be absolute")
	}
	if err != nil {
		c.tel.ReportBroken(report_client_new, err, opts.BaseUrl)
		return nil, fmt.Errorf("parse base url %q: %w", opts.BaseUrl, err)
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(opts.BaseUrl)
	httpClient.SetTimeout(opts.Timeout)
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}
	telemetry.InstrumentResty(httpClient, c.tel, c.output)

	c.http = httpClient
	c.headers = maps.Clone(opts.Headers)
	return c, nil
}

// encodeJson encodes like JSON.stringify does, without html escaping and without
// the trailing newline of json.Encoder.
func encodeJson(value any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	err := encoder.Encode(value)
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Call makes exactly one http call to `endpoint` and unwraps the response envelope.
//
// GET payloads must be a map[string]string (or nil), they are sent as the query string.
// POST payloads are sent as a json body.
// A response with `success: false` fails with a *RemoteRejectionError, otherwise
// the envelope is returned with its payload decoded into T.
func Call[T any](ctx context.Context, c *Client, method, endpoint string, payload any) (Envelope[T], error) {
	c.tel.ReportDebug(report_client_call, method, endpoint, payload)

	req := c.http.R().
		SetContext(ctx).
		SetHeaders(c.headers).
		SetHeader("Content-Type", "application/json")

	switch method {
	case http.MethodGet:
		switch query := payload.(type) {
		case nil:
		case map[string]string:
			req.SetQueryParams(query)
		default:
			err := fmt.Errorf("%w: GET payload must be map[string]string, got %T", ErrInvalidPayload, payload)
			c.tel.ReportBroken(report_client_call, err)
			return Envelope[T]{}, err
		}
	case http.MethodPost:
		if payload != nil {
			body, err := encodeJson(payload)
			if err != nil {
				c.tel.ReportBroken(report_client_call, fmt.Errorf("json marshal: %w", err))
				return Envelope[T]{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
			}
			req.SetBody(body)
		}
	default:
		err := fmt.Errorf("%w: unsupported method %q", ErrInvalidPayload, method)
		c.tel.ReportBroken(report_client_call, err)
		return Envelope[T]{}, err
	}

	res, err := req.Execute(method, endpoint)
	if err != nil {
		c.tel.ReportBroken(report_client_call, fmt.Errorf("fetch: %w", err), method, endpoint)
		return Envelope[T]{}, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}

	var raw rawEnvelope
	err = json.Unmarshal(res.Body(), &raw)
	if err == nil && raw.Success == nil {
		err = errors.New("missing success field")
	}
	if err != nil {
		c.tel.ReportBroken(report_client_call, fmt.Errorf("unmarshal envelope: %w", err), method, endpoint, res.StatusCode())
		return Envelope[T]{}, fmt.Errorf("%w: %s %s (status %d): %w", ErrUnexpectedResponse, method, endpoint, res.StatusCode(), err)
	}

	out := Envelope[T]{
		Success: *raw.Success,
		Message: raw.Message,
	}
	for _, element := range raw.Errors {
		detail, err := parseErrorDetail(element)
		if err != nil {
			c.tel.ReportWarning(report_client_call, fmt.Errorf("parse error detail: %w", err), string(element))
			detail = StructuredError{Raw: element}
		}
		out.Errors = append(out.Errors, detail)
	}

	if !out.Success {
		rejection := &RemoteRejectionError{Errors: out.Errors}
		if raw.Message != nil {
			rejection.Message = *raw.Message
		}
		c.tel.ReportWarning(report_client_call, rejection, method, endpoint)
		return Envelope[T]{}, rejection
	}

	if len(raw.Payload) > 0 && !bytes.Equal(raw.Payload, []byte("null")) {
		err = json.Unmarshal(raw.Payload, &out.Payload)
		if err != nil {
			c.tel.ReportBroken(report_client_call, fmt.Errorf("unmarshal payload: %w", err), method, endpoint)
			return Envelope[T]{}, fmt.Errorf("%w: %s %s: %w", ErrMalformedResponse, method, endpoint, err)
		}
	}

	return out, nil
}
