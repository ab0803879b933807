package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"time"

	"github.com/pesakit/pesakit-go/internal/auth"
	"github.com/pesakit/pesakit-go/internal/constants"
	pesahttp "github.com/pesakit/pesakit-go/internal/http"
	"github.com/pesakit/pesakit-go/pkg/pesa"
)

// Static errors for err113 compliance.
var (
	errRequestNil = errors.New("request is nil")
)

// Client implements the pesa.Client interface.
type Client struct {
	httpClient *pesahttp.Client
	tokens     *auth.TokenManager
	resolver   *pesa.Resolver
	logger     pesa.Logger
}

var _ pesa.Client = (*Client)(nil)

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *pesa.Config) []pesahttp.Option {
	httpOpts := []pesahttp.Option{
		pesahttp.WithTimeout(config.HTTPTimeout),
		pesahttp.WithUserAgent(config.UserAgent),
	}

	if config.Logger != nil {
		httpOpts = append(httpOpts, pesahttp.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, pesahttp.WithDebug(true))
	}

	if config.HTTPClient != nil {
		httpOpts = append(httpOpts, pesahttp.WithHTTPClient(config.HTTPClient))
	}

	if config.Interceptors != nil {
		httpOpts = append(httpOpts, pesahttp.WithInterceptors(config.Interceptors))
	}

	return httpOpts
}

// New creates a new gateway client. The resolver is validated for every
// operation before the client is returned.
func New(config *pesa.Config) (*Client, error) {
	if config == nil {
		return nil, pesa.ErrConfigRequired
	}

	// Defaults are filled into a copy; the caller's config stays untouched.
	cfg := *config
	config = &cfg

	err := config.Validate()
	if err != nil {
		return nil, err
	}

	resolver, err := pesa.NewResolver(config.Environment, config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("resolving endpoints: %w", err)
	}

	httpClient := pesahttp.NewClient(createHTTPClientOptions(config)...)
	authenticator := auth.NewAuthenticator(config.Credentials(), resolver, httpClient)

	managerOpts := []auth.ManagerOption{auth.WithAuthTimeout(config.AuthTimeout)}
	if config.Logger != nil {
		managerOpts = append(managerOpts, auth.WithManagerLogger(config.Logger))
	}

	return &Client{
		httpClient: httpClient,
		tokens:     auth.NewTokenManager(authenticator, config.TokenStore, managerOpts...),
		resolver:   resolver,
		logger:     config.Logger,
	}, nil
}

// Environment returns the environment the client is bound to.
func (c *Client) Environment() pesa.Environment {
	return c.resolver.Environment()
}

// Token implements pesa.TokenClient.Token.
func (c *Client) Token(ctx context.Context) (string, error) {
	return c.tokens.Token(ctx)
}

// TokenExpiry implements pesa.TokenClient.TokenExpiry.
func (c *Client) TokenExpiry(ctx context.Context) (time.Time, error) {
	return c.tokens.Expiry(ctx)
}

// execute runs one authenticated operation call. A 401 from the operation
// endpoint discards the token that was used and resends once with a fresh one.
func execute[Req, Res any](ctx context.Context, c *Client, op pesa.Operation, req *Req) (*Res, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	endpoint, err := c.resolver.URL(op)
	if err != nil {
		return nil, err
	}

	body, err := encode(req)
	if err != nil {
		return nil, err
	}

	resp, err := c.send(ctx, op, endpoint, token, body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.logDebug("operation rejected access token, re-authenticating", op)
		c.tokens.Invalidate(ctx, token)

		token, err = c.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}

		resp, err = c.send(ctx, op, endpoint, token, body)
		if err != nil {
			return nil, err
		}
	}

	return decode[Res](resp)
}

func (c *Client) send(ctx context.Context, op pesa.Operation, endpoint, token string, body []byte) (*pesahttp.Response, error) {
	resp, err := c.httpClient.Do(ctx, &pesahttp.Request{
		Method:    http.MethodPost,
		URL:       endpoint,
		Operation: op,
		Headers: map[string]string{
			constants.HeaderAuthorization: "Bearer " + token,
			constants.HeaderContentType:   constants.ContentTypeJSON,
		},
		Body: body,
	})
	if err != nil {
		return nil, &pesa.NetworkError{Err: err}
	}

	if resp == nil {
		return nil, pesa.ErrUnknownFailure
	}

	return resp, nil
}

// encode validates then serializes req.
func encode[Req any](req *Req) ([]byte, error) {
	name := requestName[Req]()
	if req == nil {
		return nil, &pesa.EncodingError{Request: name, Err: errRequestNil}
	}

	err := pesa.Validate(req)
	if err != nil {
		return nil, &pesa.EncodingError{Request: name, Err: err}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, &pesa.EncodingError{Request: name, Err: err}
	}

	return body, nil
}

// decode maps a gateway reply. Error-shaped bodies are detected before the
// success shape is tried.
func decode[Res any](resp *pesahttp.Response) (*Res, error) {
	success := resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices

	if len(bytes.TrimSpace(resp.Body)) == 0 {
		if success {
			return nil, pesa.ErrUnknownFailure
		}

		return nil, &pesa.GatewayError{StatusCode: resp.StatusCode}
	}

	gwErr := pesa.ParseGatewayError(resp.StatusCode, resp.Body)
	if gwErr != nil {
		return nil, gwErr
	}

	var result Res

	err := json.Unmarshal(resp.Body, &result)
	if err != nil {
		if !success {
			return nil, &pesa.GatewayError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}

		return nil, fmt.Errorf("%w: %w", pesa.ErrParsingFailure, err)
	}

	if !success {
		return nil, &pesa.GatewayError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	// Unknown keys are ignored by json.Unmarshal, so a reply of the wrong shape
	// only shows up as missing required fields.
	err = pesa.Validate(&result)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pesa.ErrParsingFailure, err)
	}

	return &result, nil
}

func requestName[Req any]() string {
	return reflect.TypeOf((*Req)(nil)).Elem().Name()
}

func (c *Client) logDebug(msg string, op pesa.Operation) {
	if c.logger == nil {
		return
	}

	c.logger.Debug(msg, map[string]interface{}{"operation": string(op)})
}
