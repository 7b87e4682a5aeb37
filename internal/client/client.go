// Package client talks to the playground service endpoints: model catalog,
// schema lookup, generation, image listing and the image proxy.
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nulzo/image-playground/internal/httpclient"
	"github.com/nulzo/image-playground/pkg/api"
)

// Client implements every collaborator the playground core consumes.
type Client struct {
	baseURL string
	http    httpclient.HTTPClient
}

type Option func(*Client)

// WithHTTPClient swaps the transport, mostly for tests.
func WithHTTPClient(c httpclient.HTTPClient) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

// New returns a client rooted at baseURL. An empty baseURL yields relative
// paths, which is what a browser-hosted view would use.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// generation may legitimately take minutes; callers bound it with ctx
		http: &http.Client{Timeout: 5 * time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListModels retrieves the model catalog.
func (c *Client) ListModels(ctx context.Context) ([]api.Model, error) {
	var models []api.Model
	if err := httpclient.SendRequest(ctx, c.http, http.MethodGet, c.baseURL+"/api/models", nil, nil, &models); err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	return models, nil
}

// Schema retrieves the input schema of one model.
func (c *Client) Schema(ctx context.Context, modelID string) (*api.InputSchema, error) {
	var schema api.ModelSchema
	endpoint := c.baseURL + "/api/schema?model=" + url.QueryEscape(modelID)
	if err := httpclient.SendRequest(ctx, c.http, http.MethodGet, endpoint, nil, nil, &schema); err != nil {
		return nil, fmt.Errorf("get schema for %s: %w", modelID, err)
	}
	return &schema.Input, nil
}

// Generate posts the request and returns the response body as an image reference.
func (c *Client) Generate(ctx context.Context, req api.GenerateRequest) (string, error) {
	resp, err := httpclient.SendRaw(ctx, c.http, http.MethodPost, c.baseURL+"/api/generate_image", nil, req)
	if err != nil {
		return "", fmt.Errorf("generate image: %w", err)
	}
	return string(resp.Body), nil
}

// ListImages retrieves previously generated images.
func (c *Client) ListImages(ctx context.Context) ([]api.R2Image, error) {
	var images []api.R2Image
	if err := httpclient.SendRequest(ctx, c.http, http.MethodGet, c.baseURL+"/api/images", nil, nil, &images); err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	return images, nil
}

// ImageURL maps a storage key to its proxied display URL.
func (c *Client) ImageURL(key string) string {
	return c.baseURL + "/api/image?key=" + url.QueryEscape(key)
}

// FetchImage materializes an image reference as bytes. Data URLs are decoded
// locally; anything else is fetched, relative paths against the base URL.
func (c *Client) FetchImage(ctx context.Context, ref string) ([]byte, error) {
	if strings.HasPrefix(ref, "data:") {
		return api.DecodeDataURL(ref)
	}

	target := ref
	if strings.HasPrefix(ref, "/") {
		target = c.baseURL + ref
	}

	resp, err := httpclient.SendRaw(ctx, c.http, http.MethodGet, target, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	return resp.Body, nil
}
