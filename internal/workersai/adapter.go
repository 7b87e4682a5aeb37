// Package workersai talks to the Cloudflare Workers AI REST API: model input
// schemas and text-to-image runs.
package workersai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/nulzo/image-playground/internal/config"
	"github.com/nulzo/image-playground/internal/httpclient"
	"github.com/nulzo/image-playground/pkg/api"
)

const DefaultBaseURL = "https://api.cloudflare.com/client/v4"

var ErrNoImage = errors.New("workers ai: response carried no image")

// Image is the output of one text-to-image run.
type Image struct {
	ContentType string
	Data        []byte
}

type Adapter struct {
	config config.CloudflareConfig
	client httpclient.HTTPClient
}

type Option func(*Adapter)

func WithHTTPClient(c httpclient.HTTPClient) Option {
	return func(a *Adapter) { a.client = c }
}

func NewAdapter(cfg config.CloudflareConfig, opts ...Option) (*Adapter, error) {
	if cfg.AccountID == "" {
		return nil, errors.New("workers ai: account id is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	a := &Adapter{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

type envelope struct {
	Result  json.RawMessage `json:"result"`
	Success bool            `json:"success"`
	Errors  []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

func (e *envelope) err() error {
	if e.Success {
		return nil
	}
	msgs := make([]string, 0, len(e.Errors))
	for _, m := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("%d: %s", m.Code, m.Message))
	}
	if len(msgs) == 0 {
		return errors.New("workers ai: request unsuccessful")
	}
	return fmt.Errorf("workers ai: %s", strings.Join(msgs, "; "))
}

func (a *Adapter) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + a.config.APIToken,
		"Accept":        "application/json, image/*",
	}
}

func (a *Adapter) endpoint(path string) string {
	return fmt.Sprintf("%s/accounts/%s/ai/%s", a.config.BaseURL, url.PathEscape(a.config.AccountID), path)
}

// Schema fetches the input/output schema of a model.
func (a *Adapter) Schema(ctx context.Context, model string) (*api.ModelSchema, error) {
	var env envelope
	u := a.endpoint("models/schema") + "?model=" + url.QueryEscape(model)
	if err := httpclient.SendRequest(ctx, a.client, http.MethodGet, u, a.headers(), nil, &env); err != nil {
		return nil, err
	}
	if err := env.err(); err != nil {
		return nil, err
	}

	var schema api.ModelSchema
	if err := json.Unmarshal(env.Result, &schema); err != nil {
		return nil, fmt.Errorf("workers ai: decode schema for %s: %w", model, err)
	}
	return &schema, nil
}

// Run executes a text-to-image model. Some models answer with raw image
// bytes, others with a JSON envelope holding base64 image data.
func (a *Adapter) Run(ctx context.Context, model string, inputs map[string]any) (*Image, error) {
	if inputs == nil {
		inputs = map[string]any{}
	}
	resp, err := httpclient.SendRaw(ctx, a.client, http.MethodPost, a.endpoint("run/"+model), a.headers(), inputs)
	if err != nil {
		return nil, err
	}

	if strings.HasPrefix(resp.ContentType, "image/") {
		if len(resp.Body) == 0 {
			return nil, ErrNoImage
		}
		return &Image{ContentType: resp.ContentType, Data: resp.Body}, nil
	}

	var env envelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, fmt.Errorf("workers ai: decode run response: %w", err)
	}
	if err := env.err(); err != nil {
		return nil, err
	}

	var result struct {
		Image string `json:"image"`
	}
	if err := json.Unmarshal(env.Result, &result); err != nil {
		return nil, fmt.Errorf("workers ai: decode run result: %w", err)
	}
	if result.Image == "" {
		return nil, ErrNoImage
	}

	data, err := base64.StdEncoding.DecodeString(result.Image)
	if err != nil {
		return nil, fmt.Errorf("workers ai: decode image: %w", err)
	}
	return &Image{ContentType: sniff(data), Data: data}, nil
}

func sniff(data []byte) string {
	ct := http.DetectContentType(data)
	if strings.HasPrefix(ct, "image/") {
		return ct
	}
	return "image/png"
}
