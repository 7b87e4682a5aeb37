package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Problem implements RFC 9457
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	Extensions map[string]interface{} `json:"-"`

	Log error `json:"-"`
}

func (p *Problem) Error() string {
	return fmt.Sprintf("[%d] %s: %s", p.Status, p.Title, p.Detail)
}

func (p *Problem) Unwrap() error {
	return p.Log
}

func (p *Problem) MarshalJSON() ([]byte, error) {
	type Alias Problem

	data := make(map[string]interface{})

	for k, v := range p.Extensions {
		data[k] = v
	}

	stdJSON, err := json.Marshal(Alias(*p))
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(stdJSON, &data); err != nil {
		return nil, err
	}

	return json.Marshal(data)
}

type ProblemOption func(*Problem)

// NewProblem creates a generic Problem
func NewProblem(status int, title, detail string, opts ...ProblemOption) *Problem {
	p := &Problem{
		Type:       "about:blank",
		Title:      title,
		Status:     status,
		Detail:     detail,
		Extensions: make(map[string]interface{}),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// WithExtension adds a custom key-value pair to the response
func WithExtension(key string, value interface{}) ProblemOption {
	return func(p *Problem) {
		p.Extensions[key] = value
	}
}

// WithLog attaches an internal error for server-side logging
func WithLog(err error) ProblemOption {
	return func(p *Problem) {
		p.Log = err
	}
}

// WithType sets the RFC "type" URI
func WithType(uri string) ProblemOption {
	return func(p *Problem) {
		p.Type = uri
	}
}

func ValidationProblem(validationErrors map[string]string) *Problem {
	return NewProblem(
		http.StatusBadRequest,
		"Validation Error",
		"One or more fields failed validation",
		WithExtension("errors", validationErrors),
	)
}

func BadRequest(detail string, opts ...ProblemOption) *Problem {
	return NewProblem(http.StatusBadRequest, "Bad Request", detail, opts...)
}

func NotFound(detail string, opts ...ProblemOption) *Problem {
	return NewProblem(http.StatusNotFound, "Not Found", detail, opts...)
}

func Internal(detail string, err error) *Problem {
	return NewProblem(http.StatusInternalServerError, "Internal Server Error", detail, WithLog(err))
}

// BadGateway is returned when Workers AI or the object store fails upstream.
func BadGateway(detail string, err error) *Problem {
	return NewProblem(http.StatusBadGateway, "Bad Gateway", detail, WithLog(err))
}
