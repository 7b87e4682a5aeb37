package api

import (
	"encoding/json"
	"fmt"
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
)

// SchemaProperty describes one named input accepted by a model.
type SchemaProperty struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Default     any      `json:"default,omitempty"`
	Minimum     *float64 `json:"minimum,omitempty"`
	Maximum     *float64 `json:"maximum,omitempty"`

	// nullDefault records an explicit "default": null, which Default alone
	// cannot tell apart from an absent key.
	nullDefault bool
}

type schemaPropertyWire struct {
	Type        string          `json:"type"`
	Description string          `json:"description,omitempty"`
	Default     json.RawMessage `json:"default,omitempty"`
	Minimum     *float64        `json:"minimum,omitempty"`
	Maximum     *float64        `json:"maximum,omitempty"`
}

func (p *SchemaProperty) UnmarshalJSON(data []byte) error {
	var w schemaPropertyWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*p = SchemaProperty{
		Type:        w.Type,
		Description: w.Description,
		Minimum:     w.Minimum,
		Maximum:     w.Maximum,
	}
	if len(w.Default) == 0 {
		return nil
	}
	if err := json.Unmarshal(w.Default, &p.Default); err != nil {
		return fmt.Errorf("default: %w", err)
	}
	p.nullDefault = p.Default == nil
	return nil
}

func (p SchemaProperty) MarshalJSON() ([]byte, error) {
	w := schemaPropertyWire{
		Type:        p.Type,
		Description: p.Description,
		Minimum:     p.Minimum,
		Maximum:     p.Maximum,
	}
	if p.HasDefault() {
		raw, err := json.Marshal(p.Default)
		if err != nil {
			return nil, fmt.Errorf("default: %w", err)
		}
		w.Default = raw
	}
	return json.Marshal(w)
}

// Numeric reports whether the property takes integer or real input.
func (p SchemaProperty) Numeric() bool {
	return p.Type == TypeInteger || p.Type == TypeNumber
}

// HasDefault reports whether the schema declared a default for the property.
func (p SchemaProperty) HasDefault() bool {
	return p.Default != nil || p.nullDefault
}

// InputSchema is the machine-readable description of a model's inputs.
// Properties keep the order of the JSON object they were decoded from.
type InputSchema struct {
	Properties *orderedmap.OrderedMap[string, SchemaProperty] `json:"properties"`
	Required   []string                                       `json:"required,omitempty"`
}

// NewInputSchema builds an empty schema ready for Set calls.
func NewInputSchema(required ...string) *InputSchema {
	return &InputSchema{
		Properties: orderedmap.New[string, SchemaProperty](),
		Required:   required,
	}
}

// Set appends (or replaces) a property, preserving first insertion order.
func (s *InputSchema) Set(name string, prop SchemaProperty) *InputSchema {
	if s.Properties == nil {
		s.Properties = orderedmap.New[string, SchemaProperty]()
	}
	s.Properties.Set(name, prop)
	return s
}

// Property looks up a property by name.
func (s *InputSchema) Property(name string) (SchemaProperty, bool) {
	if s == nil || s.Properties == nil {
		return SchemaProperty{}, false
	}
	return s.Properties.Get(name)
}

// Names returns the property names in display order.
func (s *InputSchema) Names() []string {
	if s == nil || s.Properties == nil {
		return nil
	}
	names := make([]string, 0, s.Properties.Len())
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// IsRequired reports whether name is listed in Required.
func (s *InputSchema) IsRequired(name string) bool {
	if s == nil {
		return false
	}
	return slices.Contains(s.Required, name)
}

// Validate checks that every required name exists as a property.
func (s *InputSchema) Validate() error {
	for _, name := range s.Required {
		if _, ok := s.Property(name); !ok {
			return fmt.Errorf("required property %q is not declared", name)
		}
	}
	return nil
}

// ModelSchema is the body returned by the schema endpoint. Only the input
// half is interpreted; output is carried through untouched.
type ModelSchema struct {
	Input  InputSchema     `json:"input"`
	Output json.RawMessage `json:"output,omitempty"`
}
