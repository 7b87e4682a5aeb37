package playground

import (
	"fmt"
	"maps"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nulzo/image-playground/pkg/api"
)

// Values maps property names to committed entries for one model.
type Values map[string]Value

// Clone returns an independent copy.
func (v Values) Clone() Values {
	return maps.Clone(v)
}

// Inputs unwraps every value for the request body.
func (v Values) Inputs() map[string]any {
	out := make(map[string]any, len(v))
	for k, val := range v {
		out[k] = val.Any()
	}
	return out
}

// Defaults derives the initial values of a schema: every property with a
// declared default, nothing else.
func Defaults(schema *api.InputSchema) Values {
	values := make(Values)
	if schema == nil || schema.Properties == nil {
		return values
	}
	for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.HasDefault() {
			values[pair.Key] = FromDefault(pair.Value)
		}
	}
	return values
}

// Field is the rendering contract of one input control.
type Field struct {
	Name        string
	Label       string
	Placeholder string
	Kind        Kind
	// Min and Max are advisory hints copied from the schema.
	Min, Max *float64
	Required bool
	// Value is the current entry as text, empty when unset.
	Value string
}

// Numeric reports whether the control uses numeric entry.
func (f Field) Numeric() bool {
	return f.Kind != KindText
}

// Form is the dynamic form of one model: its schema and live values.
type Form struct {
	model  string
	schema *api.InputSchema
	values Values
}

// NewForm builds the form for model, seeded with the schema defaults.
func NewForm(model string, schema *api.InputSchema) *Form {
	return &Form{
		model:  model,
		schema: schema,
		values: Defaults(schema),
	}
}

// Model is the id of the model the schema was retrieved for.
func (f *Form) Model() string { return f.model }

func (f *Form) Schema() *api.InputSchema { return f.schema }

// Values returns a copy of the current entries.
func (f *Form) Values() Values {
	if f == nil {
		return Values{}
	}
	return f.values.Clone()
}

// Fields lists one control per property in schema order.
func (f *Form) Fields() []Field {
	if f == nil {
		return nil
	}

	names := f.schema.Names()
	fields := make([]Field, 0, len(names))
	for _, name := range names {
		prop, _ := f.schema.Property(name)
		field := Field{
			Name:        name,
			Label:       label(name),
			Placeholder: prop.Description,
			Kind:        KindOf(prop),
			Min:         prop.Minimum,
			Max:         prop.Maximum,
			Required:    f.schema.IsRequired(name),
		}
		if v, ok := f.values[name]; ok {
			field.Value = v.String()
		}
		fields = append(fields, field)
	}
	return fields
}

// Set commits the raw entry of one control. Other keys are untouched; a
// parse failure leaves the form unchanged.
func (f *Form) Set(name, raw string) error {
	if f == nil {
		return fmt.Errorf("no schema loaded")
	}
	prop, ok := f.schema.Property(name)
	if !ok {
		return fmt.Errorf("unknown property %q", name)
	}

	v, err := Parse(prop, raw)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	f.values[name] = v
	return nil
}

// Valid is true iff a model is selected and every required property holds a
// non-empty value.
func (f *Form) Valid(selected string) bool {
	if selected == "" || f == nil {
		return false
	}
	for _, name := range f.schema.Required {
		v, ok := f.values[name]
		if !ok || v.IsEmpty() {
			return false
		}
	}
	return true
}

// Missing lists required properties that still need a value, in schema order.
func (f *Form) Missing() []string {
	if f == nil {
		return nil
	}
	var missing []string
	for _, name := range f.schema.Names() {
		if !f.schema.IsRequired(name) {
			continue
		}
		if v, ok := f.values[name]; !ok || v.IsEmpty() {
			missing = append(missing, name)
		}
	}
	return missing
}

// Request builds the generation body for model from the current values.
func (f *Form) Request(model string) api.GenerateRequest {
	return api.GenerateRequest{Model: model, Inputs: f.Values().Inputs()}
}

func label(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// Marker decorates a label for required fields.
func Marker(f Field) string {
	if f.Required {
		return strings.TrimSpace(f.Label + " *")
	}
	return f.Label
}
