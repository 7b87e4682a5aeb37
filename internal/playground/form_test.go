package playground

import (
	"encoding/json"
	"testing"

	"github.com/nulzo/image-playground/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForm_ExampleScenario(t *testing.T) {
	form := NewForm("@cf/model", exampleSchema(t))

	assert.Equal(t, Values{"steps": Integer(20)}, form.Values())
	assert.False(t, form.Valid("@cf/model"))
	assert.Equal(t, []string{"prompt"}, form.Missing())

	require.NoError(t, form.Set("prompt", "a cat"))
	assert.True(t, form.Valid("@cf/model"))
	assert.Empty(t, form.Missing())

	body, err := json.Marshal(form.Request("@cf/model"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"model":"@cf/model","prompt":"a cat","steps":20}`, string(body))
}

func TestForm_Valid(t *testing.T) {
	form := NewForm("m", exampleSchema(t))
	require.NoError(t, form.Set("prompt", "a cat"))

	t.Run("requires a selected model", func(t *testing.T) {
		assert.False(t, form.Valid(""))
	})

	t.Run("empty string counts as missing", func(t *testing.T) {
		f := NewForm("m", exampleSchema(t))
		require.NoError(t, f.Set("prompt", ""))
		assert.False(t, f.Valid("m"))
	})

	t.Run("no schema is never valid", func(t *testing.T) {
		var f *Form
		assert.False(t, f.Valid("m"))
	})

	t.Run("no required fields", func(t *testing.T) {
		f := NewForm("m", api.NewInputSchema().Set("seed", api.SchemaProperty{Type: api.TypeInteger}))
		assert.True(t, f.Valid("m"))
	})

	t.Run("required name absent from properties", func(t *testing.T) {
		f := NewForm("m", api.NewInputSchema("ghost").Set("prompt", api.SchemaProperty{Type: api.TypeString}))
		assert.False(t, f.Valid("m"))
	})
}

func TestForm_SetTouchesOneKey(t *testing.T) {
	form := NewForm("m", exampleSchema(t))
	require.NoError(t, form.Set("prompt", "a dog"))
	before := form.Values()

	require.NoError(t, form.Set("steps", "30"))

	after := form.Values()
	assert.Equal(t, before["prompt"], after["prompt"])
	assert.Equal(t, Integer(30), after["steps"])
	assert.Len(t, after, 2)
}

func TestForm_SetParsesAtBoundary(t *testing.T) {
	schema := exampleSchema(t).Set("guidance", api.SchemaProperty{Type: api.TypeNumber})
	form := NewForm("m", schema)

	err := form.Set("steps", "many")
	assert.EqualError(t, err, `steps: "many" is not an integer`)
	assert.Equal(t, Integer(20), form.Values()["steps"], "failed parse leaves value untouched")

	require.NoError(t, form.Set("guidance", "7.5"))
	assert.Equal(t, Real(7.5), form.Values()["guidance"])

	// bounds are hints only
	require.NoError(t, form.Set("steps", "500"))
	assert.Equal(t, Integer(500), form.Values()["steps"])

	require.NoError(t, form.Set("steps", ""))
	assert.True(t, form.Values()["steps"].IsEmpty())

	assert.EqualError(t, form.Set("unknown", "x"), `unknown property "unknown"`)
}

func TestForm_Fields(t *testing.T) {
	form := NewForm("m", exampleSchema(t))

	fields := form.Fields()
	require.Len(t, fields, 2)

	assert.Equal(t, Field{
		Name:        "prompt",
		Label:       "Prompt",
		Placeholder: "Prompt",
		Kind:        KindText,
		Required:    true,
	}, fields[0])
	assert.Equal(t, "Prompt *", Marker(fields[0]))

	steps := fields[1]
	assert.Equal(t, "steps", steps.Name)
	assert.Equal(t, "Steps", Marker(steps))
	assert.True(t, steps.Numeric())
	assert.Equal(t, ptr(1), steps.Min)
	assert.Equal(t, ptr(50), steps.Max)
	assert.Equal(t, "20", steps.Value)
}

func TestDefaults(t *testing.T) {
	var schema api.InputSchema
	require.NoError(t, json.Unmarshal([]byte(`{"properties":{
		"prompt":{"type":"string"},
		"negative_prompt":{"type":"string","default":""},
		"width":{"type":"integer","default":1024},
		"strength":{"type":"number","default":1},
		"guidance":{"type":"number","default":"7.5"},
		"cfg":{"type":"integer","default":7.5},
		"tiled":{"type":"boolean","default":false},
		"image":{"type":"array","default":[1,2]},
		"seed":{"type":"integer","default":null}
	}}`), &schema))

	assert.Equal(t, Values{
		"negative_prompt": Text(""),
		"width":           Integer(1024),
		"strength":        Real(1),
		"guidance":        Text("7.5"),
		"cfg":             Raw(7.5),
		"tiled":           Raw(false),
		"image":           Raw([]any{1.0, 2.0}),
		"seed":            Raw(nil),
	}, Defaults(&schema))

	assert.Empty(t, Defaults(nil))
}

func TestDefaults_ReachRequestUnchanged(t *testing.T) {
	schema := api.NewInputSchema().
		Set("flag", api.SchemaProperty{Type: "boolean", Default: true}).
		Set("guidance", api.SchemaProperty{Type: api.TypeInteger, Default: 7.5}).
		Set("tags", api.SchemaProperty{Type: "array", Default: []any{"a", "b"}})

	form := NewForm("m", schema)
	body, err := json.Marshal(form.Request("m"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"model":"m","flag":true,"guidance":7.5,"tags":["a","b"]}`, string(body))

	fields := form.Fields()
	require.Len(t, fields, 3)
	assert.Equal(t, "true", fields[0].Value)
	assert.Equal(t, `["a","b"]`, fields[2].Value)
}

func TestValue(t *testing.T) {
	assert.Equal(t, "20", Integer(20).String())
	assert.Equal(t, "7.5", Real(7.5).String())
	assert.Equal(t, "a cat", Text("a cat").String())
	assert.True(t, Value{}.IsEmpty())
	assert.False(t, Integer(0).IsEmpty())
	assert.True(t, Raw(nil).IsEmpty())
	assert.False(t, Raw(false).IsEmpty())
	assert.Equal(t, "false", Raw(false).String())

	out, err := json.Marshal(Values{"n": Integer(3), "f": Real(0.5), "s": Text("x")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":3,"f":0.5,"s":"x"}`, string(out))
}
