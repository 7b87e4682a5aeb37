package api

import (
	"encoding/json"
	"maps"
)

// GenerateRequest is the flat body `{"model": id, ...inputs}` posted to the
// generation endpoint.
type GenerateRequest struct {
	// the catalog id of the model to run
	Model string `json:"model" binding:"required"`

	// every other top-level key, passed to the model untouched
	Inputs map[string]any `json:"-"`
}

func (r GenerateRequest) MarshalJSON() ([]byte, error) {
	body := make(map[string]any, len(r.Inputs)+1)
	maps.Copy(body, r.Inputs)
	body["model"] = r.Model
	return json.Marshal(body)
}

func (r *GenerateRequest) UnmarshalJSON(data []byte) error {
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}

	if model, ok := body["model"].(string); ok {
		r.Model = model
	}
	delete(body, "model")
	r.Inputs = body
	return nil
}
