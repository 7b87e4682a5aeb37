package api

// Model identifies a selectable image-generation backend.
type Model struct {
	ID   string `json:"id" mapstructure:"id"`
	Name string `json:"name" mapstructure:"name"`
}
