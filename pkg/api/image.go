package api

// R2Image is one stored generation as listed by the object store.
type R2Image struct {
	Key      string `json:"key"`
	Uploaded string `json:"uploaded"`
}
