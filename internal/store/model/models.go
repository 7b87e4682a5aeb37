package model

import "time"

// Image is the metadata of one stored generation.
type Image struct {
	Key         string    `db:"key" json:"key"`
	ContentType string    `db:"content_type" json:"content_type"`
	Size        int64     `db:"size" json:"size"`
	Model       string    `db:"model" json:"model,omitempty"`
	UploadedAt  time.Time `db:"uploaded_at" json:"uploaded_at"`
}

// Object is an image together with its bytes.
type Object struct {
	Image
	Data []byte `db:"data" json:"-"`
}
