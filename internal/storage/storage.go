package storage

import (
	"context"
	"io"
	"path"
	"strings"
	"time"
)

// Uploader puts a blob under objectName and returns the stored path.
type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedPath string, err error)
}

// Signer turns a stored object into a short-lived download link.
type Signer interface {
	SignedGetURL(ctx context.Context, objectName string, ttl time.Duration) (string, error)
}

// ResumeObject names the object for a candidate's resume upload.
func ResumeObject(candidateID, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	if ext == "" {
		ext = ".pdf"
	}
	return "resumes/" + candidateID + ext
}
