// Package storage is the object storage gateway for PDF bytes.
package storage

import (
	"errors"
	"path"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("storage: object not found")
	ErrForeignURL = errors.New("storage: url does not belong to this store")
	ErrEmpty      = errors.New("storage: empty payload")
)

const contentTypePDF = "application/pdf"

// Object identifies a stored blob: URL is durable and Download-able,
// ID is what Delete takes.
type Object struct {
	URL string
	ID  string
}

// newKey returns "<folder>/<uuid>.pdf". The caller's file name is never
// part of the key.
func newKey(folder string) string {
	name := uuid.NewString() + ".pdf"
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return name
	}
	return path.Join(folder, name)
}
