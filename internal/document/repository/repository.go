package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/xid"

	"github.com/NithinKS007/PDF-extractor-server/internal/document"
)

var (
	ErrNotFound      = errors.New("document not found")
	ErrDuplicateName = errors.New("document name already exists for owner")
)

// ListOptions selects one owner's documents whose name starts with Prefix
// (case-insensitive), newest first.
type ListOptions struct {
	OwnerID string
	Prefix  string
	Offset  int64
	Limit   int64
}

// Repository is the document registry.
type Repository interface {
	Create(ctx context.Context, d *document.PdfDocument) error
	Get(ctx context.Context, id string) (*document.PdfDocument, error)
	ExistsByOwnerAndName(ctx context.Context, ownerID, fileName string) (bool, error)
	List(ctx context.Context, opts ListOptions) ([]*document.PdfDocument, int64, error)
	Delete(ctx context.Context, id string) error
}

func stamp(d *document.PdfDocument) {
	if d.ID == "" {
		d.ID = xid.New().String()
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now
}
