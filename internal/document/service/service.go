package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/NithinKS007/PDF-extractor-server/internal/apperror"
	"github.com/NithinKS007/PDF-extractor-server/internal/document"
	"github.com/NithinKS007/PDF-extractor-server/internal/document/repository"
	"github.com/NithinKS007/PDF-extractor-server/internal/extractor"
	"github.com/NithinKS007/PDF-extractor-server/internal/storage"
	"github.com/NithinKS007/PDF-extractor-server/pkg/logger"
	"github.com/NithinKS007/PDF-extractor-server/pkg/metrics"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxListLimit = 100

	cleanupAttempts = 3
	cleanupTimeout  = 10 * time.Second
)

// Storage is the object storage gateway the service writes PDFs through.
type Storage interface {
	Upload(ctx context.Context, data []byte, fileName string) (*storage.Object, error)
	Download(ctx context.Context, url string) ([]byte, error)
	Delete(ctx context.Context, id string) error
}

// Extractor parses PDFs and copies page selections.
type Extractor interface {
	PageCount(src []byte) (int, error)
	Extract(src []byte, pages []int) ([]byte, error)
}

// Service orchestrates the registry, object storage and extraction engine.
type Service struct {
	repo    repository.Repository
	store   Storage
	engine  Extractor
	backoff time.Duration
}

func New(repo repository.Repository, store Storage, engine Extractor) *Service {
	return &Service{repo: repo, store: store, engine: engine, backoff: 200 * time.Millisecond}
}

// ListResult is one page of a listing.
type ListResult struct {
	Items       []*document.PdfDocument
	TotalPages  int64
	CurrentPage int64
}

// ExtractInput describes a page extraction request.
type ExtractInput struct {
	OwnerID      string
	SourceID     string
	Pages        []int
	FileName     string
	DeleteSource bool
}

// Upload validates and stores data, then records it under ownerID.
func (s *Service) Upload(ctx context.Context, ownerID, fileName string, data []byte) (doc *document.PdfDocument, err error) {
	defer func() { metrics.ObserveOperation("upload", err) }()

	fileName = strings.TrimSpace(fileName)
	if len(data) == 0 {
		return nil, apperror.New(apperror.NoFileToUpload)
	}
	if fileName == "" {
		return nil, apperror.New(apperror.FileNameRequired)
	}
	if err := s.ensureNameFree(ctx, ownerID, fileName); err != nil {
		return nil, err
	}

	pages, err := s.engine.PageCount(data)
	if err != nil {
		return nil, apperror.Wrap(apperror.MalformedDocument, err)
	}

	obj, err := s.store.Upload(ctx, data, fileName)
	if err != nil {
		return nil, apperror.Wrap(apperror.UploadFailed, err)
	}

	doc = &document.PdfDocument{
		OwnerID:    ownerID,
		FileName:   fileName,
		StorageURL: obj.URL,
		StorageID:  obj.ID,
		PageCount:  pages,
	}
	if err := s.record(ctx, doc); err != nil {
		return nil, err
	}
	logger.Infow("pdf uploaded", logger.Fields{"pdfId": doc.ID, "owner": ownerID, "pages": pages})
	return doc, nil
}

// List returns one page of ownerID's documents whose name starts with search.
// Non-positive page or limit fall back to the defaults; limit is capped.
func (s *Service) List(ctx context.Context, ownerID string, page, limit int, search string) (*ListResult, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	items, total, err := s.repo.List(ctx, repository.ListOptions{
		OwnerID: ownerID,
		Prefix:  strings.TrimSpace(search),
		Offset:  pageOffset(page, limit),
		Limit:   int64(limit),
	})
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, fmt.Errorf("list pdfs: %w", err))
	}
	return &ListResult{
		Items:       items,
		TotalPages:  int64(math.Ceil(float64(total) / float64(limit))),
		CurrentPage: int64(page),
	}, nil
}

// pageOffset is (page-1)*limit, saturating instead of overflowing so that
// absurd page numbers land past the end of any listing.
func pageOffset(page, limit int) int64 {
	skip, l := int64(page-1), int64(limit)
	if skip > (math.MaxInt64-l)/l {
		return math.MaxInt64 - l
	}
	return skip * l
}

// Extract builds a new document from a page selection of a source document
// owned by the same user, optionally deleting the source afterwards.
func (s *Service) Extract(ctx context.Context, in ExtractInput) (doc *document.PdfDocument, err error) {
	defer func() { metrics.ObserveOperation("extract", err) }()

	fileName := strings.TrimSpace(in.FileName)
	if fileName == "" {
		return nil, apperror.New(apperror.FileNameRequired)
	}
	if len(in.Pages) == 0 {
		return nil, apperror.New(apperror.InvalidPages)
	}

	src, err := s.repo.Get(ctx, in.SourceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Wrap(apperror.SourceNotFound, err)
		}
		return nil, apperror.Wrap(apperror.Internal, err)
	}
	if src.OwnerID != in.OwnerID {
		return nil, apperror.New(apperror.SourceNotFound)
	}
	if err := s.ensureNameFree(ctx, in.OwnerID, fileName); err != nil {
		return nil, err
	}

	data, err := s.store.Download(ctx, src.StorageURL)
	if err != nil {
		return nil, apperror.Wrap(apperror.DownloadFailed, err)
	}

	out, err := s.engine.Extract(data, in.Pages)
	if err != nil {
		return nil, extractError(err)
	}

	obj, err := s.store.Upload(ctx, out, fileName)
	if err != nil {
		return nil, apperror.Wrap(apperror.UploadFailed, err)
	}

	doc = &document.PdfDocument{
		OwnerID:    in.OwnerID,
		FileName:   fileName,
		StorageURL: obj.URL,
		StorageID:  obj.ID,
		PageCount:  len(in.Pages),
	}
	if err := s.record(ctx, doc); err != nil {
		return nil, err
	}
	metrics.PagesExtracted.Add(float64(len(in.Pages)))
	logger.Infow("pdf extracted", logger.Fields{"pdfId": doc.ID, "source": src.ID, "pages": len(in.Pages)})

	if in.DeleteSource {
		s.deleteSource(ctx, src, doc.ID)
	}
	return doc, nil
}

// deleteSource removes the source record, then its object. The new document
// already exists, so failures are logged and counted, not returned; a failed
// record delete keeps the object so the record stays usable.
func (s *Service) deleteSource(ctx context.Context, src *document.PdfDocument, newID string) {
	err := s.repo.Delete(ctx, src.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		metrics.SourceDeleteFailures.Inc()
		logger.Errorw("source delete failed after extraction", logger.Fields{"source": src.ID, "newPdf": newID, "error": err})
		return
	}
	s.cleanup(ctx, src.StorageID)
}

func (s *Service) ensureNameFree(ctx context.Context, ownerID, fileName string) error {
	exists, err := s.repo.ExistsByOwnerAndName(ctx, ownerID, fileName)
	if err != nil {
		return apperror.Wrap(apperror.Internal, err)
	}
	if exists {
		return apperror.New(apperror.DuplicateName)
	}
	return nil
}

// record persists doc, removing its stored object when the registry write fails.
func (s *Service) record(ctx context.Context, doc *document.PdfDocument) error {
	err := s.repo.Create(ctx, doc)
	if err == nil {
		return nil
	}
	s.cleanup(ctx, doc.StorageID)
	if errors.Is(err, repository.ErrDuplicateName) {
		return apperror.Wrap(apperror.DuplicateName, err)
	}
	return apperror.Wrap(apperror.Internal, fmt.Errorf("create pdf record: %w", err))
}

// cleanup deletes a stored object with a few retries. Failures are logged
// and counted, never returned. Runs detached from request cancellation.
func (s *Service) cleanup(ctx context.Context, storageID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	if err := s.deleteWithRetry(ctx, storageID); err != nil {
		metrics.StorageCleanupFailures.Inc()
		logger.Errorw("orphaned storage object", logger.Fields{"storageId": storageID, "error": err})
	}
}

func (s *Service) deleteWithRetry(ctx context.Context, storageID string) error {
	wait := s.backoff
	for attempt := 1; ; attempt++ {
		err := s.store.Delete(ctx, storageID)
		if err == nil || attempt == cleanupAttempts {
			return err
		}
		logger.Warnw("storage delete attempt failed", logger.Fields{"storageId": storageID, "attempt": attempt, "error": err})
		select {
		case <-time.After(wait):
			wait *= 2
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func extractError(err error) error {
	var pre *extractor.PageRangeError
	switch {
	case errors.As(err, &pre):
		return apperror.Wrap(apperror.PageIndexOutOfRange, err).
			WithMessage(fmt.Sprintf("Page %d does not exist; the document has %d pages", pre.Index, pre.Count))
	case errors.Is(err, extractor.ErrNoPages):
		return apperror.Wrap(apperror.InvalidPages, err)
	case errors.Is(err, extractor.ErrMalformedDocument):
		return apperror.Wrap(apperror.MalformedDocument, err)
	}
	return apperror.Wrap(apperror.Internal, err)
}
