package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NithinKS007/PDF-extractor-server/internal/apperror"
	"github.com/NithinKS007/PDF-extractor-server/internal/document"
	"github.com/NithinKS007/PDF-extractor-server/internal/document/repository"
	"github.com/NithinKS007/PDF-extractor-server/internal/extractor"
	"github.com/NithinKS007/PDF-extractor-server/internal/extractor/extractortest"
	"github.com/NithinKS007/PDF-extractor-server/internal/storage"
	"github.com/NithinKS007/PDF-extractor-server/pkg/metrics"
)

type fixture struct {
	svc   *Service
	repo  *repository.MemoryRepo
	store *flakyStore
}

// flakyStore wraps MemoryStorage with injectable failures.
type flakyStore struct {
	*storage.MemoryStorage
	uploadErr   error
	downloadErr error
	deleteFails int32
	deletes     int32
}

func (f *flakyStore) Upload(ctx context.Context, data []byte, name string) (*storage.Object, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return f.MemoryStorage.Upload(ctx, data, name)
}

func (f *flakyStore) Download(ctx context.Context, url string) ([]byte, error) {
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	return f.MemoryStorage.Download(ctx, url)
}

func (f *flakyStore) Delete(ctx context.Context, id string) error {
	n := atomic.AddInt32(&f.deletes, 1)
	if n <= atomic.LoadInt32(&f.deleteFails) {
		return errors.New("storage unavailable")
	}
	return f.MemoryStorage.Delete(ctx, id)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := repository.NewMemoryRepo()
	store := &flakyStore{MemoryStorage: storage.NewMemoryStorage("pdfs", "uploads")}
	svc := New(repo, store, extractor.New())
	svc.backoff = time.Millisecond
	return &fixture{svc: svc, repo: repo, store: store}
}

func threePages() []byte { return extractortest.Build(extractortest.Pages(3)...) }

func requireCode(t *testing.T, err error, code apperror.Code) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, code), "want %s, got %v", code, err)
}

func TestUpload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.svc.Upload(ctx, "u1", "  report.pdf ", threePages())
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", doc.FileName)
	assert.Equal(t, 3, doc.PageCount)
	assert.NotEmpty(t, doc.StorageURL)
	assert.Equal(t, 1, f.store.Len())

	stored, err := f.repo.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.StorageURL, stored.StorageURL)

	data, err := f.store.Download(ctx, doc.StorageURL)
	require.NoError(t, err)
	assert.Equal(t, threePages()[:8], data[:8])
}

func TestUpload_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Upload(ctx, "u1", "a.pdf", nil)
	requireCode(t, err, apperror.NoFileToUpload)

	_, err = f.svc.Upload(ctx, "u1", "   ", threePages())
	requireCode(t, err, apperror.FileNameRequired)

	_, err = f.svc.Upload(ctx, "u1", "a.pdf", []byte("not a pdf"))
	requireCode(t, err, apperror.MalformedDocument)

	assert.Equal(t, 0, f.store.Len())
}

func TestUpload_DuplicateName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Upload(ctx, "u1", "a.pdf", threePages())
	require.NoError(t, err)

	_, err = f.svc.Upload(ctx, "u1", "a.pdf", threePages())
	requireCode(t, err, apperror.DuplicateName)
	assert.Equal(t, http.StatusBadRequest, apperror.From(err).Status)

	_, err = f.svc.Upload(ctx, "u2", "a.pdf", threePages())
	assert.NoError(t, err, "names are unique per owner only")
}

func TestUpload_StorageFailureCreatesNoRecord(t *testing.T) {
	f := newFixture(t)
	f.store.uploadErr = errors.New("bucket unreachable")

	_, err := f.svc.Upload(context.Background(), "u1", "a.pdf", threePages())
	requireCode(t, err, apperror.UploadFailed)

	_, total, _ := f.repo.List(context.Background(), repository.ListOptions{OwnerID: "u1"})
	assert.Zero(t, total)
}

// failingCreateRepo loses the check-then-create race or fails outright.
type failingCreateRepo struct {
	*repository.MemoryRepo
	err error
}

func (r failingCreateRepo) Create(context.Context, *document.PdfDocument) error { return r.err }

func TestUpload_RegistryFailureRemovesObject(t *testing.T) {
	for name, createErr := range map[string]error{
		"race lost": repository.ErrDuplicateName,
		"db down":   errors.New("connection refused"),
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.svc.repo = failingCreateRepo{MemoryRepo: f.repo, err: createErr}

			_, err := f.svc.Upload(context.Background(), "u1", "a.pdf", threePages())
			require.Error(t, err)
			if errors.Is(createErr, repository.ErrDuplicateName) {
				requireCode(t, err, apperror.DuplicateName)
			} else {
				requireCode(t, err, apperror.Internal)
			}
			assert.Equal(t, 0, f.store.Len(), "uploaded object must be cleaned up")
		})
	}
}

func TestUpload_CleanupRetries(t *testing.T) {
	f := newFixture(t)
	f.svc.repo = failingCreateRepo{MemoryRepo: f.repo, err: errors.New("db down")}
	f.store.deleteFails = 2

	_, err := f.svc.Upload(context.Background(), "u1", "a.pdf", threePages())
	require.Error(t, err)
	assert.EqualValues(t, 3, f.store.deletes)
	assert.Equal(t, 0, f.store.Len())
}

func TestUpload_CleanupGivesUp(t *testing.T) {
	f := newFixture(t)
	f.svc.repo = failingCreateRepo{MemoryRepo: f.repo, err: errors.New("db down")}
	f.store.deleteFails = 100
	before := testutil.ToFloat64(metrics.StorageCleanupFailures)

	_, err := f.svc.Upload(context.Background(), "u1", "a.pdf", threePages())
	require.Error(t, err)
	assert.EqualValues(t, cleanupAttempts, f.store.deletes)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.StorageCleanupFailures))
}

func TestList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 23; i++ {
		require.NoError(t, f.repo.Create(ctx, &document.PdfDocument{
			OwnerID:   "u1",
			FileName:  fmt.Sprintf("file-%02d.pdf", i),
			CreatedAt: time.Date(2024, 1, 1, 0, i, 0, 0, time.UTC),
		}))
	}

	res, err := f.svc.List(ctx, "u1", 0, 0, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.CurrentPage)
	assert.EqualValues(t, 3, res.TotalPages)
	require.Len(t, res.Items, DefaultLimit)
	assert.Equal(t, "file-22.pdf", res.Items[0].FileName)

	res, err = f.svc.List(ctx, "u1", 3, 10, "")
	require.NoError(t, err)
	assert.Len(t, res.Items, 3)

	res, err = f.svc.List(ctx, "u1", 4, 10, "")
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.EqualValues(t, 3, res.TotalPages)

	res, err = f.svc.List(ctx, "u1", 1, 1000, "")
	require.NoError(t, err)
	assert.Len(t, res.Items, 23)
	assert.EqualValues(t, 1, res.TotalPages)

	res, err = f.svc.List(ctx, "u1", 1, 10, "FILE-1")
	require.NoError(t, err)
	assert.Len(t, res.Items, 10)
	assert.True(t, strings.HasPrefix(res.Items[0].FileName, "file-1"))

	res, err = f.svc.List(ctx, "nobody", 1, 10, "")
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.EqualValues(t, 0, res.TotalPages)
}

func TestList_PageFarPastTheEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, f.repo.Create(ctx, &document.PdfDocument{OwnerID: "u1", FileName: fmt.Sprintf("f%d.pdf", i)}))
	}

	for _, page := range []int{math.MaxInt64/10 + 2, math.MaxInt64, math.MaxInt64 / 100} {
		res, err := f.svc.List(ctx, "u1", page, 10, "")
		require.NoError(t, err, "page %d", page)
		assert.Empty(t, res.Items, "page %d", page)
		assert.EqualValues(t, 1, res.TotalPages)
		assert.EqualValues(t, page, res.CurrentPage)
	}

	res, err := f.svc.List(ctx, "u1", math.MaxInt64, MaxListLimit, "")
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

func TestPageOffset(t *testing.T) {
	assert.EqualValues(t, 0, pageOffset(1, 10))
	assert.EqualValues(t, 20, pageOffset(3, 10))
	assert.EqualValues(t, math.MaxInt64-10, pageOffset(math.MaxInt64, 10))
	assert.EqualValues(t, math.MaxInt64-1, pageOffset(math.MaxInt64, 1))
	assert.Positive(t, pageOffset(math.MaxInt64/10+2, 10))
}

func TestExtract_ReorderAndDeleteSource(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	src, err := f.svc.Upload(ctx, "u1", "source.pdf", threePages())
	require.NoError(t, err)

	doc, err := f.svc.Extract(ctx, ExtractInput{
		OwnerID:      "u1",
		SourceID:     src.ID,
		Pages:        []int{2, 1},
		FileName:     "out.pdf",
		DeleteSource: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "out.pdf", doc.FileName)
	assert.Equal(t, 2, doc.PageCount)

	_, err = f.repo.Get(ctx, src.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound, "source record removed")
	assert.Equal(t, 1, f.store.Len(), "source object removed, new object kept")

	data, err := f.store.Download(ctx, doc.StorageURL)
	require.NoError(t, err)
	pages, err := extractortest.Inspect(data)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, float64(extractortest.Width(2)), pages[0].Width)
	assert.Contains(t, pages[0].Content, "(page 2)")
	assert.Equal(t, float64(extractortest.Width(1)), pages[1].Width)
	assert.Contains(t, pages[1].Content, "(page 1)")
}

func TestExtract_KeepSource(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	src, err := f.svc.Upload(ctx, "u1", "source.pdf", threePages())
	require.NoError(t, err)

	_, err = f.svc.Extract(ctx, ExtractInput{OwnerID: "u1", SourceID: src.ID, Pages: []int{3, 3}, FileName: "twice.pdf"})
	require.NoError(t, err)

	_, err = f.repo.Get(ctx, src.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, f.store.Len())
}

func TestExtract_Failures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	src, err := f.svc.Upload(ctx, "u1", "source.pdf", threePages())
	require.NoError(t, err)
	_, err = f.svc.Upload(ctx, "u1", "taken.pdf", threePages())
	require.NoError(t, err)

	tests := []struct {
		name string
		in   ExtractInput
		code apperror.Code
	}{
		{"unknown source", ExtractInput{OwnerID: "u1", SourceID: "missing", Pages: []int{1}, FileName: "x.pdf"}, apperror.SourceNotFound},
		{"other owner", ExtractInput{OwnerID: "u2", SourceID: src.ID, Pages: []int{1}, FileName: "x.pdf"}, apperror.SourceNotFound},
		{"name taken", ExtractInput{OwnerID: "u1", SourceID: src.ID, Pages: []int{1}, FileName: "taken.pdf"}, apperror.DuplicateName},
		{"out of range", ExtractInput{OwnerID: "u1", SourceID: src.ID, Pages: []int{1, 4}, FileName: "x.pdf"}, apperror.PageIndexOutOfRange},
		{"zero page", ExtractInput{OwnerID: "u1", SourceID: src.ID, Pages: []int{0}, FileName: "x.pdf"}, apperror.PageIndexOutOfRange},
		{"no pages", ExtractInput{OwnerID: "u1", SourceID: src.ID, FileName: "x.pdf"}, apperror.InvalidPages},
		{"no name", ExtractInput{OwnerID: "u1", SourceID: src.ID, Pages: []int{1}}, apperror.FileNameRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := f.store.Len()
			_, err := f.svc.Extract(ctx, tt.in)
			requireCode(t, err, tt.code)
			assert.Equal(t, before, f.store.Len(), "no object written")

			exists, err := f.repo.ExistsByOwnerAndName(ctx, "u1", "x.pdf")
			require.NoError(t, err)
			assert.False(t, exists, "no record written")
		})
	}
}

func TestExtract_OutOfRangeMessage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	src, err := f.svc.Upload(ctx, "u1", "source.pdf", threePages())
	require.NoError(t, err)

	_, err = f.svc.Extract(ctx, ExtractInput{OwnerID: "u1", SourceID: src.ID, Pages: []int{7}, FileName: "x.pdf"})
	require.Error(t, err)
	assert.Contains(t, apperror.From(err).Message, "Page 7")
}

func TestExtract_DownloadAndUploadFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	src, err := f.svc.Upload(ctx, "u1", "source.pdf", threePages())
	require.NoError(t, err)

	f.store.downloadErr = errors.New("timeout")
	_, err = f.svc.Extract(ctx, ExtractInput{OwnerID: "u1", SourceID: src.ID, Pages: []int{1}, FileName: "x.pdf"})
	requireCode(t, err, apperror.DownloadFailed)
	assert.Equal(t, http.StatusBadGateway, apperror.From(err).Status)

	f.store.downloadErr = nil
	f.store.uploadErr = errors.New("quota exceeded")
	_, err = f.svc.Extract(ctx, ExtractInput{OwnerID: "u1", SourceID: src.ID, Pages: []int{1}, FileName: "x.pdf"})
	requireCode(t, err, apperror.UploadFailed)
}

func TestExtract_MalformedStoredSource(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	obj, err := f.store.MemoryStorage.Upload(ctx, []byte("garbage"), "bad.pdf")
	require.NoError(t, err)
	src := &document.PdfDocument{OwnerID: "u1", FileName: "bad.pdf", StorageURL: obj.URL, StorageID: obj.ID}
	require.NoError(t, f.repo.Create(ctx, src))

	_, err = f.svc.Extract(ctx, ExtractInput{OwnerID: "u1", SourceID: src.ID, Pages: []int{1}, FileName: "x.pdf"})
	requireCode(t, err, apperror.MalformedDocument)
}

type failingDeleteRepo struct {
	*repository.MemoryRepo
}

func (failingDeleteRepo) Delete(context.Context, string) error {
	return errors.New("write concern timeout")
}

func TestExtract_SourceDeleteFailureKeepsNewDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	src, err := f.svc.Upload(ctx, "u1", "source.pdf", threePages())
	require.NoError(t, err)
	f.svc.repo = failingDeleteRepo{f.repo}
	before := testutil.ToFloat64(metrics.SourceDeleteFailures)

	doc, err := f.svc.Extract(ctx, ExtractInput{OwnerID: "u1", SourceID: src.ID, Pages: []int{1}, FileName: "x.pdf", DeleteSource: true})
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "x.pdf", doc.FileName)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.SourceDeleteFailures))

	_, err = f.repo.Get(ctx, src.ID)
	assert.NoError(t, err, "source record remains")
	exists, err := f.repo.ExistsByOwnerAndName(ctx, "u1", "x.pdf")
	require.NoError(t, err)
	assert.True(t, exists, "new record remains")
	assert.Equal(t, 2, f.store.Len(), "source object kept while its record exists")
}
