package handler

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/xid"

	"github.com/NithinKS007/PDF-extractor-server/internal/apperror"
	"github.com/NithinKS007/PDF-extractor-server/internal/document"
	"github.com/NithinKS007/PDF-extractor-server/internal/document/service"
	"github.com/NithinKS007/PDF-extractor-server/internal/messages"
	"github.com/NithinKS007/PDF-extractor-server/pkg/middleware"
	"github.com/NithinKS007/PDF-extractor-server/pkg/respond"
)

const pdfMIME = "application/pdf"

// Service is satisfied by *service.Service.
type Service interface {
	Upload(ctx context.Context, ownerID, fileName string, data []byte) (*document.PdfDocument, error)
	List(ctx context.Context, ownerID string, page, limit int, search string) (*service.ListResult, error)
	Extract(ctx context.Context, in service.ExtractInput) (*document.PdfDocument, error)
}

type ExtractRequest struct {
	Pages             []int  `json:"pages" binding:"required,min=1"`
	FileName          string `json:"fileName" binding:"required"`
	DeleteExistingPdf bool   `json:"deleteExistingPdf"`
}

type handler struct {
	svc      Service
	maxBytes int64
}

// RegisterPDFRoutes mounts the /pdf routes on rg. rg must already carry
// the auth middleware.
func RegisterPDFRoutes(rg *gin.RouterGroup, svc Service, maxUploadBytes int64) {
	h := &handler{svc: svc, maxBytes: maxUploadBytes}
	p := rg.Group("/pdf")
	p.POST("/upload", h.upload)
	p.GET("/retrieve", h.retrieve)
	p.POST("/extract/:pdfId", h.extract)
}

func (h *handler) upload(c *gin.Context) {
	// multipart framing overhead on top of the file itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+1<<20)

	fh, err := c.FormFile("file")
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			respond.Error(c, apperror.Wrap(apperror.FileTooLarge, err))
			return
		}
		respond.Error(c, apperror.Wrap(apperror.NoFileToUpload, err))
		return
	}
	if fh.Size > h.maxBytes {
		respond.Error(c, apperror.New(apperror.FileTooLarge))
		return
	}
	if mt, _, err := mime.ParseMediaType(fh.Header.Get("Content-Type")); err != nil || mt != pdfMIME {
		respond.Error(c, apperror.New(apperror.PdfOnly))
		return
	}

	f, err := fh.Open()
	if err != nil {
		respond.Error(c, apperror.Wrap(apperror.Internal, err))
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		respond.Error(c, apperror.Wrap(apperror.Internal, err))
		return
	}

	doc, err := h.svc.Upload(c.Request.Context(), middleware.UserID(c), c.PostForm("fileName"), data)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusCreated, messages.PdfUploaded, gin.H{"pdfData": doc})
}

func (h *handler) retrieve(c *gin.Context) {
	page := queryInt(c, "page")
	limit := queryInt(c, "limit")

	res, err := h.svc.List(c.Request.Context(), middleware.UserID(c), page, limit, c.Query("searchQuery"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, messages.PdfListRetrieved, gin.H{
		"pdfs":        res.Items,
		"totalPages":  res.TotalPages,
		"currentPage": res.CurrentPage,
	})
}

func (h *handler) extract(c *gin.Context) {
	id := c.Param("pdfId")
	if _, err := xid.FromString(id); err != nil {
		respond.Error(c, apperror.Wrap(apperror.InvalidPdfID, err))
		return
	}

	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, bindError(req, err))
		return
	}

	doc, err := h.svc.Extract(c.Request.Context(), service.ExtractInput{
		OwnerID:      middleware.UserID(c),
		SourceID:     id,
		Pages:        req.Pages,
		FileName:     req.FileName,
		DeleteSource: req.DeleteExistingPdf,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusCreated, messages.PdfExtracted, gin.H{"newCreatedPdf": doc})
}

// queryInt returns 0 for absent or non-numeric values; the service applies defaults.
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}

func bindError(req ExtractRequest, err error) error {
	switch {
	case req.FileName == "" && len(req.Pages) > 0:
		return apperror.Wrap(apperror.FileNameRequired, err)
	case len(req.Pages) == 0:
		return apperror.Wrap(apperror.InvalidPages, err)
	}
	return apperror.Wrap(apperror.InvalidInput, err)
}
