// Package apperror defines the error taxonomy shared by services and the
// HTTP layer. Services return *AppError; the HTTP layer maps Status and
// Message onto the response envelope.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/NithinKS007/PDF-extractor-server/internal/messages"
)

// Kind sentinels. errors.Is(err, ErrNotFound) works on any *AppError of that kind.
var (
	ErrValidation = errors.New("validation")
	ErrConflict   = errors.New("conflict")
	ErrAuth       = errors.New("auth")
	ErrNotFound   = errors.New("not found")
	ErrUpstream   = errors.New("upstream")
	ErrInternal   = errors.New("internal")
)

type Code string

const (
	MissingFields       Code = "MISSING_FIELDS"
	InvalidInput        Code = "INVALID_INPUT"
	NoFileToUpload      Code = "NO_FILE_TO_UPLOAD"
	FileNameRequired    Code = "FILE_NAME_REQUIRED"
	PdfOnly             Code = "PDF_ONLY"
	FileTooLarge        Code = "FILE_TOO_LARGE"
	InvalidPages        Code = "INVALID_PAGES"
	InvalidPdfID        Code = "INVALID_PDF_ID"
	MalformedDocument   Code = "MALFORMED_DOCUMENT"
	PageIndexOutOfRange Code = "PAGE_INDEX_OUT_OF_RANGE"
	EmailConflict       Code = "EMAIL_CONFLICT"
	DuplicateName       Code = "DUPLICATE_NAME"
	UserNotFound        Code = "USER_NOT_FOUND"
	IncorrectPassword   Code = "INCORRECT_PASSWORD"
	MissingAuthHeader   Code = "MISSING_AUTH_HEADER"
	NoAccessToken       Code = "NO_ACCESS_TOKEN"
	InvalidToken        Code = "INVALID_TOKEN"
	NoRefreshToken      Code = "NO_REFRESH_TOKEN"
	SourceNotFound      Code = "SOURCE_NOT_FOUND"
	UploadFailed        Code = "UPLOAD_FAILED"
	DownloadFailed      Code = "DOWNLOAD_FAILED"
	RateLimited         Code = "RATE_LIMITED"
	Internal            Code = "INTERNAL"
)

type entry struct {
	kind    error
	status  int
	message string
}

var catalog = map[Code]entry{
	MissingFields:       {ErrValidation, http.StatusBadRequest, messages.AllFieldsRequired},
	InvalidInput:        {ErrValidation, http.StatusBadRequest, messages.InvalidRequest},
	NoFileToUpload:      {ErrValidation, http.StatusBadRequest, messages.NoFileToUpload},
	FileNameRequired:    {ErrValidation, http.StatusBadRequest, messages.FileNameRequired},
	PdfOnly:             {ErrValidation, http.StatusBadRequest, messages.PdfOnlyAllowed},
	FileTooLarge:        {ErrValidation, http.StatusRequestEntityTooLarge, messages.FileTooLarge},
	InvalidPages:        {ErrValidation, http.StatusBadRequest, messages.PagesRequired},
	InvalidPdfID:        {ErrValidation, http.StatusBadRequest, messages.InvalidPdfID},
	MalformedDocument:   {ErrValidation, http.StatusBadRequest, messages.MalformedPdf},
	PageIndexOutOfRange: {ErrValidation, http.StatusBadRequest, messages.PageIndexOutOfRange},
	EmailConflict:       {ErrConflict, http.StatusBadRequest, messages.EmailConflict},
	DuplicateName:       {ErrConflict, http.StatusBadRequest, messages.NameAlreadyExists},
	UserNotFound:        {ErrAuth, http.StatusBadRequest, messages.UserNotFound},
	IncorrectPassword:   {ErrAuth, http.StatusBadRequest, messages.IncorrectPassword},
	MissingAuthHeader:   {ErrAuth, http.StatusUnauthorized, messages.AuthHeaderMissing},
	NoAccessToken:       {ErrAuth, http.StatusUnauthorized, messages.NoAccessToken},
	InvalidToken:        {ErrAuth, http.StatusUnauthorized, messages.InvalidToken},
	NoRefreshToken:      {ErrAuth, http.StatusForbidden, messages.NoRefreshToken},
	SourceNotFound:      {ErrNotFound, http.StatusNotFound, messages.PdfNotFound},
	UploadFailed:        {ErrUpstream, http.StatusBadGateway, messages.FailedToUpload},
	DownloadFailed:      {ErrUpstream, http.StatusBadGateway, messages.FailedToGetPdfData},
	RateLimited:         {ErrValidation, http.StatusTooManyRequests, messages.TooManyRequests},
	Internal:            {ErrInternal, http.StatusInternalServerError, messages.InternalServerError},
}

// AppError carries a catalog code, its HTTP status and user-facing message,
// plus the underlying cause for logs.
type AppError struct {
	Kind    error
	Code    Code
	Status  int
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// Is matches another *AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// New builds an error for code with the catalog message.
func New(code Code) *AppError {
	return Wrap(code, nil)
}

// Wrap builds an error for code carrying cause.
func Wrap(code Code, cause error) *AppError {
	ent, ok := catalog[code]
	if !ok {
		ent = catalog[Internal]
		code = Internal
	}
	return &AppError{Kind: ent.kind, Code: code, Status: ent.status, Message: ent.message, Cause: cause}
}

// WithMessage overrides the catalog message.
func (e *AppError) WithMessage(msg string) *AppError {
	cp := *e
	cp.Message = msg
	return &cp
}

// From returns err as an *AppError, mapping anything unknown to Internal.
func From(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return Wrap(Internal, err)
}

// HasCode reports whether err is an *AppError with the given code.
func HasCode(err error, code Code) bool {
	var ae *AppError
	return errors.As(err, &ae) && ae.Code == code
}
