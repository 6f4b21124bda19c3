// Package messages is the catalog of user-facing response strings.
package messages

// Auth
const (
	AllFieldsRequired    = "All fields are required."
	EmailConflict        = "The email address you entered already exists in our system."
	UserCreated          = "Your account has been created successfully."
	UserNotFound         = "Cannot find an email address with the provided email"
	IncorrectPassword    = "Incorrect password"
	LoggedIn             = "Logged in successfully"
	LoggedOut            = "Logged out successfully"
	AccessTokenRefreshed = "Access token refreshed successfully"
	NoRefreshToken       = "No refresh token"
	AuthHeaderMissing    = "Authentication header is missing"
	NoAccessToken        = "No access Token"
	InvalidToken         = "Invalid or expired token"
	InvalidEmail         = "Please provide a valid email address."
	PasswordTooLong      = "Password must be at most 72 bytes."
)

// PDF
const (
	NoFileToUpload      = "No file to upload"
	FileNameRequired    = "PDF file name is required"
	NameAlreadyExists   = "A PDF with this name already exists"
	PdfOnlyAllowed      = "Only PDF files are allowed"
	FileTooLarge        = "The uploaded file is too large"
	MalformedPdf        = "The file is not a valid PDF document"
	PageIndexOutOfRange = "One or more selected pages do not exist in the document"
	PagesRequired       = "Select at least one page to extract"
	InvalidPdfID        = "Invalid PDF id"
	PdfNotFound         = "Failed to retrieve PDF data"
	FailedToUpload      = "Failed to upload the PDF to storage"
	FailedToGetPdfData  = "Failed to fetch the PDF from storage"
	PdfUploaded         = "PDF uploaded successfully"
	PdfExtracted        = "PDF pages extracted successfully"
	PdfListRetrieved    = "PDF data retrieved successfully"
)

// General
const (
	InvalidRequest      = "Invalid request body"
	TooManyRequests     = "Too many requests"
	InternalServerError = "Internal server error. Please try again later."
)
