package document

import "time"

// PdfDocument is a stored PDF owned by exactly one user.
// (OwnerID, FileName) is unique.
type PdfDocument struct {
	ID         string    `json:"id" bson:"_id"`
	OwnerID    string    `json:"ownerId" bson:"ownerId"`
	FileName   string    `json:"fileName" bson:"fileName"`
	StorageURL string    `json:"storageUrl" bson:"storageUrl"`
	StorageID  string    `json:"storageId" bson:"storageId"`
	PageCount  int       `json:"pageCount" bson:"pageCount"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updatedAt"`
}
