package repository

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NithinKS007/PDF-extractor-server/internal/document"
)

// MongoRepo implements a MongoDB-backed registry. Records are keyed by
// xid strings stored in _id.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

// EnsureIndexes creates the per-owner unique name index and the listing index.
func (m *MongoRepo) EnsureIndexes(ctx context.Context) error {
	_, err := m.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "fileName", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("owner_fileName_unique"),
		},
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("owner_createdAt"),
		},
	})
	return err
}

func (m *MongoRepo) Create(ctx context.Context, d *document.PdfDocument) error {
	stamp(d)
	if _, err := m.col.InsertOne(ctx, d); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateName
		}
		return err
	}
	return nil
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*document.PdfDocument, error) {
	var d document.PdfDocument
	if err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (m *MongoRepo) ExistsByOwnerAndName(ctx context.Context, ownerID, fileName string) (bool, error) {
	n, err := m.col.CountDocuments(ctx, bson.M{"ownerId": ownerID, "fileName": fileName}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func listFilter(opts ListOptions) bson.M {
	filter := bson.M{"ownerId": opts.OwnerID}
	if opts.Prefix != "" {
		filter["fileName"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(opts.Prefix), Options: "i"}
	}
	return filter
}

func (m *MongoRepo) List(ctx context.Context, opts ListOptions) ([]*document.PdfDocument, int64, error) {
	filter := listFilter(opts)
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	total, err := m.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(opts.Offset)
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}
	cur, err := m.col.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	out := []*document.PdfDocument{}
	for cur.Next(ctx) {
		var d document.PdfDocument
		if err := cur.Decode(&d); err != nil {
			return nil, 0, err
		}
		out = append(out, &d)
	}
	if err := cur.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (m *MongoRepo) Delete(ctx context.Context, id string) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
