package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"tedbus_server/server/domain"
)

const filesCollection = "files"

// FileRepository appends upload metadata documents. It enforces no key
// uniqueness; keys are unique by construction upstream.
type FileRepository struct {
	coll *mongo.Collection
}

func NewFileRepository(db *mongo.Database) *FileRepository {
	return &FileRepository{coll: db.Collection(filesCollection)}
}

func (r *FileRepository) Insert(ctx context.Context, rec domain.FileRecord) (string, error) {
	res, err := r.coll.InsertOne(ctx, rec)
	if err != nil {
		return "", err
	}
	return insertedIDString(res), nil
}
