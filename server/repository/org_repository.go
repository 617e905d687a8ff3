package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tedbus_server/server/domain"
)

const (
	orgsCollection      = "orgs"
	documentsCollection = "documents"
)

type OrgRepository struct {
	orgs      *mongo.Collection
	documents *mongo.Collection
}

func NewOrgRepository(db *mongo.Database) *OrgRepository {
	return &OrgRepository{
		orgs:      db.Collection(orgsCollection),
		documents: db.Collection(documentsCollection),
	}
}

type documentDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	domain.Document `bson:",inline"`
}

func (r *OrgRepository) InsertOrg(ctx context.Context, org domain.Org) (string, error) {
	res, err := r.orgs.InsertOne(ctx, org)
	if err != nil {
		return "", err
	}
	return insertedIDString(res), nil
}

func (r *OrgRepository) InsertDocument(ctx context.Context, doc domain.Document) (string, error) {
	res, err := r.documents.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	return insertedIDString(res), nil
}

func (r *OrgRepository) ListDocumentsByOrg(ctx context.Context, orgID string) ([]domain.Document, error) {
	cur, err := r.documents.Find(ctx, bson.D{{Key: "org_id", Value: orgID}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	docs := make([]domain.Document, 0)
	for cur.Next(ctx) {
		var doc documentDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		item := doc.Document
		item.ID = doc.ID.Hex()
		docs = append(docs, item)
	}
	return docs, cur.Err()
}

func insertedIDString(res *mongo.InsertOneResult) string {
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprintf("%v", res.InsertedID)
}
