package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tedbus_server/server/domain"
)

const postsCollection = "posts"

type PostRepository struct {
	coll *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{coll: db.Collection(postsCollection)}
}

type postDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	domain.Post `bson:",inline"`
}

func (r *PostRepository) Insert(ctx context.Context, post domain.Post) (string, error) {
	res, err := r.coll.InsertOne(ctx, post)
	if err != nil {
		return "", err
	}
	return insertedIDString(res), nil
}

func (r *PostRepository) ListNewestFirst(ctx context.Context) ([]domain.Post, error) {
	cur, err := r.coll.Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	posts := make([]domain.Post, 0)
	for cur.Next(ctx) {
		var doc postDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		post := doc.Post
		post.ID = doc.ID.Hex()
		posts = append(posts, post)
	}
	return posts, cur.Err()
}
