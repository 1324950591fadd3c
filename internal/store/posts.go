package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nikhilv/blogfeed/internal/apperr"
	"github.com/nikhilv/blogfeed/internal/models"
)

const postsCollection = "posts"

// PostStore handles post CRUD against the posts collection.
type PostStore struct {
	col *mongo.Collection
}

func NewPostStore(db *mongo.Database) *PostStore {
	return &PostStore{col: db.Collection(postsCollection)}
}

func (s *PostStore) Insert(ctx context.Context, post *models.Post) (*models.Post, error) {
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	res, err := s.col.InsertOne(ctx, post)
	if err != nil {
		return nil, apperr.Wrap(apperr.StoreError, "Creating post failed.", err)
	}
	post.ID = res.InsertedID.(primitive.ObjectID)
	return post, nil
}

func (s *PostStore) GetByID(ctx context.Context, id string) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.New(apperr.NotFound, "Could not find post.")
	}
	var post models.Post
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.New(apperr.NotFound, "Could not find post.")
		}
		return nil, apperr.Wrap(apperr.StoreError, "Fetching post failed.", err)
	}
	return &post, nil
}

// Update persists the mutable fields and refreshes updatedAt. The creator
// field is deliberately excluded from the update document.
func (s *PostStore) Update(ctx context.Context, post *models.Post) error {
	post.UpdatedAt = time.Now()
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": post.ID}, bson.M{"$set": bson.M{
		"title":     post.Title,
		"content":   post.Content,
		"imageUrl":  post.ImageURL,
		"updatedAt": post.UpdatedAt,
	}})
	if err != nil {
		return apperr.Wrap(apperr.StoreError, "Updating post failed.", err)
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "Could not find post.")
	}
	return nil
}

func (s *PostStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Wrap(apperr.StoreError, "Deleting post failed.", err)
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "Could not find post.")
	}
	return nil
}

func (s *PostStore) Count(ctx context.Context) (int64, error) {
	total, err := s.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, apperr.Wrap(apperr.StoreError, "Counting posts failed.", err)
	}
	return total, nil
}

// Page returns one page of posts in creation order. Pages are 1-based;
// a page past the end yields an empty slice.
func (s *PostStore) Page(ctx context.Context, page, perPage int) ([]models.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64((page - 1) * perPage)).
		SetLimit(int64(perPage))
	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperr.Wrap(apperr.StoreError, "Fetching posts failed.", err)
	}
	defer cur.Close(ctx)

	posts := []models.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, apperr.Wrap(apperr.StoreError, "Fetching posts failed.", err)
	}
	return posts, nil
}
