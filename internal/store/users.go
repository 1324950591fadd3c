package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nikhilv/blogfeed/internal/apperr"
	"github.com/nikhilv/blogfeed/internal/models"
)

const usersCollection = "users"

// UserStore handles user CRUD against the users collection.
type UserStore struct {
	col *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{col: db.Collection(usersCollection)}
}

func (s *UserStore) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if user.Posts == nil {
		user.Posts = []primitive.ObjectID{}
	}
	res, err := s.col.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.New(apperr.Conflict, "User exists already.")
		}
		return nil, apperr.Wrap(apperr.StoreError, "Creating user failed.", err)
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return user, nil
}

func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.New(apperr.NotFound, "User not found.")
		}
		return nil, apperr.Wrap(apperr.StoreError, "Fetching user failed.", err)
	}
	return &user, nil
}

func (s *UserStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.New(apperr.NotFound, "User not found.")
	}
	var user models.User
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.New(apperr.NotFound, "User not found.")
		}
		return nil, apperr.Wrap(apperr.StoreError, "Fetching user failed.", err)
	}
	return &user, nil
}

func (s *UserStore) SetStatus(ctx context.Context, id, status string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.New(apperr.NotFound, "User not found.")
	}
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return apperr.Wrap(apperr.StoreError, "Updating status failed.", err)
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "User not found.")
	}
	return nil
}

// AddPost appends a post id to the user's owned list.
func (s *UserStore) AddPost(ctx context.Context, userID, postID primitive.ObjectID) error {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$push": bson.M{"posts": postID}})
	if err != nil {
		return apperr.Wrap(apperr.StoreError, "Linking post to user failed.", err)
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "User not found.")
	}
	return nil
}

// RemovePost removes a post id from the user's owned list.
func (s *UserStore) RemovePost(ctx context.Context, userID, postID primitive.ObjectID) error {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$pull": bson.M{"posts": postID}})
	if err != nil {
		return apperr.Wrap(apperr.StoreError, "Unlinking post from user failed.", err)
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "User not found.")
	}
	return nil
}
