package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Creator is the resolved {id, name} view of a post's author.
type Creator struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Post is a single entry in the posts collection. Creator never changes
// after insertion.
type Post struct {
	ID        primitive.ObjectID `json:"_id"       bson:"_id,omitempty"`
	Title     string             `json:"title"     bson:"title"`
	Content   string             `json:"content"   bson:"content"`
	ImageURL  string             `json:"imageUrl"  bson:"imageUrl"`
	Creator   primitive.ObjectID `json:"creator"   bson:"creator"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// PostInput is the create/update payload (REST body and GraphQL postInput).
type PostInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
}

// PostPage is one page of the feed plus the total post count.
type PostPage struct {
	Posts      []Post `json:"posts"`
	TotalItems int64  `json:"totalItems"`
}
