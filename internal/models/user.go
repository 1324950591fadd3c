package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is a registered account in the users collection. Posts holds the
// ids of posts created by this user, maintained alongside post mutations.
type User struct {
	ID       primitive.ObjectID   `json:"_id"    bson:"_id,omitempty"`
	Email    string               `json:"email"  bson:"email"`
	Name     string               `json:"name"   bson:"name"`
	Password string               `json:"-"      bson:"password"` // never serialize
	Status   string               `json:"status" bson:"status"`
	Posts    []primitive.ObjectID `json:"posts"  bson:"posts"`
}

// UserInput is the signup payload (REST body and GraphQL userInput).
type UserInput struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginInput is the login payload.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthData is returned on successful login.
type AuthData struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}
