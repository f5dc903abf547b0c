package users

import "errors"

var ErrNotFound = errors.New("user not found")

// User is a document in the users collection. ObjectID ids decode to their hex form.
type User struct {
	ID             string `bson:"_id,omitempty"`
	Username       string `bson:"username"`
	Email          string `bson:"email"`
	Role           string `bson:"role"`
	HashedPassword string `bson:"hashed_password,omitempty"`
}

// UpdateResult carries the counts reported by the server for a targeted write.
type UpdateResult struct {
	Matched  int64
	Modified int64
}
