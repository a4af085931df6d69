package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the typed view of a users document. Profile fields beyond these are
// free-form and pass through the API untouched, so reads that must round-trip
// arbitrary fields decode bson.M instead.
type User struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email string             `bson:"email" json:"email"`
	Role  string             `bson:"role" json:"role"`
}
