package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered account.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	ProfilePic   string             `bson:"profile_pic,omitempty" json:"profile_pic,omitempty"`
}

// Task is a single todo item. Position is the zero-based rank of the task
// within its (owner, category) group and defines display order.
type Task struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID   string             `bson:"owner_id" json:"owner_id"`
	Title     string             `bson:"title" json:"title"`
	Category  string             `bson:"category" json:"category"`
	Completed bool               `bson:"completed" json:"completed"`
	Important bool               `bson:"important" json:"important"`
	DueDate   *time.Time         `bson:"due_date,omitempty" json:"due_date,omitempty"`
	Position  int                `bson:"order_position" json:"order_position"`
}

// CustomList is a user-defined category name. Names are unique per owner.
type CustomList struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	OwnerID string             `bson:"owner_id" json:"-"`
	Name    string             `bson:"list_name" json:"list_name"`
}
