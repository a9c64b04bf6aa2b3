// internal/domain/models/comment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommentLike is a per-user like embedded on a comment document.
//
// NOTE: comment likes stay embedded while post likes are a standalone
// collection. The two have different uniqueness/ownership mechanics and are
// deliberately not unified.
type CommentLike struct {
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Comment is a user comment on a post.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Text      string             `bson:"text" json:"text"`
	AuthorID  primitive.ObjectID `bson:"author_id" json:"author_id"`
	PostID    primitive.ObjectID `bson:"post_id" json:"post_id"`
	Likes     []CommentLike      `bson:"likes" json:"likes"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
