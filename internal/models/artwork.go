package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is a comment embedded in an artwork document.
type Comment struct {
	ID        primitive.ObjectID   `json:"id" bson:"_id"`
	User      primitive.ObjectID   `json:"user" bson:"user"`
	Content   string               `json:"content" bson:"content"`
	Likes     []primitive.ObjectID `json:"likes" bson:"likes"`
	CreatedAt time.Time            `json:"createdAt" bson:"createdAt"`
}

// Artwork represents an uploaded work stored in MongoDB. Likes and comments
// are embedded; the creator owns the document.
type Artwork struct {
	ID           primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Title        string               `json:"title" bson:"title"`
	Description  string               `json:"description,omitempty" bson:"description,omitempty"`
	ThumbnailURL string               `json:"thumbnailUrl" bson:"thumbnailUrl"`
	ImageURLs    []string             `json:"imageUrls" bson:"imageUrls"`
	VideoURL     string               `json:"videoUrl,omitempty" bson:"videoUrl,omitempty"`
	YoutubeURL   string               `json:"youtubeUrl,omitempty" bson:"youtubeUrl,omitempty"`
	ArtStyle     string               `json:"artStyle" bson:"artStyle"`
	Software     []string             `json:"software" bson:"software"`
	Tags         []string             `json:"tags" bson:"tags"`
	Creator      primitive.ObjectID   `json:"creator" bson:"creator"`
	Likes        []primitive.ObjectID `json:"likes" bson:"likes"`
	Comments     []Comment            `json:"comments" bson:"comments"`
	Views        int64                `json:"views" bson:"views"`
	CreatedAt    time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// LikedBy reports whether userID is in the artwork's like set.
func (a *Artwork) LikedBy(userID primitive.ObjectID) bool {
	for _, id := range a.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// CommentByID returns the embedded comment with the given id, or nil.
func (a *Artwork) CommentByID(id primitive.ObjectID) *Comment {
	for i := range a.Comments {
		if a.Comments[i].ID == id {
			return &a.Comments[i]
		}
	}
	return nil
}

// LikedBy reports whether userID is in the comment's like set.
func (c *Comment) LikedBy(userID primitive.ObjectID) bool {
	for _, id := range c.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// CreateArtworkRequest defines the metadata fields of an upload. Media files
// arrive alongside it as multipart parts; software and tags are JSON-encoded
// form values.
type CreateArtworkRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=100"`
	Description string   `json:"description" validate:"omitempty,max=1000"`
	ArtStyle    string   `json:"artStyle" validate:"required,max=50"`
	Software    []string `json:"software" validate:"omitempty,dive,max=50"`
	Tags        []string `json:"tags" validate:"omitempty,dive,max=30"`
	YoutubeURL  string   `json:"youtubeUrl" validate:"omitempty,url,max=200"`
}

// AddCommentRequest defines the request body for commenting on an artwork.
type AddCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}
