package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types. A notification is written once at fan-out time and only
// its read flag is mutated afterwards.
const (
	NotificationLike        = "like"
	NotificationComment     = "comment"
	NotificationFollow      = "follow"
	NotificationCommentLike = "commentLike"
)

// Notification represents a delivered event stored in MongoDB. Each
// notification has exactly one recipient and is additionally indexed in that
// recipient's User.Notifications array.
type Notification struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Recipient primitive.ObjectID `json:"recipient" bson:"recipient"`
	Sender    primitive.ObjectID `json:"sender" bson:"sender"`
	Type      string             `json:"type" bson:"type"`
	ArtworkID primitive.ObjectID `json:"artworkId,omitempty" bson:"artworkId,omitempty"`
	CommentID primitive.ObjectID `json:"commentId,omitempty" bson:"commentId,omitempty"`
	Read      bool               `json:"read" bson:"read"`
	Content   string             `json:"content" bson:"content"`
	Link      string             `json:"link" bson:"link"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// NewNotification builds a notification for the given event, deriving the
// rendered content and navigation link from the type. commentID is only
// meaningful for commentLike events; artworkID is ignored for follow events.
func NewNotification(recipient primitive.ObjectID, sender *User, notifType string, artworkID, commentID primitive.ObjectID) *Notification {
	n := &Notification{
		Recipient: recipient,
		Sender:    sender.ID,
		Type:      notifType,
	}

	switch notifType {
	case NotificationLike:
		n.ArtworkID = artworkID
		n.Content = fmt.Sprintf("%s liked your artwork", sender.Name)
		n.Link = fmt.Sprintf("/artwork/%s", artworkID.Hex())
	case NotificationComment:
		n.ArtworkID = artworkID
		n.Content = fmt.Sprintf("%s commented on your artwork", sender.Name)
		n.Link = fmt.Sprintf("/artwork/%s", artworkID.Hex())
	case NotificationFollow:
		n.Content = fmt.Sprintf("%s started following you", sender.Name)
		n.Link = fmt.Sprintf("/profile/%s", sender.Username)
	case NotificationCommentLike:
		n.ArtworkID = artworkID
		n.CommentID = commentID
		n.Content = fmt.Sprintf("%s liked your comment", sender.Name)
		n.Link = fmt.Sprintf("/artwork/%s#comment-%s", artworkID.Hex(), commentID.Hex())
	}

	return n
}
