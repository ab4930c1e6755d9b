package domain

import "context"

type EventName string

const (
	EventNewComment EventName = "newComment"
	EventAddLike    EventName = "addLike"
	EventRemoveLike EventName = "removeLike"
)

// Event is what subscribers receive: {"event": <name>, "data": <payload>}.
type Event struct {
	Name EventName `json:"event"`
	Data any       `json:"data"`
}

// CommentEvent is the payload of EventNewComment.
type CommentEvent struct {
	ArticleID string  `json:"articleId"`
	Comment   Comment `json:"comment"`
}

func NewCommentEvent(articleID string, c Comment) Event {
	return Event{
		Name: EventNewComment,
		Data: CommentEvent{ArticleID: articleID, Comment: c},
	}
}

// EventBroadcaster fans an event out to connected subscribers.
// Delivery is best effort.
type EventBroadcaster interface {
	Emit(ctx context.Context, ev Event) error
}
