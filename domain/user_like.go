package domain

import "fmt"

type LikeAction int8

const (
	Like   LikeAction = 1
	Unlike LikeAction = -1
)

func (l LikeAction) String() string {
	switch l {
	case Like:
		return "add"
	case Unlike:
		return "remove"
	default:
		return "unknown"
	}
}

func (l LikeAction) MarshalText() ([]byte, error) {
	if l != Like && l != Unlike {
		return nil, fmt.Errorf("unsupported like action %d", l)
	}
	return []byte(l.String()), nil
}

// LikeEvent is the payload of EventAddLike and EventRemoveLike.
type LikeEvent struct {
	ArticleID string     `json:"articleId"`
	UserID    string     `json:"userId"`
	Action    LikeAction `json:"action"`
}

func NewLikeEvent(articleID, userID string, action LikeAction) Event {
	name := EventAddLike
	if action == Unlike {
		name = EventRemoveLike
	}
	return Event{
		Name: name,
		Data: LikeEvent{ArticleID: articleID, UserID: userID, Action: action},
	}
}
