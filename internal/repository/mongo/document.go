package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Guyuepp/go-article-service/domain"
)

// articleDoc is the stored shape of an article. User references are kept as
// the identity strings handed out by the auth layer.
type articleDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	Image     string             `bson:"image,omitempty"`
	Author    string             `bson:"author"`
	PostedBy  string             `bson:"postedBy"`
	Comments  []commentDoc       `bson:"comments"`
	Likes     []string           `bson:"likes"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type commentDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	Text      string             `bson:"text"`
	PostedBy  string             `bson:"postedBy"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type userDoc struct {
	ID       primitive.ObjectID `bson:"_id"`
	Name     string             `bson:"name"`
	Username string             `bson:"username"`
	Email    string             `bson:"email"`
}

// toMS truncates to what a BSON DateTime can hold.
func toMS(t time.Time) time.Time { return t.UTC().Truncate(time.Millisecond) }

func newArticleDoc(a *domain.Article) articleDoc {
	doc := articleDoc{
		Title:     a.Title,
		Content:   a.Content,
		Image:     a.Image,
		Author:    a.Author,
		PostedBy:  a.PostedBy,
		Comments:  make([]commentDoc, 0, len(a.Comments)),
		Likes:     make([]string, 0, len(a.Likes)),
		CreatedAt: toMS(a.CreatedAt),
		UpdatedAt: toMS(a.UpdatedAt),
	}
	doc.Likes = append(doc.Likes, a.Likes...)
	for _, c := range a.Comments {
		doc.Comments = append(doc.Comments, newCommentDoc(&c))
	}
	return doc
}

func newCommentDoc(c *domain.Comment) commentDoc {
	oid, err := primitive.ObjectIDFromHex(c.ID)
	if err != nil {
		oid = primitive.NewObjectID()
	}
	return commentDoc{
		ID:        oid,
		Text:      c.Text,
		PostedBy:  c.PostedBy,
		CreatedAt: toMS(c.CreatedAt),
	}
}

func (d *articleDoc) toDomain() domain.Article {
	res := domain.Article{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Content:   d.Content,
		Image:     d.Image,
		Author:    d.Author,
		PostedBy:  d.PostedBy,
		Comments:  make([]domain.Comment, 0, len(d.Comments)),
		Likes:     make([]string, 0, len(d.Likes)),
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
	res.Likes = append(res.Likes, d.Likes...)
	for _, c := range d.Comments {
		res.Comments = append(res.Comments, c.toDomain())
	}
	return res
}

func (c *commentDoc) toDomain() domain.Comment {
	return domain.Comment{
		ID:        c.ID.Hex(),
		Text:      c.Text,
		PostedBy:  c.PostedBy,
		CreatedAt: c.CreatedAt.UTC(),
	}
}

func (u *userDoc) toDomain() domain.User {
	return domain.User{
		ID:       u.ID.Hex(),
		Name:     u.Name,
		Username: u.Username,
		Email:    u.Email,
	}
}

// Update documents. Each is a single-document atomic operation on the server.

func updateContentDoc(title, content string, now time.Time) bson.D {
	return bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: title},
		{Key: "content", Value: content},
		{Key: "updatedAt", Value: toMS(now)},
	}}}
}

func pushCommentDoc(c commentDoc) bson.D {
	return bson.D{
		{Key: "$push", Value: bson.D{{Key: "comments", Value: c}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: c.CreatedAt}}},
	}
}

func addLikeDoc(userID string) bson.D {
	return bson.D{{Key: "$addToSet", Value: bson.D{{Key: "likes", Value: userID}}}}
}

func pullLikeDoc(userID string) bson.D {
	return bson.D{{Key: "$pull", Value: bson.D{{Key: "likes", Value: userID}}}}
}
