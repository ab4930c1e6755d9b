package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Guyuepp/go-article-service/domain"
)

// ArticleRepository stores articles as single documents with embedded
// comments and likes, so every mutation is one atomic update.
type ArticleRepository struct {
	coll *mongodriver.Collection
}

var _ domain.ArticleRepository = (*ArticleRepository)(nil)

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

// parseID treats a malformed id as "no such document".
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, domain.ErrNotFound
	}
	return oid, nil
}

func (r *ArticleRepository) find(ctx context.Context, op string, filter bson.D) ([]domain.Article, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	res := make([]domain.Article, 0)
	for cur.Next(ctx) {
		var doc articleDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}
		res = append(res, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}
	return res, nil
}

func (r *ArticleRepository) Fetch(ctx context.Context) ([]domain.Article, error) {
	return r.find(ctx, "repository/mongo/Fetch", bson.D{})
}

func (r *ArticleRepository) FetchByAuthor(ctx context.Context, author string) ([]domain.Article, error) {
	return r.find(ctx, "repository/mongo/FetchByAuthor", bson.D{{Key: "author", Value: author}})
}

func (r *ArticleRepository) GetByID(ctx context.Context, id string) (domain.Article, error) {
	const op = "repository/mongo/GetByID"

	oid, err := parseID(id)
	if err != nil {
		return domain.Article{}, err
	}

	var doc articleDoc
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return domain.Article{}, domain.ErrNotFound
		}
		return domain.Article{}, fmt.Errorf("%s: %w", op, err)
	}
	return doc.toDomain(), nil
}

func (r *ArticleRepository) Store(ctx context.Context, a *domain.Article) error {
	const op = "repository/mongo/Store"

	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}

	doc := newArticleDoc(a)
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("%s: insert: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("%s: inserted id type %T", op, res.InsertedID)
	}

	a.ID = oid.Hex()
	a.CreatedAt = doc.CreatedAt
	a.UpdatedAt = doc.UpdatedAt
	if a.Comments == nil {
		a.Comments = []domain.Comment{}
	}
	if a.Likes == nil {
		a.Likes = []string{}
	}
	return nil
}

func (r *ArticleRepository) Update(ctx context.Context, ar *domain.Article) error {
	const op = "repository/mongo/Update"

	oid, err := parseID(ar.ID)
	if err != nil {
		return err
	}

	if ar.UpdatedAt.IsZero() {
		ar.UpdatedAt = time.Now()
	}
	res, err := r.coll.UpdateByID(ctx, oid, updateContentDoc(ar.Title, ar.Content, ar.UpdatedAt))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	ar.UpdatedAt = toMS(ar.UpdatedAt)
	return nil
}

func (r *ArticleRepository) PushComment(ctx context.Context, articleID string, c *domain.Comment) error {
	const op = "repository/mongo/PushComment"

	oid, err := parseID(articleID)
	if err != nil {
		return err
	}

	doc := commentDoc{
		ID:        primitive.NewObjectID(),
		Text:      c.Text,
		PostedBy:  c.PostedBy,
		CreatedAt: toMS(time.Now()),
	}
	res, err := r.coll.UpdateByID(ctx, oid, pushCommentDoc(doc))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}

	c.ID = doc.ID.Hex()
	c.CreatedAt = doc.CreatedAt
	return nil
}

func (r *ArticleRepository) AddLike(ctx context.Context, articleID, userID string) (domain.Article, error) {
	return r.updateLikes(ctx, "repository/mongo/AddLike", articleID, addLikeDoc(userID))
}

func (r *ArticleRepository) RemoveLike(ctx context.Context, articleID, userID string) (domain.Article, error) {
	return r.updateLikes(ctx, "repository/mongo/RemoveLike", articleID, pullLikeDoc(userID))
}

func (r *ArticleRepository) updateLikes(ctx context.Context, op, articleID string, update bson.D) (domain.Article, error) {
	oid, err := parseID(articleID)
	if err != nil {
		return domain.Article{}, err
	}

	var doc articleDoc
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return domain.Article{}, domain.ErrNotFound
		}
		return domain.Article{}, fmt.Errorf("%s: %w", op, err)
	}
	return doc.toDomain(), nil
}

func (r *ArticleRepository) FetchIDs(ctx context.Context, cursor string, limit int64) ([]string, error) {
	const op = "repository/mongo/FetchIDs"

	filter := bson.D{}
	if cursor != "" {
		oid, err := primitive.ObjectIDFromHex(cursor)
		if err != nil {
			return nil, domain.ErrBadParamInput
		}
		filter = bson.D{{Key: "_id", Value: bson.D{{Key: "$gt", Value: oid}}}}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(limit).
		SetProjection(bson.D{{Key: "_id", Value: 1}})

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	ids := make([]string, 0, limit)
	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}
		ids = append(ids, row.ID.Hex())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}
	return ids, nil
}
