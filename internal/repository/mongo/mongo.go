package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	articlesCollection = "articles"
	usersCollection    = "users"
)

// Mongo is a thin adapter holding the client and the collections this service uses.
type Mongo struct {
	client   *mongodriver.Client
	db       *mongodriver.Database
	articles *mongodriver.Collection
	users    *mongodriver.Collection
}

// New connects, pings the primary and makes sure the indexes exist.
func New(ctx context.Context, uri, database string) (*Mongo, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo: empty uri")
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := cli.Database(database)
	m := &Mongo{
		client:   cli,
		db:       db,
		articles: db.Collection(articlesCollection),
		users:    db.Collection(usersCollection),
	}

	if err := m.ensureIndexes(ctx); err != nil {
		_ = m.Close(ctx)
		return nil, err
	}
	return m, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// ensureIndexes creates the indexes behind the list queries:
// newest-first listing and listing by author.
func (m *Mongo) ensureIndexes(ctx context.Context) error {
	models := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("created_desc"),
		},
		{
			Keys:    bson.D{{Key: "author", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("author_created_desc"),
		},
	}

	if _, err := m.articles.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("mongo ensure indexes: %w", err)
	}
	return nil
}

// Articles returns the article driver bound to this connection.
func (m *Mongo) Articles() *ArticleRepository {
	return &ArticleRepository{coll: m.articles}
}

// Users returns the user directory bound to this connection.
func (m *Mongo) Users() *UserRepository {
	return &UserRepository{coll: m.users}
}
