package mongo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Guyuepp/go-article-service/domain"
)

// testTimeout bounds every database call made by a test.
const testTimeout = 10 * time.Second

// TestMain starts one MongoDB container for the package when GO_TEST_INTEGRATION
// is set and exposes it through MONGO_TEST_URI. Each test gets its own database.
func TestMain(m *testing.M) {
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		os.Exit(m.Run())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	mongoC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7.0",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start mongo testcontainer: %v\n", err)
		os.Exit(1)
	}

	host, err := mongoC.Host(ctx)
	if err != nil {
		_ = mongoC.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "failed to get container host: %v\n", err)
		os.Exit(1)
	}
	port, err := mongoC.MappedPort(ctx, "27017/tcp")
	if err != nil {
		_ = mongoC.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "failed to get mapped port: %v\n", err)
		os.Exit(1)
	}
	_ = os.Setenv("MONGO_TEST_URI", fmt.Sprintf("mongodb://%s:%s", host, port.Port()))

	code := m.Run()

	_ = mongoC.Terminate(context.Background())
	os.Exit(code)
}

func mustNewMongo(t *testing.T) *Mongo {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("set GO_TEST_INTEGRATION to run MongoDB tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	m, err := New(ctx, uri, "articles_test_"+uuid.NewString())
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()
		_ = m.db.Drop(ctx)
		_ = m.Close(ctx)
	})
	return m
}

func newTestArticle(title string) *domain.Article {
	return &domain.Article{
		Title:    title,
		Content:  "content of " + title,
		Image:    "https://img.example/" + title + ".png",
		Author:   "Alice",
		PostedBy: "user-alice",
	}
}

func TestArticleRepository_StoreAndGet(t *testing.T) {
	repo := mustNewMongo(t).Articles()
	ctx := context.Background()

	ar := newTestArticle("T1")
	require.NoError(t, repo.Store(ctx, ar))
	require.NotEmpty(t, ar.ID)

	got, err := repo.GetByID(ctx, ar.ID)
	require.NoError(t, err)
	assert.Equal(t, "T1", got.Title)
	assert.Equal(t, "Alice", got.Author)
	assert.Empty(t, got.Comments)
	assert.Empty(t, got.Likes)

	_, err = repo.GetByID(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.GetByID(ctx, "bogus")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestArticleRepository_FetchOrderAndEmpty(t *testing.T) {
	repo := mustNewMongo(t).Articles()
	ctx := context.Background()

	all, err := repo.Fetch(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	older := newTestArticle("old")
	older.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, repo.Store(ctx, older))
	newer := newTestArticle("new")
	newer.Author = "Bob"
	require.NoError(t, repo.Store(ctx, newer))

	all, err = repo.Fetch(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "new", all[0].Title)
	assert.Equal(t, "old", all[1].Title)

	byAlice, err := repo.FetchByAuthor(ctx, "Alice")
	require.NoError(t, err)
	require.Len(t, byAlice, 1)
	assert.Equal(t, "old", byAlice[0].Title)

	none, err := repo.FetchByAuthor(ctx, "Carol")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestArticleRepository_UpdateTouchesOnlyTitleAndContent(t *testing.T) {
	repo := mustNewMongo(t).Articles()
	ctx := context.Background()

	ar := newTestArticle("T1")
	require.NoError(t, repo.Store(ctx, ar))
	_, err := repo.AddLike(ctx, ar.ID, "u2")
	require.NoError(t, err)

	upd := domain.Article{ID: ar.ID, Title: "T2", Content: "C2", Author: "Mallory", PostedBy: "evil"}
	require.NoError(t, repo.Update(ctx, &upd))

	got, err := repo.GetByID(ctx, ar.ID)
	require.NoError(t, err)
	assert.Equal(t, "T2", got.Title)
	assert.Equal(t, "C2", got.Content)
	assert.Equal(t, "Alice", got.Author)
	assert.Equal(t, "user-alice", got.PostedBy)
	assert.Equal(t, []string{"u2"}, got.Likes)
	assert.Equal(t, ar.Image, got.Image)

	missing := domain.Article{ID: primitive.NewObjectID().Hex(), Title: "x", Content: "y"}
	assert.ErrorIs(t, repo.Update(ctx, &missing), domain.ErrNotFound)
}

func TestArticleRepository_LikesAreASet(t *testing.T) {
	repo := mustNewMongo(t).Articles()
	ctx := context.Background()

	ar := newTestArticle("T1")
	require.NoError(t, repo.Store(ctx, ar))

	_, err := repo.AddLike(ctx, ar.ID, "u1")
	require.NoError(t, err)
	got, err := repo.AddLike(ctx, ar.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, got.Likes)

	got, err = repo.RemoveLike(ctx, ar.ID, "u9")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, got.Likes)

	got, err = repo.RemoveLike(ctx, ar.ID, "u1")
	require.NoError(t, err)
	assert.Empty(t, got.Likes)

	_, err = repo.AddLike(ctx, primitive.NewObjectID().Hex(), "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestArticleRepository_PushCommentKeepsOrder(t *testing.T) {
	repo := mustNewMongo(t).Articles()
	ctx := context.Background()

	ar := newTestArticle("T1")
	require.NoError(t, repo.Store(ctx, ar))

	first := domain.Comment{Text: "hello", PostedBy: "u1"}
	second := domain.Comment{Text: "hello", PostedBy: "u1"}
	require.NoError(t, repo.PushComment(ctx, ar.ID, &first))
	require.NoError(t, repo.PushComment(ctx, ar.ID, &second))
	assert.NotEqual(t, first.ID, second.ID)

	got, err := repo.GetByID(ctx, ar.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 2)
	assert.Equal(t, first.ID, got.Comments[0].ID)
	assert.Equal(t, second.ID, got.Comments[1].ID)

	orphan := domain.Comment{Text: "x", PostedBy: "u1"}
	assert.ErrorIs(t, repo.PushComment(ctx, primitive.NewObjectID().Hex(), &orphan), domain.ErrNotFound)
}

func TestArticleRepository_FetchIDsPages(t *testing.T) {
	repo := mustNewMongo(t).Articles()
	ctx := context.Background()

	for i := range 3 {
		require.NoError(t, repo.Store(ctx, newTestArticle(fmt.Sprintf("T%d", i))))
	}

	page1, err := repo.FetchIDs(ctx, "", 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)

	page2, err := repo.FetchIDs(ctx, page1[1], 2)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.NotContains(t, page1, page2[0])
}
