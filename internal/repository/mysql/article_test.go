package mysql_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sqlmock "gopkg.in/DATA-DOG/go-sqlmock.v1"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Guyuepp/go-article-service/domain"
	"github.com/Guyuepp/go-article-service/internal/repository/mysql"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	return gdb, mock
}

var articleColumns = []string{"id", "title", "content", "image", "author", "user_id", "updated_at", "created_at"}

func TestGetByID(t *testing.T) {
	gdb, mock := newMockDB(t)
	now := time.Now().UTC().Truncate(time.Millisecond)
	title := faker.Sentence()

	mock.ExpectQuery("SELECT (.+) FROM `article` WHERE id = (.+)").
		WillReturnRows(sqlmock.NewRows(articleColumns).
			AddRow(1, title, "content", "https://img/1.png", "Alice", "u1", now, now))
	mock.ExpectQuery("SELECT (.+) FROM `comment`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "article_id", "user_id", "text", "created_at"}).
			AddRow(10, 1, "u2", "first", now).
			AddRow(11, 1, "u3", "second", now))
	mock.ExpectQuery("SELECT (.+) FROM `article_likes`").
		WillReturnRows(sqlmock.NewRows([]string{"article_id", "user_id", "created_at"}).
			AddRow(1, "u2", now))

	repo := mysql.NewArticleRepository(gdb)
	got, err := repo.GetByID(context.TODO(), "1")
	require.NoError(t, err)

	assert.Equal(t, "1", got.ID)
	assert.Equal(t, title, got.Title)
	assert.Equal(t, "Alice", got.Author)
	assert.Equal(t, "u1", got.PostedBy)
	require.Len(t, got.Comments, 2)
	assert.Equal(t, "10", got.Comments[0].ID)
	assert.Equal(t, "first", got.Comments[0].Text)
	assert.Equal(t, "u2", got.Comments[0].PostedBy)
	assert.Equal(t, []string{"u2"}, got.Likes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	gdb, mock := newMockDB(t)
	mock.ExpectQuery("SELECT (.+) FROM `article` WHERE id = (.+)").
		WillReturnRows(sqlmock.NewRows(articleColumns))

	repo := mysql.NewArticleRepository(gdb)
	_, err := repo.GetByID(context.TODO(), "99")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.GetByID(context.TODO(), "not-a-number")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetch_EmptyIsNotNil(t *testing.T) {
	gdb, mock := newMockDB(t)
	mock.ExpectQuery("SELECT (.+) FROM `article` ORDER BY created_at desc").
		WillReturnRows(sqlmock.NewRows(articleColumns))

	got, err := mysql.NewArticleRepository(gdb).Fetch(context.TODO())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore(t *testing.T) {
	gdb, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `article`").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	ar := &domain.Article{
		Title:    faker.Sentence(),
		Content:  faker.Paragraph(),
		Author:   "Alice",
		PostedBy: "u1",
	}
	err := mysql.NewArticleRepository(gdb).Store(context.TODO(), ar)
	require.NoError(t, err)

	assert.Equal(t, "7", ar.ID)
	assert.False(t, ar.CreatedAt.IsZero())
	assert.Equal(t, ar.CreatedAt, ar.UpdatedAt)
	assert.NotNil(t, ar.Comments)
	assert.NotNil(t, ar.Likes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `article` SET").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		ar := &domain.Article{ID: "3", Title: "T2", Content: "C2"}
		require.NoError(t, mysql.NewArticleRepository(gdb).Update(context.TODO(), ar))
		assert.False(t, ar.UpdatedAt.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `article` SET").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM `article`").
			WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))

		ar := &domain.Article{ID: "3", Title: "T2", Content: "C2"}
		err := mysql.NewArticleRepository(gdb).Update(context.TODO(), ar)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPushComment(t *testing.T) {
	gdb, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `article`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
	mock.ExpectExec("INSERT INTO `comment`").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec("UPDATE `article` SET `updated_at`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c := &domain.Comment{Text: "hello", PostedBy: "u2"}
	require.NoError(t, mysql.NewArticleRepository(gdb).PushComment(context.TODO(), "1", c))
	assert.Equal(t, "42", c.ID)
	assert.False(t, c.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddLike(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		now := time.Now()
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM `article`").
			WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
		mock.ExpectExec("INSERT INTO `article_likes`").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("SELECT (.+) FROM `article` WHERE id = (.+)").
			WillReturnRows(sqlmock.NewRows(articleColumns).
				AddRow(1, "T", "C", "", "Alice", "u1", now, now))
		mock.ExpectQuery("SELECT (.+) FROM `comment`").
			WillReturnRows(sqlmock.NewRows([]string{"id", "article_id", "user_id", "text", "created_at"}))
		mock.ExpectQuery("SELECT (.+) FROM `article_likes`").
			WillReturnRows(sqlmock.NewRows([]string{"article_id", "user_id", "created_at"}).
				AddRow(1, "u9", now))
		mock.ExpectCommit()

		got, err := mysql.NewArticleRepository(gdb).AddLike(context.TODO(), "1", "u9")
		require.NoError(t, err)
		assert.Equal(t, []string{"u9"}, got.Likes)
		assert.Empty(t, got.Comments)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing article", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM `article`").
			WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
		mock.ExpectRollback()

		_, err := mysql.NewArticleRepository(gdb).AddLike(context.TODO(), "5", "u9")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAddLike_SecondLikeIsNoop(t *testing.T) {
	gdb, mock := newMockDB(t)
	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `article`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
	// 主键冲突时不插入新行, 影响行数为 0
	mock.ExpectExec("INSERT INTO `article_likes` (.+) ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM `article` WHERE id = (.+)").
		WillReturnRows(sqlmock.NewRows(articleColumns).
			AddRow(1, "T", "C", "", "Alice", "u1", now, now))
	mock.ExpectQuery("SELECT (.+) FROM `comment`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "article_id", "user_id", "text", "created_at"}))
	mock.ExpectQuery("SELECT (.+) FROM `article_likes`").
		WillReturnRows(sqlmock.NewRows([]string{"article_id", "user_id", "created_at"}).
			AddRow(1, "u9", now))
	mock.ExpectCommit()

	got, err := mysql.NewArticleRepository(gdb).AddLike(context.TODO(), "1", "u9")
	require.NoError(t, err)
	assert.Equal(t, []string{"u9"}, got.Likes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveLike_NotLiked(t *testing.T) {
	gdb, mock := newMockDB(t)
	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `article`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
	mock.ExpectExec("DELETE FROM `article_likes` WHERE").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM `article` WHERE id = (.+)").
		WillReturnRows(sqlmock.NewRows(articleColumns).
			AddRow(1, "T", "C", "", "Alice", "u1", now, now))
	mock.ExpectQuery("SELECT (.+) FROM `comment`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "article_id", "user_id", "text", "created_at"}))
	mock.ExpectQuery("SELECT (.+) FROM `article_likes`").
		WillReturnRows(sqlmock.NewRows([]string{"article_id", "user_id", "created_at"}).
			AddRow(1, "u2", now))
	mock.ExpectCommit()

	got, err := mysql.NewArticleRepository(gdb).RemoveLike(context.TODO(), "1", "u9")
	require.NoError(t, err)
	assert.Equal(t, []string{"u2"}, got.Likes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_CommentsKeepInsertOrder(t *testing.T) {
	gdb, mock := newMockDB(t)
	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM `article` WHERE id = (.+)").
		WillReturnRows(sqlmock.NewRows(articleColumns).
			AddRow(1, "T", "C", "", "Alice", "u1", now, now))
	mock.ExpectQuery("SELECT (.+) FROM `comment` WHERE (.+) ORDER BY created_at, id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "article_id", "user_id", "text", "created_at"}).
			AddRow(20, 1, "u2", "one", now).
			AddRow(21, 1, "u3", "two", now))
	mock.ExpectQuery("SELECT (.+) FROM `article_likes`").
		WillReturnRows(sqlmock.NewRows([]string{"article_id", "user_id", "created_at"}))

	got, err := mysql.NewArticleRepository(gdb).GetByID(context.TODO(), "1")
	require.NoError(t, err)
	require.Len(t, got.Comments, 2)
	assert.Equal(t, "one", got.Comments[0].Text)
	assert.Equal(t, "two", got.Comments[1].Text)
	assert.Empty(t, got.Likes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveLike_MissingArticle(t *testing.T) {
	gdb, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `article`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectRollback()

	_, err := mysql.NewArticleRepository(gdb).RemoveLike(context.TODO(), "5", "u9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchIDs(t *testing.T) {
	gdb, mock := newMockDB(t)
	mock.ExpectQuery("SELECT (.+) FROM `article` WHERE id > (.+) ORDER BY id").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3).AddRow(4))

	repo := mysql.NewArticleRepository(gdb)
	ids, err := repo.FetchIDs(context.TODO(), "2", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "4"}, ids)

	_, err = repo.FetchIDs(context.TODO(), "abc", 2)
	assert.ErrorIs(t, err, domain.ErrBadParamInput)
	assert.NoError(t, mock.ExpectationsWereMet())
}
