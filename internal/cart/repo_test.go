package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jsa498/devflow/pkg/db"
	"github.com/jsa498/devflow/pkg/db/models"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	courses := `
CREATE TABLE IF NOT EXISTS courses (
  id TEXT PRIMARY KEY,
  slug TEXT NOT NULL UNIQUE,
  title TEXT NOT NULL,
  description TEXT,
  price NUMERIC NOT NULL,
  image_url TEXT,
  published INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	items := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  course_id TEXT NOT NULL,
  created_at DATETIME,
  CONSTRAINT cart_items_user_course_key UNIQUE (user_id, course_id)
);`
	require.NoError(t, conn.Exec(courses).Error)
	require.NoError(t, conn.Exec(items).Error)
	return conn
}

func newCartCourse(t *testing.T, conn *gorm.DB) *models.Course {
	t.Helper()

	course := &models.Course{
		ID:        uuid.New(),
		Slug:      "course-" + uuid.NewString(),
		Title:     "Cart Course",
		Price:     decimal.NewFromFloat(29.99),
		Published: true,
	}
	require.NoError(t, conn.Create(course).Error)
	return course
}

func TestRepositoryAddAndListByUser(t *testing.T) {
	conn := setupCartTestDB(t)
	repo := NewRepository(conn)

	userID := uuid.New()
	first := newCartCourse(t, conn)
	second := newCartCourse(t, conn)

	require.NoError(t, repo.Add(context.Background(), &models.CartItem{ID: uuid.New(), UserID: userID, CourseID: first.ID}))
	require.NoError(t, repo.Add(context.Background(), &models.CartItem{ID: uuid.New(), UserID: userID, CourseID: second.ID}))

	items, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		require.NotNil(t, item.Course, "course must be preloaded")
	}
}

func TestRepositoryAdd_duplicateIsUniqueViolation(t *testing.T) {
	conn := setupCartTestDB(t)
	repo := NewRepository(conn)

	userID := uuid.New()
	course := newCartCourse(t, conn)

	require.NoError(t, repo.Add(context.Background(), &models.CartItem{ID: uuid.New(), UserID: userID, CourseID: course.ID}))

	err := repo.Add(context.Background(), &models.CartItem{ID: uuid.New(), UserID: userID, CourseID: course.ID})
	require.Error(t, err)
	require.True(t, db.IsUniqueViolation(err, "cart_items_user_course_key"))
}

func TestRepositoryClearForUser(t *testing.T) {
	conn := setupCartTestDB(t)
	repo := NewRepository(conn)

	userID := uuid.New()
	otherID := uuid.New()
	mine := newCartCourse(t, conn)
	theirs := newCartCourse(t, conn)

	require.NoError(t, repo.Add(context.Background(), &models.CartItem{ID: uuid.New(), UserID: userID, CourseID: mine.ID}))
	require.NoError(t, repo.Add(context.Background(), &models.CartItem{ID: uuid.New(), UserID: otherID, CourseID: theirs.ID}))

	require.NoError(t, repo.ClearForUser(context.Background(), userID))

	empty, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Empty(t, empty)

	kept, err := repo.ListByUser(context.Background(), otherID)
	require.NoError(t, err)
	require.Len(t, kept, 1)

	// clearing an already-empty cart is a no-op
	require.NoError(t, repo.ClearForUser(context.Background(), userID))
}

func TestRepositoryRemove(t *testing.T) {
	conn := setupCartTestDB(t)
	repo := NewRepository(conn)

	userID := uuid.New()
	course := newCartCourse(t, conn)
	require.NoError(t, repo.Add(context.Background(), &models.CartItem{ID: uuid.New(), UserID: userID, CourseID: course.ID}))
	require.NoError(t, repo.Remove(context.Background(), userID, course.ID))

	items, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Empty(t, items)
}
