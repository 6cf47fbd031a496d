package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func TestHumanizeParam(t *testing.T) {
	t.Parallel()
	tests := []struct {
		param string
		want  string
	}{
		{"id", "ID"},
		{"commentId", "comment ID"},
		{"userId", "user ID"},
		{"slug", "slug"},
	}
	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			assert.Equal(t, tt.want, humanizeParam(tt.param))
		})
	}
}

func TestSplitCamel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"comment"}, splitCamel("comment"))
	assert.Equal(t, []string{"some", "Long", "Name"}, splitCamel("someLongName"))
}

func TestRespondServiceError_MasksInternalDetail(t *testing.T) {
	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return respondServiceError(c,
			errors.New(`pq: duplicate key value violates unique constraint "users_email_key"`))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "duplicate key")
	assert.NotContains(t, string(body), "pq:")

	var payload map[string]string
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "Internal server error", payload["error"])
	assert.Equal(t, "INTERNAL_ERROR", payload["code"])
}

func TestIsAdminByUserID_True(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	s := &Server{db: gormDB}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "is_admin" FROM "users"`)).
		WillReturnRows(sqlmock.NewRows([]string{"is_admin"}).AddRow(true))

	admin, err := s.isAdminByUserID(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, admin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsAdminByUserID_False(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	s := &Server{db: gormDB}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "is_admin" FROM "users"`)).
		WillReturnRows(sqlmock.NewRows([]string{"is_admin"}).AddRow(false))

	admin, err := s.isAdminByUserID(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, admin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsAdminByUserID_MissingUser(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	s := &Server{db: gormDB}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "is_admin" FROM "users"`)).
		WillReturnRows(sqlmock.NewRows([]string{"is_admin"}))

	_, err := s.isAdminByUserID(context.Background(), 9)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
