package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"blogicum/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateComment(t *testing.T) {
	s, app, db := newTestServer(t)
	now := time.Now().UTC()

	author := seedUser(t, db, "author", false)
	reader := seedUser(t, db, "reader", false)
	category := seedCategory(t, db, "news", true)
	seedPost(t, db, author.ID, &category.ID, now.Add(-time.Hour), true)
	seedPost(t, db, author.ID, &category.ID, now.Add(-time.Hour), false) // draft, id 2

	t.Run("reader comments a visible post", func(t *testing.T) {
		req := postJSON(t, "/api/posts/1/comments", map[string]string{"text": "Nice one"})
		req.Header.Set("Authorization", authHeader(t, s, reader.ID, reader.Username))
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var comment models.Comment
		decodeBody(t, resp, &comment)
		assert.Equal(t, "Nice one", comment.Text)
		assert.Equal(t, reader.ID, comment.AuthorID)
	})

	t.Run("hidden post is 404 for a non-author", func(t *testing.T) {
		req := postJSON(t, "/api/posts/2/comments", map[string]string{"text": "Sneaky"})
		req.Header.Set("Authorization", authHeader(t, s, reader.ID, reader.Username))
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("over-long text is rejected", func(t *testing.T) {
		req := postJSON(t, "/api/posts/1/comments", map[string]string{"text": strings.Repeat("x", 101)})
		req.Header.Set("Authorization", authHeader(t, s, reader.ID, reader.Username))
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("anonymous cannot comment", func(t *testing.T) {
		resp, err := app.Test(postJSON(t, "/api/posts/1/comments", map[string]string{"text": "hi"}))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestGetComments_OrderAndCount(t *testing.T) {
	s, app, db := newTestServer(t)
	now := time.Now().UTC()

	author := seedUser(t, db, "author", false)
	reader := seedUser(t, db, "reader", false)
	category := seedCategory(t, db, "news", true)
	post := seedPost(t, db, author.ID, &category.ID, now.Add(-time.Hour), true)

	base := now.Add(-10 * time.Minute)
	for i, text := range []string{"first", "second", "third"} {
		require.NoError(t, db.Create(&models.Comment{
			Text:      text,
			PostID:    post.ID,
			AuthorID:  reader.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}

	t.Run("comments come oldest first", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/posts/1/comments", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var comments []models.Comment
		decodeBody(t, resp, &comments)
		require.Len(t, comments, 3)
		assert.Equal(t, "first", comments[0].Text)
		assert.Equal(t, "third", comments[2].Text)
	})

	t.Run("post detail carries the comment count", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/posts/1", nil)
		req.Header.Set("Authorization", authHeader(t, s, reader.ID, reader.Username))
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var detail models.Post
		decodeBody(t, resp, &detail)
		assert.Equal(t, 3, detail.CommentCount)
	})
}

func TestUpdateComment_Ownership(t *testing.T) {
	s, app, db := newTestServer(t)
	now := time.Now().UTC()

	author := seedUser(t, db, "author", false)
	commenter := seedUser(t, db, "commenter", false)
	category := seedCategory(t, db, "news", true)
	post := seedPost(t, db, author.ID, &category.ID, now.Add(-time.Hour), true)
	require.NoError(t, db.Create(&models.Comment{Text: "mine", PostID: post.ID, AuthorID: commenter.ID}).Error)

	t.Run("non-owner is redirected to the post", func(t *testing.T) {
		req := putJSON(t, "/api/posts/1/comments/1", map[string]string{"text": "hijack"})
		req.Header.Set("Authorization", authHeader(t, s, author.ID, author.Username))
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/api/posts/1", resp.Header.Get("Location"))
	})

	t.Run("owner edits the text", func(t *testing.T) {
		req := putJSON(t, "/api/posts/1/comments/1", map[string]string{"text": "edited"})
		req.Header.Set("Authorization", authHeader(t, s, commenter.ID, commenter.Username))
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var comment models.Comment
		decodeBody(t, resp, &comment)
		assert.Equal(t, "edited", comment.Text)
	})

	t.Run("comment addressed under the wrong post is 404", func(t *testing.T) {
		seedPost(t, db, author.ID, &category.ID, now.Add(-time.Hour), true) // id 2
		req := putJSON(t, "/api/posts/2/comments/1", map[string]string{"text": "misaddressed"})
		req.Header.Set("Authorization", authHeader(t, s, commenter.ID, commenter.Username))
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDeleteComment(t *testing.T) {
	s, app, db := newTestServer(t)
	now := time.Now().UTC()

	author := seedUser(t, db, "author", false)
	commenter := seedUser(t, db, "commenter", false)
	category := seedCategory(t, db, "news", true)
	post := seedPost(t, db, author.ID, &category.ID, now.Add(-time.Hour), true)
	require.NoError(t, db.Create(&models.Comment{Text: "mine", PostID: post.ID, AuthorID: commenter.ID}).Error)

	t.Run("non-owner is redirected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/posts/1/comments/1", nil)
		req.Header.Set("Authorization", authHeader(t, s, author.ID, author.Username))
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	})

	t.Run("owner deletes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/posts/1/comments/1", nil)
		req.Header.Set("Authorization", authHeader(t, s, commenter.ID, commenter.Username))
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var remaining int64
		require.NoError(t, db.Model(&models.Comment{}).Count(&remaining).Error)
		assert.Equal(t, int64(0), remaining)
	})
}
