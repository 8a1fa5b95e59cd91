package qiita

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ryutta/qiita-list/internal/models"
)

const profileWithConfig = `<html><body>
<div id="client-config" data-config='{"csrfToken":"tok-123","locale":"en"}'></div>
<h1>alice</h1>
</body></html>`

func internalHandler(t *testing.T, profile string, query http.HandlerFunc) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/alice", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, profile)
	})
	mux.HandleFunc("/api/internal/graphql", query)
	return mux
}

func likedArticlesResponse(isLast bool, uuids ...string) string {
	type item map[string]any
	items := make([]item, 0, len(uuids))
	for i, u := range uuids {
		items = append(items, item{
			"uuid":        u,
			"title":       fmt.Sprintf("Article %d", i+1),
			"linkUrl":     "https://qiita.com/bob/items/" + u,
			"likesCount":  3,
			"publishedAt": "2023-06-01T12:00:00+09:00",
			"author":      map[string]string{"urlName": "bob"},
			"tags":        []map[string]string{{"name": "Rails", "urlName": "rails"}},
		})
	}
	payload := map[string]any{
		"data": map[string]any{
			"user": map[string]any{
				"likedArticles": map[string]any{"items": items, "isLastPage": isLast},
			},
		},
	}
	b, _ := json.Marshal(payload)
	return string(b)
}

func TestInternalQuery_HandshakeNotApplicable(t *testing.T) {
	tests := []struct {
		name    string
		profile http.HandlerFunc
	}{
		{"profile 404", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}},
		{"no config container", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<html><body><p>nothing embedded</p></body></html>`)
		}},
		{"config without token", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<html><body><div id="client-config" data-config='{"locale":"en"}'></div></body></html>`)
		}},
		{"unreadable blob", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<html><body><div id="client-config" data-config='not json'></div></body></html>`)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/alice", tt.profile)
			c, _ := testClient(t, mux)

			src := newInternalQuerySource(c)
			_, _, err := src.FetchPage(context.Background(), "alice", 1)
			assert.ErrorIs(t, err, ErrNotApplicable)
		})
	}
}

func TestInternalQuery_PaginatesUntilLastPage(t *testing.T) {
	var queries []internalQueryRequest
	handler := internalHandler(t, profileWithConfig, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "tok-123", r.Header.Get("X-CSRF-Token"))
		var req internalQueryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		queries = append(queries, req)
		if req.Variables.Page == 1 {
			fmt.Fprint(w, likedArticlesResponse(false, "9a4bdbde-3d10-4d4c-8f3a-111111111111"))
			return
		}
		fmt.Fprint(w, likedArticlesResponse(true, "9a4bdbde-3d10-4d4c-8f3a-222222222222"))
	})
	c, _ := testClient(t, handler)

	src := newInternalQuerySource(c)
	items, _, err := NewPager(10).Collect(context.Background(), func(ctx context.Context, p int) ([]models.Item, bool, error) {
		return src.FetchPage(ctx, "alice", p)
	})

	require.NoError(t, err)
	require.Len(t, items, 2, "explicit last-page indicator must stop pagination")
	require.Len(t, queries, 2)
	assert.Equal(t, 20, queries[0].Variables.PerPage)
	assert.Equal(t, "alice", queries[0].Variables.UserName)

	assert.Equal(t, "9a4bdbde-3d10-4d4c-8f3a-111111111111", items[0].ID)
	assert.Equal(t, "Article 1", items[0].Title)
	assert.Equal(t, "bob", items[0].AuthorID)
	require.Len(t, items[0].Tags, 1)
	assert.Equal(t, "rails", items[0].Tags[0].Slug)
	assert.Equal(t, 3, items[0].LikesCount)
	assert.Equal(t, "2023-06-01T12:00:00+09:00", items[0].CreatedAt)
}

func TestInternalQuery_NormalizesUUIDSpelling(t *testing.T) {
	handler := internalHandler(t, profileWithConfig, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, likedArticlesResponse(true, "9A4BDBDE-3D10-4D4C-8F3A-333333333333"))
	})
	c, _ := testClient(t, handler)

	src := newInternalQuerySource(c)
	items, last, err := src.FetchPage(context.Background(), "alice", 1)

	require.NoError(t, err)
	assert.True(t, last)
	require.Len(t, items, 1)
	assert.Equal(t, "9a4bdbde-3d10-4d4c-8f3a-333333333333", items[0].ID)
}

func TestInternalQuery_StructuredErrorsEndPagination(t *testing.T) {
	var page int
	handler := internalHandler(t, profileWithConfig, func(w http.ResponseWriter, r *http.Request) {
		page++
		if page == 1 {
			fmt.Fprint(w, likedArticlesResponse(false, "9a4bdbde-3d10-4d4c-8f3a-444444444444"))
			return
		}
		fmt.Fprint(w, `{"data":null,"errors":[{"message":"rate limited"}]}`)
	})
	c, _ := testClient(t, handler)

	src := newInternalQuerySource(c)
	items, _, err := NewPager(10).Collect(context.Background(), func(ctx context.Context, p int) ([]models.Item, bool, error) {
		return src.FetchPage(ctx, "alice", p)
	})

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotApplicable, "a post-handshake failure is not a fallback trigger")
	assert.Len(t, items, 1, "accumulated items survive the failure")
}
