package qiita

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/Ryutta/qiita-list/internal/models"
)

const (
	internalPageSize      = 20
	clientConfigSelector  = "div#client-config"
	clientConfigAttribute = "data-config"
)

// internalLikesQuery asks the internal query endpoint for the fields the
// canonical item model needs: title, canonical URL, stable identifier,
// author, tags, like count and publish timestamp.
const internalLikesQuery = `query LikedItems($userName: String!, $page: Int!, $perPage: Int!) {
  user(urlName: $userName) {
    likedArticles(page: $page, perPage: $perPage) {
      items { uuid title linkUrl likesCount publishedAt author { urlName } tags { name urlName } }
      isLastPage
    }
  }
}`

// internalQuerySource acquires liked items through the site's own query
// endpoint. It needs a handshake first: the profile page embeds a client
// configuration blob carrying the anti-forgery token that authorizes
// same-origin internal calls, and the session cookie from that page must
// accompany every query.
type internalQuerySource struct {
	c         *Client
	csrfToken string
}

func newInternalQuerySource(c *Client) *internalQuerySource {
	return &internalQuerySource{c: c}
}

func (s *internalQuerySource) Name() string { return "internal-query" }

// handshake fetches the profile page and pulls the anti-forgery token out
// of the embedded configuration blob. Every failure mode here means the
// whole source is unusable, not just one page.
func (s *internalQuerySource) handshake(ctx context.Context, userID string) error {
	pageURL := fmt.Sprintf("%s/%s", s.c.cfg.SiteBase, url.PathEscape(userID))
	req, err := s.c.newRequest(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return err
	}
	resp, err := s.c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("profile page fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("profile page status %d: %w", resp.StatusCode, ErrNotApplicable)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("parsing profile page: %w", err)
	}
	blob, ok := doc.Find(clientConfigSelector).Attr(clientConfigAttribute)
	if !ok {
		return fmt.Errorf("profile page carries no client config: %w", ErrNotApplicable)
	}
	var cfg struct {
		CSRFToken string `json:"csrfToken"`
	}
	if err := json.Unmarshal([]byte(blob), &cfg); err != nil {
		return fmt.Errorf("client config blob unreadable: %w", ErrNotApplicable)
	}
	if cfg.CSRFToken == "" {
		return fmt.Errorf("client config carries no csrf token: %w", ErrNotApplicable)
	}
	s.csrfToken = cfg.CSRFToken
	return nil
}

type internalQueryRequest struct {
	Query     string `json:"query"`
	Variables struct {
		UserName string `json:"userName"`
		Page     int    `json:"page"`
		PerPage  int    `json:"perPage"`
	} `json:"variables"`
}

type internalQueryResponse struct {
	Data struct {
		User struct {
			LikedArticles struct {
				Items      []internalItem `json:"items"`
				IsLastPage bool           `json:"isLastPage"`
			} `json:"likedArticles"`
		} `json:"user"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type internalItem struct {
	UUID       string `json:"uuid"`
	Title      string `json:"title"`
	LinkURL    string `json:"linkUrl"`
	LikesCount int    `json:"likesCount"`
	Published  string `json:"publishedAt"`
	Author     struct {
		URLName string `json:"urlName"`
	} `json:"author"`
	Tags []struct {
		Name    string `json:"name"`
		URLName string `json:"urlName"`
	} `json:"tags"`
}

func (r internalItem) normalize() models.Item {
	id := r.UUID
	// internal identifiers are UUIDs; normalize the spelling when they
	// parse, pass anything else through untouched
	if parsed, err := uuid.Parse(r.UUID); err == nil {
		id = parsed.String()
	}
	authorID := r.Author.URLName
	if authorID == "" {
		authorID = models.UnknownAuthor
	}
	var tags []models.Tag
	for _, t := range r.Tags {
		if t.Name == "" {
			continue
		}
		slug := t.URLName
		if slug == "" {
			slug = strings.ToLower(t.Name)
		}
		tags = append(tags, models.Tag{Name: t.Name, Slug: slug})
	}
	return models.Item{
		ID:         id,
		Title:      r.Title,
		URL:        r.LinkURL,
		AuthorID:   authorID,
		Tags:       tags,
		LikesCount: r.LikesCount,
		CreatedAt:  r.Published,
	}
}

// FetchPage runs the handshake lazily on the first page, then posts one
// structured query per page. Query-level failures after a successful
// handshake end the pagination with whatever accumulated so far; the
// coordinator treats partial data as preferable to none.
func (s *internalQuerySource) FetchPage(ctx context.Context, userID string, page int) ([]models.Item, bool, error) {
	if page == 1 {
		if err := s.handshake(ctx, userID); err != nil {
			return nil, false, fmt.Errorf("handshake: %w", err)
		}
	}

	body := internalQueryRequest{Query: internalLikesQuery}
	body.Variables.UserName = userID
	body.Variables.Page = page
	body.Variables.PerPage = internalPageSize

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, false, fmt.Errorf("encoding query: %w", err)
	}

	endpoint := s.c.cfg.SiteBase + "/api/internal/graphql"
	req, err := s.c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-CSRF-Token", s.csrfToken)

	resp, err := s.c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("query request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, false, &StatusError{Code: resp.StatusCode}
	}

	var decoded internalQueryResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&decoded); err != nil {
		return nil, false, fmt.Errorf("decoding query response: %w", err)
	}
	if len(decoded.Errors) > 0 {
		return nil, false, fmt.Errorf("query returned %d errors, first: %s", len(decoded.Errors), decoded.Errors[0].Message)
	}

	liked := decoded.Data.User.LikedArticles
	items := make([]models.Item, 0, len(liked.Items))
	for _, raw := range liked.Items {
		it := raw.normalize()
		if !it.Valid() {
			continue
		}
		items = append(items, it)
	}
	return items, liked.IsLastPage, nil
}
