package qiita

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/Ryutta/qiita-list/internal/config"
	"github.com/Ryutta/qiita-list/internal/models"
)

const (
	apiPageSize  = 100
	maxBodyBytes = 5 << 20
)

// Client talks to the platform over its documented REST API and, for the
// weaker acquisition paths, over the public site. Configuration is explicit;
// nothing is read from ambient state after construction.
type Client struct {
	cfg        *config.Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client from the given configuration. The cookie jar
// is required by the internal query handshake, which rides on the session
// cookie set by the profile page.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
	}
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
			Jar:       jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("stopped after 5 redirects")
				}
				return nil
			},
		},
		logger: logger,
	}
}

func (c *Client) newRequest(ctx context.Context, method, rawURL string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if c.cfg.HasToken() {
		req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	}
	return req, nil
}

// getJSON performs a GET and decodes a 2xx body into out. Non-2xx responses
// come back as *StatusError with the body drained.
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return &StatusError{Code: resp.StatusCode}
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// apiItem is the raw record shape of the documented REST endpoints. It never
// leaves this package.
type apiItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	User  struct {
		ID string `json:"id"`
	} `json:"user"`
	Tags []struct {
		Name string `json:"name"`
	} `json:"tags"`
	LikesCount int    `json:"likes_count"`
	CreatedAt  string `json:"created_at"`
}

func (a apiItem) normalize() models.Item {
	authorID := a.User.ID
	if authorID == "" {
		authorID = models.UnknownAuthor
	}
	var tags []models.Tag
	for _, t := range a.Tags {
		if t.Name == "" {
			continue
		}
		tags = append(tags, models.Tag{Name: t.Name, Slug: strings.ToLower(t.Name)})
	}
	return models.Item{
		ID:         a.ID,
		Title:      a.Title,
		URL:        a.URL,
		AuthorID:   authorID,
		Tags:       tags,
		LikesCount: a.LikesCount,
		CreatedAt:  a.CreatedAt,
	}
}

// fetchItemList fetches one page of a documented paginated listing endpoint
func (c *Client) fetchItemList(ctx context.Context, endpoint string, page int) ([]models.Item, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint: %w", err)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(apiPageSize))
	u.RawQuery = q.Encode()

	var raw []apiItem
	if err := c.getJSON(ctx, u.String(), &raw); err != nil {
		return nil, err
	}
	items := make([]models.Item, 0, len(raw))
	for _, r := range raw {
		it := r.normalize()
		if !it.Valid() {
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

// FetchStocksPage fetches one page of the user's stocked items
func (c *Client) FetchStocksPage(ctx context.Context, userID string, page int) ([]models.Item, error) {
	endpoint := fmt.Sprintf("%s/users/%s/stocks", c.cfg.APIBase, url.PathEscape(userID))
	return c.fetchItemList(ctx, endpoint, page)
}

// FetchLikesPage fetches one page of the user's liked items through the
// documented endpoint. Not all deployments expose it; the caller maps the
// failure modes onto the fallback policy.
func (c *Client) FetchLikesPage(ctx context.Context, userID string, page int) ([]models.Item, error) {
	endpoint := fmt.Sprintf("%s/users/%s/likes", c.cfg.APIBase, url.PathEscape(userID))
	return c.fetchItemList(ctx, endpoint, page)
}

// AuthenticatedUser resolves the user id that owns the configured token
func (c *Client) AuthenticatedUser(ctx context.Context) (string, error) {
	if !c.cfg.HasToken() {
		return "", fmt.Errorf("no access token configured")
	}
	var user struct {
		ID string `json:"id"`
	}
	if err := c.getJSON(ctx, c.cfg.APIBase+"/authenticated_user", &user); err != nil {
		return "", fmt.Errorf("resolving authenticated user: %w", err)
	}
	if user.ID == "" {
		return "", fmt.Errorf("authenticated user response carried no id")
	}
	return user.ID, nil
}
