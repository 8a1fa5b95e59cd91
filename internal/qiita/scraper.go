package qiita

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/Ryutta/qiita-list/internal/models"
)

// itemLinkPattern matches a permalink path: author segment, then a
// fixed-length hexadecimal item id.
var itemLinkPattern = regexp.MustCompile(`^/([A-Za-z0-9_-]+)/items/([0-9a-f]{20})$`)

// scrapeSource is the last-resort acquisition path: the public likes
// listing, fetched with a browser User-Agent (the default client string is
// blocked) and mined for item permalinks.
type scrapeSource struct {
	c             *Client
	warnedBlocked bool
}

func newScrapeSource(c *Client) *scrapeSource {
	return &scrapeSource{c: c}
}

func (s *scrapeSource) Name() string { return "scrape" }

// FetchPage fetches and parses one listing page. Non-2xx is a pagination
// terminal, not an error; it usually just means past the last page.
func (s *scrapeSource) FetchPage(ctx context.Context, userID string, page int) ([]models.Item, bool, error) {
	pageURL := fmt.Sprintf("%s/%s/likes?page=%d", s.c.cfg.SiteBase, url.PathEscape(userID), page)
	req, err := s.c.newRequest(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, false, err
	}

	resp, err := s.c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("listing page fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, true, nil
	}

	items, err := s.parseListing(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, false, err
	}
	if len(items) == 0 {
		if !s.warnedBlocked {
			s.warnedBlocked = true
			s.c.logger.Warn("listing page yielded no titled item links; scraping may be structurally blocked", "user", userID, "page", page)
		}
		return nil, true, nil
	}
	return items, false, nil
}

// parseListing walks the markup collecting anchors that look like item
// permalinks. Within one page the same id can appear more than once, some
// occurrences without visible title text; a later titled occurrence fills
// in the blank. Entries whose title stays empty are not valid results and
// are dropped.
func (s *scrapeSource) parseListing(r io.Reader) ([]models.Item, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing listing page: %w", err)
	}

	seen := make(map[string]*models.Item)
	var order []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			var href string
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					href = attr.Val
				}
			}
			if author, id, ok := matchItemLink(s.c.cfg.SiteBase, href); ok {
				title := strings.TrimSpace(anchorText(n))
				if existing, dup := seen[id]; dup {
					if existing.Title == "" && title != "" {
						existing.Title = title
					}
				} else {
					seen[id] = &models.Item{
						ID:       id,
						Title:    title,
						URL:      fmt.Sprintf("%s/%s/items/%s", s.c.cfg.SiteBase, author, id),
						AuthorID: author,
					}
					order = append(order, id)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	var items []models.Item
	for _, id := range order {
		if it := seen[id]; it.Title != "" {
			items = append(items, *it)
		}
	}
	return items, nil
}

// matchItemLink extracts author and item id from an anchor target. Both
// absolute and site-relative targets are accepted as long as the path is a
// permalink.
func matchItemLink(siteBase, href string) (author, id string, ok bool) {
	if href == "" {
		return "", "", false
	}
	path := href
	if strings.Contains(href, "://") {
		u, err := url.Parse(href)
		if err != nil {
			return "", "", false
		}
		base, berr := url.Parse(siteBase)
		if berr != nil || u.Host != base.Host {
			return "", "", false
		}
		path = u.Path
	} else if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	m := itemLinkPattern.FindStringSubmatch(path)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// anchorText concatenates the text content under an anchor
func anchorText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
