package qiita

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// delete issues a DELETE and reports whether the platform confirmed it.
// 404 counts as confirmation: the resource is already gone, and removal is
// idempotent from the user's point of view.
func (c *Client) delete(ctx context.Context, rawURL string) (bool, error) {
	req, err := c.newRequest(ctx, http.MethodDelete, rawURL, nil)
	if err != nil {
		return false, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return true, nil
	}
	if resp.StatusCode == http.StatusNotFound {
		return true, nil
	}
	return false, &StatusError{Code: resp.StatusCode}
}

// Unstock removes the user's stock of the item
func (c *Client) Unstock(ctx context.Context, itemID string) (bool, error) {
	endpoint := fmt.Sprintf("%s/items/%s/stock", c.cfg.APIBase, url.PathEscape(itemID))
	ok, err := c.delete(ctx, endpoint)
	if err != nil {
		c.logger.Warn("unstock failed", "item", itemID, "error", err)
	}
	return ok, err
}

// Unlike removes the user's like of the item. The platform models a like as
// either a dedicated like resource or a reaction, depending on how it was
// created, so a miss on the first shape falls through to the second; the
// call succeeds if either shape confirms.
func (c *Client) Unlike(ctx context.Context, itemID string) (bool, error) {
	primary := fmt.Sprintf("%s/items/%s/likes", c.cfg.APIBase, url.PathEscape(itemID))
	ok, err := c.delete(ctx, primary)
	if ok {
		return true, nil
	}
	c.logger.Debug("like resource did not confirm, trying reaction", "item", itemID, "error", err)

	reaction := fmt.Sprintf("%s/items/%s/reactions/like", c.cfg.APIBase, url.PathEscape(itemID))
	ok, rerr := c.delete(ctx, reaction)
	if ok {
		return true, nil
	}
	c.logger.Warn("unlike failed on both resource shapes", "item", itemID, "like_error", err, "reaction_error", rerr)
	return false, rerr
}
