package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bookclub/internal/apperr"

	"golang.org/x/time/rate"
)

// PageSize is the number of volumes requested per listing/search page.
const PageSize = 10

// defaultListQuery drives the browse view; Google Books has no unfiltered
// listing endpoint, so "all books" is a broad subject search.
const defaultListQuery = "subject:fiction"

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
}

func NewClient(baseURL, userAgent string, rps int, maxRetries int) *Client {
	if baseURL == "" {
		baseURL = "https://www.googleapis.com"
	}
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		userAgent:  userAgent,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		maxRetries: maxRetries,
	}
}

// VolumesResponse matches /books/v1/volumes
type VolumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items"`
}

// Volume matches a single volume record.
type Volume struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

type VolumeInfo struct {
	Title       string     `json:"title"`
	Authors     []string   `json:"authors"`
	Publisher   string     `json:"publisher"`
	Description string     `json:"description"`
	Categories  []string   `json:"categories"`
	ImageLinks  ImageLinks `json:"imageLinks"`
}

type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
}

// SearchTerms are the advanced-search refinements combined with the free-text
// query. Only these four are recognized by the volumes API query syntax.
type SearchTerms struct {
	Title     string
	Author    string
	Publisher string
	Subject   string
}

func (t SearchTerms) modifiers() []string {
	var mods []string
	if t.Title != "" {
		mods = append(mods, "intitle:"+t.Title)
	}
	if t.Author != "" {
		mods = append(mods, "inauthor:"+t.Author)
	}
	if t.Publisher != "" {
		mods = append(mods, "inpublisher:"+t.Publisher)
	}
	if t.Subject != "" {
		mods = append(mods, "subject:"+t.Subject)
	}
	return mods
}

// ListVolumes returns one page of the browse listing starting at startIndex.
func (c *Client) ListVolumes(ctx context.Context, startIndex int) ([]Volume, error) {
	u := fmt.Sprintf("%s/books/v1/volumes?q=%s&startIndex=%d&maxResults=%d",
		c.baseURL, url.QueryEscape(defaultListQuery), startIndex, PageSize)

	var res VolumesResponse
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	return res.Items, nil
}

// SearchVolumes returns one page of volumes matching query plus any terms.
func (c *Client) SearchVolumes(ctx context.Context, query string, terms SearchTerms, startIndex int) ([]Volume, error) {
	// Space-joined; QueryEscape encodes the separators as '+', which the
	// volumes API reads as term boundaries.
	q := strings.Join(append([]string{query}, terms.modifiers()...), " ")
	u := fmt.Sprintf("%s/books/v1/volumes?q=%s&startIndex=%d&maxResults=%d",
		c.baseURL, url.QueryEscape(q), startIndex, PageSize)

	var res VolumesResponse
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	return res.Items, nil
}

// GetVolume fetches a single volume by its provider id. A remote 404 means
// the record does not exist, which is distinct from the call failing.
func (c *Client) GetVolume(ctx context.Context, id string) (Volume, error) {
	u := fmt.Sprintf("%s/books/v1/volumes/%s", c.baseURL, url.PathEscape(id))

	var res Volume
	if err := c.get(ctx, u, &res); err != nil {
		return Volume{}, err
	}
	return res, nil
}

func (c *Client) get(ctx context.Context, url string, target any) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: 1s, 2s, 4s...
			backoff := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return apperr.ProviderUnavailable(ctx.Err())
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return apperr.ProviderUnavailable(err)
		}

		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return apperr.ProviderUnavailable(err)
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			if resp.StatusCode == http.StatusNotFound {
				return apperr.NotFound("External API Not Found")
			}
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
				continue
			}
			return apperr.ProviderUnavailable(fmt.Errorf("unexpected status code: %d", resp.StatusCode))
		}

		err = json.NewDecoder(resp.Body).Decode(target)
		resp.Body.Close()
		if err != nil {
			return apperr.ProviderUnavailable(err)
		}
		return nil
	}
	return apperr.ProviderUnavailable(fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr))
}
