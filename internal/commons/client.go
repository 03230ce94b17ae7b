// Package commons looks up media files on the Wikimedia Commons API.
//
// Every lookup is best-effort: transport failures, bad statuses, malformed
// bodies and missing pages all come back as "no result".
package commons

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/glabrego/curio-cli/internal/logger"
)

// ThumbWidth is the thumbnail width requested from imageinfo.
const ThumbWidth = 800

// missingPageID is the page key the API uses for a title that does not exist.
const missingPageID = "-1"

type imageInfo struct {
	ThumbURL string `json:"thumburl"`
	URL      string `json:"url"`
}

type page struct {
	ImageInfo []imageInfo `json:"imageinfo"`
}

type queryResponse struct {
	Query *struct {
		Pages map[string]page `json:"pages"`
	} `json:"query"`
}

type Options struct {
	UserAgent string
	// RequestsPerSecond caps outgoing API calls. Zero disables limiting.
	RequestsPerSecond float64
	Logger            logger.Logger
}

type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
	breaker   *gobreaker.CircuitBreaker
	log       logger.Logger
}

func NewClient(baseURL string, httpClient *http.Client, opts Options) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: opts.UserAgent,
		http:      httpClient,
		log:       log,
	}
	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "commons-api",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()))
		},
	})
	return c
}

// ResolveExact looks up File:<filename> and returns its thumbnail URL, or the
// original file URL when no thumbnail is offered.
func (c *Client) ResolveExact(ctx context.Context, filename string) (string, bool) {
	if filename == "" {
		return "", false
	}
	q := make(url.Values)
	q.Set("action", "query")
	q.Set("titles", "File:"+filename)
	q.Set("prop", "imageinfo")
	q.Set("iiprop", "url")
	q.Set("iiurlwidth", strconv.Itoa(ThumbWidth))
	q.Set("redirects", "1")
	q.Set("format", "json")

	pages, err := c.query(ctx, q)
	if err != nil {
		c.log.Debug("exact lookup failed", logger.String("filename", filename), logger.Error(err))
		return "", false
	}
	if _, missing := pages[missingPageID]; missing {
		return "", false
	}
	return firstImageURL(pages)
}

// ResolveBySearch runs a full-text search over the File namespace and returns
// the top hit. Terms that clean down to fewer than three characters are not
// searched at all.
func (c *Client) ResolveBySearch(ctx context.Context, keywords string) (string, bool) {
	term, ok := SearchTerm(keywords)
	if !ok {
		return "", false
	}
	q := make(url.Values)
	q.Set("action", "query")
	q.Set("generator", "search")
	q.Set("gsrsearch", term)
	q.Set("gsrnamespace", "6")
	q.Set("gsrlimit", "1")
	q.Set("prop", "imageinfo")
	q.Set("iiprop", "url")
	q.Set("iiurlwidth", strconv.Itoa(ThumbWidth))
	q.Set("format", "json")

	pages, err := c.query(ctx, q)
	if err != nil {
		c.log.Debug("search lookup failed", logger.String("term", term), logger.Error(err))
		return "", false
	}
	return firstImageURL(pages)
}

// ResolveFromReference tries the exact filename first and falls back to a
// keyword search on the same filename. It never loads the image itself.
func (c *Client) ResolveFromReference(ctx context.Context, ref string) (string, bool) {
	filename := ExtractFilename(ref)
	if filename == "" {
		return "", false
	}
	if u, ok := c.ResolveExact(ctx, filename); ok {
		return u, true
	}
	return c.ResolveBySearch(ctx, filename)
}

func (c *Client) query(ctx context.Context, q url.Values) (map[string]page, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.do(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	return out.(map[string]page), nil
}

func (c *Client) do(ctx context.Context, q url.Values) (map[string]page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("query failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded queryResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode query response: %w", err)
	}
	if decoded.Query == nil {
		return map[string]page{}, nil
	}
	return decoded.Query.Pages, nil
}

// firstImageURL picks the lowest page id, mirroring the API's own ordering.
func firstImageURL(pages map[string]page) (string, bool) {
	if len(pages) == 0 {
		return "", false
	}
	keys := make([]string, 0, len(pages))
	for k := range pages {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA != nil || errB != nil {
			return keys[i] < keys[j]
		}
		return a < b
	})

	p := pages[keys[0]]
	if len(p.ImageInfo) == 0 {
		return "", false
	}
	info := p.ImageInfo[0]
	if info.ThumbURL != "" {
		return info.ThumbURL, true
	}
	if info.URL != "" {
		return info.URL, true
	}
	return "", false
}
