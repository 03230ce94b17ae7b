package resolve

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const maxProbeBytes = 10 << 20

// HTTPProber loads a URL and decodes the image header. It never sends a
// Referer, not even across redirects, so hotlink-protected hosts treat the
// request like a direct visit.
type HTTPProber struct {
	http      *http.Client
	userAgent string
}

func NewHTTPProber(httpClient *http.Client, userAgent string) *HTTPProber {
	var c http.Client
	if httpClient != nil {
		c = *httpClient
	} else {
		c = http.Client{Timeout: 10 * time.Second}
	}
	c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= 10 {
			return errors.New("stopped after 10 redirects")
		}
		req.Header.Del("Referer")
		return nil
	}
	return &HTTPProber{http: &c, userAgent: userAgent}
}

func (p *HTTPProber) Probe(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "image/*")
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("load image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("load image: status %d", resp.StatusCode)
	}
	// Vector originals cannot be decoded here but render fine downstream.
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "image/svg") {
		return nil
	}
	if _, _, err := image.DecodeConfig(io.LimitReader(resp.Body, maxProbeBytes)); err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	return nil
}
