package helpers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	mathrand "math/rand"
	"net/http"
	"slices"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"

	"sjsage522/deliveryscraper/pkg/errors"
)

// HTTP header configurations
var (
	userAgents = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0.3 Safari/605.1.15",
	}

	rateLimitedStatuses = []int{http.StatusTooManyRequests, 430}
)

// ClientOptions configures the HTTP client shared by the directory and listing fetchers
type ClientOptions struct {
	UserAgent        string
	Timeout          time.Duration
	CloudflareBypass bool
}

// NewClient builds a resty client with browser-like headers. Sites reject
// requests carrying the default Go user agent.
func NewClient(opts ClientOptions) *resty.Client {
	client := resty.New()

	userAgent := opts.UserAgent
	if userAgent == "" {
		rnd := mathrand.New(mathrand.NewSource(time.Now().UnixNano()))
		userAgent = userAgents[rnd.Intn(len(userAgents))]
	}

	client.SetHeader("User-Agent", userAgent)
	client.SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	client.SetHeader("Accept-Language", "it-IT,it;q=0.9,en-US;q=0.8,en;q=0.7")
	client.SetHeader("Cache-Control", "no-cache")
	client.SetHeader("Pragma", "no-cache")

	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	return client
}

// Fetch sends an HTTP GET request, converts the response body to UTF-8
// (if needed), and returns it as an io.Reader.
func Fetch(ctx context.Context, client *resty.Client, url string) (io.Reader, error) {
	resp, err := client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, errors.NewNetwork(url, "failed to fetch URL", err)
	}

	// Check for rate limiting
	if slices.Contains(rateLimitedStatuses, resp.StatusCode()) {
		retryAfter := resp.Header().Get("Retry-After")
		return nil, errors.New(errors.ErrorTypeRateLimit, url, fmt.Sprintf("rate limited; retry after %s", retryAfter), nil)
	}

	// Check for other error status codes
	if resp.StatusCode() != http.StatusOK {
		return nil, errors.NewNetwork(url, fmt.Sprintf("unexpected status code: %d", resp.StatusCode()), nil)
	}

	bodyBytes := resp.Body()

	// Determine the encoding from Content-Type header and body content
	encoding, name, _ := charset.DetermineEncoding(bodyBytes, resp.Header().Get("Content-Type"))

	// If already UTF-8, return as is
	if name == "utf-8" || name == "UTF-8" {
		return bytes.NewReader(bodyBytes), nil
	}

	// Convert to UTF-8 if necessary
	utf8Reader := encoding.NewDecoder().Reader(bytes.NewReader(bodyBytes))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, utf8Reader); err != nil {
		return nil, errors.NewNetwork(url, "failed to read converted UTF-8 body", err)
	}

	return &buf, nil
}
