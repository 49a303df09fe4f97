package scraper

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"sjsage522/deliveryscraper/helpers"
	"sjsage522/deliveryscraper/internal/state"
	"sjsage522/deliveryscraper/logger"
	"sjsage522/deliveryscraper/pkg/errors"
	"sjsage522/deliveryscraper/services/cache"
)

// RateLimitCacheKey blocks listing requests while it is present in the cache
const RateLimitCacheKey = "listing_rate_limited"

// StateFetcher returns the raw state script of a postal code's listing page
type StateFetcher interface {
	FetchState(ctx context.Context, postalCode string) (string, error)
}

// ListingFetcher downloads listing pages and extracts the state script.
// It does not retry; callers wrap it in a retry policy.
type ListingFetcher struct {
	Client      *resty.Client
	URLTemplate string
	CacheSvc    cache.CacheService
	CacheTTL    time.Duration
	BlockTime   time.Duration
}

func stateCacheKey(postalCode string) string {
	return "state:" + postalCode
}

// FetchState returns the first inline script starting with the state marker
func (f *ListingFetcher) FetchState(ctx context.Context, postalCode string) (string, error) {
	if f.CacheSvc != nil {
		if _, err := f.CacheSvc.Get(RateLimitCacheKey); err == nil {
			return "", errors.NewRateLimit(postalCode, f.BlockTime)
		}
		if blob, err := f.CacheSvc.Get(stateCacheKey(postalCode)); err == nil {
			logger.ForFetcher().Debug().Str("postal_code", postalCode).Msg("State served from cache")
			return string(blob), nil
		}
	}

	pageURL := fmt.Sprintf(f.URLTemplate, postalCode)
	body, err := helpers.Fetch(ctx, f.Client, pageURL)
	if err != nil {
		if f.CacheSvc != nil && stderrors.Is(err, errors.ErrRateLimit) {
			blockSeconds := fmt.Sprintf("%d", f.BlockTime/time.Second)
			if cerr := f.CacheSvc.Set(RateLimitCacheKey, []byte(blockSeconds), f.BlockTime); cerr != nil {
				logger.ForCache().Warn().Err(cerr).Msg("Failed to store rate limit block")
			}
		}
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", errors.NewNetwork(pageURL, "failed to parse listing page", err)
	}

	blob, ok := findStateScript(doc)
	if !ok {
		return "", errors.NewStateNotFound(postalCode, "no inline script carries the page state")
	}

	if f.CacheSvc != nil && f.CacheTTL > 0 {
		if err := f.CacheSvc.Set(stateCacheKey(postalCode), []byte(blob), f.CacheTTL); err != nil {
			logger.ForCache().Debug().Err(err).Str("postal_code", postalCode).Msg("State not cached")
		}
	}
	return blob, nil
}

func findStateScript(doc *goquery.Document) (string, bool) {
	var blob string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimLeft(s.Text(), " \t\r\n")
		if strings.HasPrefix(text, state.Marker) {
			blob = text
			return false
		}
		return true
	})
	return blob, blob != ""
}
