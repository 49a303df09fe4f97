package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"sjsage522/deliveryscraper/helpers"
	"sjsage522/deliveryscraper/logger"
	"sjsage522/deliveryscraper/pkg/errors"
	"sjsage522/deliveryscraper/services/cache"
)

// RangeResolver maps a city name to the postal code range to scrape
type RangeResolver interface {
	ResolvePostalRange(ctx context.Context, city string) (PostalRange, error)
}

// DirectoryResolver reads the postal code range of a city from a postal
// directory page. The bounds are the first and last postal code links in page
// order, not their numeric minimum and maximum.
type DirectoryResolver struct {
	Client             *resty.Client
	URLTemplate        string
	CityNameSelector   string
	PostalLinkSelector string
	CacheSvc           cache.CacheService
	CacheTTL           time.Duration
}

func rangeCacheKey(city string) string {
	return "range:" + strings.ToLower(helpers.SanitizeFileComponent(city))
}

// ResolvePostalRange fetches the directory page for city and extracts its range
func (r *DirectoryResolver) ResolvePostalRange(ctx context.Context, city string) (PostalRange, error) {
	log := logger.ForResolver().WithField("city", city)

	if cached, ok := r.fromCache(city); ok {
		log.Debug().Str("canonical", cached.City).Msg("Postal range served from cache")
		return cached, nil
	}

	pageURL := fmt.Sprintf(r.URLTemplate, url.QueryEscape(city))
	body, err := helpers.Fetch(ctx, r.Client, pageURL)
	if err != nil {
		return PostalRange{}, err
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return PostalRange{}, errors.NewNetwork(pageURL, "failed to parse directory page", err)
	}

	pr, err := r.extract(doc, city)
	if err != nil {
		return PostalRange{}, err
	}
	if pr.Upper < pr.Lower {
		log.Warn().Int("lower", pr.Lower).Int("upper", pr.Upper).Msg("Directory lists postal codes in descending order")
	}

	log.Info().
		Str("canonical", pr.City).
		Int("lower", pr.Lower).
		Int("upper", pr.Upper).
		Msg("Postal range resolved")

	r.toCache(city, pr)
	return pr, nil
}

func (r *DirectoryResolver) extract(doc *goquery.Document, city string) (PostalRange, error) {
	links := doc.Find(r.PostalLinkSelector)
	if links.Length() == 0 {
		return PostalRange{}, errors.NewNotFound(city, "directory page has no postal code region")
	}

	var codes []int
	links.Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if !isDigits(text) {
			return
		}
		code, err := strconv.Atoi(text)
		if err == nil {
			codes = append(codes, code)
		}
	})
	if len(codes) == 0 {
		return PostalRange{}, errors.NewNotFound(city, "directory page lists no postal codes")
	}

	name := strings.TrimSpace(doc.Find(r.CityNameSelector).First().Text())
	if name == "" {
		name = city
	}

	return PostalRange{City: name, Lower: codes[0], Upper: codes[len(codes)-1]}, nil
}

func (r *DirectoryResolver) fromCache(city string) (PostalRange, bool) {
	if r.CacheSvc == nil {
		return PostalRange{}, false
	}
	data, err := r.CacheSvc.Get(rangeCacheKey(city))
	if err != nil {
		return PostalRange{}, false
	}
	var pr PostalRange
	if err := json.Unmarshal(data, &pr); err != nil {
		return PostalRange{}, false
	}
	return pr, true
}

func (r *DirectoryResolver) toCache(city string, pr PostalRange) {
	if r.CacheSvc == nil {
		return
	}
	data, err := json.Marshal(pr)
	if err != nil {
		return
	}
	if err := r.CacheSvc.Set(rangeCacheKey(city), data, r.CacheTTL); err != nil {
		logger.ForCache().Warn().Err(err).Str("city", city).Msg("Failed to cache postal range")
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
