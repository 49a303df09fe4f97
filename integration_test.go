package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sjsage522/deliveryscraper/commands"
	"sjsage522/deliveryscraper/config"
	"sjsage522/deliveryscraper/internal/scraper"
)

// This is a simple test HTML that mimics a listing page
const testListingHTML = `
<!DOCTYPE html>
<html>
<head>
    <title>Ristoranti a domicilio</title>
    <script>window.dataLayer = window.dataLayer || [];</script>
    <script>
        window["__INITIAL_STATE__"] = JSON.parse("{\"restaurants\":{\"42\":{\"name\":\"Pizzeria (Da Gino)\",\"position\":%d,\"isNew\":false}},\"additionalAnalytics\":{\"restaurantAnalytics\":{\"42\":{\"deliveryCost\":%d,\"minimumDeliveryValue\":NaN}}}}")
    </script>
</head>
<body></body>
</html>
`

const testDirectoryHTML = `
<html><body>
    <h1>Integrazione</h1>
    <table class="results">
        <tr><td><a href="/cap/10121">10121</a></td></tr>
        <tr><td><a href="/cap/10122">10122</a></td></tr>
    </table>
</body></html>
`

// TestIntegration tests the entire application flow against live memcache and redis
func TestIntegration(t *testing.T) {
	// Skip this test if running in CI or without Redis/Memcached
	if os.Getenv("CI") != "" {
		t.Skip("Skipping integration test in CI environment")
	}

	ctx := context.Background()

	redisAddr := "localhost:6379"
	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr, DB: 0})
	defer redisClient.Close()
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		t.Skip("Redis is not available, skipping integration test")
	}

	memcacheAddr := "localhost:11211"
	if err := memcache.New(memcacheAddr).Ping(); err != nil {
		t.Skip("Memcached is not available, skipping integration test")
	}

	var listingHits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		switch r.URL.Path {
		case "/cap":
			io.WriteString(w, testDirectoryHTML)
		case "/area/10121":
			atomic.AddInt64(&listingHits, 1)
			fmt.Fprintf(w, testListingHTML, 2, 1)
		case "/area/10122":
			atomic.AddInt64(&listingHits, 1)
			fmt.Fprintf(w, testListingHTML, 4, 2)
		}
	}))
	defer server.Close()

	stream := "test_integration_restaurants"
	require.NoError(t, redisClient.Del(ctx, stream+":0").Err())
	defer redisClient.Del(ctx, stream+":0")

	mc := memcache.New(memcacheAddr)
	for _, key := range []string{"range:integrazione", "state:10121", "state:10122", scraper.RateLimitCacheKey} {
		mc.Delete(key)
	}

	cfg := config.LoadConfig()
	cfg.ListingURLTemplate = server.URL + "/area/%s"
	cfg.DirectoryURLTemplate = server.URL + "/cap?k=%s"
	cfg.OutputDir = t.TempDir()
	cfg.MemcacheAddr = memcacheAddr
	cfg.RedisAddr = redisAddr
	cfg.RedisStream = stream
	cfg.RedisStreamCount = 1
	cfg.PostgresDSN = ""

	var out bytes.Buffer
	cmd := commands.NewRootCommand(cfg, strings.NewReader(""), &out)
	cmd.SetArgs([]string{"scrape", "Integrazione"})
	require.NoError(t, cmd.ExecuteContext(ctx))
	assert.Contains(t, out.String(), "Run summary: Integrazione")

	messages, err := redisClient.XRange(ctx, stream+":0", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, messages, 2)

	var record scraper.AggregatedRecord
	require.NoError(t, json.Unmarshal([]byte(messages[0].Values["payload"].(string)), &record))
	assert.Equal(t, "42", record.ID)
	assert.Equal(t, "Pizzeria (Da Gino)", record.Name)
	assert.Equal(t, 3.0, record.AveragePosition)
	assert.Equal(t, 1.5, record.AverageDeliveryCost)
	assert.Equal(t, "", record.MinimumDeliveryValue)

	// A second run is served from memcache
	cmd = commands.NewRootCommand(cfg, strings.NewReader(""), &bytes.Buffer{})
	cmd.SetArgs([]string{"scrape", "Integrazione"})
	require.NoError(t, cmd.ExecuteContext(ctx))
	assert.Equal(t, int64(2), atomic.LoadInt64(&listingHits))
}
