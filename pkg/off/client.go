package off

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/ecobasket/ecobasket/pkg/cache"
)

const (
	// BaseURL is the public Open Food Facts instance.
	BaseURL = "https://world.openfoodfacts.org"

	defaultUserAgent = "ecobasket/1.0 (+https://github.com/ecobasket/ecobasket)"
)

// defaultFields keeps response payloads predictable: any search that
// doesn't ask for specific fields gets this list injected.
var defaultFields = []string{
	"product_name",
	"generic_name",
	"code",
	"image_front_small_url",
	"image_front_url",
	"image_url",
	"brands",
	"ecoscore_grade",
	"nutriments",
	"categories_tags",
	"packaging",
}

// Client talks to the Open Food Facts HTTP API. Successful search and
// lookup responses go through the injected cache keyed by query
// signature; caching is opt-out per call, never silently skipped.
type Client struct {
	base      string
	userAgent string
	http      *retryablehttp.Client
	cache     *cache.Cache
	rng       *rand.Rand
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL points the client at a different catalog instance.
// Tests use this with httptest servers.
func WithBaseURL(base string) ClientOption {
	return func(c *Client) { c.base = strings.TrimRight(base, "/") }
}

// WithUserAgent sets the identifying User-Agent string the catalog
// operators ask API consumers to send.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) { c.userAgent = ua }
}

// WithRand sets the random source used by RandomProducts.
func WithRand(rng *rand.Rand) ClientOption {
	return func(c *Client) { c.rng = rng }
}

func NewClient(store *cache.Cache, opts ...ClientOption) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = log.New(io.Discard, "", 0)
	// Retry policy belongs to callers, not the client. The default
	// CheckRetry would eat 429/5xx responses on the way out, so it is
	// replaced with one that always hands the response back.
	retryClient.RetryMax = 0
	retryClient.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		return false, err
	}

	c := &Client{
		base:      BaseURL,
		userAgent: defaultUserAgent,
		http:      retryClient,
		cache:     store,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProductURL returns the public catalog page for a product code.
func ProductURL(code string) string {
	return BaseURL + "/product/" + url.PathEscape(code)
}

// CategoryOptions control category searches.
type CategoryOptions struct {
	// Country narrows results with an extra countries tag.
	Country string
	// SkipCache bypasses the cache for this call.
	SkipCache bool
	// CacheTTL overrides the default entry lifetime when caching.
	CacheTTL time.Duration
}

// ProductsByCategory fetches up to pageSize products tagged with the
// given category. The category is normalized to a tag the catalog
// understands: lowercased, whitespace collapsed to hyphens.
func (c *Client) ProductsByCategory(ctx context.Context, category string, pageSize int, opts CategoryOptions) ([]Product, error) {
	tag := strings.Join(strings.Fields(strings.ToLower(category)), "-")

	params := url.Values{}
	params.Set("search_terms", "")
	params.Set("search_simple", "1")
	params.Set("action", "process")
	params.Set("json", "1")
	params.Set("page_size", strconv.Itoa(pageSize))
	params.Set("tagtype_0", "categories")
	params.Set("tag_contains_0", "contains")
	params.Set("tag_0", tag)

	if opts.Country != "" {
		params.Set("tagtype_1", "countries")
		params.Set("tag_contains_1", "contains")
		params.Set("tag_1", opts.Country)
	}

	country := opts.Country
	if country == "" {
		country = "any"
	}
	key := fmt.Sprintf("cat:%s:pg:%d:country:%s", category, pageSize, country)

	return c.rawSearch(ctx, params, searchOptions{
		skipCache: opts.SkipCache,
		cacheKey:  key,
		cacheTTL:  opts.CacheTTL,
	})
}

// RandomProducts returns up to count random displayable products from
// a category fetched with pageSize.
func (c *Client) RandomProducts(ctx context.Context, category string, count, pageSize int, opts CategoryOptions) ([]Product, error) {
	prods, err := c.ProductsByCategory(ctx, category, pageSize, opts)
	if err != nil {
		return nil, err
	}
	if len(prods) == 0 {
		return nil, nil
	}
	return SampleUnique(FilterDisplayable(prods), count, c.rng), nil
}

// BarcodeOptions control single-product lookups.
type BarcodeOptions struct {
	SkipCache bool
	CacheTTL  time.Duration
}

// ProductByBarcode looks a single product up by its barcode. A lookup
// the catalog flags as not found returns (nil, nil); only transport
// and HTTP failures are errors.
func (c *Client) ProductByBarcode(ctx context.Context, barcode string, opts BarcodeOptions) (*Product, error) {
	clean := strings.TrimSpace(barcode)
	if clean == "" {
		return nil, nil
	}
	u := c.base + "/api/v0/product/" + url.PathEscape(clean) + ".json"

	if !opts.SkipCache {
		if v, ok := c.cache.Get(u); ok {
			p := v.(Product)
			return &p, nil
		}
	}

	body, err := c.fetch(ctx, u)
	if err != nil {
		return nil, err
	}
	if gjson.Get(body, "status").Int() != 1 {
		return nil, nil
	}
	p := productFromJSON(gjson.Get(body, "product"))
	if !opts.SkipCache {
		ttl := opts.CacheTTL
		if ttl <= 0 {
			ttl = cache.DefaultTTL
		}
		c.cache.SetTTL(u, p, ttl)
	}
	return &p, nil
}

// Search runs an uncached free-text query. It backs the fallback
// search path when a category-style query for a typed term finds
// nothing.
func (c *Client) Search(ctx context.Context, term string, pageSize int) ([]Product, error) {
	params := url.Values{}
	params.Set("search_terms", term)
	params.Set("search_simple", "1")
	params.Set("action", "process")
	params.Set("json", "1")
	params.Set("page_size", strconv.Itoa(pageSize))

	return c.rawSearch(ctx, params, searchOptions{skipCache: true})
}

type searchOptions struct {
	skipCache bool
	cacheKey  string
	cacheTTL  time.Duration
}

func (c *Client) rawSearch(ctx context.Context, params url.Values, opts searchOptions) ([]Product, error) {
	if params.Get("fields") == "" {
		params.Set("fields", strings.Join(defaultFields, ","))
	}
	u := c.base + "/cgi/search.pl?" + params.Encode()

	key := opts.cacheKey
	if key == "" {
		key = u
	}
	if !opts.skipCache {
		if v, ok := c.cache.Get(key); ok {
			return v.([]Product), nil
		}
	}

	body, err := c.fetch(ctx, u)
	if err != nil {
		return nil, err
	}
	prods := productsFromJSON(body)

	if !opts.skipCache {
		ttl := opts.cacheTTL
		if ttl <= 0 {
			ttl = cache.DefaultTTL
		}
		c.cache.SetTTL(key, prods, ttl)
	}
	return prods, nil
}

func (c *Client) fetch(ctx context.Context, u string) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &FetchError{StatusCode: resp.StatusCode, URL: u}
	}
	// A canceled caller must never see (or cache) a stale response.
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return string(body), nil
}
