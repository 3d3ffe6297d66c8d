package linkmeta

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/metrics"
)

// DefaultEndpoint is the public metadata service queried by default.
const DefaultEndpoint = "https://api.microlink.io/"

// Options configures a Resolver. Zero values fall back to defaults.
type Options struct {
	Endpoint  string
	Timeout   time.Duration
	CacheSize int
	CacheTTL  time.Duration
	Rules     []Rule
	Client    *http.Client
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
}

// Resolver fetches link previews from the metadata service.
type Resolver struct {
	endpoint string
	timeout  time.Duration
	rules    []Rule
	client   *http.Client
	cache    *expirable.LRU[string, domain.LinkMetadata]
	log      *slog.Logger
	metrics  *metrics.Metrics
}

// NewResolver constructs a Resolver from opts.
func NewResolver(opts Options) *Resolver {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 256
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Hour
	}
	if opts.Rules == nil {
		opts.Rules = DefaultRules
	}
	if opts.Client == nil {
		opts.Client = &http.Client{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Resolver{
		endpoint: opts.Endpoint,
		timeout:  opts.Timeout,
		rules:    opts.Rules,
		client:   opts.Client,
		cache:    expirable.NewLRU[string, domain.LinkMetadata](opts.CacheSize, nil, opts.CacheTTL),
		log:      opts.Logger,
		metrics:  opts.Metrics,
	}
}

// serviceResponse mirrors the subset of the metadata service payload we read.
type serviceResponse struct {
	Status string `json:"status"`
	Data   struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Image       *struct {
			URL string `json:"url"`
		} `json:"image"`
		URL           string `json:"url"`
		Publisher     string `json:"publisher"`
		Site          string `json:"site"`
		Author        string `json:"author"`
		PublishedDate string `json:"publishedDate"`
		Date          string `json:"date"`
	} `json:"data"`
}

// Resolve returns the best preview it can for rawURL. It never fails:
// any problem talking to the service yields a preview carrying only the
// URL-derived fallback title.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) domain.LinkMetadata {
	normalized := Normalize(rawURL)
	canonical := Canonicalize(normalized, r.rules)
	fallback := domain.LinkMetadata{
		Title: FallbackTitle(normalized, r.rules),
		URL:   canonical,
	}

	if md, ok := r.cache.Get(canonical); ok {
		r.metrics.MetadataCacheHit()
		return md
	}

	resp, err := r.fetch(ctx, canonical)
	if err != nil {
		r.log.WarnContext(ctx, "link metadata unavailable, using fallback title",
			"url", canonical, "error", err)
		r.metrics.MetadataFallback("unavailable")
		return fallback
	}
	if resp.Status != "success" {
		r.log.WarnContext(ctx, "link metadata service declined, using fallback title",
			"url", canonical, "status", resp.Status)
		r.metrics.MetadataFallback("declined")
		return fallback
	}

	md := domain.LinkMetadata{
		Title:         fallback.Title,
		Description:   resp.Data.Description,
		URL:           resp.Data.URL,
		Site:          resp.Data.Publisher,
		Author:        resp.Data.Author,
		PublishedDate: resp.Data.PublishedDate,
	}
	if usableTitle(resp.Data.Title) {
		md.Title = resp.Data.Title
	}
	if resp.Data.Image != nil {
		md.Image = resp.Data.Image.URL
	}
	if md.URL == "" {
		md.URL = canonical
	}
	if md.Site == "" {
		md.Site = resp.Data.Site
	}
	if md.PublishedDate == "" {
		md.PublishedDate = resp.Data.Date
	}

	r.cache.Add(canonical, md)
	return md
}

func (r *Resolver) fetch(ctx context.Context, target string) (serviceResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	endpoint, err := url.Parse(r.endpoint)
	if err != nil {
		return serviceResponse{}, fmt.Errorf("parse endpoint: %w", err)
	}
	q := endpoint.Query()
	q.Set("url", target)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return serviceResponse{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := r.client.Do(req)
	if err != nil {
		return serviceResponse{}, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return serviceResponse{}, fmt.Errorf("unexpected status %d", res.StatusCode)
	}

	var out serviceResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return serviceResponse{}, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}
