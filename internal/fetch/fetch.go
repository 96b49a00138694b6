// Package fetch retrieves study data from the ClinicalTrials.gov v2 API.
//
// The API pages through results with an opaque nextPageToken. Fetching is a
// single forward pass with a fixed inter-page delay and no retries: when a
// page fails, the failure is logged and whatever was collected so far is
// returned. Pages are cached in process so repeated analyses over the same
// condition within one run do not refetch.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/trialscope/trialscope/internal/transport"
	"github.com/trialscope/trialscope/pkg/constants"
	"github.com/trialscope/trialscope/pkg/errors"
	"github.com/trialscope/trialscope/pkg/logging"
)

// DefaultBaseURL is the ClinicalTrials.gov API v2 base URL.
const DefaultBaseURL = "https://clinicaltrials.gov/api/v2"

// Client fetches studies from the ClinicalTrials.gov API.
type Client struct {
	baseURL  string
	http     *transport.Client
	cache    *gocache.Cache
	pageSize int
	delay    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithPageSize overrides the per-page study count.
func WithPageSize(n int) Option {
	return func(c *Client) { c.pageSize = n }
}

// WithDelay overrides the fixed inter-page delay.
func WithDelay(d time.Duration) Option {
	return func(c *Client) { c.delay = d }
}

// New creates a fetch client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:  DefaultBaseURL,
		http:     transport.New(),
		cache:    gocache.New(constants.FetchCacheTTL, constants.FetchCacheTTL),
		pageSize: constants.FetchPageSize,
		delay:    constants.FetchPageDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// page is one API response page.
type page struct {
	TotalCount    int     `json:"totalCount"`
	Studies       []Study `json:"studies"`
	NextPageToken string  `json:"nextPageToken"`
}

// Studies fetches all studies for a condition query, following
// nextPageToken until absent. A failed page terminates the loop early and
// the studies collected so far are returned; only a first-page failure is
// an error.
func (c *Client) Studies(ctx context.Context, condition string) ([]Study, error) {
	logger := logging.FromContext(ctx)
	logger.Info().
		Str("condition", condition).
		Msg("Fetching studies from ClinicalTrials.gov")

	var all []Study
	pageToken := ""
	pageCount := 0

	for {
		pageCount++
		if pageCount > 1 {
			// Fixed delay between requests to be respectful to the API.
			select {
			case <-time.After(c.delay):
			case <-ctx.Done():
				logger.Warn().Err(ctx.Err()).Msg("Fetch canceled, returning partial results")
				return all, nil
			}
		}

		p, err := c.fetchPage(ctx, condition, pageToken)
		if err != nil {
			if pageCount == 1 {
				return nil, err
			}
			logger.Warn().
				Err(err).
				Int("page", pageCount).
				Int("collected", len(all)).
				Msg("Page fetch failed, returning partial results")
			return all, nil
		}

		all = append(all, p.Studies...)
		if pageCount == 1 && p.TotalCount > 0 {
			logger.Info().Int("total", p.TotalCount).Msg("Total studies available")
		}
		logger.Debug().
			Int("page", pageCount).
			Int("studies", len(p.Studies)).
			Msg("Fetched page")

		pageToken = p.NextPageToken
		if pageToken == "" {
			break
		}
	}

	logger.Info().
		Int("studies", len(all)).
		Int("pages", pageCount).
		Msg("Fetch complete")
	return all, nil
}

// fetchPage retrieves a single API page, consulting the page cache first.
func (c *Client) fetchPage(ctx context.Context, condition, pageToken string) (*page, error) {
	cacheKey := condition + "|" + pageToken
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.(*page), nil
	}

	params := url.Values{}
	params.Set("query.cond", condition)
	params.Set("format", "json")
	params.Set("pageSize", fmt.Sprintf("%d", c.pageSize))
	if pageToken == "" {
		// Only count the total on the first page.
		params.Set("countTotal", "true")
	} else {
		params.Set("countTotal", "false")
		params.Set("pageToken", pageToken)
	}

	resp, err := c.http.Get(ctx, c.baseURL+"/studies?"+params.Encode())
	if err != nil {
		return nil, errors.WrapAPI("CLINICALTRIALS_GOV", 0, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body

	if resp.StatusCode != 200 {
		return nil, errors.NewAPIError("CLINICALTRIALS_GOV", resp.StatusCode, "unexpected status")
	}

	var p page
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, errors.WrapAPI("CLINICALTRIALS_GOV", resp.StatusCode, err)
	}

	c.cache.Set(cacheKey, &p, gocache.DefaultExpiration)
	return &p, nil
}
