// Package pubchem looks up compounds and their 3D geometry through the
// PubChem PUG REST API.
package pubchem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"MolView/internal/chem"
	"MolView/internal/logger"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL       = "https://pubchem.ncbi.nlm.nih.gov/rest/pug"
	DefaultTimeout       = 15 * time.Second
	DefaultRateLimit     = 500 * time.Millisecond
	DefaultRetries       = 2
	DefaultRetryInterval = 500 * time.Millisecond
	DefaultCacheTTL      = 5 * time.Minute

	maxSynonyms = 5
)

var (
	// ErrSearchUnavailable wraps transport failures and server errors.
	// Callers fall back to the placeholder structure.
	ErrSearchUnavailable = errors.New("pubchem: search unavailable")
	ErrNotFound          = errors.New("pubchem: compound not found")
)

type Options struct {
	BaseURL       string
	Timeout       time.Duration
	RateLimit     time.Duration // minimum spacing between requests
	Retries       int
	RetryInterval time.Duration
	CacheTTL      time.Duration // zero disables the result cache
	HTTPClient    *http.Client
}

func DefaultOptions() Options {
	return Options{
		BaseURL:       DefaultBaseURL,
		Timeout:       DefaultTimeout,
		RateLimit:     DefaultRateLimit,
		Retries:       DefaultRetries,
		RetryInterval: DefaultRetryInterval,
		CacheTTL:      DefaultCacheTTL,
	}
}

type Client struct {
	opts    Options
	http    *http.Client
	limiter *rate.Limiter

	mu    sync.Mutex
	cache map[string]cacheEntry
	now   func() time.Time
}

type cacheEntry struct {
	result  chem.SearchResult
	expires time.Time
}

func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = DefaultRetryInterval
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Every(opts.RateLimit)
	}
	return &Client{
		opts:    opts,
		http:    httpClient,
		limiter: rate.NewLimiter(limit, 1),
		cache:   make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Search resolves query to the first matching compound. A compound without
// a 3D record is returned without a structure; that is not an error.
func (c *Client) Search(ctx context.Context, query string) (chem.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return chem.SearchResult{}, fmt.Errorf("%w: empty query", ErrNotFound)
	}
	key := strings.ToLower(query)
	if r, ok := c.cached(key); ok {
		logger.Log.Debug("PubChem cache hit", zap.String("query", query))
		return r, nil
	}

	cid, err := c.lookupCID(ctx, query)
	if err != nil {
		return chem.SearchResult{}, err
	}

	r := chem.SearchResult{Name: query, CID: cid, Metadata: map[string]any{"source": "pubchem"}}
	var props propertyTable
	path := fmt.Sprintf("/compound/cid/%d/property/Title,MolecularFormula,MolecularWeight,IUPACName/JSON", cid)
	if err := c.get(ctx, path, &props); err != nil {
		return chem.SearchResult{}, fmt.Errorf("properties of cid %d: %w", cid, err)
	}
	if len(props.PropertyTable.Properties) > 0 {
		p := props.PropertyTable.Properties[0]
		if p.Title != "" {
			r.Name = p.Title
		}
		r.MolecularFormula = p.MolecularFormula
		r.MolecularWeight = p.MolecularWeight
		if p.IUPACName != "" {
			r.Metadata["iupac_name"] = p.IUPACName
		}
	}

	// A partial answer caused by a transient failure is returned but not
	// cached, so the next search asks again.
	complete := true

	syn, err := c.synonyms(ctx, cid)
	switch {
	case err == nil:
		if len(syn) > 0 {
			r.Metadata["synonyms"] = syn
		}
	case errors.Is(err, ErrSearchUnavailable):
		complete = false
		logger.Log.Debug("Synonyms unavailable", zap.Int64("cid", cid), zap.Error(err))
	default:
		logger.Log.Debug("No synonyms for compound", zap.Int64("cid", cid), zap.Error(err))
	}

	s, err := c.conformer(ctx, cid)
	switch {
	case err == nil:
		r.Structure = s
	case ctx.Err() != nil:
		return chem.SearchResult{}, ctx.Err()
	case errors.Is(err, ErrSearchUnavailable):
		complete = false
		logger.Log.Warn("3D record unavailable, not caching result", zap.Int64("cid", cid), zap.Error(err))
	default:
		logger.Log.Info("No 3D structure for compound", zap.Int64("cid", cid), zap.Error(err))
	}

	if complete {
		c.store(key, r)
	}
	return r, nil
}

// lookupCID tries an exact name match, then PubChem's full-text search.
func (c *Client) lookupCID(ctx context.Context, query string) (int64, error) {
	escaped := url.PathEscape(query)
	for _, kind := range []string{"name", "text"} {
		var ids cidList
		err := c.get(ctx, "/compound/"+kind+"/"+escaped+"/cids/JSON", &ids)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("lookup %q: %w", query, err)
		}
		if len(ids.IdentifierList.CID) > 0 {
			return ids.IdentifierList.CID[0], nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrNotFound, query)
}

func (c *Client) synonyms(ctx context.Context, cid int64) ([]string, error) {
	var list synonymList
	if err := c.get(ctx, fmt.Sprintf("/compound/cid/%d/synonyms/JSON", cid), &list); err != nil {
		return nil, err
	}
	info := list.InformationList.Information
	if len(info) == 0 {
		return nil, nil
	}
	syn := info[0].Synonym
	if len(syn) > maxSynonyms {
		syn = syn[:maxSynonyms]
	}
	return syn, nil
}

func (c *Client) conformer(ctx context.Context, cid int64) (*chem.Structure, error) {
	var rec compoundRecord
	if err := c.get(ctx, fmt.Sprintf("/compound/cid/%d/record/JSON?record_type=3d", cid), &rec); err != nil {
		return nil, err
	}
	return rec.structure()
}

// get fetches path and decodes the JSON body into out. Server errors and
// transport failures are retried; 404 maps to ErrNotFound.
func (c *Client) get(ctx context.Context, path string, out any) error {
	op := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		return c.do(ctx, path, out)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.opts.RetryInterval
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.opts.Retries)), ctx)

	return backoff.RetryNotify(op, policy, func(err error, wait time.Duration) {
		logger.Log.Warn("PubChem request failed, retrying",
			zap.String("path", path), zap.Duration("wait", wait), zap.Error(err))
	})
}

func (c *Client) do(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.BaseURL+path, nil)
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return fmt.Errorf("%w: %v", ErrSearchUnavailable, err)
	}
	defer resp.Body.Close()
	logger.Log.Debug("PubChem request",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return backoff.Permanent(ErrNotFound)
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrSearchUnavailable, resp.StatusCode)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return backoff.Permanent(fmt.Errorf("pubchem: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return backoff.Permanent(fmt.Errorf("pubchem: decode %s: %w", path, err))
	}
	return nil
}

func (c *Client) cached(key string) (chem.SearchResult, bool) {
	if c.opts.CacheTTL <= 0 {
		return chem.SearchResult{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.cache[key]
	if !ok {
		return chem.SearchResult{}, false
	}
	if !c.now().Before(e.expires) {
		delete(c.cache, key)
		return chem.SearchResult{}, false
	}
	return e.result, true
}

func (c *Client) store(key string, r chem.SearchResult) {
	if c.opts.CacheTTL <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, e := range c.cache {
		if !now.Before(e.expires) {
			delete(c.cache, k)
		}
	}
	c.cache[key] = cacheEntry{result: r, expires: now.Add(c.opts.CacheTTL)}
}
