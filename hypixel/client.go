package hypixel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"heinzbottle/metrics"
	"heinzbottle/statdoc"

	log "github.com/sirupsen/logrus"
)

// ErrPlayerNotFound is returned when the API has no player for the identifier
var ErrPlayerNotFound = errors.New("player not found")

// ErrRateLimited is returned when the API rejects a request for exceeding the key's budget
var ErrRateLimited = errors.New("hypixel api rate limit exceeded")

// ClientConfig holds the settings of the Hypixel API client
type ClientConfig struct {
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// Client fetches player and guild documents from the Hypixel API
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	cache      Cache
}

// NewClient creates a client. A nil cache disables caching.
func NewClient(config ClientConfig, cache Cache) *Client {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = 10 * time.Minute
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		cache:      cache,
	}
}

// FetchPlayer returns the player document for a UUID
func (c *Client) FetchPlayer(ctx context.Context, playerUUID string) (*statdoc.Document, error) {
	id, err := NormalizeUUID(playerUUID)
	if err != nil {
		return nil, err
	}
	return c.fetchPlayer(ctx, "uuid", id)
}

// FetchPlayerByName returns the player document for a username
func (c *Client) FetchPlayerByName(ctx context.Context, username string) (*statdoc.Document, error) {
	if !IsValidUsername(username) {
		return nil, fmt.Errorf("invalid username %q: %w", username, ErrPlayerNotFound)
	}
	return c.fetchPlayer(ctx, "name", strings.ToLower(username))
}

func (c *Client) fetchPlayer(ctx context.Context, parameter, identifier string) (*statdoc.Document, error) {
	doc, err := c.request(ctx, "player", parameter, identifier)
	if err != nil {
		return nil, err
	}
	if success, ok := doc.Bool("success"); ok && !success {
		return nil, ErrPlayerNotFound
	}
	if kind, ok := doc.KindAt("player"); !ok || kind != statdoc.Object {
		return nil, ErrPlayerNotFound
	}
	return doc, nil
}

// FetchGuild returns the parsed roster of a guild
func (c *Client) FetchGuild(ctx context.Context, guildID string) (*Guild, error) {
	doc, err := c.request(ctx, "guild", "id", guildID)
	if err != nil {
		return nil, err
	}
	return ParseGuild(doc)
}

func (c *Client) request(ctx context.Context, endpoint, parameter, argument string) (*statdoc.Document, error) {
	cacheKey := endpoint + ":" + parameter + ":" + argument

	if c.cache != nil {
		payload, ok, err := c.cache.Get(ctx, cacheKey)
		if err != nil {
			log.WithFields(log.Fields{
				"key":   cacheKey,
				"error": err,
			}).Warn("Hypixel cache read failed, requesting from API")
		}
		if ok {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			log.WithField("key", cacheKey).Debug("API cache hit")
			return statdoc.Parse(payload)
		}
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	endpointURL := fmt.Sprintf("%s/v2/%s?%s=%s", c.config.BaseURL, endpoint, parameter, url.QueryEscape(argument))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpointURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", endpoint, err)
	}
	req.Header.Set("API-Key", c.config.APIKey)

	log.WithFields(log.Fields{
		"endpoint":  endpoint,
		"parameter": parameter,
		"argument":  argument,
	}).Debug("Making Hypixel API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.APIRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("failed to request %s %s: %w", endpoint, argument, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.APIRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("failed to read %s response: %w", endpoint, err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		metrics.APIRequests.WithLabelValues(endpoint, "rate_limited").Inc()
		return nil, ErrRateLimited
	case resp.StatusCode == http.StatusNotFound:
		metrics.APIRequests.WithLabelValues(endpoint, "not_found").Inc()
		if endpoint == "guild" {
			return nil, ErrGuildNotFound
		}
		return nil, ErrPlayerNotFound
	case resp.StatusCode != http.StatusOK:
		metrics.APIRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("hypixel %s request returned status %d", endpoint, resp.StatusCode)
	}
	metrics.APIRequests.WithLabelValues(endpoint, "ok").Inc()

	doc, err := statdoc.Parse(payload)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, payload, c.config.CacheTTL); err != nil {
			log.WithFields(log.Fields{
				"key":   cacheKey,
				"error": err,
			}).Warn("Failed to cache Hypixel response")
		}
	}

	return doc, nil
}
