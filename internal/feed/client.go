package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/nightdesk/news-agent/internal/config"
	"github.com/nightdesk/news-agent/internal/models"
)

// ErrUnavailable wraps transport failures, timeouts, and non-2xx answers
// from the news provider after the single retry is exhausted.
var ErrUnavailable = errors.New("news provider unavailable")

// Client is the gateway to the provider's REST feed sensors. Everything
// downstream of Retrieve sees only normalized NewsItems, never the
// provider's wire shapes.
type Client struct {
	baseURL  string
	token    string
	sensors  []string
	backoff  time.Duration
	snapshot string
	http     *http.Client
	log      *slog.Logger
}

// sensorState mirrors the provider's state payload: the feed rides inside
// the sensor's attributes as an RSS channel rendered to JSON.
type sensorState struct {
	Attributes struct {
		RSS struct {
			Channel struct {
				Item []feedItem `json:"item"`
			} `json:"channel"`
		} `json:"rss"`
	} `json:"attributes"`
}

type feedItem struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	PubDate     string  `json:"pubDate"`
	Link        string  `json:"link"`
	Relevance   float64 `json:"relevance"`
}

// New instantiates the provider client.
func New(cfg *config.Agent, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.FeedBaseURL, "/"),
		token:    cfg.FeedToken,
		sensors:  cfg.FeedSensors,
		backoff:  cfg.RetryBackoff,
		snapshot: cfg.SnapshotFile,
		http:     &http.Client{Timeout: cfg.ProviderTimeout},
		log:      logger,
	}
}

// Retrieve performs the single retrieval pass of an invocation: every
// configured sensor is fetched once (with one retry after a fixed backoff)
// and the results are normalized and aggregated in configuration order.
// Zero items is a valid outcome, not an error.
func (c *Client) Retrieve(ctx context.Context) ([]models.NewsItem, error) {
	c.log.Debug("fetching feed sensors",
		slog.String("base_url", c.baseURL),
		slog.Any("sensors", c.sensors),
	)

	var raw int
	seen := make(map[string]struct{})
	items := make([]models.NewsItem, 0, 32)

	for _, sensor := range c.sensors {
		state, err := c.fetchSensor(ctx, sensor)
		if err != nil {
			return nil, err
		}

		feed := state.Attributes.RSS.Channel.Item
		raw += len(feed)

		for _, fi := range feed {
			item, ok := normalize(fi, sensor)
			if !ok {
				c.log.Debug("discarding title-less item", slog.String("sensor", sensor))
				continue
			}

			key := item.Title + "|" + item.Link
			if _, dup := seen[key]; dup {
				c.log.Debug("duplicate item across sensors", slog.String("title", item.Title))
				continue
			}
			seen[key] = struct{}{}
			items = append(items, item)
		}
	}

	c.log.Debug("feed retrieval pass done", slog.Int("raw_items", raw))
	c.log.Info("retrieved news items", slog.Int("count", len(items)))

	if c.snapshot != "" {
		c.writeSnapshot(items)
	}

	return items, nil
}

// fetchSensor issues the state request for one sensor, retrying once
// after a fixed backoff before surfacing the failure.
func (c *Client) fetchSensor(ctx context.Context, sensor string) (*sensorState, error) {
	state, err := c.getState(ctx, sensor)
	if err == nil {
		return state, nil
	}

	c.log.Warn("sensor fetch failed, retrying once",
		slog.String("sensor", sensor),
		slog.Duration("backoff", c.backoff),
		slog.Any("err", err),
	)

	select {
	case <-time.After(c.backoff):
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
	}

	state, err = c.getState(ctx, sensor)
	if err != nil {
		return nil, fmt.Errorf("%w: sensor %s: %v", ErrUnavailable, sensor, err)
	}
	return state, nil
}

func (c *Client) getState(ctx context.Context, sensor string) (*sensorState, error) {
	url := fmt.Sprintf("%s/api/states/%s", c.baseURL, sensor)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", sensor, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var state sensorState
	if err := json.Unmarshal(body, &state); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}

	return &state, nil
}

// normalize maps one wire item onto the uniform representation. Items
// without a title cannot be summarized and are dropped.
func normalize(fi feedItem, sensor string) (models.NewsItem, bool) {
	title := strings.TrimSpace(html.UnescapeString(fi.Title))
	if title == "" {
		return models.NewsItem{}, false
	}

	return models.NewsItem{
		Title:     title,
		Body:      strings.TrimSpace(html.UnescapeString(fi.Description)),
		Link:      strings.TrimSpace(fi.Link),
		Source:    sensor,
		Published: parsePubDate(fi.PubDate),
		Hint:      fi.Relevance,
	}, true
}

func parsePubDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}

	formats := []string{
		time.RFC1123Z,
		time.RFC1123,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}

	for _, f := range formats {
		if ts, err := time.Parse(f, raw); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// writeSnapshot persists the normalized pass to a JSON file, mirroring the
// provider-side feed cache. Best effort only.
func (c *Client) writeSnapshot(items []models.NewsItem) {
	payload, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		c.log.Warn("snapshot marshal failed", slog.Any("err", err))
		return
	}
	if err := os.WriteFile(c.snapshot, payload, 0o644); err != nil {
		c.log.Warn("snapshot write failed",
			slog.String("path", c.snapshot),
			slog.Any("err", err),
		)
		return
	}
	c.log.Debug("snapshot written",
		slog.String("path", c.snapshot),
		slog.Int("items", len(items)),
	)
}
