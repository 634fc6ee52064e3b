package hotel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	dateLayout         = "2006-01-02"
	defaultConcurrency = 4
)

// Config configures a Client.
type Config struct {
	APIKey   string
	BaseURL  string
	Host     string
	Currency string
	Locale   string
	// MaxPages is how many result pages are fetched in parallel.
	MaxPages int
	Timeout  time.Duration
	// Concurrency bounds parallel facility lookups.
	Concurrency int
}

// Client talks to the booking.com RapidAPI endpoints.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// NewClient creates a client. A nil logger discards output.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://booking-com.p.rapidapi.com"
	}
	if cfg.Host == "" {
		if u, err := url.Parse(cfg.BaseURL); err == nil {
			cfg.Host = u.Host
		}
	}
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}
	if cfg.Locale == "" {
		cfg.Locale = "en-gb"
	}
	if cfg.MaxPages < 1 {
		cfg.MaxPages = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = defaultConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger.Named("hotel"),
	}
}

// Enabled reports whether the client has credentials.
func (c *Client) Enabled() bool { return c.cfg.APIKey != "" }

type locationResult struct {
	DestID   string `json:"dest_id"`
	DestType string `json:"dest_type"`
	Name     string `json:"name"`
	Label    string `json:"label"`
}

// SearchDestination resolves a free-text place name to a destination.
func (c *Client) SearchDestination(ctx context.Context, name string) (Destination, error) {
	var results []locationResult
	err := c.get(ctx, "/v1/hotels/locations", url.Values{
		"name":   {name},
		"locale": {c.cfg.Locale},
	}, &results)
	if err != nil {
		return Destination{}, err
	}
	for _, r := range results {
		if r.DestID == "" {
			continue
		}
		return Destination{ID: r.DestID, Type: r.DestType, Name: firstNonEmpty(r.Label, r.Name)}, nil
	}
	return Destination{}, fmt.Errorf("%w: %q", ErrDestinationNotFound, name)
}

type searchResponse struct {
	Result []searchResult `json:"result"`
}

type searchResult struct {
	HotelID       int64   `json:"hotel_id"`
	HotelName     string  `json:"hotel_name"`
	URL           string  `json:"url"`
	MaxPhotoURL   string  `json:"max_photo_url"`
	MainPhotoURL  string  `json:"main_photo_url"`
	MinTotalPrice float64 `json:"min_total_price"`
	CurrencyCode  string  `json:"currency_code"`
}

type facility struct {
	FacilityName string `json:"facility_name"`
}

// Search resolves q.Destination, fetches up to MaxPages result pages in
// parallel, and attaches each hotel's facilities. Results keep page
// order with duplicates removed. A failed facility lookup leaves that
// hotel without tags; a failed page fails the search.
func (c *Client) Search(ctx context.Context, q Query) ([]Hotel, error) {
	if !c.Enabled() {
		return nil, ErrMissingAPIKey
	}
	if err := q.validate(); err != nil {
		return nil, err
	}
	if q.Rooms < 1 {
		q.Rooms = 1
	}

	dest, err := c.SearchDestination(ctx, q.Destination)
	if err != nil {
		return nil, err
	}

	pages := make([][]searchResult, c.cfg.MaxPages)
	g, gctx := errgroup.WithContext(ctx)
	for page := 0; page < c.cfg.MaxPages; page++ {
		g.Go(func() error {
			var resp searchResponse
			if err := c.get(gctx, "/v1/hotels/search", c.searchParams(dest, q, page), &resp); err != nil {
				return fmt.Errorf("page %d: %w", page, err)
			}
			pages[page] = resp.Result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	hotels := mergePages(pages)
	c.attachFacilities(ctx, hotels)

	c.logger.Debug("hotel search done",
		zap.String("destination", dest.Name),
		zap.Int("pages", c.cfg.MaxPages),
		zap.Int("hotels", len(hotels)))
	return hotels, nil
}

func (c *Client) searchParams(dest Destination, q Query, page int) url.Values {
	return url.Values{
		"dest_id":            {dest.ID},
		"dest_type":          {dest.Type},
		"checkin_date":       {q.CheckIn.Format(dateLayout)},
		"checkout_date":      {q.CheckOut.Format(dateLayout)},
		"adults_number":      {strconv.Itoa(q.Adults)},
		"room_number":        {strconv.Itoa(q.Rooms)},
		"filter_by_currency": {c.cfg.Currency},
		"locale":             {c.cfg.Locale},
		"order_by":           {"popularity"},
		"units":              {"metric"},
		"page_number":        {strconv.Itoa(page)},
		"include_adjacency":  {"true"},
	}
}

func mergePages(pages [][]searchResult) []Hotel {
	seen := make(map[int64]bool)
	var hotels []Hotel
	for _, page := range pages {
		for _, r := range page {
			if seen[r.HotelID] {
				continue
			}
			seen[r.HotelID] = true
			hotels = append(hotels, Hotel{
				ID:    r.HotelID,
				Name:  r.HotelName,
				URL:   r.URL,
				Image: firstNonEmpty(r.MaxPhotoURL, r.MainPhotoURL),
				Price: formatPrice(r.MinTotalPrice, r.CurrencyCode),
			})
		}
	}
	return hotels
}

// attachFacilities fills Tags for every hotel with bounded parallelism.
func (c *Client) attachFacilities(ctx context.Context, hotels []Hotel) {
	var (
		g      errgroup.Group
		mu     sync.Mutex
		failed int
	)
	g.SetLimit(c.cfg.Concurrency)
	for i := range hotels {
		g.Go(func() error {
			var facilities []facility
			err := c.get(ctx, "/v1/hotels/facilities", url.Values{
				"hotel_id": {strconv.FormatInt(hotels[i].ID, 10)},
				"locale":   {c.cfg.Locale},
			}, &facilities)
			if err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
				c.logger.Debug("facility lookup failed", zap.Int64("hotel_id", hotels[i].ID), zap.Error(err))
				return nil
			}
			tags := make([]string, 0, len(facilities))
			for _, f := range facilities {
				if name := strings.TrimSpace(f.FacilityName); name != "" {
					tags = append(tags, name)
				}
			}
			hotels[i].Tags = tags
			return nil
		})
	}
	_ = g.Wait()
	if failed > 0 {
		c.logger.Warn("some facility lookups failed", zap.Int("failed", failed), zap.Int("hotels", len(hotels)))
	}
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("x-rapidapi-key", c.cfg.APIKey)
	req.Header.Set("x-rapidapi-host", c.cfg.Host)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s returned %d: %s", ErrUpstream, path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s: %w", ErrUpstream, path, err)
	}
	return nil
}

func formatPrice(amount float64, currency string) string {
	if amount <= 0 {
		return ""
	}
	return strings.TrimSpace(currency + " " + strconv.FormatFloat(amount, 'f', 2, 64))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
