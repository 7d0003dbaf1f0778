package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"trendpulse/internal/domain/trend"
)

const pinterestBaseURL = "https://api.pinterest.com"

// PinterestConfig contains configuration for the Pinterest
// collaborator.
type PinterestConfig struct {
	AccessToken string
	APIVersion  string
	BaseURL     string
}

// Pinterest fetches trending fashion pins via the Pinterest API,
// falling back to mock data without credentials.
type Pinterest struct {
	cfg    PinterestConfig
	client *http.Client
	log    *zap.Logger
}

// NewPinterest creates the Pinterest collaborator.
func NewPinterest(cfg PinterestConfig, log *zap.Logger) *Pinterest {
	if cfg.APIVersion == "" {
		cfg.APIVersion = "v5"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = pinterestBaseURL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pinterest{cfg: cfg, client: newHTTPClient(), log: log}
}

// Name returns the platform identifier.
func (s *Pinterest) Name() string { return trend.SourcePinterest }

// Configured reports whether real API access is available.
func (s *Pinterest) Configured() bool { return validCredential(s.cfg.AccessToken) }

// Fetch returns up to limit trending fashion pins. Recognized filter
// keys: board.
func (s *Pinterest) Fetch(ctx context.Context, limit int, filters trend.Filters) []trend.RawItem {
	board := filters["board"]

	if s.Configured() {
		items, err := s.searchPins(ctx, limit, board)
		if err == nil {
			return items
		}
		s.log.Warn("pinterest api failed, using mock data", zap.Error(err))
	}
	return s.mockData(limit)
}

type pinterestPin struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	BoardName   string `json:"board_name"`
	CreatedAt   string `json:"created_at"`
	LikeCount   int    `json:"like_count"`
	CommentsCnt int    `json:"comment_count"`
	Image       struct {
		Original struct {
			URL string `json:"url"`
		} `json:"original"`
	} `json:"image"`
}

type pinterestResponse struct {
	Data []pinterestPin `json:"data"`
}

func (s *Pinterest) searchPins(ctx context.Context, limit int, board string) ([]trend.RawItem, error) {
	query := "fashion outfit style"
	if board != "" {
		query = fmt.Sprintf("%s %s", query, board)
	}

	endpoint := fmt.Sprintf("%s/%s/search/pins", s.cfg.BaseURL, s.cfg.APIVersion)
	params := url.Values{
		"query":        {query},
		"access_token": {s.cfg.AccessToken},
		"limit":        {fmt.Sprint(limit)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling pinterest api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pinterest api returned status %d", resp.StatusCode)
	}

	var decoded pinterestResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding pinterest response: %w", err)
	}

	items := make([]trend.RawItem, 0, limit)
	for _, pin := range decoded.Data {
		if len(items) == limit {
			break
		}
		description := pin.Description
		if len(description) > 200 {
			description = description[:200]
		}
		items = append(items, trend.RawItem{
			"id":            pin.ID,
			"title":         pin.Title,
			"description":   description,
			"image_url":     pin.Image.Original.URL,
			"pin_url":       pin.URL,
			"like_count":    pin.LikeCount,
			"comment_count": pin.CommentsCnt,
			"board_name":    pin.BoardName,
			"created_at":    pin.CreatedAt,
			"platform":      trend.SourcePinterest,
			"category":      "fashion",
		})
	}
	return items, nil
}

var pinterestMockTopics = []string{
	"Summer Outfit Ideas", "Street Style Inspiration", "Casual Chic Looks",
	"Evening Wear Trends", "Work Outfit Ideas", "Weekend Style",
	"Date Night Outfits", "Party Fashion", "Athleisure Trends", "Vintage Style",
}

func (s *Pinterest) mockData(limit int) []trend.RawItem {
	items := make([]trend.RawItem, 0, limit)
	for i := 1; i <= limit; i++ {
		topic := pinterestMockTopics[(i-1)%len(pinterestMockTopics)]
		items = append(items, trend.RawItem{
			"id":            fmt.Sprintf("pin_fashion_%d", i),
			"title":         fmt.Sprintf("%s - Trending Now", topic),
			"description":   fmt.Sprintf("Discover the latest %s trends and get inspired! #fashion #%s", strings.ToLower(topic), strings.ReplaceAll(strings.ToLower(topic), " ", "")),
			"image_url":     fmt.Sprintf("https://example.com/pinterest/fashion-%d.jpg", i),
			"pin_url":       fmt.Sprintf("https://www.pinterest.com/pin/fashion-outfit-%d/", i),
			"like_count":    gofakeit.Number(1_000, 12_000),
			"comment_count": gofakeit.Number(50, 500),
			"board_name":    "Fashion Trends",
			"created_at":    mockTimestamp(i),
			"platform":      trend.SourcePinterest,
			"category":      "fashion",
		})
	}
	return items
}
