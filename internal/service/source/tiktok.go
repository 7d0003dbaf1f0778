package source

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"trendpulse/internal/domain/trend"
)

const tiktokBaseURL = "https://open.tiktokapis.com/v2"

// TikTokConfig contains configuration for the TikTok collaborator.
type TikTokConfig struct {
	AccessToken string
	BaseURL     string
}

// TikTok fetches trending fashion videos via the TikTok Research API,
// falling back to mock data without credentials.
type TikTok struct {
	cfg    TikTokConfig
	client *http.Client
	log    *zap.Logger
}

// NewTikTok creates the TikTok collaborator.
func NewTikTok(cfg TikTokConfig, log *zap.Logger) *TikTok {
	if cfg.BaseURL == "" {
		cfg.BaseURL = tiktokBaseURL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &TikTok{cfg: cfg, client: newHTTPClient(), log: log}
}

// Name returns the platform identifier.
func (s *TikTok) Name() string { return trend.SourceTikTok }

// Configured reports whether real API access is available.
func (s *TikTok) Configured() bool { return validCredential(s.cfg.AccessToken) }

// Fetch returns up to limit trending fashion videos. Recognized filter
// keys: region.
func (s *TikTok) Fetch(ctx context.Context, limit int, filters trend.Filters) []trend.RawItem {
	region := filters["region"]

	if s.Configured() {
		items, err := s.fetchResearchAPI(ctx, limit, region)
		if err == nil {
			return items
		}
		s.log.Warn("tiktok research api failed, using mock data", zap.Error(err))
	}
	return s.mockData(limit, region)
}

type tiktokCondition struct {
	Operation   string   `json:"operation"`
	FieldName   string   `json:"field_name"`
	FieldValues []string `json:"field_values"`
}

type tiktokQuery struct {
	Query struct {
		And []tiktokCondition `json:"and"`
	} `json:"query"`
	MaxCount  int    `json:"max_count"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type tiktokVideo struct {
	ID            json.Number `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	HashtagNames  []string    `json:"hashtag_names"`
	ViewCount     int         `json:"view_count"`
	LikeCount     int         `json:"like_count"`
	CommentCount  int         `json:"comment_count"`
	ShareCount    int         `json:"share_count"`
	CreateTime    int64       `json:"create_time"`
	VideoURL      string      `json:"video_url"`
	CoverImageURL string      `json:"cover_image_url"`
}

type tiktokResponse struct {
	Data struct {
		Videos []tiktokVideo `json:"videos"`
	} `json:"data"`
}

func (s *TikTok) fetchResearchAPI(ctx context.Context, limit int, region string) ([]trend.RawItem, error) {
	if region == "" {
		region = "US"
	}
	end := time.Now()
	start := end.AddDate(0, 0, -30)

	var query tiktokQuery
	query.Query.And = []tiktokCondition{
		{Operation: "EQ", FieldName: "region_code", FieldValues: []string{region}},
		{Operation: "IN", FieldName: "hashtag_name", FieldValues: []string{
			"fashion", "outfit", "ootd", "fashionstyle", "outfitoftheday",
		}},
	}
	query.MaxCount = limit
	query.StartDate = start.Format("20060102")
	query.EndDate = end.Format("20060102")

	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}

	url := fmt.Sprintf("%s/research/video/query/", s.cfg.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling tiktok research api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tiktok research api returned status %d", resp.StatusCode)
	}

	var decoded tiktokResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding tiktok response: %w", err)
	}

	items := make([]trend.RawItem, 0, limit)
	for _, v := range decoded.Data.Videos {
		if len(items) == limit {
			break
		}
		hashtags := v.HashtagNames
		if len(hashtags) > 10 {
			hashtags = hashtags[:10]
		}
		description := v.Description
		if len(description) > 200 {
			description = description[:200]
		}
		items = append(items, trend.RawItem{
			"id":              v.ID.String(),
			"title":           v.Title,
			"description":     description,
			"hashtags":        hashtags,
			"view_count":      v.ViewCount,
			"like_count":      v.LikeCount,
			"comment_count":   v.CommentCount,
			"share_count":     v.ShareCount,
			"created_time":    time.Unix(v.CreateTime, 0).UTC().Format(time.RFC3339),
			"video_url":       v.VideoURL,
			"cover_image_url": v.CoverImageURL,
			"region":          region,
			"platform":        trend.SourceTikTok,
			"category":        "fashion",
		})
	}
	return items, nil
}

var tiktokMockTitles = []string{
	"OOTD that's trending right now!",
	"This outfit combo is EVERYTHING",
	"Street style outfit inspiration",
	"Casual chic look for everyday",
	"Evening outfit that's absolutely stunning",
	"Work outfit ideas for the modern woman",
	"Weekend outfit that's comfy and cute",
	"Date night outfit that will impress",
	"Party outfit ideas that are fire",
	"Athleisure outfit that's both stylish and functional",
}

var tiktokMockHashtags = [][]string{
	{"fashion", "outfit", "ootd", "style", "fashionista"},
	{"outfitoftheday", "fashionstyle", "trending", "outfitideas"},
	{"streetstyle", "fashion", "styleinspo", "outfit"},
	{"casualchic", "fashion", "everydaystyle", "outfit"},
	{"eveningwear", "glam", "fashion", "outfit"},
	{"workwear", "professional", "fashion", "outfit"},
	{"weekendstyle", "casual", "fashion", "outfit"},
	{"datenight", "romantic", "fashion", "outfit"},
	{"partyoutfit", "celebration", "fashion", "outfit"},
	{"athleisure", "activewear", "fashion", "outfit"},
}

func (s *TikTok) mockData(limit int, region string) []trend.RawItem {
	if region == "" {
		region = "US"
	}

	items := make([]trend.RawItem, 0, limit)
	for i := 1; i <= limit; i++ {
		title := tiktokMockTitles[(i-1)%len(tiktokMockTitles)]
		hashtags := tiktokMockHashtags[(i-1)%len(tiktokMockHashtags)]
		items = append(items, trend.RawItem{
			"id":              fmt.Sprintf("tt_fashion_%d", i),
			"title":           title,
			"description":     fmt.Sprintf("Check out this amazing fashion outfit! Perfect for any occasion. #%s", strings.Join(hashtags[:3], " #")),
			"hashtags":        hashtags,
			"view_count":      gofakeit.Number(500_000, 15_000_000),
			"like_count":      gofakeit.Number(20_000, 800_000),
			"comment_count":   gofakeit.Number(1_000, 60_000),
			"share_count":     gofakeit.Number(500, 15_000),
			"created_time":    mockTimestamp(i),
			"video_url":       fmt.Sprintf("https://example.com/tiktok/fashion-video-%d.mp4", i),
			"cover_image_url": fmt.Sprintf("https://example.com/tiktok/fashion-cover-%d.jpg", i),
			"region":          region,
			"platform":        trend.SourceTikTok,
			"category":        "fashion",
		})
	}
	return items
}
