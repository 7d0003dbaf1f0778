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

const instagramBaseURL = "https://graph.facebook.com"

// InstagramConfig contains configuration for the Instagram
// collaborator.
type InstagramConfig struct {
	AccessToken       string
	BusinessAccountID string
	APIVersion        string
	BaseURL           string
}

// Instagram fetches trending fashion posts via the Instagram Graph
// API hashtag search, falling back to mock data without credentials.
type Instagram struct {
	cfg    InstagramConfig
	client *http.Client
	log    *zap.Logger
}

// NewInstagram creates the Instagram collaborator.
func NewInstagram(cfg InstagramConfig, log *zap.Logger) *Instagram {
	if cfg.APIVersion == "" {
		cfg.APIVersion = "v18.0"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = instagramBaseURL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Instagram{cfg: cfg, client: newHTTPClient(), log: log}
}

// Name returns the platform identifier.
func (s *Instagram) Name() string { return trend.SourceInstagram }

// Configured reports whether real API access is available.
func (s *Instagram) Configured() bool { return validCredential(s.cfg.AccessToken) }

// Fetch returns up to limit trending fashion posts. Recognized filter
// keys: hashtag.
func (s *Instagram) Fetch(ctx context.Context, limit int, filters trend.Filters) []trend.RawItem {
	hashtag := filters["hashtag"]

	if s.Configured() {
		items, err := s.fetchTopMedia(ctx, limit, hashtag)
		if err == nil {
			return items
		}
		s.log.Warn("instagram graph api failed, using mock data", zap.Error(err))
	}
	return s.mockData(limit, hashtag)
}

type instagramMedia struct {
	ID            string `json:"id"`
	Caption       string `json:"caption"`
	LikeCount     int    `json:"like_count"`
	CommentsCount int    `json:"comments_count"`
	Timestamp     string `json:"timestamp"`
	MediaType     string `json:"media_type"`
	MediaURL      string `json:"media_url"`
	ThumbnailURL  string `json:"thumbnail_url"`
	Permalink     string `json:"permalink"`
}

type instagramMediaResponse struct {
	Data []instagramMedia `json:"data"`
}

type instagramHashtagResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (s *Instagram) fetchTopMedia(ctx context.Context, limit int, hashtag string) ([]trend.RawItem, error) {
	if hashtag == "" {
		hashtag = "fashion"
	}

	hashtagID, err := s.hashtagID(ctx, hashtag)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/%s/%s/top_media", s.cfg.BaseURL, s.cfg.APIVersion, hashtagID)
	params := url.Values{
		"access_token": {s.cfg.AccessToken},
		"limit":        {fmt.Sprint(limit)},
		"fields":       {"id,caption,like_count,comments_count,timestamp,media_type,media_url,permalink,thumbnail_url"},
	}

	var decoded instagramMediaResponse
	if err := s.get(ctx, endpoint, params, &decoded); err != nil {
		return nil, err
	}

	items := make([]trend.RawItem, 0, limit)
	for _, m := range decoded.Data {
		if len(items) == limit {
			break
		}
		caption := m.Caption
		if len(caption) > 200 {
			caption = caption[:200]
		}

		var hashtags []string
		for _, word := range strings.Fields(m.Caption) {
			if strings.HasPrefix(word, "#") {
				hashtags = append(hashtags, word)
			}
			if len(hashtags) == 10 {
				break
			}
		}

		mediaURL := m.MediaURL
		if mediaURL == "" {
			mediaURL = m.ThumbnailURL
		}

		items = append(items, trend.RawItem{
			"id":             m.ID,
			"caption":        caption,
			"hashtags":       hashtags,
			"like_count":     m.LikeCount,
			"comments_count": m.CommentsCount,
			"timestamp":      m.Timestamp,
			"media_type":     m.MediaType,
			"media_url":      mediaURL,
			"permalink":      m.Permalink,
			"platform":       trend.SourceInstagram,
			"category":       "fashion",
		})
	}
	return items, nil
}

func (s *Instagram) hashtagID(ctx context.Context, hashtag string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/ig_hashtag_search", s.cfg.BaseURL, s.cfg.APIVersion)
	params := url.Values{
		"user_id":      {s.cfg.BusinessAccountID},
		"q":            {hashtag},
		"access_token": {s.cfg.AccessToken},
	}

	var decoded instagramHashtagResponse
	if err := s.get(ctx, endpoint, params, &decoded); err != nil {
		return "", err
	}
	if len(decoded.Data) == 0 {
		return "", fmt.Errorf("no hashtag id for %q", hashtag)
	}
	return decoded.Data[0].ID, nil
}

func (s *Instagram) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling instagram graph api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("instagram graph api returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding instagram response: %w", err)
	}
	return nil
}

var instagramMockCaptions = []string{
	"OOTD: Perfect summer outfit vibes! #fashion #outfit #ootd #style",
	"This outfit is everything! Loving these pieces #fashionista #outfitoftheday",
	"Street style inspiration for your wardrobe #streetstyle #fashion #trending",
	"Casual chic look that's perfect for any occasion #fashion #casualchic",
	"Evening wear that will turn heads #eveningwear #fashion #glam",
	"Work outfit inspiration for the modern professional #workwear #fashion",
	"Weekend style that's comfortable and chic #weekendstyle #fashion",
	"Date night outfit ideas that are absolutely stunning #datenight #fashion",
	"Party outfit that's sure to make a statement #partyoutfit #fashion",
	"Athleisure style that's both functional and fashionable #athleisure #fashion",
}

var instagramMockHashtags = [][]string{
	{"#fashion", "#outfit", "#ootd", "#style", "#fashionista"},
	{"#outfitoftheday", "#fashionblogger", "#streetstyle", "#fashionweek"},
	{"#style", "#fashionstyle", "#ootdinspiration", "#fashiontrends"},
	{"#casualchic", "#fashion", "#outfitideas", "#styletips"},
	{"#eveningwear", "#glam", "#fashion", "#redcarpet"},
	{"#workwear", "#professional", "#fashion", "#officeoutfit"},
	{"#weekendstyle", "#casual", "#fashion", "#comfortable"},
	{"#datenight", "#romantic", "#fashion", "#elegant"},
	{"#partyoutfit", "#celebration", "#fashion", "#festive"},
	{"#athleisure", "#activewear", "#fashion", "#sporty"},
}

func (s *Instagram) mockData(limit int, hashtag string) []trend.RawItem {
	items := make([]trend.RawItem, 0, limit)
	for i := 1; i <= limit; i++ {
		hashtags := instagramMockHashtags[(i-1)%len(instagramMockHashtags)]
		if hashtag != "" {
			hashtags = append([]string{"#" + hashtag}, hashtags...)
		}
		items = append(items, trend.RawItem{
			"id":             fmt.Sprintf("ig_fashion_%d", i),
			"caption":        instagramMockCaptions[(i-1)%len(instagramMockCaptions)],
			"hashtags":       hashtags,
			"like_count":     gofakeit.Number(5_000, 75_000),
			"comments_count": gofakeit.Number(200, 8_000),
			"timestamp":      mockTimestamp(i),
			"media_type":     "IMAGE",
			"media_url":      fmt.Sprintf("https://example.com/instagram/fashion-outfit-%d.jpg", i),
			"permalink":      fmt.Sprintf("https://www.instagram.com/p/fashion_outfit_%d/", i),
			"platform":       trend.SourceInstagram,
			"category":       "fashion",
		})
	}
	return items
}
