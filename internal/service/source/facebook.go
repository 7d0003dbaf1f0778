package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"trendpulse/internal/domain/trend"
)

const facebookBaseURL = "https://graph.facebook.com"

// FacebookConfig contains configuration for the Facebook collaborator.
type FacebookConfig struct {
	AccessToken string
	APIVersion  string
	BaseURL     string

	// PageIDs optionally pins the fashion pages to read from when the
	// Pages Search API is unavailable for the app.
	PageIDs []string
}

// Facebook fetches trending fashion posts from fashion pages via the
// Graph API, falling back to mock data without credentials.
type Facebook struct {
	cfg    FacebookConfig
	client *http.Client
	log    *zap.Logger
}

// NewFacebook creates the Facebook collaborator.
func NewFacebook(cfg FacebookConfig, log *zap.Logger) *Facebook {
	if cfg.APIVersion == "" {
		cfg.APIVersion = "v18.0"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = facebookBaseURL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Facebook{cfg: cfg, client: newHTTPClient(), log: log}
}

// Name returns the platform identifier.
func (s *Facebook) Name() string { return trend.SourceFacebook }

// Configured reports whether real API access is available.
func (s *Facebook) Configured() bool { return validCredential(s.cfg.AccessToken) }

// Fetch returns up to limit trending fashion posts. Recognized filter
// keys: category.
func (s *Facebook) Fetch(ctx context.Context, limit int, filters trend.Filters) []trend.RawItem {
	category := filters["category"]

	if s.Configured() {
		items, err := s.fetchPagePosts(ctx, limit, category)
		if err == nil && len(items) > 0 {
			return items
		}
		if err != nil {
			s.log.Warn("facebook graph api failed, using mock data", zap.Error(err))
		}
	}
	return s.mockData(limit)
}

type facebookPost struct {
	ID           string `json:"id"`
	Message      string `json:"message"`
	CreatedTime  string `json:"created_time"`
	FullPicture  string `json:"full_picture"`
	PermalinkURL string `json:"permalink_url"`
	Shares       struct {
		Count int `json:"count"`
	} `json:"shares"`
	Reactions struct {
		Summary struct {
			TotalCount int `json:"total_count"`
		} `json:"summary"`
	} `json:"reactions"`
	Comments struct {
		Summary struct {
			TotalCount int `json:"total_count"`
		} `json:"summary"`
	} `json:"comments"`
}

type facebookPostsResponse struct {
	Data []facebookPost `json:"data"`
}

type facebookPagesResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (s *Facebook) fetchPagePosts(ctx context.Context, limit int, category string) ([]trend.RawItem, error) {
	pageIDs, err := s.pageIDs(ctx, category)
	if err != nil {
		return nil, err
	}
	if len(pageIDs) == 0 {
		return nil, fmt.Errorf("no fashion pages found")
	}

	perPage := limit/len(pageIDs) + 2
	if perPage < 2 {
		perPage = 2
	}

	items := make([]trend.RawItem, 0, limit)
	for _, pid := range pageIDs {
		posts, err := s.publishedPosts(ctx, pid, perPage)
		if err != nil {
			s.log.Warn("facebook published_posts failed",
				zap.String("page_id", pid),
				zap.Error(err),
			)
			continue
		}
		items = append(items, posts...)
	}

	// Highest engagement first across all pages.
	sort.SliceStable(items, func(i, j int) bool {
		ei, _ := items[i]["engagement"].(int)
		ej, _ := items[j]["engagement"].(int)
		return ei > ej
	})

	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Facebook) pageIDs(ctx context.Context, category string) ([]string, error) {
	if len(s.cfg.PageIDs) > 0 {
		ids := s.cfg.PageIDs
		if len(ids) > 10 {
			ids = ids[:10]
		}
		return ids, nil
	}

	if category == "" {
		category = "fashion"
	}
	endpoint := fmt.Sprintf("%s/%s/pages/search", s.cfg.BaseURL, s.cfg.APIVersion)
	params := url.Values{
		"q":            {category},
		"fields":       {"id,name,fan_count"},
		"access_token": {s.cfg.AccessToken},
		"limit":        {"10"},
	}

	var decoded facebookPagesResponse
	if err := s.get(ctx, endpoint, params, &decoded); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(decoded.Data))
	for _, p := range decoded.Data {
		if p.ID != "" {
			ids = append(ids, p.ID)
		}
	}
	return ids, nil
}

func (s *Facebook) publishedPosts(ctx context.Context, pageID string, limit int) ([]trend.RawItem, error) {
	endpoint := fmt.Sprintf("%s/%s/%s/published_posts", s.cfg.BaseURL, s.cfg.APIVersion, pageID)
	params := url.Values{
		"fields":       {"message,created_time,full_picture,permalink_url,shares,reactions.summary(true),comments.summary(true)"},
		"access_token": {s.cfg.AccessToken},
		"limit":        {fmt.Sprint(limit)},
	}

	var decoded facebookPostsResponse
	if err := s.get(ctx, endpoint, params, &decoded); err != nil {
		return nil, err
	}

	items := make([]trend.RawItem, 0, len(decoded.Data))
	for _, p := range decoded.Data {
		likes := p.Reactions.Summary.TotalCount
		comments := p.Comments.Summary.TotalCount
		shares := p.Shares.Count
		score := likes + comments*2 + shares*3

		msg := strings.TrimSpace(p.Message)
		if msg == "" {
			msg = "Photo"
		}
		if len(msg) > 200 {
			msg = msg[:200]
		}

		items = append(items, trend.RawItem{
			"id":        p.ID,
			"permalink": p.PermalinkURL,
			"platform":  trend.SourceFacebook,
			"type":      "post",
			"category":  "fashion",
			"latest_post": trend.RawItem{
				"message":      msg,
				"likes":        likes,
				"comments":     comments,
				"shares":       shares,
				"image":        p.FullPicture,
				"created_time": p.CreatedTime,
			},
			"engagement": score,
		})
	}
	return items, nil
}

func (s *Facebook) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling facebook graph api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("facebook graph api returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding facebook response: %w", err)
	}
	return nil
}

var facebookMockBrands = []string{
	"Zara Fashion", "H&M Style", "Forever 21 Outfits", "ASOS Fashion",
	"Fashion Nova", "Shein Style", "Boohoo Fashion", "PrettyLittleThing",
	"Missguided Style", "Nasty Gal Fashion",
}

var facebookMockOutfits = []string{
	"Summer Outfit", "Winter Look", "Street Style", "Casual Chic",
	"Evening Wear", "Work Outfit", "Weekend Style", "Date Night Look",
	"Party Outfit", "Athleisure Style",
}

func (s *Facebook) mockData(limit int) []trend.RawItem {
	items := make([]trend.RawItem, 0, limit)
	for i := 1; i <= limit; i++ {
		outfit := facebookMockOutfits[(i-1)%len(facebookMockOutfits)]
		likes := gofakeit.Number(5_000, 50_000)
		comments := gofakeit.Number(300, 5_000)
		shares := gofakeit.Number(100, 2_000)

		items = append(items, trend.RawItem{
			"id":        fmt.Sprintf("fb_fashion_%d", i),
			"name":      facebookMockBrands[(i-1)%len(facebookMockBrands)],
			"fan_count": gofakeit.Number(100_000, 1_500_000),
			"platform":  trend.SourceFacebook,
			"type":      "fashion_page",
			"category":  "fashion",
			"latest_post": trend.RawItem{
				"message":      fmt.Sprintf("Trending %s Alert! Check out this amazing look #%d #fashion #%s", outfit, i, strings.ReplaceAll(strings.ToLower(outfit), " ", "")),
				"likes":        likes,
				"comments":     comments,
				"shares":       shares,
				"image":        fmt.Sprintf("https://example.com/fashion-outfit-%d.jpg", i),
				"created_time": mockTimestamp(i),
			},
			"engagement": likes + comments*2 + shares*3,
		})
	}
	return items
}
