package advisory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"agroverse/config"
	"agroverse/logx"
	"agroverse/models"
	"agroverse/rdx"
	"agroverse/utils"
)

const (
	OpenWeatherURL = "https://api.openweathermap.org/data/2.5/weather"
	NewsAPIURL     = "https://newsapi.org/v2/everything"

	newsQuery = "agriculture OR farming OR crops"
)

// Handlers serves /api/advisory/* by calling the upstream APIs with the
// server's keys and caching their answers.
type Handlers struct {
	cfg        config.Proxy
	cache      rdx.Cache
	http       *http.Client
	weatherURL string
	newsURL    string
}

type Option func(*Handlers)

// WithUpstreams points the handlers at other upstream URLs.
func WithUpstreams(weatherURL, newsURL string) Option {
	return func(h *Handlers) {
		h.weatherURL = weatherURL
		h.newsURL = newsURL
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(h *Handlers) { h.http = c }
}

func NewHandlers(cfg config.Proxy, cache rdx.Cache, opts ...Option) *Handlers {
	if cache == nil {
		cache = rdx.Nop{}
	}
	h := &Handlers{
		cfg:        cfg,
		cache:      cache,
		weatherURL: OpenWeatherURL,
		newsURL:    NewsAPIURL,
		http: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type owmResponse struct {
	Name    string `json:"name"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
}

// Weather handles GET /api/advisory/weather?lat=&lon=.
func (h *Handlers) Weather(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	lat, okLat := utils.ParseCoordinate(r.URL.Query().Get("lat"), 90)
	lon, okLon := utils.ParseCoordinate(r.URL.Query().Get("lon"), 180)
	if !okLat || !okLon {
		utils.RespondWithError(w, http.StatusBadRequest, "lat and lon must be valid coordinates")
		return
	}
	if h.cfg.OpenWeatherAPIKey == "" {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Weather service is not configured.")
		return
	}

	key := fmt.Sprintf("weather:%.2f:%.2f", lat, lon)
	h.cached(w, r, key, h.cfg.WeatherTTL, func(ctx context.Context) (any, error) {
		q := url.Values{
			"lat":   {fmt.Sprint(lat)},
			"lon":   {fmt.Sprint(lon)},
			"appid": {h.cfg.OpenWeatherAPIKey},
			"units": {"metric"},
		}
		var resp owmResponse
		if err := h.upstream(ctx, h.weatherURL, q, &resp); err != nil {
			return nil, err
		}
		out := models.Weather{
			Location:    resp.Name,
			Temperature: resp.Main.Temp,
			Humidity:    resp.Main.Humidity,
		}
		if len(resp.Weather) > 0 {
			out.Description = resp.Weather[0].Description
		}
		return out, nil
	}, WeatherFailedMessage)
}

type newsResponse struct {
	Status   string           `json:"status"`
	Message  string           `json:"message"`
	Articles []models.Article `json:"articles"`
}

// News handles GET /api/advisory/news.
func (h *Handlers) News(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if h.cfg.NewsAPIKey == "" {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "News service is not configured.")
		return
	}
	h.cached(w, r, "news:agriculture", h.cfg.NewsTTL, func(ctx context.Context) (any, error) {
		q := url.Values{
			"q":        {newsQuery},
			"language": {"en"},
			"sortBy":   {"publishedAt"},
			"pageSize": {"10"},
			"apiKey":   {h.cfg.NewsAPIKey},
		}
		var resp newsResponse
		if err := h.upstream(ctx, h.newsURL, q, &resp); err != nil {
			return nil, err
		}
		if resp.Status != "" && resp.Status != "ok" {
			return nil, fmt.Errorf("newsapi: %s", resp.Message)
		}
		if resp.Articles == nil {
			resp.Articles = []models.Article{}
		}
		return resp.Articles, nil
	}, NewsFailedMessage)
}

// cached serves key from the cache or fills it with fetch.
func (h *Handlers) cached(w http.ResponseWriter, r *http.Request, key string, ttl time.Duration,
	fetch func(context.Context) (any, error), failMsg string) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	if raw, ok, err := h.cache.Get(ctx, key); err != nil {
		logx.Warn().Err(err).Str("key", key).Msg("advisory cache read failed")
	} else if ok {
		w.Header().Set("X-Cache", "HIT")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(raw))
		return
	}

	v, err := fetch(ctx)
	if err != nil {
		logx.Error().Err(err).Str("key", key).Str("request_id", utils.GetRequestID(r)).Msg("advisory upstream failed")
		utils.RespondWithError(w, http.StatusBadGateway, failMsg)
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, failMsg)
		return
	}
	if err := h.cache.Set(ctx, key, string(raw), ttl); err != nil {
		logx.Warn().Err(err).Str("key", key).Msg("advisory cache write failed")
	}
	w.Header().Set("X-Cache", "MISS")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func (h *Handlers) upstream(ctx context.Context, base string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := h.http.Do(req)
	if err != nil {
		// url.Error carries the full URL, key included.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return fmt.Errorf("upstream %s: %w", req.URL.Host, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream %s: status %d", req.URL.Host, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
