package advisory

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agroverse/auth"
	"agroverse/config"
	"agroverse/errx"
	"agroverse/models"
	"agroverse/rdx"
	"agroverse/remote"
)

type upstreams struct {
	weatherHits atomic.Int32
	newsHits    atomic.Int32
	failNews    bool
	srv         *httptest.Server
}

func newUpstreams(t *testing.T) *upstreams {
	u := &upstreams{}
	mux := http.NewServeMux()
	mux.HandleFunc("/weather", func(w http.ResponseWriter, r *http.Request) {
		u.weatherHits.Add(1)
		assert.Equal(t, "owm-key", r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		io.WriteString(w, `{"name":"Pune","weather":[{"description":"haze"}],"main":{"temp":31.2,"humidity":40}}`)
	})
	mux.HandleFunc("/news", func(w http.ResponseWriter, r *http.Request) {
		u.newsHits.Add(1)
		if u.failNews {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		q := r.URL.Query()
		assert.Equal(t, "agriculture OR farming OR crops", q.Get("q"))
		assert.Equal(t, "en", q.Get("language"))
		assert.Equal(t, "publishedAt", q.Get("sortBy"))
		assert.Equal(t, "10", q.Get("pageSize"))
		assert.Equal(t, "news-key", q.Get("apiKey"))
		io.WriteString(w, `{"status":"ok","articles":[{"title":"Monsoon arrives early","source":{"name":"Krishi Jagran"},"publishedAt":"2025-06-01T10:00:00Z","description":"IMD update","url":"https://example.org/a"}]}`)
	})
	u.srv = httptest.NewServer(mux)
	t.Cleanup(u.srv.Close)
	return u
}

func proxyConfig() config.Proxy {
	return config.Proxy{
		OpenWeatherAPIKey: "owm-key",
		NewsAPIKey:        "news-key",
		WeatherTTL:        time.Minute,
		NewsTTL:           time.Minute,
	}
}

func newProxy(t *testing.T, cfg config.Proxy, u *upstreams) *httptest.Server {
	h := NewHandlers(cfg, rdx.NewMemory(),
		WithUpstreams(u.srv.URL+"/weather", u.srv.URL+"/news"),
		WithHTTPClient(u.srv.Client()))
	router := httprouter.New()
	router.GET(WeatherPath, h.Weather)
	router.GET(NewsPath, h.News)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestWeatherHandlerCaches(t *testing.T) {
	u := newUpstreams(t)
	proxy := newProxy(t, proxyConfig(), u)

	for i, want := range []string{"MISS", "HIT"} {
		resp, err := http.Get(proxy.URL + WeatherPath + "?lat=18.5204&lon=73.8567")
		require.NoError(t, err)
		var got models.Weather
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode, i)
		assert.Equal(t, want, resp.Header.Get("X-Cache"))
		assert.Equal(t, models.Weather{Location: "Pune", Description: "haze", Temperature: 31.2, Humidity: 40}, got)
	}
	assert.EqualValues(t, 1, u.weatherHits.Load())
}

func TestWeatherHandlerRejectsBadCoordinates(t *testing.T) {
	u := newUpstreams(t)
	proxy := newProxy(t, proxyConfig(), u)

	for _, q := range []string{"", "?lat=abc&lon=1", "?lat=91&lon=0", "?lat=0&lon=181"} {
		resp, err := http.Get(proxy.URL + WeatherPath + q)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
	}
	assert.Zero(t, u.weatherHits.Load())
}

func TestHandlersWithoutKeys(t *testing.T) {
	u := newUpstreams(t)
	proxy := newProxy(t, config.Proxy{}, u)

	resp, err := http.Get(proxy.URL + WeatherPath + "?lat=1&lon=1")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp, err = http.Get(proxy.URL + NewsPath)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func proxyClient(t *testing.T, proxyURL string) *Client {
	rc, err := remote.New(remote.Options{
		BaseURL: proxyURL,
		Session: auth.NewSession(auth.NewMemoryStore(), ""),
		Retry:   config.Retry{MaxAttempts: 1},
	})
	require.NoError(t, err)
	return NewClient(rc)
}

func TestClientThroughProxy(t *testing.T) {
	u := newUpstreams(t)
	proxy := newProxy(t, proxyConfig(), u)
	c := proxyClient(t, proxy.URL)

	w, err := c.Weather(context.Background(), 18.5204, 73.8567)
	require.NoError(t, err)
	assert.Equal(t, "Pune", w.Location)

	articles, err := c.News(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Krishi Jagran", articles[0].Source.Name)
	assert.Equal(t, 2025, articles[0].PublishedAt.Year())
}

func TestClientNewsFailure(t *testing.T) {
	u := newUpstreams(t)
	u.failNews = true
	proxy := newProxy(t, proxyConfig(), u)

	_, err := proxyClient(t, proxy.URL).News(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errx.ErrTransport))
	assert.Equal(t, NewsFailedMessage, errx.Message(err))
}
