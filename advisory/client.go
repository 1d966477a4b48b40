package advisory

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"agroverse/errx"
	"agroverse/models"
	"agroverse/remote"
)

const (
	WeatherPath = "/api/advisory/weather"
	NewsPath    = "/api/advisory/news"

	WeatherFailedMessage = "Unable to fetch weather data."
	NewsFailedMessage    = "Unable to fetch news. Please try again later."
)

// Client reads weather and news from the advisory proxy.
type Client struct {
	proxy *remote.Client
}

// NewClient wraps a remote client whose base URL is the proxy.
func NewClient(proxy *remote.Client) *Client {
	return &Client{proxy: proxy}
}

func (c *Client) Weather(ctx context.Context, lat, lon float64) (models.Weather, error) {
	q := url.Values{
		"lat": {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon": {strconv.FormatFloat(lon, 'f', -1, 64)},
	}
	var w models.Weather
	if err := remote.GetJSON(ctx, c.proxy, WeatherPath, q, &w); err != nil {
		return models.Weather{}, errx.Network(err, WeatherFailedMessage)
	}
	return w, nil
}

func (c *Client) News(ctx context.Context) ([]models.Article, error) {
	var articles []models.Article
	if err := remote.GetJSON(ctx, c.proxy, NewsPath, nil, &articles); err != nil {
		return nil, errx.Network(err, NewsFailedMessage)
	}
	return articles, nil
}

func FormatWeather(w models.Weather) string {
	return fmt.Sprintf("Location: %s\nWeather: %s\nTemperature: %s°C\nHumidity: %d%%",
		w.Location, w.Description, strconv.FormatFloat(w.Temperature, 'f', -1, 64), w.Humidity)
}
