package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"campus-chat/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.WeatherAdapter = (*QWeatherAdapter)(nil)

// QWeatherAdapter queries the QWeather "now" endpoint. Requires an API key;
// accepts Chinese city names directly as the location parameter.
type QWeatherAdapter struct {
	apiKey string
	base   string // e.g., https://devapi.qweather.com/v7
	client *http.Client
}

func NewQWeatherAdapter(apiKey, base string) (*QWeatherAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("qweather api key empty")
	}
	if base == "" {
		base = "https://devapi.qweather.com/v7"
	}
	return &QWeatherAdapter{
		apiKey: apiKey,
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (q *QWeatherAdapter) Name() string { return "qweather" }

func (q *QWeatherAdapter) Current(ctx context.Context, city string) (*adapter.WeatherReport, error) {
	params := url.Values{}
	params.Set("location", city)
	params.Set("key", q.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, q.base+"/weather/now?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", lookupUserAgent)

	resp, err := q.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("qweather http %d", resp.StatusCode)
	}

	var payload struct {
		Code string `json:"code"`
		Now  struct {
			Text      string `json:"text"`
			Temp      string `json:"temp"`
			Humidity  string `json:"humidity"`
			WindDir   string `json:"windDir"`
			WindScale string `json:"windScale"`
			WindSpeed string `json:"windSpeed"`
		} `json:"now"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Code != "200" {
		return nil, fmt.Errorf("qweather code %s", payload.Code)
	}

	text := payload.Now.Text
	if text == "" {
		text = "未知"
	}
	return &adapter.WeatherReport{
		City:      city,
		Temp:      payload.Now.Temp,
		Text:      text,
		Humidity:  payload.Now.Humidity,
		Wind:      fmt.Sprintf("%s %s级", payload.Now.WindDir, payload.Now.WindScale),
		WindSpeed: payload.Now.WindSpeed,
		BgClass:   backgroundClass(text),
	}, nil
}
