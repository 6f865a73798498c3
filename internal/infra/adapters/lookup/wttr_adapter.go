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

const lookupUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Compile-time assurance this adapter satisfies the port
var _ adapter.WeatherAdapter = (*WttrAdapter)(nil)

// WttrAdapter queries wttr.in's JSON endpoint. Free, no key required.
type WttrAdapter struct {
	base   string // e.g., https://wttr.in
	client *http.Client
}

func NewWttrAdapter(base string) *WttrAdapter {
	if base == "" {
		base = "https://wttr.in"
	}
	return &WttrAdapter{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *WttrAdapter) Name() string { return "wttr.in" }

func (w *WttrAdapter) Current(ctx context.Context, city string) (*adapter.WeatherReport, error) {
	u := fmt.Sprintf("%s/%s?format=j1", w.base, url.PathEscape(city))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", lookupUserAgent)

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wttr.in http %d", resp.StatusCode)
	}

	var payload struct {
		CurrentCondition []struct {
			TempC       string `json:"temp_C"`
			Humidity    string `json:"humidity"`
			WeatherDesc []struct {
				Value string `json:"value"`
			} `json:"weatherDesc"`
			WindDir16Point string `json:"winddir16Point"`
			WindspeedKmph  string `json:"windspeedKmph"`
		} `json:"current_condition"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if len(payload.CurrentCondition) == 0 {
		return nil, errors.New("wttr.in: empty current_condition")
	}

	cur := payload.CurrentCondition[0]
	desc := "未知"
	if len(cur.WeatherDesc) > 0 && cur.WeatherDesc[0].Value != "" {
		desc = cur.WeatherDesc[0].Value
	}
	return &adapter.WeatherReport{
		City:      city,
		Temp:      cur.TempC,
		Text:      desc,
		Humidity:  cur.Humidity,
		Wind:      fmt.Sprintf("%s %d级", cur.WindDir16Point, beaufortScale(cur.WindspeedKmph)),
		WindSpeed: cur.WindspeedKmph,
		BgClass:   backgroundClass(desc),
	}, nil
}
