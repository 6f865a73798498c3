package lookup

import (
	"context"
	"errors"
	"strings"

	"campus-chat/internal/domain/ports/adapter"
)

var _ adapter.WeatherAdapter = (*MultiWeatherAdapter)(nil)

// MultiWeatherAdapter tries each weather source in order and returns the
// first successful report. wttr.in first (keyless, more stable), QWeather
// as the keyed fallback.
type MultiWeatherAdapter struct {
	chain []adapter.WeatherAdapter
}

func NewMultiWeatherAdapter(chain ...adapter.WeatherAdapter) *MultiWeatherAdapter {
	return &MultiWeatherAdapter{chain: chain}
}

func (m *MultiWeatherAdapter) Name() string {
	names := make([]string, 0, len(m.chain))
	for _, a := range m.chain {
		names = append(names, a.Name())
	}
	return strings.Join(names, "+")
}

func (m *MultiWeatherAdapter) Current(ctx context.Context, city string) (*adapter.WeatherReport, error) {
	if len(m.chain) == 0 {
		return nil, errors.New("no weather providers configured")
	}
	var lastErr error
	for _, a := range m.chain {
		report, err := a.Current(ctx, city)
		if err == nil {
			return report, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
