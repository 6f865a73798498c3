package adapter

import "context"

// WeatherReport is the card payload for one city's current weather. Field
// names match what the chat frontend renders.
type WeatherReport struct {
	City      string `json:"city"`
	Temp      string `json:"temp"`
	Text      string `json:"text"`
	Humidity  string `json:"humidity"`
	Wind      string `json:"wind"`
	WindSpeed string `json:"wind_speed"`
	BgClass   string `json:"bgClass"`
}

// WeatherAdapter is the port for current-weather lookups.
type WeatherAdapter interface {
	Name() string
	Current(ctx context.Context, city string) (*WeatherReport, error)
}

// NewsDigest is the card payload for the daily "60 seconds" digest.
type NewsDigest struct {
	ImageURL    string   `json:"imageUrl"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	NewsList    []string `json:"newsList"`
	DigestQuote string   `json:"digestQuote"`
}

// NewsAdapter is the port for the daily news digest lookup.
type NewsAdapter interface {
	Name() string
	Daily(ctx context.Context) (*NewsDigest, error)
}

// MusicTrack is the card payload for one found song. The frontend embeds a
// player by track ID; PlayerURL is a best-effort direct stream link.
type MusicTrack struct {
	ID        string `json:"id"`
	Title     string `json:"name"`
	Artist    string `json:"artist"`
	PlayerURL string `json:"playerUrl,omitempty"`
}

// MusicAdapter is the port for music search.
type MusicAdapter interface {
	Name() string
	Search(ctx context.Context, keyword string) (*MusicTrack, error)
}
