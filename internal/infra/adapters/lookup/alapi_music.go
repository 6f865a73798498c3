package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"campus-chat/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.MusicAdapter = (*ALAPIMusicAdapter)(nil)

// ALAPIMusicAdapter searches ALAPI's NetEase music proxy and resolves a
// best-effort direct play URL for the first hit.
type ALAPIMusicAdapter struct {
	token     string
	searchURL string
	urlAPI    string
	client    *http.Client
}

func NewALAPIMusicAdapter(token, searchURL, urlAPI string) (*ALAPIMusicAdapter, error) {
	if token == "" {
		return nil, errors.New("alapi music token empty")
	}
	if searchURL == "" {
		searchURL = "https://v2.alapi.cn/api/music/search"
	}
	if urlAPI == "" {
		urlAPI = "https://v2.alapi.cn/api/music/url"
	}
	return &ALAPIMusicAdapter{
		token:     token,
		searchURL: searchURL,
		urlAPI:    urlAPI,
		client:    &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (m *ALAPIMusicAdapter) Name() string { return "alapi" }

func (m *ALAPIMusicAdapter) Search(ctx context.Context, keyword string) (*adapter.MusicTrack, error) {
	form := url.Values{}
	form.Set("token", m.token)
	form.Set("keyword", keyword)
	form.Set("limit", "1")

	var payload struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
		Data struct {
			Songs []struct {
				ID      json.Number `json:"id"`
				Name    string      `json:"name"`
				Artists []struct {
					Name string `json:"name"`
				} `json:"artists"`
			} `json:"songs"`
		} `json:"data"`
	}
	if err := m.postForm(ctx, m.searchURL, form, &payload); err != nil {
		return nil, err
	}
	if payload.Code != 200 {
		return nil, fmt.Errorf("alapi music search: %s (code %d)", payload.Msg, payload.Code)
	}
	if len(payload.Data.Songs) == 0 {
		return nil, errors.New("alapi music: no songs found")
	}

	song := payload.Data.Songs[0]
	artists := make([]string, 0, len(song.Artists))
	for _, a := range song.Artists {
		if a.Name != "" {
			artists = append(artists, a.Name)
		}
	}
	track := &adapter.MusicTrack{
		ID:     song.ID.String(),
		Title:  song.Name,
		Artist: strings.Join(artists, ", "),
	}
	if track.Title == "" {
		track.Title = "未知歌曲"
	}
	if track.Artist == "" {
		track.Artist = "未知歌手"
	}

	// Play URL is best-effort; the frontend can fall back to an embedded
	// player keyed by track ID.
	if playURL, err := m.resolveURL(ctx, track.ID); err == nil {
		track.PlayerURL = playURL
	}
	return track, nil
}

func (m *ALAPIMusicAdapter) resolveURL(ctx context.Context, id string) (string, error) {
	if _, err := strconv.ParseInt(id, 10, 64); err != nil {
		return "", fmt.Errorf("bad track id %q", id)
	}
	form := url.Values{}
	form.Set("token", m.token)
	form.Set("id", id)

	var payload struct {
		Code int `json:"code"`
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := m.postForm(ctx, m.urlAPI, form, &payload); err != nil {
		return "", err
	}
	if payload.Code != 200 || payload.Data.URL == "" {
		return "", errors.New("alapi music: no play url")
	}
	return payload.Data.URL, nil
}

func (m *ALAPIMusicAdapter) postForm(ctx context.Context, apiURL string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", lookupUserAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("alapi music http %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
