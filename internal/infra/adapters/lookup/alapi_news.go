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
var _ adapter.NewsAdapter = (*ALAPINewsAdapter)(nil)

// ALAPINewsAdapter fetches the "60 seconds" daily digest from ALAPI's
// zaobao endpoint.
type ALAPINewsAdapter struct {
	token  string
	url    string
	client *http.Client
}

func NewALAPINewsAdapter(token, apiURL string) (*ALAPINewsAdapter, error) {
	if token == "" {
		return nil, errors.New("alapi news token empty")
	}
	if apiURL == "" {
		apiURL = "https://v2.alapi.cn/api/zaobao"
	}
	return &ALAPINewsAdapter{
		token:  token,
		url:    apiURL,
		client: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (n *ALAPINewsAdapter) Name() string { return "alapi" }

func (n *ALAPINewsAdapter) Daily(ctx context.Context) (*adapter.NewsDigest, error) {
	form := url.Values{}
	form.Set("token", n.token)
	form.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", lookupUserAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alapi news http %d", resp.StatusCode)
	}

	var payload struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
		Data struct {
			Image string   `json:"image"`
			News  []string `json:"news"`
			Weiyu string   `json:"weiyu"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Code != 200 {
		return nil, fmt.Errorf("alapi news: %s (code %d)", payload.Msg, payload.Code)
	}

	return &adapter.NewsDigest{
		ImageURL:    payload.Data.Image,
		Title:       "每天60秒读懂世界",
		Date:        time.Now().Format("2006年01月02日"),
		NewsList:    payload.Data.News,
		DigestQuote: payload.Data.Weiyu,
	}, nil
}
