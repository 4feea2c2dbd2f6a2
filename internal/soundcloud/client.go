// Package soundcloud resolves song links to playable streams through the
// SoundCloud public API.
//
// API reference: https://developers.soundcloud.com/docs/api/explorer/open-api
package soundcloud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"songly/internal/core/cache"
)

const (
	DefaultBaseURL = "https://api.soundcloud.com"

	// refreshWindow is how close to expiry a token gets refreshed instead of reused.
	refreshWindow = 5 * time.Minute
	streamTTL     = 24 * time.Hour
)

type Config struct {
	ClientID     string
	ClientSecret string
	BaseURL      string // defaults to DefaultBaseURL
	TokenURL     string // defaults to BaseURL + "/oauth2/token"
	HTTPClient   *http.Client
}

// Stream is a playable rendition of a song link.
type Stream struct {
	TrackID int64  `json:"trackId"`
	URL     string `json:"url"`
}

// APIError carries the messages SoundCloud returned with a failed request.
type APIError struct {
	Status   int
	Messages []string
}

func (e *APIError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("soundcloud: %d %s", e.Status, http.StatusText(e.Status))
	}
	return "soundcloud: " + strings.Join(e.Messages, "; ")
}

// Client holds one access token shared by all requests.
type Client struct {
	base    string
	http    *http.Client
	grant   clientcredentials.Config
	oauth   oauth2.Config
	streams *cache.JSON[Stream]
	now     func() time.Time

	mu    sync.Mutex
	token *oauth2.Token
}

// New builds a client. c may be nil, in which case nothing is cached.
func New(cfg Config, c *cache.Cache) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("soundcloud: missing client id or secret")
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = base + "/oauth2/token"
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{
		base: base,
		http: hc,
		grant: clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     oauth2.Endpoint{TokenURL: tokenURL, AuthStyle: oauth2.AuthStyleInParams},
		},
		streams: cache.NewJSON[Stream](c, "soundcloud:stream:", streamTTL),
		now:     time.Now,
	}, nil
}

// accessToken returns a usable token: a fresh grant when there is none or it
// has expired, a refresh when it expires within refreshWindow.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	now := c.now()

	switch {
	case c.token == nil || c.expired(now):
		tok, err := c.grant.Token(ctx)
		if err != nil {
			return "", fmt.Errorf("soundcloud: client credentials: %w", err)
		}
		c.token = tok
	case c.token.RefreshToken != "" && !c.token.Expiry.IsZero() && now.After(c.token.Expiry.Add(-refreshWindow)):
		tok, err := c.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: c.token.RefreshToken}).Token()
		if err != nil {
			return "", fmt.Errorf("soundcloud: refresh token: %w", err)
		}
		c.token = tok
	}
	return c.token.AccessToken, nil
}

func (c *Client) expired(now time.Time) bool {
	return c.token.AccessToken == "" || (!c.token.Expiry.IsZero() && now.After(c.token.Expiry))
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	tok, err := c.accessToken(ctx)
	if err != nil {
		return err
	}
	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("soundcloud: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "OAuth "+tok)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("soundcloud: GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("soundcloud: decode %s: %w", path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	var body struct {
		Error struct {
			Message json.RawMessage `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	apiErr := &APIError{Status: resp.StatusCode}
	if json.NewDecoder(resp.Body).Decode(&body) != nil {
		return apiErr
	}
	if raw := body.Error.Message; len(raw) > 0 {
		var one string
		var many []string
		switch {
		case json.Unmarshal(raw, &one) == nil:
			apiErr.Messages = []string{one}
		case json.Unmarshal(raw, &many) == nil:
			apiErr.Messages = many
		}
	} else if body.Message != "" {
		apiErr.Messages = []string{body.Message}
	}
	return apiErr
}

// TrackID resolves a soundcloud.com link to its track id.
func (c *Client) TrackID(ctx context.Context, link string) (int64, error) {
	var res struct {
		ID int64 `json:"id"`
	}
	if err := c.get(ctx, "/resolve", url.Values{"url": {link}}, &res); err != nil {
		return 0, err
	}
	if res.ID == 0 {
		return 0, fmt.Errorf("soundcloud: no track for %s", link)
	}
	return res.ID, nil
}

// StreamURL returns the 128kbps mp3 stream of a track.
func (c *Client) StreamURL(ctx context.Context, trackID int64) (string, error) {
	var res struct {
		MP3 string `json:"http_mp3_128_url"`
	}
	if err := c.get(ctx, "/tracks/"+strconv.FormatInt(trackID, 10)+"/streams", nil, &res); err != nil {
		return "", err
	}
	if res.MP3 == "" {
		return "", fmt.Errorf("soundcloud: track %d has no mp3 stream", trackID)
	}
	return res.MP3, nil
}

// Stream resolves link and its stream URL, cached for a day.
func (c *Client) Stream(ctx context.Context, link string) (*Stream, error) {
	return c.streams.Get(ctx, link, func(ctx context.Context) (*Stream, error) {
		id, err := c.TrackID(ctx, link)
		if err != nil {
			return nil, err
		}
		u, err := c.StreamURL(ctx, id)
		if err != nil {
			return nil, err
		}
		return &Stream{TrackID: id, URL: u}, nil
	})
}
