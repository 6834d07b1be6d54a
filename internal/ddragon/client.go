package ddragon

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"ghostsets/internal/source"
)

const defaultBaseURL = "https://ddragon.leagueoflegends.com"

// ErrNoVersions is returned when Data Dragon lists no versions
var ErrNoVersions = errors.New("no versions available")

// ChampionData holds champion information as served by champion.json
type ChampionData struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Client fetches static game data from Data Dragon
type Client struct {
	client  *http.Client
	baseURL string
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at another Data Dragon host
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = timeout
	}
}

// NewClient creates a new Data Dragon client
func NewClient(opts ...Option) *Client {
	c := &Client{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FullVersion returns the newest game version exactly as Data Dragon lists it (e.g., "10.14.5")
func (c *Client) FullVersion() (string, error) {
	resp, err := c.client.Get(c.baseURL + "/api/versions.json")
	if err != nil {
		return "", fmt.Errorf("failed to fetch versions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("data dragon returned status %d", resp.StatusCode)
	}

	var versions []string
	if err := json.NewDecoder(resp.Body).Decode(&versions); err != nil {
		return "", fmt.Errorf("failed to parse versions: %w", err)
	}

	if len(versions) == 0 {
		return "", ErrNoVersions
	}

	return versions[0], nil
}

// LatestVersion returns the current game version reduced to major.minor (e.g., "10.14")
func (c *Client) LatestVersion() (string, error) {
	v, err := c.FullVersion()
	if err != nil {
		return "", err
	}
	return TruncateVersion(v), nil
}

// TruncateVersion keeps the first two dot separated parts: 10.14.5 -> 10.14
func TruncateVersion(version string) string {
	parts := strings.Split(version, ".")
	if len(parts) <= 2 {
		return version
	}
	return strings.Join(parts[:2], ".")
}

// Champions returns the roster of the newest version sorted by internal name.
// Roles are left empty, sources fill them from their own data.
func (c *Client) Champions() ([]source.Champion, error) {
	version, err := c.FullVersion()
	if err != nil {
		return nil, err
	}

	champURL := fmt.Sprintf("%s/cdn/%s/data/en_US/champion.json", c.baseURL, version)
	resp, err := c.client.Get(champURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch champions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("data dragon returned status %d", resp.StatusCode)
	}

	var champData struct {
		Data map[string]ChampionData `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&champData); err != nil {
		return nil, fmt.Errorf("failed to parse champions: %w", err)
	}

	champions := make([]source.Champion, 0, len(champData.Data))
	for id, champ := range champData.Data {
		champions = append(champions, source.Champion{
			Name:        id, // The map key is the internal name (e.g., "MonkeyKing")
			DisplayName: champ.Name,
			ID:          champ.Key,
		})
	}

	sort.Slice(champions, func(i, j int) bool {
		return champions[i].Name < champions[j].Name
	})

	return champions, nil
}
