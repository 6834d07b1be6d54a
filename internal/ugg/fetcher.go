package ugg

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"ghostsets/internal/source"
)

const (
	defaultPatchesURL = "https://static.bigbrain.gg/assets/lol/riot_patch_update/prod/ugg/patches.json"
	defaultStatsURL   = "https://stats2.u.gg/lol"
	apiVersion        = "1.5"
	statsVersion      = "1.5.0"
	userAgent         = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	defaultTier     = "3" // Diamond+
	defaultMinGames = 50
)

// Roster provides the champion list roles are looked up for
type Roster interface {
	Champions() ([]source.Champion, error)
}

// Fetcher handles U.GG data fetching and implements source.Source
type Fetcher struct {
	client       *http.Client
	roster       Roster
	logger       *zap.Logger
	patchesURL   string
	statsURL     string
	tier         string
	minGames     float64
	currentPatch string
	mu           sync.RWMutex
	cache        map[string]map[string]json.RawMessage
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithPatchesURL overrides the patch list location
func WithPatchesURL(url string) Option {
	return func(f *Fetcher) { f.patchesURL = url }
}

// WithStatsURL overrides the stats2 base URL
func WithStatsURL(url string) Option {
	return func(f *Fetcher) { f.statsURL = strings.TrimRight(url, "/") }
}

// WithTier selects the rank tier stats are read from
func WithTier(tier string) Option {
	return func(f *Fetcher) { f.tier = tier }
}

// WithMinGames sets the sample size below which roles and builds are ignored
func WithMinGames(games int) Option {
	return func(f *Fetcher) { f.minGames = float64(games) }
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) { f.client.Timeout = timeout }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(f *Fetcher) { f.logger = logger }
}

// NewFetcher creates a new U.GG fetcher using roster for the champion list
func NewFetcher(roster Roster, opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		roster:     roster,
		logger:     zap.NewNop(),
		patchesURL: defaultPatchesURL,
		statsURL:   defaultStatsURL,
		tier:       defaultTier,
		minGames:   defaultMinGames,
		cache:      make(map[string]map[string]json.RawMessage),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchPatch fetches the current patch from U.GG (e.g., "10_14")
func (f *Fetcher) FetchPatch() error {
	req, err := http.NewRequest("GET", f.patchesURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch patches: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("U.GG patches returned status %d", resp.StatusCode)
	}

	var patches []string
	if err := json.NewDecoder(resp.Body).Decode(&patches); err != nil {
		return fmt.Errorf("failed to parse patches: %w", err)
	}

	if len(patches) == 0 {
		return fmt.Errorf("no patches available")
	}

	f.mu.Lock()
	if f.currentPatch != patches[0] {
		f.cache = make(map[string]map[string]json.RawMessage)
	}
	f.currentPatch = patches[0]
	f.mu.Unlock()

	f.logger.Debug("U.GG patch", zap.String("patch", patches[0]))
	return nil
}

// GetPatch returns the current patch, fetching it on first use
func (f *Fetcher) GetPatch() (string, error) {
	f.mu.RLock()
	patch := f.currentPatch
	f.mu.RUnlock()

	if patch != "" {
		return patch, nil
	}

	if err := f.FetchPatch(); err != nil {
		return "", err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.currentPatch, nil
}

// ClearCache clears the cached data
func (f *Fetcher) ClearCache() {
	f.mu.Lock()
	f.cache = make(map[string]map[string]json.RawMessage)
	f.mu.Unlock()
}

// Version returns the U.GG patch in dotted form (e.g., "10.14")
func (f *Fetcher) Version() (string, error) {
	if err := f.FetchPatch(); err != nil {
		return "", err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	return strings.ReplaceAll(f.currentPatch, "_", "."), nil
}

// fetchOverview returns the raw overview document of a champion, keyed by region
func (f *Fetcher) fetchOverview(championID string) (map[string]json.RawMessage, error) {
	patch, err := f.GetPatch()
	if err != nil {
		return nil, err
	}

	f.mu.RLock()
	if cached, ok := f.cache[championID]; ok {
		f.mu.RUnlock()
		return cached, nil
	}
	f.mu.RUnlock()

	url := fmt.Sprintf("%s/%s/overview/%s/ranked_solo_5x5/%s/%s.json",
		f.statsURL, apiVersion, patch, championID, statsVersion)

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch champion data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("U.GG returned status %d", resp.StatusCode)
	}

	var rawData map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&rawData); err != nil {
		return nil, fmt.Errorf("failed to parse champion data: %w", err)
	}

	f.mu.Lock()
	f.cache[championID] = rawData
	f.mu.Unlock()

	return rawData, nil
}

// roleToID converts role name to U.GG role ID
func roleToID(role string) string {
	roleMap := map[string]string{
		"top":     "4",
		"jungle":  "1",
		"middle":  "5",
		"bottom":  "3",
		"utility": "2",
	}
	return roleMap[role]
}

// idToRole converts U.GG role ID to role name
func idToRole(id string) string {
	roleMap := map[string]string{
		"4": "top",
		"1": "jungle",
		"5": "middle",
		"3": "bottom",
		"2": "utility",
	}
	return roleMap[id]
}

// roleIDs in the order ties are broken
var roleIDs = []string{"4", "1", "5", "3", "2"}
