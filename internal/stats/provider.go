package stats

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"ghostsets/internal/source"
)

const (
	defaultMinGames = 50
	firstBuildSlot  = 1
	lastBuildSlot   = 6

	// undefinedTable is the PostgreSQL error code for a missing relation
	undefinedTable = "42P01"
)

// Roster provides the champion list stats are joined to
type Roster interface {
	Champions() ([]source.Champion, error)
}

// querier is the subset of pgxpool.Pool the provider uses
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Provider reads build statistics aggregated by the match pipeline from PostgreSQL
type Provider struct {
	db           querier
	pool         *pgxpool.Pool
	roster       Roster
	logger       *zap.Logger
	minGames     int
	currentPatch string
}

// PositionStat holds games played by a champion in one team position
type PositionStat struct {
	Position string
	Wins     int
	Matches  int
}

// ItemStat holds how an item did over all games
type ItemStat struct {
	ItemID  int
	Wins    int
	Matches int
}

// SlotStat holds how an item did in one build slot
type SlotStat struct {
	ItemStat
	Slot int
}

// SkillStat holds how a skill order did
type SkillStat struct {
	Order   string
	Wins    int
	Matches int
}

// NewProvider creates a new stats provider
func NewProvider(databaseURL string, roster Roster, logger *zap.Logger) (*Provider, error) {
	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Provider{
		db:       pool,
		pool:     pool,
		roster:   roster,
		logger:   logger,
		minGames: defaultMinGames,
	}, nil
}

// SetMinGames sets the sample size below which roles and items are ignored
func (p *Provider) SetMinGames(games int) {
	p.minGames = games
}

// Close closes the database connection
func (p *Provider) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// FetchPatch gets the latest patch from our database
func (p *Provider) FetchPatch() error {
	ctx := context.Background()

	var patch string
	err := p.db.QueryRow(ctx, `
		SELECT patch FROM champion_stats
		ORDER BY patch DESC
		LIMIT 1
	`).Scan(&patch)

	if err != nil {
		return fmt.Errorf("failed to get patch: %w", err)
	}

	p.currentPatch = patch
	p.logger.Debug("Using patch", zap.String("patch", patch))
	return nil
}

// Version returns the newest patch with data
func (p *Provider) Version() (string, error) {
	if err := p.FetchPatch(); err != nil {
		return "", err
	}
	return p.currentPatch, nil
}

func (p *Provider) patch() (string, error) {
	if p.currentPatch == "" {
		if err := p.FetchPatch(); err != nil {
			return "", err
		}
	}
	return p.currentPatch, nil
}

// Champions returns the roster with roles ordered by matches on the current patch
func (p *Provider) Champions() ([]source.Champion, error) {
	patch, err := p.patch()
	if err != nil {
		return nil, err
	}

	roster, err := p.roster.Champions()
	if err != nil {
		return nil, err
	}

	positions, err := p.loadPositions(patch)
	if err != nil {
		return nil, err
	}

	champions := make([]source.Champion, 0, len(roster))
	for _, champ := range roster {
		champ.Roles = rankPositions(positions[champ.ID], p.minGames)
		if len(champ.Roles) == 0 {
			continue
		}
		champions = append(champions, champ)
	}

	return champions, nil
}

// Items returns the most played and the highest win rate item per build slot.
// The starter is the boots pick, the pipeline tracks completed items only.
func (p *Provider) Items(champion source.Champion, role string) (source.ItemRecommendation, error) {
	patch, err := p.patch()
	if err != nil {
		return source.ItemRecommendation{}, err
	}

	id, err := strconv.Atoi(champion.ID)
	if err != nil {
		return source.ItemRecommendation{}, fmt.Errorf("invalid champion id %q: %w", champion.ID, err)
	}

	position := roleToPosition(role)

	items, err := p.loadItems(patch, id, position)
	if err != nil {
		return source.ItemRecommendation{}, err
	}

	slots, err := p.loadSlots(patch, id, position)
	if err != nil {
		return source.ItemRecommendation{}, err
	}

	return source.ItemRecommendation{
		Frequent: bundle(slots, items, p.minGames, byMatches),
		Highest:  bundle(slots, items, p.minGames, byWinRate),
	}, nil
}

// SkillOrder returns the most played and the highest win rate skill orders
func (p *Provider) SkillOrder(champion source.Champion, role string) (source.SkillRecommendation, error) {
	patch, err := p.patch()
	if err != nil {
		return source.SkillRecommendation{}, err
	}

	id, err := strconv.Atoi(champion.ID)
	if err != nil {
		return source.SkillRecommendation{}, fmt.Errorf("invalid champion id %q: %w", champion.ID, err)
	}

	orders, err := p.loadSkillOrders(patch, id, roleToPosition(role))
	if isUndefinedTable(err) {
		// databases filled by the match pipeline alone carry no skill orders
		p.logger.Debug("No skill order table", zap.String("champion", champion.Name))
		return source.SkillRecommendation{}, nil
	}
	if err != nil {
		return source.SkillRecommendation{}, err
	}

	return pickSkillOrders(orders, p.minGames), nil
}

// loadPositions returns position stats keyed by champion id
func (p *Provider) loadPositions(patch string) (map[string][]PositionStat, error) {
	ctx := context.Background()

	rows, err := p.db.Query(ctx, `
		SELECT champion_id, team_position, wins, matches
		FROM champion_stats
		WHERE patch = $1
		ORDER BY matches DESC
	`, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to query champion stats: %w", err)
	}
	defer rows.Close()

	positions := make(map[string][]PositionStat)
	for rows.Next() {
		var championID int
		var s PositionStat
		if err := rows.Scan(&championID, &s.Position, &s.Wins, &s.Matches); err != nil {
			continue
		}
		key := strconv.Itoa(championID)
		positions[key] = append(positions[key], s)
	}

	return positions, rows.Err()
}

// loadItems returns whole game item stats for a champion and position
func (p *Provider) loadItems(patch string, championID int, position string) ([]ItemStat, error) {
	ctx := context.Background()

	rows, err := p.db.Query(ctx, `
		SELECT item_id, wins, matches
		FROM champion_items
		WHERE patch = $1 AND champion_id = $2 AND team_position = $3
		ORDER BY matches DESC
	`, patch, championID, position)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []ItemStat
	for rows.Next() {
		var s ItemStat
		if err := rows.Scan(&s.ItemID, &s.Wins, &s.Matches); err != nil {
			continue
		}
		items = append(items, s)
	}

	return items, rows.Err()
}

// loadSlots returns item stats per build slot for a champion and position
func (p *Provider) loadSlots(patch string, championID int, position string) ([]SlotStat, error) {
	ctx := context.Background()

	rows, err := p.db.Query(ctx, `
		SELECT item_id, build_slot, wins, matches
		FROM champion_item_slots
		WHERE patch = $1 AND champion_id = $2 AND team_position = $3
		ORDER BY build_slot, matches DESC
	`, patch, championID, position)
	if err != nil {
		return nil, fmt.Errorf("failed to query item slots: %w", err)
	}
	defer rows.Close()

	var slots []SlotStat
	for rows.Next() {
		var s SlotStat
		if err := rows.Scan(&s.ItemID, &s.Slot, &s.Wins, &s.Matches); err != nil {
			continue
		}
		slots = append(slots, s)
	}

	return slots, rows.Err()
}

// loadSkillOrders returns skill order stats for a champion and position
func (p *Provider) loadSkillOrders(patch string, championID int, position string) ([]SkillStat, error) {
	ctx := context.Background()

	rows, err := p.db.Query(ctx, `
		SELECT skill_order, wins, matches
		FROM champion_skill_orders
		WHERE patch = $1 AND champion_id = $2 AND team_position = $3
		ORDER BY matches DESC
	`, patch, championID, position)
	if err != nil {
		return nil, fmt.Errorf("failed to query skill orders: %w", err)
	}
	defer rows.Close()

	var orders []SkillStat
	for rows.Next() {
		var s SkillStat
		if err := rows.Scan(&s.Order, &s.Wins, &s.Matches); err != nil {
			continue
		}
		orders = append(orders, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read skill orders: %w", err)
	}
	return orders, nil
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == undefinedTable
}

// roleToPosition converts role names to database team_position values
func roleToPosition(role string) string {
	switch role {
	case "top":
		return "TOP"
	case "jungle":
		return "JUNGLE"
	case "middle", "mid":
		return "MIDDLE"
	case "bottom", "adc":
		return "BOTTOM"
	case "utility", "support":
		return "UTILITY"
	default:
		return strings.ToUpper(role)
	}
}

// positionToRole converts team_position values to role names
func positionToRole(position string) string {
	return strings.ToLower(position)
}

// rankPositions orders positions by matches. The most played one is always kept,
// the others need at least minGames matches.
func rankPositions(positions []PositionStat, minGames int) []source.RoleRank {
	sorted := make([]PositionStat, 0, len(positions))
	for _, s := range positions {
		if s.Matches > 0 {
			sorted = append(sorted, s)
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Matches > sorted[j].Matches
	})

	var roles []source.RoleRank
	for i, s := range sorted {
		if i > 0 && s.Matches < minGames {
			break
		}
		roles = append(roles, source.RoleRank{Role: positionToRole(s.Position), Rank: i + 1})
	}
	return roles
}

func winRate(wins, matches int) float64 {
	if matches == 0 {
		return 0
	}
	return float64(wins) / float64(matches) * 100
}

// better reports whether a should be picked over b
type better func(a, b ItemStat) bool

func byMatches(a, b ItemStat) bool {
	return a.Matches > b.Matches
}

func byWinRate(a, b ItemStat) bool {
	return winRate(a.Wins, a.Matches) > winRate(b.Wins, b.Matches)
}

// isBootsItem checks if an item is boots
func isBootsItem(itemID int) bool {
	boots := map[int]bool{
		3006: true, // Berserker's Greaves
		3009: true, // Boots of Swiftness
		3020: true, // Sorcerer's Shoes
		3047: true, // Plated Steelcaps
		3111: true, // Mercury's Treads
		3117: true, // Mobility Boots
		3158: true, // Ionian Boots of Lucidity
	}
	return boots[itemID]
}

// choose returns the best stat with at least minGames matches, the first one when none has enough
func choose(stats []ItemStat, minGames int, pick better) *ItemStat {
	var best *ItemStat
	for i := range stats {
		s := &stats[i]
		switch {
		case best == nil:
			best = s
		case s.Matches >= minGames && (best.Matches < minGames || pick(*s, *best)):
			best = s
		}
	}
	return best
}

// bundle picks the boots as starter and one item per build slot
func bundle(slots []SlotStat, items []ItemStat, minGames int, pick better) source.ItemBundle {
	var b source.ItemBundle

	var boots []ItemStat
	for _, it := range items {
		if isBootsItem(it.ItemID) {
			boots = append(boots, it)
		}
	}
	if best := choose(boots, minGames, pick); best != nil {
		b.Starters = []string{strconv.Itoa(best.ItemID)}
	}

	bySlot := make(map[int][]ItemStat)
	for _, s := range slots {
		bySlot[s.Slot] = append(bySlot[s.Slot], s.ItemStat)
	}

	used := make(map[int]bool)
	for slot := firstBuildSlot; slot <= lastBuildSlot; slot++ {
		var candidates []ItemStat
		for _, s := range bySlot[slot] {
			if !used[s.ItemID] {
				candidates = append(candidates, s)
			}
		}

		best := choose(candidates, minGames, pick)
		if best == nil {
			continue
		}
		used[best.ItemID] = true
		b.Full = append(b.Full, strconv.Itoa(best.ItemID))
	}

	return b
}

// pickSkillOrders returns the most played order and the best win rate order with enough games
func pickSkillOrders(orders []SkillStat, minGames int) source.SkillRecommendation {
	var valid []SkillStat
	for _, o := range orders {
		if utf8.RuneCountInString(o.Order) >= source.SkillOrderLength {
			valid = append(valid, o)
		}
	}
	if len(valid) == 0 {
		return source.SkillRecommendation{}
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Matches > valid[j].Matches
	})

	frequent := valid[0]
	highest := frequent
	for _, o := range valid {
		if o.Matches >= minGames && winRate(o.Wins, o.Matches) > winRate(highest.Wins, highest.Matches) {
			highest = o
		}
	}

	return source.SkillRecommendation{
		Frequent: splitOrder(frequent.Order),
		Highest:  splitOrder(highest.Order),
	}
}

// splitOrder turns "QWEQ..." into one token per level
func splitOrder(order string) []string {
	tokens := strings.Split(order, "")
	return tokens[:source.SkillOrderLength]
}
