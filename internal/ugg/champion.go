package ugg

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"ghostsets/internal/source"
)

// Overview stats indexes
const (
	startingItemsIndex = 2
	coreItemsIndex     = 3
	abilitiesIndex     = 4
	itemOptionsIndex   = 5
	winsGamesIndex     = 6
)

// Champions returns the roster with roles ordered by games played.
// Champions without any role data are left out.
func (f *Fetcher) Champions() ([]source.Champion, error) {
	roster, err := f.roster.Champions()
	if err != nil {
		return nil, err
	}

	champions := make([]source.Champion, 0, len(roster))
	for _, champ := range roster {
		rawData, err := f.fetchOverview(champ.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", champ.Name, err)
		}

		champ.Roles = f.rankRoles(rawData)
		if len(champ.Roles) == 0 {
			f.logger.Debug("No role data", zap.String("champion", champ.Name))
			continue
		}
		champions = append(champions, champ)
	}

	return champions, nil
}

// Items returns the most played and the highest win rate builds for a role
func (f *Fetcher) Items(champion source.Champion, role string) (source.ItemRecommendation, error) {
	stats, err := f.roleStats(champion, role)
	if err != nil {
		return source.ItemRecommendation{}, err
	}

	frequent, highest, ok := pickBuilds(stats.Builds, f.minGames)
	if !ok {
		return source.ItemRecommendation{}, nil
	}

	return source.ItemRecommendation{
		Frequent: toBundle(frequent),
		Highest:  toBundle(highest),
	}, nil
}

// SkillOrder returns the most played and the highest win rate skill orders for a role
func (f *Fetcher) SkillOrder(champion source.Champion, role string) (source.SkillRecommendation, error) {
	stats, err := f.roleStats(champion, role)
	if err != nil {
		return source.SkillRecommendation{}, err
	}

	if len(stats.Skills) == 0 {
		return source.SkillRecommendation{}, nil
	}

	frequent := stats.Skills[0]
	highest := frequent
	for _, s := range stats.Skills {
		if float64(s.Games) >= f.minGames && s.WinRate > highest.WinRate {
			highest = s
		}
	}

	return source.SkillRecommendation{
		Frequent: frequent.Order,
		Highest:  highest.Order,
	}, nil
}

// roleStats fetches and parses a champion's stats in one role
func (f *Fetcher) roleStats(champion source.Champion, role string) (*RoleStats, error) {
	roleID := roleToID(role)
	if roleID == "" {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	rawData, err := f.fetchOverview(champion.ID)
	if err != nil {
		return nil, err
	}

	return f.parseRoleStats(rawData, roleID), nil
}

// regionStats returns the stats array of every region for a role
func (f *Fetcher) regionStats(rawData map[string]json.RawMessage, roleID string) [][]json.RawMessage {
	var result [][]json.RawMessage

	for _, regionData := range rawData {
		var regionMap map[string]json.RawMessage
		if err := json.Unmarshal(regionData, &regionMap); err != nil {
			continue
		}

		tierData, ok := regionMap[f.tier]
		if !ok {
			continue
		}

		var tierMap map[string]json.RawMessage
		if err := json.Unmarshal(tierData, &tierMap); err != nil {
			continue
		}

		roleData, ok := tierMap[roleID]
		if !ok {
			continue
		}

		var roleContent []json.RawMessage
		if err := json.Unmarshal(roleData, &roleContent); err != nil || len(roleContent) == 0 {
			continue
		}

		var statsData []json.RawMessage
		if err := json.Unmarshal(roleContent[0], &statsData); err != nil {
			continue
		}

		if len(statsData) <= winsGamesIndex {
			continue
		}

		result = append(result, statsData)
	}

	return result
}

// rankRoles orders roles by games across all regions
func (f *Fetcher) rankRoles(rawData map[string]json.RawMessage) []source.RoleRank {
	type roleGames struct {
		id    string
		games float64
	}

	var played []roleGames
	for _, roleID := range roleIDs {
		var games float64
		for _, statsData := range f.regionStats(rawData, roleID) {
			_, g := getWinsAndGames(statsData[winsGamesIndex])
			games += g
		}
		if games > 0 {
			played = append(played, roleGames{id: roleID, games: games})
		}
	}

	sort.SliceStable(played, func(i, j int) bool {
		return played[i].games > played[j].games
	})

	var roles []source.RoleRank
	for i, p := range played {
		// The most played role is always kept
		if i > 0 && p.games < f.minGames {
			break
		}
		roles = append(roles, source.RoleRank{Role: idToRole(p.id), Rank: i + 1})
	}

	return roles
}

// buildPathData aggregates data for a build path
type buildPathData struct {
	wins      float64
	games     float64
	bestGames float64           // Best single-region games
	statsData []json.RawMessage // Stats from best region
}

// skillPathData aggregates data for a skill order
type skillPathData struct {
	wins  float64
	games float64
	order []string
}

// parseRoleStats groups builds by first core item and skill orders by sequence
func (f *Fetcher) parseRoleStats(rawData map[string]json.RawMessage, roleID string) *RoleStats {
	buildPaths := make(map[int]*buildPathData)
	skillPaths := make(map[string]*skillPathData)
	var roleGames float64

	for _, statsData := range f.regionStats(rawData, roleID) {
		_, games := getWinsAndGames(statsData[winsGamesIndex])
		if games == 0 {
			continue
		}
		roleGames += games

		if order, wins, g := parseAbilities(statsData[abilitiesIndex]); len(order) > 0 {
			key := strings.Join(order, "")
			if _, exists := skillPaths[key]; !exists {
				skillPaths[key] = &skillPathData{order: order}
			}
			skillPaths[key].wins += wins
			skillPaths[key].games += g
		}

		coreItems := parseItemsArray(statsData[coreItemsIndex])
		if len(coreItems) == 0 {
			continue
		}
		wins, games := coreWinsAndGames(statsData[coreItemsIndex], games)

		firstItem := coreItems[0]
		if _, exists := buildPaths[firstItem]; !exists {
			buildPaths[firstItem] = &buildPathData{
				bestGames: games,
				statsData: statsData,
			}
		}
		buildPaths[firstItem].wins += wins
		buildPaths[firstItem].games += games

		// Keep the stats from the region with most games for this build path
		if games > buildPaths[firstItem].bestGames {
			buildPaths[firstItem].bestGames = games
			buildPaths[firstItem].statsData = statsData
		}
	}

	stats := &RoleStats{Role: idToRole(roleID), Games: int(roleGames)}

	for _, data := range buildPaths {
		build := BuildPath{
			WinRate:       winRate(data.wins, data.games),
			Games:         int(data.games),
			StartingItems: parseItemsArray(data.statsData[startingItemsIndex]),
			CoreItems:     parseItemsArray(data.statsData[coreItemsIndex]),
		}
		parseSituationalItemsForPath(data.statsData[itemOptionsIndex], &build)
		stats.Builds = append(stats.Builds, build)
	}

	for _, data := range skillPaths {
		stats.Skills = append(stats.Skills, SkillPath{
			WinRate: winRate(data.wins, data.games),
			Games:   int(data.games),
			Order:   data.order,
		})
	}

	// Sort by games descending, ties by win rate so results do not depend on map order
	sort.Slice(stats.Builds, func(i, j int) bool {
		if stats.Builds[i].Games != stats.Builds[j].Games {
			return stats.Builds[i].Games > stats.Builds[j].Games
		}
		return stats.Builds[i].WinRate > stats.Builds[j].WinRate
	})
	sort.Slice(stats.Skills, func(i, j int) bool {
		if stats.Skills[i].Games != stats.Skills[j].Games {
			return stats.Skills[i].Games > stats.Skills[j].Games
		}
		return strings.Join(stats.Skills[i].Order, "") < strings.Join(stats.Skills[j].Order, "")
	})

	return stats
}

// pickBuilds returns the most played build and the best win rate build with enough games
func pickBuilds(builds []BuildPath, minGames float64) (frequent, highest BuildPath, ok bool) {
	if len(builds) == 0 {
		return BuildPath{}, BuildPath{}, false
	}

	frequent = builds[0]
	highest = frequent
	for _, b := range builds {
		if float64(b.Games) >= minGames && b.WinRate > highest.WinRate {
			highest = b
		}
	}
	return frequent, highest, true
}

// toBundle converts a build path to the common schema.
// The full build is the core items followed by the top pick of each later slot.
func toBundle(b BuildPath) source.ItemBundle {
	seen := make(map[int]bool)
	var full []string

	add := func(id int) {
		if seen[id] {
			return
		}
		seen[id] = true
		full = append(full, strconv.Itoa(id))
	}

	for _, id := range b.CoreItems {
		add(id)
	}
	for _, options := range [][]ItemOption{b.FourthItemOptions, b.FifthItemOptions, b.SixthItemOptions} {
		for _, opt := range options {
			if !seen[opt.ItemID] {
				add(opt.ItemID)
				break
			}
		}
	}

	starters := make([]string, 0, len(b.StartingItems))
	for _, id := range b.StartingItems {
		starters = append(starters, strconv.Itoa(id))
	}

	return source.ItemBundle{Full: full, Starters: starters}
}

// getWinsAndGames extracts wins and games from a [wins, games, ...] array
func getWinsAndGames(data json.RawMessage) (float64, float64) {
	var stats []float64
	if err := json.Unmarshal(data, &stats); err != nil || len(stats) < 2 {
		return 0, 0
	}
	return stats[0], stats[1]
}

// coreWinsAndGames reads wins/games from a [wins, games, [items]] block,
// falling back to the role's games when the block has none
func coreWinsAndGames(data json.RawMessage, roleGames float64) (float64, float64) {
	var block []json.RawMessage
	if err := json.Unmarshal(data, &block); err != nil || len(block) < 2 {
		return 0, roleGames
	}

	var wins, games float64
	if json.Unmarshal(block[0], &wins) != nil || json.Unmarshal(block[1], &games) != nil || games == 0 {
		return 0, roleGames
	}
	return wins, games
}

// parseItemsArray extracts item IDs from [?, ?, [items]] structure
func parseItemsArray(data json.RawMessage) []int {
	var itemArray []json.RawMessage
	if err := json.Unmarshal(data, &itemArray); err != nil || len(itemArray) < 3 {
		return nil
	}

	var itemIDs []int
	if err := json.Unmarshal(itemArray[2], &itemIDs); err != nil {
		return nil
	}

	return itemIDs
}

// parseAbilities extracts a [wins, games, [skills]] block.
// Orders shorter than a full game are dropped, longer ones are cut.
func parseAbilities(data json.RawMessage) ([]string, float64, float64) {
	var block []json.RawMessage
	if err := json.Unmarshal(data, &block); err != nil || len(block) < 3 {
		return nil, 0, 0
	}

	var wins, games float64
	if json.Unmarshal(block[0], &wins) != nil || json.Unmarshal(block[1], &games) != nil {
		return nil, 0, 0
	}

	var order []string
	if err := json.Unmarshal(block[2], &order); err != nil || len(order) < source.SkillOrderLength {
		return nil, 0, 0
	}

	return order[:source.SkillOrderLength], wins, games
}

// parseSituationalItemsForPath extracts 4th/5th/6th item options for a build path
func parseSituationalItemsForPath(data json.RawMessage, build *BuildPath) {
	var slots []json.RawMessage
	if err := json.Unmarshal(data, &slots); err != nil || len(slots) < 3 {
		return
	}

	build.FourthItemOptions = parseSlotOptions(slots[0], 3)
	build.FifthItemOptions = parseSlotOptions(slots[1], 3)
	build.SixthItemOptions = parseSlotOptions(slots[2], 3)
}

// parseSlotOptions extracts top N items with win rates from a slot
func parseSlotOptions(data json.RawMessage, limit int) []ItemOption {
	var options [][]float64
	if err := json.Unmarshal(data, &options); err != nil {
		return nil
	}

	var items []ItemOption
	for i, opt := range options {
		if i >= limit || len(opt) < 3 {
			break
		}
		items = append(items, ItemOption{
			ItemID:  int(opt[0]),
			WinRate: winRate(opt[1], opt[2]),
			Games:   int(opt[2]),
		})
	}
	return items
}

func winRate(wins, games float64) float64 {
	if games == 0 {
		return 0
	}
	return (wins / games) * 100
}
