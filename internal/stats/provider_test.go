package stats

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ghostsets/internal/source"
)

type fakeRoster struct {
	champions []source.Champion
	err       error
}

func (f *fakeRoster) Champions() ([]source.Champion, error) {
	return f.champions, f.err
}

func newTestProvider(t *testing.T, roster Roster) (*Provider, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return &Provider{
		db:       mock,
		roster:   roster,
		logger:   zap.NewNop(),
		minGames: defaultMinGames,
	}, mock
}

func expectPatch(mock pgxmock.PgxPoolIface, patch string) {
	mock.ExpectQuery("SELECT patch FROM champion_stats").
		WillReturnRows(pgxmock.NewRows([]string{"patch"}).AddRow(patch))
}

func slot(itemID, buildSlot, wins, matches int) SlotStat {
	return SlotStat{ItemStat: ItemStat{ItemID: itemID, Wins: wins, Matches: matches}, Slot: buildSlot}
}

var ahri = source.Champion{Name: "Ahri", DisplayName: "Ahri", ID: "103"}

func TestVersion(t *testing.T) {
	p, mock := newTestProvider(t, &fakeRoster{})
	expectPatch(mock, "15.1")

	version, err := p.Version()
	require.NoError(t, err)
	assert.Equal(t, "15.1", version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVersion_NoData(t *testing.T) {
	p, mock := newTestProvider(t, &fakeRoster{})
	mock.ExpectQuery("SELECT patch FROM champion_stats").
		WillReturnRows(pgxmock.NewRows([]string{"patch"}))

	_, err := p.Version()
	assert.ErrorContains(t, err, "failed to get patch")
}

func TestChampions(t *testing.T) {
	roster := &fakeRoster{champions: []source.Champion{
		ahri,
		{Name: "Lux", DisplayName: "Lux", ID: "99"},
		{Name: "Zed", DisplayName: "Zed", ID: "238"},
	}}
	p, mock := newTestProvider(t, roster)

	expectPatch(mock, "15.1")
	mock.ExpectQuery("FROM champion_stats").
		WithArgs("15.1").
		WillReturnRows(pgxmock.NewRows([]string{"champion_id", "team_position", "wins", "matches"}).
			AddRow(103, "MIDDLE", 200, 400).
			AddRow(99, "UTILITY", 100, 200).
			AddRow(103, "TOP", 40, 80).
			AddRow(99, "MIDDLE", 5, 10))

	champions, err := p.Champions()
	require.NoError(t, err)
	require.Len(t, champions, 2)

	assert.Equal(t, "Ahri", champions[0].Name)
	assert.Equal(t, []source.RoleRank{{Role: "middle", Rank: 1}, {Role: "top", Rank: 2}}, champions[0].Roles)
	assert.Equal(t, "Lux", champions[1].Name)
	assert.Equal(t, []source.RoleRank{{Role: "utility", Rank: 1}}, champions[1].Roles)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChampions_RosterError(t *testing.T) {
	p, mock := newTestProvider(t, &fakeRoster{err: errors.New("roster down")})
	expectPatch(mock, "15.1")

	_, err := p.Champions()
	assert.EqualError(t, err, "roster down")
}

func TestItems(t *testing.T) {
	p, mock := newTestProvider(t, &fakeRoster{})

	expectPatch(mock, "15.1")
	mock.ExpectQuery("FROM champion_items").
		WithArgs("15.1", 103, "MIDDLE").
		WillReturnRows(pgxmock.NewRows([]string{"item_id", "wins", "matches"}).
			AddRow(3020, 260, 520).
			AddRow(6655, 250, 500).
			AddRow(3111, 60, 100))
	mock.ExpectQuery("FROM champion_item_slots").
		WithArgs("15.1", 103, "MIDDLE").
		WillReturnRows(pgxmock.NewRows([]string{"item_id", "build_slot", "wins", "matches"}).
			AddRow(6655, 1, 250, 500).
			AddRow(6656, 1, 70, 100).
			AddRow(3020, 2, 260, 520))

	rec, err := p.Items(ahri, "middle")
	require.NoError(t, err)

	assert.Equal(t, []string{"3020"}, rec.Frequent.Starters)
	assert.Equal(t, []string{"6655", "3020"}, rec.Frequent.Full)
	assert.Equal(t, []string{"3111"}, rec.Highest.Starters)
	assert.Equal(t, []string{"6656", "3020"}, rec.Highest.Full)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItems_InvalidChampionID(t *testing.T) {
	p, mock := newTestProvider(t, &fakeRoster{})
	p.currentPatch = "15.1"

	_, err := p.Items(source.Champion{Name: "Ghost", ID: "ghost"}, "middle")
	assert.ErrorContains(t, err, `invalid champion id "ghost"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItems_QueryError(t *testing.T) {
	p, mock := newTestProvider(t, &fakeRoster{})
	p.currentPatch = "15.1"

	mock.ExpectQuery("FROM champion_items").WillReturnError(errors.New("connection reset"))

	_, err := p.Items(ahri, "middle")
	assert.ErrorContains(t, err, "connection reset")
}

func TestSkillOrder(t *testing.T) {
	p, mock := newTestProvider(t, &fakeRoster{})

	expectPatch(mock, "15.1")
	mock.ExpectQuery("FROM champion_skill_orders").
		WithArgs("15.1", 103, "MIDDLE").
		WillReturnRows(pgxmock.NewRows([]string{"skill_order", "wins", "matches"}).
			AddRow("QWEQQRQWQWRWWEEREE", 500, 1000).
			AddRow("QEWQQRQEQERWEEWRWW", 120, 200))

	rec, err := p.SkillOrder(ahri, "mid")
	require.NoError(t, err)
	assert.Equal(t, splitOrder("QWEQQRQWQWRWWEEREE"), rec.Frequent)
	assert.Equal(t, splitOrder("QEWQQRQEQERWEEWRWW"), rec.Highest)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSkillOrder_MissingTable(t *testing.T) {
	p, mock := newTestProvider(t, &fakeRoster{})
	p.currentPatch = "15.1"

	mock.ExpectQuery("FROM champion_skill_orders").
		WillReturnError(&pgconn.PgError{Code: "42P01", Message: `relation "champion_skill_orders" does not exist`})

	rec, err := p.SkillOrder(ahri, "middle")
	require.NoError(t, err)
	assert.Empty(t, rec.Frequent)
	assert.Empty(t, rec.Highest)
}

func TestSkillOrder_NoRows(t *testing.T) {
	p, mock := newTestProvider(t, &fakeRoster{})
	p.currentPatch = "15.1"

	mock.ExpectQuery("FROM champion_skill_orders").
		WillReturnRows(pgxmock.NewRows([]string{"skill_order", "wins", "matches"}))

	rec, err := p.SkillOrder(ahri, "middle")
	require.NoError(t, err)
	assert.Empty(t, rec.Frequent)
}

func TestSkillOrder_QueryError(t *testing.T) {
	p, mock := newTestProvider(t, &fakeRoster{})
	p.currentPatch = "15.1"

	mock.ExpectQuery("FROM champion_skill_orders").WillReturnError(errors.New("connection reset"))

	_, err := p.SkillOrder(ahri, "middle")
	assert.ErrorContains(t, err, "connection reset")
}

func TestPatchFetchedOnce(t *testing.T) {
	p, mock := newTestProvider(t, &fakeRoster{champions: []source.Champion{ahri}})

	expectPatch(mock, "15.1")
	mock.ExpectQuery("FROM champion_stats").
		WillReturnRows(pgxmock.NewRows([]string{"champion_id", "team_position", "wins", "matches"}).
			AddRow(103, "MIDDLE", 200, 400))
	mock.ExpectQuery("FROM champion_skill_orders").
		WithArgs("15.1", 103, "MIDDLE").
		WillReturnRows(pgxmock.NewRows([]string{"skill_order", "wins", "matches"}))

	_, err := p.Champions()
	require.NoError(t, err)
	_, err = p.SkillOrder(ahri, "middle")
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleToPosition(t *testing.T) {
	assert.Equal(t, "MIDDLE", roleToPosition("middle"))
	assert.Equal(t, "MIDDLE", roleToPosition("mid"))
	assert.Equal(t, "BOTTOM", roleToPosition("adc"))
	assert.Equal(t, "UTILITY", roleToPosition("support"))
	assert.Equal(t, "JUNGLE", roleToPosition("jungle"))
}

func TestRankPositions(t *testing.T) {
	positions := []PositionStat{
		{Position: "TOP", Matches: 80},
		{Position: "MIDDLE", Matches: 400},
		{Position: "UTILITY", Matches: 20},
		{Position: "JUNGLE", Matches: 0},
	}

	roles := rankPositions(positions, 50)
	assert.Equal(t, []source.RoleRank{
		{Role: "middle", Rank: 1},
		{Role: "top", Rank: 2},
	}, roles)
}

func TestRankPositions_KeepsMostPlayed(t *testing.T) {
	roles := rankPositions([]PositionStat{{Position: "TOP", Matches: 5}}, 50)
	assert.Equal(t, []source.RoleRank{{Role: "top", Rank: 1}}, roles)

	assert.Empty(t, rankPositions(nil, 50))
}

func TestBundle(t *testing.T) {
	items := []ItemStat{
		{ItemID: 3020, Wins: 260, Matches: 520},
		{ItemID: 6655, Wins: 310, Matches: 580},
		{ItemID: 3111, Wins: 60, Matches: 100},
		{ItemID: 3006, Wins: 30, Matches: 40},
	}
	slots := []SlotStat{
		slot(6655, 1, 250, 500),
		slot(6656, 1, 70, 100),
		slot(3089, 1, 10, 10),
		slot(3020, 2, 260, 520),
		slot(6655, 2, 60, 80),
		slot(4645, 3, 5, 9),
	}

	frequent := bundle(slots, items, 50, byMatches)
	assert.Equal(t, []string{"3020"}, frequent.Starters)
	assert.Equal(t, []string{"6655", "3020", "4645"}, frequent.Full)

	highest := bundle(slots, items, 50, byWinRate)
	// 3006 wins more often but has too few games
	assert.Equal(t, []string{"3111"}, highest.Starters)
	// 3089 wins every game but has too few of them
	assert.Equal(t, []string{"6656", "6655", "4645"}, highest.Full)
}

func TestBundle_PipelineSlots(t *testing.T) {
	// the match pipeline writes build slots 1..6 only
	slots := []SlotStat{
		slot(3089, 1, 300, 600),
		slot(3020, 2, 280, 560),
		slot(3157, 3, 200, 400),
	}
	items := []ItemStat{{ItemID: 3020, Wins: 280, Matches: 560}}

	b := bundle(slots, items, 50, byMatches)
	assert.Equal(t, []string{"3020"}, b.Starters)
	assert.Equal(t, []string{"3089", "3020", "3157"}, b.Full)
}

func TestBundle_LowSampleBoots(t *testing.T) {
	items := []ItemStat{
		{ItemID: 3047, Wins: 20, Matches: 30},
		{ItemID: 3158, Wins: 5, Matches: 10},
	}

	b := bundle(nil, items, 50, byWinRate)
	assert.Equal(t, []string{"3047"}, b.Starters)
}

func TestBundle_Empty(t *testing.T) {
	b := bundle(nil, nil, 50, byMatches)
	assert.Empty(t, b.Full)
	assert.Empty(t, b.Starters)
}

func TestPickSkillOrders(t *testing.T) {
	orders := []SkillStat{
		{Order: "QWEQQRQWQWRWWEEREE", Wins: 500, Matches: 1000},
		{Order: "QEWQQRQEQERWEEWRWW", Wins: 120, Matches: 200},
		{Order: "WQEWWRWQWQRQQEEREE", Wins: 10, Matches: 10},
		{Order: "QWE", Wins: 100, Matches: 100},
	}

	rec := pickSkillOrders(orders, 50)
	assert.Equal(t, splitOrder("QWEQQRQWQWRWWEEREE"), rec.Frequent)
	assert.Equal(t, splitOrder("QEWQQRQEQERWEEWRWW"), rec.Highest)
	assert.Len(t, rec.Frequent, source.SkillOrderLength)
}

func TestPickSkillOrders_NoneValid(t *testing.T) {
	rec := pickSkillOrders([]SkillStat{{Order: "QWE", Matches: 100}}, 50)
	assert.Nil(t, rec.Frequent)
	assert.Nil(t, rec.Highest)
}

func TestPickSkillOrders_MultibyteOrder(t *testing.T) {
	// six runes, eighteen bytes
	short := SkillStat{Order: "ＱＷＥＱＷＥ", Wins: 60, Matches: 100}
	rec := pickSkillOrders([]SkillStat{short}, 50)
	assert.Nil(t, rec.Frequent)

	full := SkillStat{Order: "ＱＷＥＱＱＲＱＷＱＷＲＷＷＥＥＲＥＥ", Wins: 60, Matches: 100}
	rec = pickSkillOrders([]SkillStat{full}, 50)
	require.Len(t, rec.Frequent, source.SkillOrderLength)
	assert.Equal(t, "Ｑ", rec.Frequent[0])
}
