package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leaguestore/pkg/domain"
)

func players() []domain.Player {
	return []domain.Player{
		{PlayerName: "LeBron James", TeamID: "1610612747", PlayerID: "2544", Season: "2019"},
		{PlayerName: "Anthony Davis", TeamID: "1610612747", PlayerID: "203076", Season: "2019"},
		{PlayerName: "Jayson Tatum", TeamID: "1610612738", PlayerID: "1628369", Season: "2019"},
		{PlayerName: "James Harden", TeamID: "1610612745", PlayerID: "201935", Season: "2018"},
		{PlayerName: "Jaylen Brown", TeamID: "1610612738", PlayerID: "1627759", Season: "2018"},
	}
}

func ids(ps []domain.Player) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.PlayerID
	}
	return out
}

func TestFilterEqualityAndContainment(t *testing.T) {
	got := Filter(domain.PlayerSchema, players(), map[string]string{"TEAM_ID": "1610612747"})
	assert.Equal(t, []string{"2544", "203076"}, ids(got))

	got = Filter(domain.PlayerSchema, players(), map[string]string{"PLAYER_NAME": "James"})
	assert.Equal(t, []string{"2544", "201935"}, ids(got))

	got = Filter(domain.PlayerSchema, players(), map[string]string{"PLAYER_NAME": "james"})
	assert.Empty(t, got, "containment is case-sensitive")

	got = Filter(domain.PlayerSchema, players(), map[string]string{"TEAM_ID": "161061274"})
	assert.Empty(t, got, "identity columns match exactly")
}

func TestFilterIgnoresUnknownFieldsAndEmptyValues(t *testing.T) {
	got := Filter(domain.PlayerSchema, players(), map[string]string{"HEIGHT": "2.06", "SEASON": ""})
	assert.Equal(t, ids(players()), ids(got))
}

func TestFilterConjunctionIsIntersection(t *testing.T) {
	p1 := map[string]string{"SEASON": "2019"}
	p2 := map[string]string{"TEAM_ID": "1610612738"}
	both := map[string]string{"SEASON": "2019", "TEAM_ID": "1610612738"}

	a := Filter(domain.PlayerSchema, players(), p1)
	b := Filter(domain.PlayerSchema, players(), p2)
	inB := map[string]bool{}
	for _, p := range b {
		inB[p.PlayerID] = true
	}
	var intersection []string
	for _, p := range a {
		if inB[p.PlayerID] {
			intersection = append(intersection, p.PlayerID)
		}
	}
	assert.Equal(t, intersection, ids(Filter(domain.PlayerSchema, players(), both)))
	assert.Equal(t, []string{"1628369"}, intersection)
}

func TestFilterFoldIsCaseInsensitiveEquality(t *testing.T) {
	teams := []domain.Team{{TeamID: "1", City: "Los Angeles"}, {TeamID: "2", City: "Boston"}, {TeamID: "3", City: "Los Angeles Area"}}
	got := FilterFold(domain.TeamSchema, teams, map[string]string{"CITY": "los angeles"})
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].TeamID)
}

func TestSortStableAndDirections(t *testing.T) {
	asc, err := Sort(domain.PlayerSchema, players(), "SEASON")
	require.NoError(t, err)
	assert.Equal(t, []string{"201935", "1627759", "2544", "203076", "1628369"}, ids(asc))

	desc, err := Sort(domain.PlayerSchema, players(), "SEASON:desc")
	require.NoError(t, err)
	assert.Equal(t, []string{"2544", "203076", "1628369", "201935", "1627759"}, ids(desc))

	byName, err := Sort(domain.PlayerSchema, players(), "PLAYER_NAME:ASC")
	require.NoError(t, err)
	assert.Equal(t, "Anthony Davis", byName[0].PlayerName)
}

func TestSortNumericColumnsByValue(t *testing.T) {
	got, err := Sort(domain.PlayerSchema, players(), "PLAYER_ID:asc")
	require.NoError(t, err)
	assert.Equal(t, []string{"2544", "201935", "203076", "1627759", "1628369"}, ids(got))
}

func TestSortUnparsableNumbersLast(t *testing.T) {
	games := []domain.Game{{GameID: "a", PtsHome: ""}, {GameID: "b", PtsHome: "99"}, {GameID: "c", PtsHome: "NaN"}, {GameID: "d", PtsHome: "120"}}
	for _, expr := range []string{"PTS_home:asc", "PTS_home:desc"} {
		got, err := Sort(domain.GameSchema, games, expr)
		require.NoError(t, err)
		assert.Contains(t, []string{"a", "c"}, got[2].GameID, expr)
		assert.Contains(t, []string{"a", "c"}, got[3].GameID, expr)
	}
	got, _ := Sort(domain.GameSchema, games, "PTS_home:desc")
	assert.Equal(t, "d", got[0].GameID)
}

func TestSortDatesChronologically(t *testing.T) {
	games := []domain.Game{{GameID: "1", GameDateEST: "2022-12-22"}, {GameID: "2", GameDateEST: "2003-10-05"}, {GameID: "3", GameDateEST: "2019-01-31"}}
	got, err := Sort(domain.GameSchema, games, "GAME_DATE_EST")
	require.NoError(t, err)
	assert.Equal(t, "2", got[0].GameID)
	assert.Equal(t, "1", got[2].GameID)
}

func TestSortUnknownOrEmptyFieldKeepsOrder(t *testing.T) {
	for _, expr := range []string{"", "HEIGHT:desc", ":asc"} {
		got, err := Sort(domain.PlayerSchema, players(), expr)
		require.NoError(t, err)
		assert.Equal(t, ids(players()), ids(got), expr)
	}
}

func TestSortRejectsBadDirection(t *testing.T) {
	_, err := Sort(domain.PlayerSchema, players(), "SEASON:up")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPaginateBoundaries(t *testing.T) {
	all := players()
	cases := []struct {
		name  string
		page  int
		limit *int
		want  []string
	}{
		{"default limit covers all", 1, nil, ids(all)},
		{"first page", 1, IntPtr(2), []string{"2544", "203076"}},
		{"last partial page", 3, IntPtr(2), []string{"1627759"}},
		{"page past end", 4, IntPtr(2), []string{}},
		{"far page", 1 << 40, IntPtr(2), []string{}},
		{"limit zero", 1, IntPtr(0), []string{}},
		{"page zero means first", 0, IntPtr(1), []string{"2544"}},
		{"negative limit means default", 1, IntPtr(-3), ids(all)},
		{"exact end", 2, IntPtr(5), []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Paginate(all, tc.page, tc.limit)
			require.NotNil(t, got)
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func TestPaginateDefaultLimitIsTen(t *testing.T) {
	extent := make([]domain.Player, 25)
	assert.Len(t, Paginate(extent, 1, nil), 10)
	assert.Len(t, Paginate(extent, 3, nil), 5)
}

func TestRunComposesWithoutMutatingInput(t *testing.T) {
	input := players()
	snapshot := players()
	got, err := Run(domain.PlayerSchema, input, Params{
		Filter: map[string]string{"PLAYER_NAME": "Ja"},
		Sort:   "PLAYER_ID:desc",
		Page:   1,
		Limit:  IntPtr(2),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"1628369", "1627759"}, ids(got))
	assert.Equal(t, snapshot, input)

	again, err := Run(domain.PlayerSchema, input, Params{
		Filter: map[string]string{"PLAYER_NAME": "Ja"},
		Sort:   "PLAYER_ID:desc",
		Page:   1,
		Limit:  IntPtr(2),
	})
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestRunSurfacesSortError(t *testing.T) {
	_, err := Run(domain.PlayerSchema, players(), Params{Sort: "SEASON:sideways"})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}
