package codec

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leaguestore/pkg/domain"
)

func golden(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestEncodePlayersQuoting(t *testing.T) {
	players := []domain.Player{
		{PlayerName: "Royce O'Neale", TeamID: "1610612762", PlayerID: "1626220", Season: "2019"},
		{PlayerName: "Smith, Jr.", TeamID: "1", PlayerID: "2", Season: "2020"},
		{PlayerName: `Ann "Ace" Lee`, PlayerID: "3"},
	}
	out, err := Encode(domain.PlayerSchema, players)
	require.NoError(t, err)
	golden(t).Assert(t, "players_quoting", out)
}

func TestEncodeEmptyExtentWritesHeaderOnly(t *testing.T) {
	out, err := Encode(domain.TeamSchema, nil)
	require.NoError(t, err)
	golden(t).Assert(t, "teams_header_only", out)
}

func TestEncodeSparseRecordEmitsFullColumnSet(t *testing.T) {
	teams := []domain.Team{{TeamID: "1", Nickname: "Lakers", City: "LA", Arena: "Arena", Owner: "X"}}
	out, err := Encode(domain.TeamSchema, teams)
	require.NoError(t, err)
	golden(t).Assert(t, "teams_sparse", out)
}

func TestDecodeMapsHeaderByName(t *testing.T) {
	raw := "TEAM_ID,NICKNAME,CITY,ARENA,OWNER\n1,Lakers,LA,Arena,X\n2,Celtics,Boston,Garden,Y\n"
	teams, err := Decode(domain.TeamSchema, []byte(raw))
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, domain.Team{TeamID: "1", Nickname: "Lakers", City: "LA", Arena: "Arena", Owner: "X"}, teams[0])
	assert.Equal(t, "Celtics", teams[1].Nickname)
	assert.Empty(t, teams[1].LeagueID)
}

func TestDecodeKeepsValuesRaw(t *testing.T) {
	raw := "GAME_DATE_EST,GAME_ID,PTS_home\n2022-12-22,0022200477,126.0\n"
	games, err := Decode(domain.GameSchema, []byte(raw))
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "0022200477", games[0].GameID)
	assert.Equal(t, "126.0", games[0].PtsHome)
}

func TestDecodeToleratesBOMAndCRLF(t *testing.T) {
	raw := "\xEF\xBB\xBFPLAYER_NAME,TEAM_ID,PLAYER_ID,SEASON\r\nA,1,10,2019\r\n\r\n"
	players, err := Decode(domain.PlayerSchema, []byte(raw))
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, domain.Player{PlayerName: "A", TeamID: "1", PlayerID: "10", Season: "2019"}, players[0])
}

func TestDecodeHeaderOnly(t *testing.T) {
	players, err := Decode(domain.PlayerSchema, []byte("PLAYER_NAME,TEAM_ID,PLAYER_ID,SEASON\n"))
	require.NoError(t, err)
	assert.Empty(t, players)
}

func TestDecodeMalformed(t *testing.T) {
	cases := map[string]struct {
		raw  string
		line int
	}{
		"empty":           {raw: "", line: 0},
		"ragged row":      {raw: "PLAYER_NAME,TEAM_ID,PLAYER_ID,SEASON\nA,1,10,2019\nB,2,11\n", line: 3},
		"extra cell":      {raw: "PLAYER_NAME,TEAM_ID,PLAYER_ID,SEASON\nA,1,10,2019,x\n", line: 2},
		"unknown column":  {raw: "PLAYER_NAME,HEIGHT\nA,2.01\n", line: 1},
		"duplicate":       {raw: "PLAYER_ID,PLAYER_ID\n1,2\n", line: 1},
		"invalid utf8":    {raw: "PLAYER_NAME,TEAM_ID,PLAYER_ID,SEASON\n\xff\xfe,1,10,2019\n", line: 0},
		"whitespace only": {raw: "\n\n", line: 0},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			out, err := Decode(domain.PlayerSchema, []byte(tc.raw))
			require.Error(t, err)
			assert.Nil(t, out)
			assert.ErrorIs(t, err, domain.ErrCodec)
			var ce domain.CodecError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, domain.EntityPlayer, ce.Entity)
			assert.Equal(t, tc.line, ce.Line)
		})
	}
}

func TestDecodeKeepsLiteralQuotesInUnquotedCells(t *testing.T) {
	raw := "LEAGUE_ID,TEAM_ID,MIN_YEAR,MAX_YEAR,ABBREVIATION,NICKNAME,YEARFOUNDED,CITY,ARENA,ARENACAPACITY,OWNER,GENERALMANAGER,HEADCOACH,DLEAGUEAFFILIATION\n" +
		"00,1,,,,The \"Show\",,LA,Arena,,X,,,\n"
	teams, err := Decode(domain.TeamSchema, []byte(raw))
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, `The "Show"`, teams[0].Nickname)

	out, err := Encode(domain.TeamSchema, teams)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"The ""Show"""`)

	back, err := Decode(domain.TeamSchema, out)
	require.NoError(t, err)
	assert.Equal(t, teams, back)
}

func TestRoundTripPreservesRecordsAndOrder(t *testing.T) {
	games := []domain.Game{
		{GameDateEST: "2022-12-22", GameID: "22200477", GameStatusText: "Final", HomeTeamID: "1610612740", VisitorTeamID: "1610612759", Season: "2022", PtsHome: "126", PtsAway: "117", HomeTeamWins: "1"},
		{GameDateEST: "2022-12-21", GameID: "22200466", GameStatusText: "Final, OT", HomeTeamID: "1610612738", VisitorTeamID: "1610612753", Season: "2022", FGPctHome: "0.488"},
		{GameID: "3"},
	}
	raw, err := Encode(domain.GameSchema, games)
	require.NoError(t, err)

	decoded, err := Decode(domain.GameSchema, raw)
	require.NoError(t, err)
	assert.Equal(t, games, decoded)

	again, err := Encode(domain.GameSchema, decoded)
	require.NoError(t, err)
	assert.Equal(t, string(raw), string(again))
}

func TestRoundTripOfForeignColumnOrder(t *testing.T) {
	raw := "SEASON,PLAYER_ID,PLAYER_NAME,TEAM_ID\n2019,10,A,1\n2020,11,B,2\n"
	players, err := Decode(domain.PlayerSchema, []byte(raw))
	require.NoError(t, err)

	out, err := Encode(domain.PlayerSchema, players)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	assert.Equal(t, []string{"PLAYER_NAME,TEAM_ID,PLAYER_ID,SEASON", "A,1,10,2019", "B,2,11,2020"}, lines)

	back, err := Decode(domain.PlayerSchema, out)
	require.NoError(t, err)
	assert.Equal(t, players, back)
}
