// Package domain defines the league record kinds, their column schemas, and
// the error taxonomy shared by the codec, store, query and mutation layers.
package domain

// EntityType identifies the kind of record held in an extent.
type EntityType string

// Supported entity type identifiers used in errors, metrics and storage keys.
const (
	// EntityTeam identifies a team record.
	EntityTeam EntityType = "team"
	// EntityPlayer identifies a player-season record.
	EntityPlayer EntityType = "player"
	// EntityGame identifies a game box-score record.
	EntityGame EntityType = "game"
)

// Fields is a raw column-name to value bag as supplied by protocol adapters.
// It only exists at the edge; the core converts it into a fixed-shape record.
type Fields map[string]string

// Team is one row of teams.csv.
type Team struct {
	LeagueID           string `json:"LEAGUE_ID"`
	TeamID             string `json:"TEAM_ID"`
	MinYear            string `json:"MIN_YEAR"`
	MaxYear            string `json:"MAX_YEAR"`
	Abbreviation       string `json:"ABBREVIATION"`
	Nickname           string `json:"NICKNAME"`
	YearFounded        string `json:"YEARFOUNDED"`
	City               string `json:"CITY"`
	Arena              string `json:"ARENA"`
	ArenaCapacity      string `json:"ARENACAPACITY"`
	Owner              string `json:"OWNER"`
	GeneralManager     string `json:"GENERALMANAGER"`
	HeadCoach          string `json:"HEADCOACH"`
	DLeagueAffiliation string `json:"DLEAGUEAFFILIATION"`
}

// Player is one row of players.csv. TeamID is a weak reference to Team.
type Player struct {
	PlayerName string `json:"PLAYER_NAME"`
	TeamID     string `json:"TEAM_ID"`
	PlayerID   string `json:"PLAYER_ID"`
	Season     string `json:"SEASON"`
}

// Game is one row of games.csv. HomeTeamID and VisitorTeamID are weak
// references to Team.
type Game struct {
	GameDateEST    string `json:"GAME_DATE_EST"`
	GameID         string `json:"GAME_ID"`
	GameStatusText string `json:"GAME_STATUS_TEXT"`
	HomeTeamID     string `json:"HOME_TEAM_ID"`
	VisitorTeamID  string `json:"VISITOR_TEAM_ID"`
	Season         string `json:"SEASON"`
	TeamIDHome     string `json:"TEAM_ID_home"`
	PtsHome        string `json:"PTS_home"`
	FGPctHome      string `json:"FG_PCT_home"`
	FTPctHome      string `json:"FT_PCT_home"`
	FG3PctHome     string `json:"FG3_PCT_home"`
	AstHome        string `json:"AST_home"`
	RebHome        string `json:"REB_home"`
	TeamIDAway     string `json:"TEAM_ID_away"`
	PtsAway        string `json:"PTS_away"`
	FGPctAway      string `json:"FG_PCT_away"`
	FTPctAway      string `json:"FT_PCT_away"`
	FG3PctAway     string `json:"FG3_PCT_away"`
	AstAway        string `json:"AST_away"`
	RebAway        string `json:"REB_away"`
	HomeTeamWins   string `json:"HOME_TEAM_WINS"`
}

// Operation enumerates the mutation kinds accepted by the mutation pipeline.
type Operation string

// Mutation operations. OpUpdate merges supplied fields; OpReplace swaps every
// non-identity field for the supplied body.
const (
	OpCreate  Operation = "create"
	OpUpdate  Operation = "update"
	OpReplace Operation = "replace"
	OpDelete  Operation = "delete"
)
