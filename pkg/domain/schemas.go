package domain

// Column name constants referenced outside the schema tables.
const (
	ColTeamID        = "TEAM_ID"
	ColLeagueID      = "LEAGUE_ID"
	ColMinYear       = "MIN_YEAR"
	ColCity          = "CITY"
	ColPlayerID      = "PLAYER_ID"
	ColGameID        = "GAME_ID"
	ColGameDate      = "GAME_DATE_EST"
	ColHomeTeamID    = "HOME_TEAM_ID"
	ColVisitorTeamID = "VISITOR_TEAM_ID"
	ColPtsHome       = "PTS_home"
	ColPtsAway       = "PTS_away"
)

func text[R any](name string, ref func(*R) *string) Column[R] {
	return Column[R]{Name: name, Type: TypeText, Match: MatchContains, Ref: ref}
}

func ident[R any](name string, ref func(*R) *string) Column[R] {
	return Column[R]{Name: name, Type: TypeNumber, Match: MatchEqual, Ref: ref}
}

func code[R any](name string, ref func(*R) *string) Column[R] {
	return Column[R]{Name: name, Type: TypeText, Match: MatchEqual, Ref: ref}
}

func number[R any](name string, ref func(*R) *string) Column[R] {
	return Column[R]{Name: name, Type: TypeNumber, Match: MatchEqual, Ref: ref}
}

// TeamSchema describes teams.csv.
var TeamSchema = NewSchema(EntityTeam, ColTeamID, []Column[Team]{
	code(ColLeagueID, func(t *Team) *string { return &t.LeagueID }),
	ident(ColTeamID, func(t *Team) *string { return &t.TeamID }),
	number(ColMinYear, func(t *Team) *string { return &t.MinYear }),
	number("MAX_YEAR", func(t *Team) *string { return &t.MaxYear }),
	text("ABBREVIATION", func(t *Team) *string { return &t.Abbreviation }),
	text("NICKNAME", func(t *Team) *string { return &t.Nickname }),
	number("YEARFOUNDED", func(t *Team) *string { return &t.YearFounded }),
	text(ColCity, func(t *Team) *string { return &t.City }),
	text("ARENA", func(t *Team) *string { return &t.Arena }),
	number("ARENACAPACITY", func(t *Team) *string { return &t.ArenaCapacity }),
	text("OWNER", func(t *Team) *string { return &t.Owner }),
	text("GENERALMANAGER", func(t *Team) *string { return &t.GeneralManager }),
	text("HEADCOACH", func(t *Team) *string { return &t.HeadCoach }),
	text("DLEAGUEAFFILIATION", func(t *Team) *string { return &t.DLeagueAffiliation }),
},
	[]string{ColTeamID, "NICKNAME", ColCity, "ARENA"},
	[]string{ColTeamID, ColLeagueID, ColMinYear},
)

// PlayerSchema describes players.csv.
var PlayerSchema = NewSchema(EntityPlayer, ColPlayerID, []Column[Player]{
	text("PLAYER_NAME", func(p *Player) *string { return &p.PlayerName }),
	ident(ColTeamID, func(p *Player) *string { return &p.TeamID }),
	ident(ColPlayerID, func(p *Player) *string { return &p.PlayerID }),
	number("SEASON", func(p *Player) *string { return &p.Season }),
},
	[]string{ColPlayerID, "PLAYER_NAME", ColTeamID, "SEASON"},
	nil,
)

// GameSchema describes games.csv.
var GameSchema = NewSchema(EntityGame, ColGameID, []Column[Game]{
	{Name: ColGameDate, Type: TypeDate, Match: MatchEqual, Format: FormatDate, Ref: func(g *Game) *string { return &g.GameDateEST }},
	ident(ColGameID, func(g *Game) *string { return &g.GameID }),
	text("GAME_STATUS_TEXT", func(g *Game) *string { return &g.GameStatusText }),
	ident(ColHomeTeamID, func(g *Game) *string { return &g.HomeTeamID }),
	ident(ColVisitorTeamID, func(g *Game) *string { return &g.VisitorTeamID }),
	number("SEASON", func(g *Game) *string { return &g.Season }),
	ident("TEAM_ID_home", func(g *Game) *string { return &g.TeamIDHome }),
	{Name: ColPtsHome, Type: TypeNumber, Match: MatchEqual, Format: FormatInteger, Ref: func(g *Game) *string { return &g.PtsHome }},
	number("FG_PCT_home", func(g *Game) *string { return &g.FGPctHome }),
	number("FT_PCT_home", func(g *Game) *string { return &g.FTPctHome }),
	number("FG3_PCT_home", func(g *Game) *string { return &g.FG3PctHome }),
	number("AST_home", func(g *Game) *string { return &g.AstHome }),
	number("REB_home", func(g *Game) *string { return &g.RebHome }),
	ident("TEAM_ID_away", func(g *Game) *string { return &g.TeamIDAway }),
	{Name: ColPtsAway, Type: TypeNumber, Match: MatchEqual, Format: FormatInteger, Ref: func(g *Game) *string { return &g.PtsAway }},
	number("FG_PCT_away", func(g *Game) *string { return &g.FGPctAway }),
	number("FT_PCT_away", func(g *Game) *string { return &g.FTPctAway }),
	number("FG3_PCT_away", func(g *Game) *string { return &g.FG3PctAway }),
	number("AST_away", func(g *Game) *string { return &g.AstAway }),
	number("REB_away", func(g *Game) *string { return &g.RebAway }),
	number("HOME_TEAM_WINS", func(g *Game) *string { return &g.HomeTeamWins }),
},
	[]string{ColGameID, ColGameDate, "GAME_STATUS_TEXT", ColHomeTeamID, ColVisitorTeamID},
	nil,
)
