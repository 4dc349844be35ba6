package league

// Upstream cell positions of a standings row.
const (
	StandingsPosition = 1
	StandingsTeam     = 2
	StandingsGames    = 3
	StandingsWon      = 4
	StandingsTied     = 5
	StandingsLost     = 6
	StandingsGoals    = 7
	StandingsDiff     = 8
	StandingsPoints   = 9
)

// GameCells locates the game fields inside a row of a game list kind.
// A negative position means the kind does not carry the field.
type GameCells struct {
	Date     int
	Time     int
	Home     int
	Guest    int
	Goals    int
	Points   int
	Location int
}

var gameCells = map[Kind]GameCells{
	KindTeam:  {Date: 1, Time: 2, Home: 3, Guest: 5, Goals: 6, Points: 7, Location: -1},
	KindGames: {Date: 1, Time: 2, Home: 3, Guest: 5, Goals: 6, Points: 7, Location: -1},
	KindNext:  {Date: 2, Time: 3, Home: 4, Guest: 5, Goals: -1, Points: -1, Location: -1},
	KindClub:  {Date: 1, Time: -1, Home: 3, Guest: 4, Goals: -1, Points: -1, Location: 5},
}

// GameCellsFor returns the game layout of kind. ok is false for kinds that
// do not list games.
func GameCellsFor(kind Kind) (GameCells, bool) {
	c, ok := gameCells[kind]
	return c, ok
}

// Column is one rendered table column.
type Column struct {
	// Label is the header text key.
	Label string
	// Cell is the upstream cell shown in the column.
	Cell int
	// Team marks columns holding a team name, subject to display replacements.
	Team bool
	// Weekday prefixes the cell with its abbreviated weekday.
	Weekday bool
}

// Layouts holds the plain column layout of every table kind. Stats and the
// map column of KindNext are derived and rendered separately.
var Layouts = map[Kind][]Column{
	KindTeam:  gameColumns,
	KindGames: gameColumns,
	KindStandings: {
		{Label: "No.", Cell: StandingsPosition},
		{Label: "Team", Cell: StandingsTeam, Team: true},
		{Label: "Games", Cell: StandingsGames},
		{Label: "W", Cell: StandingsWon},
		{Label: "T", Cell: StandingsTied},
		{Label: "L", Cell: StandingsLost},
		{Label: "Goals", Cell: StandingsGoals},
		{Label: "D", Cell: StandingsDiff},
		{Label: "Points", Cell: StandingsPoints},
	},
	KindNext: {
		{Label: "Date", Cell: 2, Weekday: true},
		{Label: "Time", Cell: 3},
		{Label: "Home", Cell: 4, Team: true},
		{Label: "Guest", Cell: 5, Team: true},
	},
	KindClub: {
		{Label: "Date", Cell: 1},
		{Label: "Home", Cell: 3, Team: true},
		{Label: "Guest", Cell: 4, Team: true},
		{Label: "Location", Cell: 5},
	},
}

var gameColumns = []Column{
	{Label: "Date", Cell: 1, Weekday: true},
	{Label: "Time", Cell: 2},
	{Label: "Home", Cell: 3, Team: true},
	{Label: "Guest", Cell: 5, Team: true},
	{Label: "Goals", Cell: 6},
	{Label: "Points", Cell: 7},
}
