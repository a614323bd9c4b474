package fotmob

// matchDetails is the subset of the FotMob matchDetails response the
// pipeline consumes.
type matchDetails struct {
	General *general `json:"general" validate:"required"`
	Header  header   `json:"header"`
	Content *content `json:"content" validate:"required"`
}

type general struct {
	MatchID          *int64 `json:"matchId" validate:"required,gt=0"`
	LeagueName       string `json:"leagueName"`
	MatchTimeUTCDate string `json:"matchTimeUTCDate"`
	MatchTimeUTC     string `json:"matchTimeUTC"`
	HomeTeam         *team  `json:"homeTeam" validate:"required"`
	AwayTeam         *team  `json:"awayTeam" validate:"required"`
}

type team struct {
	ID   *int64 `json:"id" validate:"required,gt=0"`
	Name string `json:"name" validate:"required"`
}

type header struct {
	Status status `json:"status"`
}

type status struct {
	ScoreStr string `json:"scoreStr"`
}

type content struct {
	Shotmap *shotmap `json:"shotmap" validate:"required"`
}

type shotmap struct {
	Shots []shot `json:"shots" validate:"dive"`
}

type shot struct {
	ID            *int64   `json:"id" validate:"required"`
	EventType     string   `json:"eventType" validate:"required"`
	TeamID        *int64   `json:"teamId" validate:"required,gt=0"`
	PlayerID      *int64   `json:"playerId"`
	X             *float64 `json:"x" validate:"required,gte=0,lte=105"`
	Y             *float64 `json:"y" validate:"required,gte=0,lte=68"`
	Min           int      `json:"min" validate:"gte=0,lte=130"`
	Period        string   `json:"period"`
	ExpectedGoals *float64 `json:"expectedGoals" validate:"required,gte=0,lte=1"`
	IsOnTarget    bool     `json:"isOnTarget"`
}
