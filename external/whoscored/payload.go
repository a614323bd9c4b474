package whoscored

// matchCentre is the matchCentreData document embedded in a WhoScored match
// page, plus the matchId/competition envelope the scraper adds.
type matchCentre struct {
	MatchID     *int64       `json:"matchId" validate:"required,gt=0"`
	Competition string       `json:"competition"`
	StartTime   string       `json:"startTime" validate:"required"`
	Score       string       `json:"score"`
	Home        *teamSide    `json:"home" validate:"required"`
	Away        *teamSide    `json:"away" validate:"required"`
	Events      []matchEvent `json:"events" validate:"required,min=1,dive"`
}

type teamSide struct {
	TeamID *int64 `json:"teamId" validate:"required,gt=0"`
	Name   string `json:"name" validate:"required"`
}

type displayName struct {
	DisplayName string `json:"displayName" validate:"required"`
}

type matchEvent struct {
	ID          *float64     `json:"id" validate:"required"`
	EventID     int64        `json:"eventId"`
	Minute      int          `json:"minute" validate:"gte=0,lte=130"`
	Second      float64      `json:"second"`
	TeamID      *int64       `json:"teamId" validate:"required,gt=0"`
	PlayerID    *int64       `json:"playerId"`
	X           *float64     `json:"x" validate:"required,gte=0,lte=100"`
	Y           *float64     `json:"y" validate:"required,gte=0,lte=100"`
	EndX        *float64     `json:"endX" validate:"omitempty,gte=0,lte=100"`
	EndY        *float64     `json:"endY" validate:"omitempty,gte=0,lte=100"`
	Type        *displayName `json:"type" validate:"required"`
	OutcomeType *displayName `json:"outcomeType" validate:"required"`
	Period      *displayName `json:"period"`
	IsTouch     bool         `json:"isTouch"`
	IsShot      bool         `json:"isShot"`
	IsGoal      bool         `json:"isGoal"`
}
