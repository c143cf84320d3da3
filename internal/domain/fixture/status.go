package fixture

import "strings"

// Status is the internal classification of a provider status code.
type Status struct {
	Short       string
	Description string
	IsLive      bool
}

const unknownStatusDescription = "Unknown"

type statusDefinition struct {
	description string
	live        bool
}

// statusTable covers every short code published by the provider.
// Codes missing from the table are classified as not live.
var statusTable = map[string]statusDefinition{
	"TBD":  {description: "Time To Be Defined"},
	"NS":   {description: "Not Started"},
	"1H":   {description: "First Half, Kick Off", live: true},
	"HT":   {description: "Halftime", live: true},
	"2H":   {description: "Second Half, 2nd Half Started", live: true},
	"ET":   {description: "Extra Time", live: true},
	"BT":   {description: "Break Time", live: true},
	"P":    {description: "Penalty In Progress", live: true},
	"LIVE": {description: "In Progress", live: true},
	"SUSP": {description: "Match Suspended"},
	"INT":  {description: "Match Interrupted"},
	"FT":   {description: "Match Finished"},
	"AET":  {description: "Match Finished After Extra Time"},
	"PEN":  {description: "Match Finished After Penalty"},
	"PST":  {description: "Match Postponed"},
	"CANC": {description: "Match Cancelled"},
	"ABD":  {description: "Match Abandoned"},
	"AWD":  {description: "Technical Loss"},
	"WO":   {description: "WalkOver"},
}

func NormalizeStatusCode(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

// ClassifyStatus maps a provider short code to a Status. providerLong is only
// used as the description of codes the table does not know.
func ClassifyStatus(short, providerLong string) Status {
	code := NormalizeStatusCode(short)
	if def, ok := statusTable[code]; ok {
		return Status{Short: code, Description: def.description, IsLive: def.live}
	}

	description := strings.TrimSpace(providerLong)
	if description == "" {
		description = unknownStatusDescription
	}
	return Status{Short: code, Description: description}
}

func IsLiveStatus(short string) bool {
	return statusTable[NormalizeStatusCode(short)].live
}

func IsKnownStatus(short string) bool {
	_, ok := statusTable[NormalizeStatusCode(short)]
	return ok
}
