package engine

// String backed enums so snapshots stay readable JSON.

type MissionStatus string
type Allegiance string
type AssetStatus string
type EventType string

const (
	MissionActive    MissionStatus = "active"
	MissionCompleted MissionStatus = "completed"
)

var AllMissionStatuses = []MissionStatus{MissionActive, MissionCompleted}

const (
	AllegianceAlly    Allegiance = "ally"
	AllegianceEnemy   Allegiance = "enemy"
	AllegianceNeutral Allegiance = "neutral"
)

var AllAllegiances = []Allegiance{AllegianceAlly, AllegianceEnemy, AllegianceNeutral}

const (
	AssetIdle     AssetStatus = "idle"
	AssetDeployed AssetStatus = "deployed"
)

var AllAssetStatuses = []AssetStatus{AssetIdle, AssetDeployed}

const (
	EventPoliticalUnrest  EventType = "Political Unrest"
	EventCorporateScandal EventType = "Corporate Scandal"
	EventCyberattack      EventType = "Cyberattack"
)

// AllEventTypes is ordered; the world simulator draws uniformly by index.
var AllEventTypes = []EventType{EventPoliticalUnrest, EventCorporateScandal, EventCyberattack}

func contains[T ~string](list []T, v T) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func (s MissionStatus) Validate() bool { return contains(AllMissionStatuses, s) }
func (a Allegiance) Validate() bool    { return contains(AllAllegiances, a) }
func (s AssetStatus) Validate() bool   { return contains(AllAssetStatuses, s) }
func (e EventType) Validate() bool     { return contains(AllEventTypes, e) }
