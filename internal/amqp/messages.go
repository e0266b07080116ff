package amqp

import (
	"encoding/json"
	"time"
)

// EventDashboardUpdated is the routing event of DashboardUpdatedMessage.
const EventDashboardUpdated = "dashboard.updated"

// Reasons carried by DashboardUpdatedMessage.
const (
	ReasonProjectCreated  = "project.created"
	ReasonProjectUpdated  = "project.updated"
	ReasonProjectDeleted  = "project.deleted"
	ReasonCurrencyChanged = "settings.currency"
)

// DashboardUpdatedMessage summarises the all-time dashboard after a change so
// that an external renderer can refresh without calling back.
type DashboardUpdatedMessage struct {
	Event         string    `json:"event"`
	Reason        string    `json:"reason"`
	ProjectID     string    `json:"project_id,omitempty"`
	StoreVersion  uint64    `json:"store_version"`
	Currency      string    `json:"currency"`
	ProjectCount  int       `json:"project_count"`
	TotalUSD      float64   `json:"total_usd"`
	AverageUSD    float64   `json:"average_usd"`
	GrowthPercent float64   `json:"growth_percent"`
	BestMonth     string    `json:"best_month"`
	BestMonthUSD  float64   `json:"best_month_usd"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewDashboardUpdatedMessage stamps the event name and the current time.
func NewDashboardUpdatedMessage(reason, projectID string) *DashboardUpdatedMessage {
	return &DashboardUpdatedMessage{
		Event:     EventDashboardUpdated,
		Reason:    reason,
		ProjectID: projectID,
		Timestamp: time.Now(),
	}
}

func (m *DashboardUpdatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func DashboardUpdatedMessageFromJSON(data []byte) (*DashboardUpdatedMessage, error) {
	var msg DashboardUpdatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
