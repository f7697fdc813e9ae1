package amqp

import (
	"encoding/json"
	"time"
)

// ReportSyncMessage queues one expense for the Sheets report sync. It carries
// only identifiers; the worker reads the full expense from the database so a
// stale message can never overwrite fresher data.
type ReportSyncMessage struct {
	ExpenseID int64     `json:"expense_id"`
	GroupID   string    `json:"group_id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func NewReportSyncMessage(groupID string, expenseID, version int64) *ReportSyncMessage {
	return &ReportSyncMessage{
		ExpenseID: expenseID,
		GroupID:   groupID,
		Version:   version,
		Timestamp: time.Now(),
	}
}

func (m *ReportSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReportSyncMessageFromJSON(data []byte) (*ReportSyncMessage, error) {
	var msg ReportSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
