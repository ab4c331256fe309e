package models

import "time"

// Keys of the four persisted state entries.
const (
	KeyWorkers     = "rqc_workers"
	KeyRecords     = "rqc_records"
	KeyChats       = "rqc_chats"
	KeyCurrentUser = "rqc_current_user"
)

// StateEntry is one serialized entry when the state lives in a SQL database.
type StateEntry struct {
	Key       string    `json:"key" gorm:"column:entry_key;primaryKey;type:varchar(128)"`
	Value     string    `json:"value" gorm:"type:text"`
	UpdatedAt time.Time `json:"updated_at"`
}
