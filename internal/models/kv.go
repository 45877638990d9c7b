package models

import "time"

type KVEntry struct {
	Key       string    `gorm:"type:text;primaryKey" json:"key"`
	Value     []byte    `gorm:"type:bytea" json:"value"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
