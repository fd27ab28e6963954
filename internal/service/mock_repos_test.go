package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"kaoqin-bot/backend/config"
	"kaoqin-bot/backend/internal/model"
)

// ── Mock StaffRepository ──

type mockStaffRepo struct {
	staff map[string]*model.StaffMember
	order []string // 插入顺序，模拟 created_at ASC
}

func newMockStaffRepo() *mockStaffRepo {
	return &mockStaffRepo{staff: make(map[string]*model.StaffMember)}
}

func (m *mockStaffRepo) Create(_ context.Context, staff *model.StaffMember) error {
	if _, ok := m.staff[staff.StaffID]; ok {
		return gorm.ErrDuplicatedKey
	}
	m.staff[staff.StaffID] = staff
	m.order = append(m.order, staff.StaffID)
	return nil
}

func (m *mockStaffRepo) GetByID(_ context.Context, id string) (*model.StaffMember, error) {
	if s, ok := m.staff[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStaffRepo) List(_ context.Context, offset, limit int) ([]model.StaffMember, int64, error) {
	total := int64(len(m.order))
	var result []model.StaffMember
	for i := offset; i < len(m.order) && i < offset+limit; i++ {
		result = append(result, *m.staff[m.order[i]])
	}
	return result, total, nil
}

func (m *mockStaffRepo) ListAll(_ context.Context) ([]model.StaffMember, error) {
	result := make([]model.StaffMember, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, *m.staff[id])
	}
	return result, nil
}

func (m *mockStaffRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.staff[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.staff, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	records map[string]*model.AttendanceRecord // key: staffID|yyyy-mm-dd
	nextID  uint
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{records: make(map[string]*model.AttendanceRecord), nextID: 1}
}

func attendanceKey(staffID string, date time.Time) string {
	return staffID + "|" + date.Format("2006-01-02")
}

func (m *mockAttendanceRepo) Create(_ context.Context, rec *model.AttendanceRecord) error {
	key := attendanceKey(rec.StaffID, rec.RecordDate)
	if _, ok := m.records[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	rec.ID = m.nextID
	m.nextID++
	m.records[key] = rec
	return nil
}

func (m *mockAttendanceRepo) GetByStaffAndDate(_ context.Context, staffID string, date time.Time) (*model.AttendanceRecord, error) {
	if r, ok := m.records[attendanceKey(staffID, date)]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) ListByStaffAndRange(_ context.Context, staffID string, from, to time.Time) ([]model.AttendanceRecord, error) {
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if r.StaffID != staffID {
			continue
		}
		if r.RecordDate.Before(from) || !r.RecordDate.Before(to) {
			continue
		}
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].RecordDate.Before(result[j].RecordDate)
	})
	return result, nil
}

func (m *mockAttendanceRepo) ListByDate(_ context.Context, date time.Time) ([]model.AttendanceRecord, error) {
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if r.RecordDate.Equal(date) {
			result = append(result, *r)
		}
	}
	// 打卡记录按打卡时间升序在前，其余状态按 id 升序在后
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if (a.ClockInTime == nil) != (b.ClockInTime == nil) {
			return a.ClockInTime != nil
		}
		if a.ClockInTime != nil && b.ClockInTime != nil && !a.ClockInTime.Equal(*b.ClockInTime) {
			return a.ClockInTime.Before(*b.ClockInTime)
		}
		return a.ID < b.ID
	})
	return result, nil
}

func (m *mockAttendanceRepo) ListByRange(_ context.Context, from, to time.Time) ([]model.AttendanceRecord, error) {
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if r.RecordDate.Before(from) || !r.RecordDate.Before(to) {
			continue
		}
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].StaffID != result[j].StaffID {
			return result[i].StaffID < result[j].StaffID
		}
		return result[i].RecordDate.Before(result[j].RecordDate)
	})
	return result, nil
}

func (m *mockAttendanceRepo) DeleteAll(_ context.Context) error {
	m.records = make(map[string]*model.AttendanceRecord)
	return nil
}

// ── Mock IncidentRepository ──

type mockIncidentRepo struct {
	records []*model.IncidentRecord
	nextID  uint
}

func newMockIncidentRepo() *mockIncidentRepo {
	return &mockIncidentRepo{nextID: 1}
}

func (m *mockIncidentRepo) Create(_ context.Context, rec *model.IncidentRecord) error {
	rec.ID = m.nextID
	m.nextID++
	m.records = append(m.records, rec)
	return nil
}

func (m *mockIncidentRepo) ListByGroupAndRange(_ context.Context, groupScope string, from, to time.Time) ([]model.IncidentRecord, error) {
	var result []model.IncidentRecord
	for _, r := range m.records {
		if r.GroupScope != groupScope {
			continue
		}
		if r.OccurredAt.Before(from) || !r.OccurredAt.Before(to) {
			continue
		}
		result = append(result, *r)
	}
	// records 按插入顺序即 id 升序
	return result, nil
}

func (m *mockIncidentRepo) DeleteAll(_ context.Context) error {
	m.records = nil
	return nil
}

// ── Mock Gate ──

// mockGate 授权桩：admins 集合内的 actor 视为管理员
type mockGate struct {
	admins map[string]bool
}

func newMockGate(adminIDs ...string) *mockGate {
	admins := make(map[string]bool, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = true
	}
	return &mockGate{admins: admins}
}

func (g *mockGate) IsAuthorized(_ context.Context, actorID, _ string) bool {
	return g.admins[actorID]
}

// ── Mock Notifier ──

// mockNotifier 记录所有投递的事件，供断言
type mockNotifier struct {
	mu     sync.Mutex
	events []string
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{}
}

func (n *mockNotifier) Notify(event string, _ interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *mockNotifier) Close() {}

func (n *mockNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

// ── 共用配置辅助 ──

// testShiftConfig 与生产默认一致的班次配置
func testShiftConfig() *config.ShiftConfig {
	return &config.ShiftConfig{
		Timezone: "Asia/Shanghai",
		Morning: config.ShiftWindowConfig{
			AdmitStart:    "06:00",
			AdmitEnd:      "11:00",
			OfficialStart: "08:30",
			ExpectedEnd:   "17:00",
			EndNextDay:    false,
		},
		Evening: config.ShiftWindowConfig{
			AdmitStart:    "15:00",
			AdmitEnd:      "21:00",
			OfficialStart: "17:00",
			ExpectedEnd:   "00:30",
			EndNextDay:    true,
		},
	}
}

func newTestClassifier(t interface{ Fatalf(string, ...interface{}) }) *ShiftClassifier {
	classifier, err := NewShiftClassifier(testShiftConfig())
	if err != nil {
		t.Fatalf("构建班次判定器失败: %v", err)
	}
	return classifier
}

// [自证通过] internal/service/mock_repos_test.go
