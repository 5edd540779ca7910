package config

import (
	"fmt"

	"wallet-api-sol/internal/pkg/logger"
)

type MonitorConfig struct {
	Port int `yaml:"port"` // 监控端口，0 表示关闭
}

type LogConfig struct {
	Format   string `yaml:"format"`   // 日志格式，可选 "console"（开发调试）或 "json"（结构化，推荐生产使用）
	LogDir   string `yaml:"log_dir"`  // 日志文件目录，可为相对路径或绝对路径
	Level    string `yaml:"level"`    // 日志级别：debug / info / warn / error
	Compress bool   `yaml:"compress"` // 是否压缩旧日志文件
}

func (c *LogConfig) ToLogOption() logger.LogOption {
	return logger.LogOption{
		Format:   c.Format,
		LogDir:   c.LogDir,
		Level:    c.Level,
		Compress: c.Compress,
	}
}

// DatabaseConf 关系库连接配置，mysql / postgres 二选一
type DatabaseConf struct {
	Dialect         string `yaml:"dialect"`            // "mysql" 或 "postgres"
	User            string `yaml:"user"`               // 用户名
	Password        string `yaml:"password"`           // 密码
	Host            string `yaml:"host"`               // 主机名或 IP
	Port            int    `yaml:"port"`               // 端口
	Database        string `yaml:"database"`           // 数据库名
	Timeout         string `yaml:"timeout"`            // 初始连接超时时间（格式如 "5s"）
	MaxOpenConns    int    `yaml:"max_open_conns"`     // 最大连接数
	MaxIdleConns    int    `yaml:"max_idle_conns"`     // 最大空闲连接数
	ConnMaxIdleTime string `yaml:"conn_max_idle_time"` // 空闲连接最大保持时间（如 "5m"）
}

// DSN 按方言拼接连接串
func (c *DatabaseConf) DSN() string {
	switch c.Dialect {
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			c.Host, c.Port, c.User, c.Password, c.Database)
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?timeout=%s&parseTime=true&charset=utf8mb4",
			c.User, c.Password, c.Host, c.Port, c.Database, c.Timeout)
	}
}

// NacosConfig Nacos 注册中心相关配置，service_name 为空表示不注册
type NacosConfig struct {
	ServiceName         string   `yaml:"service_name"`            // 注册到 Nacos 的服务名称，用于服务发现
	GroupName           string   `yaml:"group_name"`              // Nacos 中的服务分组名称，默认为 DEFAULT_GROUP
	Weight              int      `yaml:"weight"`                  // 服务权重，用于负载均衡
	Username            string   `yaml:"username"`                // 连接 Nacos 的用户名
	Password            string   `yaml:"password"`                // 连接 Nacos 的密码
	TimeoutMs           int      `yaml:"timeout_ms"`              // 与 Nacos 服务中心通信超时时间（毫秒）
	BeatIntervalMs      int      `yaml:"beat_interval_ms"`        // 心跳发送间隔（毫秒）
	NamespaceId         string   `yaml:"namespace_id"`            // Nacos 命名空间，空字符串表示默认公共命名空间
	NotLoadCacheAtStart bool     `yaml:"not_load_cache_at_start"` // 启动时是否读取本地缓存，true 表示不读取，防止脏数据
	LogLevel            string   `yaml:"log_level"`               // 日志级别，info/debug/warn/error
	CacheDir            string   `yaml:"cache_dir"`               // 本地缓存目录
	LogDir              string   `yaml:"log_dir"`                 // 日志文件目录
	Endpoint            string   `yaml:"endpoint"`                // Nacos 云端地址，留空表示不使用
	StaticServers       []string `yaml:"static_servers"`          // 静态 Nacos 服务列表，与 endpoint 二选一
}
