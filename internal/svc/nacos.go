package svc

import (
	"fmt"
	"net"
	"strconv"

	"wallet-api-sol/internal/config"

	"github.com/nacos-group/nacos-sdk-go/v2/clients"
	"github.com/nacos-group/nacos-sdk-go/v2/clients/naming_client"
	"github.com/nacos-group/nacos-sdk-go/v2/common/constant"
	"github.com/nacos-group/nacos-sdk-go/v2/vo"
)

// NewNacosClient 构建命名客户端。
// 云端 endpoint 与静态地址列表二选一，endpoint 优先
func NewNacosClient(cfg *config.NacosConfig) (naming_client.INamingClient, error) {
	var servers []constant.ServerConfig
	switch {
	case cfg.Endpoint != "":
		// endpoint 模式由 SDK 自行寻址
	case len(cfg.StaticServers) > 0:
		servers = make([]constant.ServerConfig, 0, len(cfg.StaticServers))
		for _, s := range cfg.StaticServers {
			host, portStr, err := net.SplitHostPort(s)
			if err != nil {
				return nil, fmt.Errorf("nacos: invalid static server %q: %w", s, err)
			}
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return nil, fmt.Errorf("nacos: invalid port in static server %q: %w", s, err)
			}
			servers = append(servers, constant.ServerConfig{
				IpAddr: host,
				Port:   uint64(port),
				Scheme: "http",
			})
		}
	default:
		return nil, fmt.Errorf("nacos: either endpoint or static_servers must be configured")
	}

	client, err := clients.NewNamingClient(vo.NacosClientParam{
		ClientConfig: &constant.ClientConfig{
			Endpoint:            cfg.Endpoint,
			NamespaceId:         cfg.NamespaceId,
			TimeoutMs:           uint64(cfg.TimeoutMs),
			NotLoadCacheAtStart: cfg.NotLoadCacheAtStart,
			LogDir:              cfg.LogDir,
			CacheDir:            cfg.CacheDir,
			LogLevel:            cfg.LogLevel,
			Username:            cfg.Username,
			Password:            cfg.Password,
			BeatInterval:        int64(cfg.BeatIntervalMs),
		},
		ServerConfigs: servers,
	})
	if err != nil {
		return nil, fmt.Errorf("nacos: create naming client: %w", err)
	}
	return client, nil
}

// RegisterNacosInstance 把 API 实例注册为临时节点，
// 心跳断开后由 Nacos 自动摘除，无需显式下线兜底
func RegisterNacosInstance(client naming_client.INamingClient, cfg *config.NacosConfig, ip string, port uint64) error {
	weight := float64(cfg.Weight)
	if weight <= 0 {
		weight = 1
	}

	ok, err := client.RegisterInstance(vo.RegisterInstanceParam{
		Ip:          ip,
		Port:        port,
		ServiceName: cfg.ServiceName,
		GroupName:   cfg.GroupName,
		Weight:      weight,
		Enable:      true,
		Healthy:     true,
		Ephemeral:   true,
	})
	if err != nil {
		return fmt.Errorf("nacos: register %s at %s:%d: %w", cfg.ServiceName, ip, port, err)
	}
	if !ok {
		return fmt.Errorf("nacos: register %s at %s:%d rejected", cfg.ServiceName, ip, port)
	}
	return nil
}

// DeregisterNacosInstance 优雅退出时主动注销，加快实例摘除
func DeregisterNacosInstance(client naming_client.INamingClient, cfg *config.NacosConfig, ip string, port uint64) error {
	ok, err := client.DeregisterInstance(vo.DeregisterInstanceParam{
		Ip:          ip,
		Port:        port,
		ServiceName: cfg.ServiceName,
		GroupName:   cfg.GroupName,
		Ephemeral:   true,
	})
	if err != nil {
		return fmt.Errorf("nacos: deregister %s at %s:%d: %w", cfg.ServiceName, ip, port, err)
	}
	if !ok {
		return fmt.Errorf("nacos: deregister %s at %s:%d rejected", cfg.ServiceName, ip, port)
	}
	return nil
}
