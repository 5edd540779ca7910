package mq

import (
	"fmt"
	"os"
	"strings"

	"wallet-api-sol/internal/pkg/logger"
	"wallet-api-sol/internal/pkg/utils"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// KafkaProducerConf 定义交易事件发布者配置（单 topic 场景）
// 所有时间相关参数单位均为毫秒
type KafkaProducerConf struct {
	Name               string   `json:"name" yaml:"name"`                                 // 用于标识用途，如 tx-events
	Brokers            []string `json:"brokers" yaml:"brokers"`                           // Kafka 集群 broker 地址列表，为空表示不启用
	Topic              string   `json:"topic" yaml:"topic"`                               // 发布的 topic 名称
	Acks               string   `json:"acks" yaml:"acks"`                                 // 确认级别，默认 "all"
	LingerMs           int      `json:"linger_ms" yaml:"linger_ms"`                       // 批量发送等待时间
	MessageTimeoutMs   int      `json:"message_timeout_ms" yaml:"message_timeout_ms"`     // 单条消息投递超时
	ReconnectBackoffMs int      `json:"reconnect_backoff_ms" yaml:"reconnect_backoff_ms"` // 重连延迟
	RetryBackoffMs     int      `json:"retry_backoff_ms" yaml:"retry_backoff_ms"`         // 投递失败重试间隔
}

// Enabled brokers 非空才启用发布
func (c *KafkaProducerConf) Enabled() bool {
	return len(c.Brokers) > 0 && c.Topic != ""
}

// KafkaProducer 封装交易事件的异步发布逻辑，
// 投递失败只记日志，不影响请求主链路
type KafkaProducer struct {
	Producer *kafka.Producer
	Conf     *KafkaProducerConf
	Done     chan struct{}
}

func buildClientID(service string) string {
	hostname, _ := os.Hostname()
	ip, _ := utils.GetLocalIP()
	return fmt.Sprintf("%s-%s-%s", service, hostname, ip)
}

// NewKafkaProducer 创建并初始化发布者实例
func NewKafkaProducer(conf *KafkaProducerConf) (*KafkaProducer, error) {
	if conf.Acks == "" {
		conf.Acks = "all"
	}
	if conf.MessageTimeoutMs == 0 {
		conf.MessageTimeoutMs = 10000
	}

	clientId := buildClientID(conf.Name)
	kconf := &kafka.ConfigMap{
		"bootstrap.servers":  strings.Join(conf.Brokers, ","),
		"acks":               conf.Acks,
		"linger.ms":          conf.LingerMs,
		"message.timeout.ms": conf.MessageTimeoutMs,
		"client.id":          clientId,

		// 连接 & 重试相关
		"reconnect.backoff.ms": conf.ReconnectBackoffMs,
		"retry.backoff.ms":     conf.RetryBackoffMs,
	}
	p, err := kafka.NewProducer(kconf)
	if err != nil {
		logger.Errorf("kafka producer create error: %v", err)
		return nil, err
	}
	logger.Infof("kafka producer created, brokers=%v, topic=%s", conf.Brokers, conf.Topic)

	kp := &KafkaProducer{
		Producer: p,
		Conf:     conf,
		Done:     make(chan struct{}),
	}
	go kp.drainEvents()
	return kp, nil
}

// drainEvents 消费投递回执，失败只告警
func (kp *KafkaProducer) drainEvents() {
	for {
		select {
		case <-kp.Done:
			return
		case ev, ok := <-kp.Producer.Events():
			if !ok {
				return
			}
			if m, ok := ev.(*kafka.Message); ok && m.TopicPartition.Error != nil {
				logger.Warnf("kafka delivery failed, topic=%s, key=%s: %v",
					*m.TopicPartition.Topic, string(m.Key), m.TopicPartition.Error)
			}
		}
	}
}

// Publish 异步发布一条消息，key 用于分区路由
func (kp *KafkaProducer) Publish(key string, payload []byte) error {
	return kp.Producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &kp.Conf.Topic,
			Partition: kafka.PartitionAny,
		},
		Key:   []byte(key),
		Value: payload,
	}, nil)
}

// Close 优雅关闭发布者，等待未投递消息刷出
func (kp *KafkaProducer) Close() {
	kp.Producer.Flush(kp.Conf.MessageTimeoutMs)
	close(kp.Done)
	kp.Producer.Close()
	logger.Infof("kafka producer closed")
}
