package logger

import (
	"fmt"

	"github.com/zeromicro/go-zero/core/logx"
)

// ZapWriter 把 go-zero 框架日志桥接到 zap，
// 通过 logx.SetWriter(logger.ZapWriter{}) 启用
type ZapWriter struct{}

var _ logx.Writer = ZapWriter{}

func (ZapWriter) Alert(v any) {
	Errorf("%s", format(v))
}

func (ZapWriter) Close() error {
	return sugar.Sync()
}

func (ZapWriter) Debug(v any, fields ...logx.LogField) {
	Debugf("%s%s", format(v), formatFields(fields))
}

func (ZapWriter) Error(v any, fields ...logx.LogField) {
	Errorf("%s%s", format(v), formatFields(fields))
}

func (ZapWriter) Info(v any, fields ...logx.LogField) {
	Infof("%s%s", format(v), formatFields(fields))
}

func (ZapWriter) Severe(v any) {
	Errorf("%s", format(v))
}

func (ZapWriter) Slow(v any, fields ...logx.LogField) {
	Warnf("%s%s", format(v), formatFields(fields))
}

func (ZapWriter) Stack(v any) {
	Errorf("%s", format(v))
}

func (ZapWriter) Stat(v any, fields ...logx.LogField) {
	Infof("%s%s", format(v), formatFields(fields))
}

func format(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func formatFields(fields []logx.LogField) string {
	if len(fields) == 0 {
		return ""
	}
	out := ""
	for _, f := range fields {
		out += fmt.Sprintf(" %s=%v", f.Key, f.Value)
	}
	return out
}
