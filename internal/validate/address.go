package validate

import (
	"fmt"
	"strings"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"
)

const (
	minAddressLen = 32
	maxAddressLen = 44

	maxInputLen = 1000

	secretKeyLen = 64 // ed25519 私钥 + 公钥
)

// IsValidAddress 校验 base58 地址格式：长度 32~44，
// 字符集为 base58（不含 0、O、I、l）。
// 只做格式校验，不校验是否为合法曲线点
func IsValidAddress(s string) bool {
	if len(s) < minAddressLen || len(s) > maxAddressLen {
		return false
	}
	_, err := base58.Decode(s)
	return err == nil
}

// Sanitize 清理自由文本输入：去首尾空白、去掉 <>、截断到 1000 字符
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "<", "")
	s = strings.ReplaceAll(s, ">", "")
	if len(s) > maxInputLen {
		s = s[:maxInputLen]
	}
	return s
}

// DecodeSecretKey 解码 base58 私钥并构造签名账户，
// 期望解码后固定 64 字节
func DecodeSecretKey(s string) (types.Account, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return types.Account{}, fmt.Errorf("invalid base58 encoding: %w", err)
	}
	if len(raw) != secretKeyLen {
		return types.Account{}, fmt.Errorf("invalid secret key length: %d", len(raw))
	}
	return types.AccountFromBytes(raw)
}
