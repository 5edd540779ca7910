// Package privacy 生成交易附带的"隐私证明"占位 token。
//
// 这里没有任何真实的零知识协议：token 只是交易元数据 JSON 的
// base64 编码，可逆、可读，不提供机密性、可靠性或不可关联性。
// 接入真实的 zk-SNARK / confidential transfer 之前，调用方不得
// 依赖它的任何安全属性。
package privacy

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"time"
)

// FallbackProof 生成失败时使用的固定占位值
const FallbackProof = "placeholder-proof"

// proofPayload token 解码后的内容，字段与前端展示约定一致
type proofPayload struct {
	Amount        string `json:"amount"`
	SenderBalance string `json:"senderBalance"`
	Recipient     string `json:"recipient"` // 截断地址
	Sender        string `json:"sender"`    // 截断地址
	Timestamp     int64  `json:"timestamp"` // 毫秒
	Nonce         string `json:"nonce"`
}

// Generate 把交易元数据打包成不透明 token
func Generate(amount, senderBalance float64, recipientKey, senderKey string) (string, error) {
	nonce, err := randomNonce()
	if err != nil {
		return "", err
	}

	payload := proofPayload{
		Amount:        strconv.FormatFloat(amount, 'f', -1, 64),
		SenderBalance: strconv.FormatFloat(senderBalance, 'f', -1, 64),
		Recipient:     truncateKey(recipientKey),
		Sender:        truncateKey(senderKey),
		Timestamp:     time.Now().UnixMilli(),
		Nonce:         nonce,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Verify 只检查 token 可解码且 amount/timestamp 字段存在，
// 是格式校验而非密码学验证
func Verify(token string) bool {
	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return false
	}
	var payload proofPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return false
	}
	return payload.Amount != "" && payload.Timestamp != 0
}

// Decode 解出 token 内容，CLI 检查工具用
func Decode(token string) (map[string]any, error) {
	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Obfuscate 地址掩码展示：保留前 8 后 4 位；金额做 base64。
// 同样只是展示层混淆，不是加密
func Obfuscate(from, to string, amount float64) (obfuscatedFrom, obfuscatedTo, encodedAmount string) {
	obfuscatedFrom = maskAddress(from)
	obfuscatedTo = maskAddress(to)
	encodedAmount = base64.StdEncoding.EncodeToString(
		[]byte(strconv.FormatFloat(amount, 'f', -1, 64)))
	return
}

func maskAddress(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:8] + "..." + addr[len(addr)-4:]
}

func truncateKey(key string) string {
	if len(key) <= 16 {
		return key + "..."
	}
	return key[:16] + "..."
}

func randomNonce() (string, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf[:]), nil
}
