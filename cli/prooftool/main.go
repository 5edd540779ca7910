package main

import (
	"fmt"
	"os"
	"sort"

	"wallet-api-sol/internal/privacy"
)

// 排查工具：解码交易记录里的 proof token，检查字段是否完整
func main() {
	if len(os.Args) != 2 {
		fmt.Printf("用法: %s <proof_token>\n", os.Args[0])
		os.Exit(1)
	}
	token := os.Args[1]

	if token == privacy.FallbackProof {
		fmt.Println("⚠️ 占位值 placeholder-proof，生成时出过错")
		return
	}

	payload, err := privacy.Decode(token)
	if err != nil {
		fmt.Printf("❌ 解码失败: %v\n", err)
		os.Exit(1)
	}

	if privacy.Verify(token) {
		fmt.Println("✅ 格式完整")
	} else {
		fmt.Println("❌ 缺少 amount/timestamp 字段")
	}

	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %s = %v\n", k, payload[k])
	}
}
