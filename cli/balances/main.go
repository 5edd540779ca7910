package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"wallet-api-sol/internal/chain"
	"wallet-api-sol/internal/validate"
	"wallet-api-sol/pkg/utils"
)

// 排查工具：批量查一组地址的链上余额
func main() {
	endpoint := flag.String("e", "https://api.mainnet-beta.solana.com", "RPC 节点地址")
	workers := flag.Int("w", 8, "并发数")
	flag.Parse()

	addrs := flag.Args()
	if len(addrs) == 0 {
		fmt.Printf("用法: %s [-e rpc_endpoint] [-w 并发数] <address> [address...]\n", os.Args[0])
		os.Exit(1)
	}
	for _, addr := range addrs {
		if !validate.IsValidAddress(addr) {
			fmt.Printf("❌ 非法地址: %s\n", addr)
			os.Exit(1)
		}
	}

	c := chain.New(*endpoint)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	type result struct {
		lamports uint64
		err      error
	}
	results := utils.ParallelMap(addrs, *workers, func(addr string) result {
		lamports, err := c.Balance(ctx, addr)
		return result{lamports: lamports, err: err}
	})

	for i, r := range results {
		if r.err != nil {
			fmt.Printf("❌ %s: %v\n", addrs[i], r.err)
			continue
		}
		fmt.Printf("✅ %s: %.9f SOL (%d lamports)\n", addrs[i], chain.LamportsToSol(r.lamports), r.lamports)
	}
}
