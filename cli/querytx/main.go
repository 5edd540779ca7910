package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"wallet-api-sol/internal/config"
	"wallet-api-sol/internal/model"
	"wallet-api-sol/internal/pkg/configloader"
	"wallet-api-sol/internal/pkg/db"
	"wallet-api-sol/internal/privacy"
	"wallet-api-sol/internal/store"
)

// 排查工具：按公钥查某用户的交易记录，地址掩码展示
func main() {
	configFile := flag.String("f", "etc/wallet-api.yaml", "the config file")
	page := flag.Int("page", 1, "页码")
	limit := flag.Int("limit", 20, "每页条数")
	raw := flag.Bool("raw", false, "显示完整地址，不做掩码")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Printf("用法: %s [-f 配置文件] [-page N] [-limit N] [-raw] <public_key>\n", os.Args[0])
		os.Exit(1)
	}
	publicKey := flag.Arg(0)

	var c config.ApiConfig
	if err := configloader.LoadConfig(*configFile, &c); err != nil {
		fmt.Printf("❌ 配置加载失败: %v\n", err)
		os.Exit(1)
	}

	client, err := db.NewDBClient(c.Database.DSN(), db.DBType(c.Database.Dialect), db.PoolOption{})
	if err != nil {
		fmt.Printf("❌ 数据库连接失败: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	st := store.New(client.DB)
	txs, total, err := st.ListTransactions(ctx, publicKey, *page, *limit)
	if err != nil {
		fmt.Printf("❌ 查询失败: %v\n", err)
		os.Exit(1)
	}
	if len(txs) == 0 {
		fmt.Println("❌ 未查询到任何记录")
		return
	}

	fmt.Printf("✅ 共 %d 条记录，第 %d 页:\n", total, *page)
	for _, tx := range txs {
		printTx(&tx, *raw)
	}
}

func printTx(tx *model.Transaction, raw bool) {
	from, to := tx.FromAddress, tx.ToAddress
	if !raw {
		from, to, _ = privacy.Obfuscate(from, to, tx.Amount)
	}
	fmt.Println("-----")
	fmt.Printf("  id      = %d\n", tx.ID)
	fmt.Printf("  status  = %s\n", tx.Status)
	fmt.Printf("  amount  = %v SOL\n", tx.Amount)
	fmt.Printf("  from    = %s\n", from)
	fmt.Printf("  to      = %s\n", to)
	fmt.Printf("  txHash  = %s\n", tx.TxHash)
	fmt.Printf("  created = %s\n", tx.CreatedAt.Format(time.RFC3339))
}
