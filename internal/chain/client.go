package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wallet-api-sol/internal/pkg/logger"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/blocto/solana-go-sdk/types"
)

const (
	LamportsPerSol = 1_000_000_000

	// FeeEstimateLamports 单笔转账手续费的粗略估计，
	// 余额校验时计入，避免广播后因手续费不足被拒
	FeeEstimateLamports = 5000

	// 广播重试由 RPC 节点执行
	broadcastMaxRetries = 3

	confirmPollInterval = 2 * time.Second
)

// LamportsToSol 换算成 SOL，仅用于展示和报错文案
func LamportsToSol(lamports uint64) float64 {
	return float64(lamports) / LamportsPerSol
}

// SolToLamports 金额向下取整到 lamport
func SolToLamports(amount float64) uint64 {
	return uint64(amount * LamportsPerSol)
}

// ErrTxFailed 签名已上链但执行失败，区别于确认超时
var ErrTxFailed = errors.New("transaction failed on chain")

// Client 链上网关，封装 RPC 节点的余额查询、转账广播和确认等待
type Client struct {
	rpc *client.Client
}

func New(endpoint string) *Client {
	return &Client{rpc: client.NewClient(endpoint)}
}

// Balance 查询地址余额（lamports）
func (c *Client) Balance(ctx context.Context, address string) (uint64, error) {
	balance, err := c.rpc.GetBalance(ctx, address)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return balance, nil
}

// SendTransfer 构造单条系统转账指令，取最新 blockhash、
// 以发送方为手续费支付者签名后广播。开启 preflight 检查，
// 节点侧最多重试 3 次。返回链上签名
func (c *Client) SendTransfer(ctx context.Context, from types.Account, to string, lamports uint64) (string, error) {
	latest, err := c.rpc.GetLatestBlockhash(ctx)
	if err != nil {
		return "", fmt.Errorf("get latest blockhash: %w", err)
	}

	tx, err := types.NewTransaction(types.NewTransactionParam{
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        from.PublicKey,
			RecentBlockhash: latest.Blockhash,
			Instructions: []types.Instruction{
				system.Transfer(system.TransferParam{
					From:   from.PublicKey,
					To:     common.PublicKeyFromString(to),
					Amount: lamports,
				}),
			},
		}),
		Signers: []types.Account{from},
	})
	if err != nil {
		return "", fmt.Errorf("build transaction: %w", err)
	}

	sig, err := c.rpc.SendTransactionWithConfig(ctx, tx, client.SendTransactionConfig{
		SkipPreflight: false,
		MaxRetries:    broadcastMaxRetries,
	})
	if err != nil {
		return "", fmt.Errorf("send transaction: %w", err)
	}
	return sig, nil
}

// WaitForConfirmation 轮询签名状态直到 confirmed/finalized，
// ctx 到期返回超时错误。链上执行失败返回错误但签名仍然有效
func (c *Client) WaitForConfirmation(ctx context.Context, signature string) error {
	ticker := time.NewTicker(confirmPollInterval)
	defer ticker.Stop()

	for {
		status, err := c.rpc.GetSignatureStatus(ctx, signature)
		if err != nil {
			logger.Warnf("get signature status failed, sig=%s: %v", signature, err)
		} else if status != nil {
			if status.Err != nil {
				return fmt.Errorf("%w: %v", ErrTxFailed, status.Err)
			}
			if status.ConfirmationStatus != nil {
				s := *status.ConfirmationStatus
				if s == rpc.CommitmentConfirmed || s == rpc.CommitmentFinalized {
					return nil
				}
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("confirmation wait: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}
