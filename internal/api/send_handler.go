package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"wallet-api-sol/internal/cache"
	"wallet-api-sol/internal/chain"
	"wallet-api-sol/internal/model"
	"wallet-api-sol/internal/pkg/logger"
	"wallet-api-sol/internal/privacy"
	"wallet-api-sol/internal/validate"

	"github.com/zeromicro/go-zero/rest/httpx"
)

// maxSendAmount 单笔金额上限（SOL）
const maxSendAmount = 1_000_000

type sendTxReq struct {
	FromPublicKey string  `json:"fromPublicKey"`
	FromSecretKey string  `json:"fromSecretKey"`
	ToPublicKey   string  `json:"toPublicKey"`
	Amount        float64 `json:"amount"`
}

type sendTxResp struct {
	Success     bool               `json:"success"`
	Transaction *model.Transaction `json:"transaction"`
	Signature   string             `json:"signature"`
}

type sendTxWarningResp struct {
	Success   bool   `json:"success"`
	Signature string `json:"signature"`
	Warning   string `json:"warning"`
}

// SendTransaction 转账主流程。广播成功后任何失败都不再使请求整体失败：
// 签名已经上链，调用方必须以返回的 signature 为准
func (h *Handlers) SendTransaction(w http.ResponseWriter, r *http.Request) {
	const (
		ErrCodeBase        = 60100
		ErrCodePanic       = ErrCodeBase + 32
		ErrCodeParse       = ErrCodeBase + 1
		ErrCodeMissing     = ErrCodeBase + 2
		ErrCodeAmount      = ErrCodeBase + 3
		ErrCodeAddress     = ErrCodeBase + 4
		ErrCodeSameAddr    = ErrCodeBase + 5
		ErrCodeUser        = ErrCodeBase + 6
		ErrCodeSecretKey   = ErrCodeBase + 7
		ErrCodeKeyMismatch = ErrCodeBase + 8
		ErrCodeBalance     = ErrCodeBase + 9
		ErrCodeInsufficient = ErrCodeBase + 10
		ErrCodeBroadcast   = ErrCodeBase + 11
	)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Errorf("panic in SendTransaction: %v\n%s", rec, debug.Stack())
			h.writeError(w, &Error{
				Kind:    KindUpstream,
				Code:    ErrCodePanic,
				Status:  http.StatusInternalServerError,
				Message: genericErrMessage,
			})
		}
	}()

	// ---------- 1. 解析 & 校验 ----------
	var req sendTxReq
	if err := httpx.ParseJsonBody(r, &req); err != nil {
		h.writeError(w, validationErr(ErrCodeParse, "Invalid request body"))
		return
	}

	from := validate.Sanitize(req.FromPublicKey)
	to := validate.Sanitize(req.ToPublicKey)

	logger.Infof("transaction request: from=%s..., to=%s..., amount=%v",
		prefix(from, 16), prefix(to, 16), req.Amount)

	if from == "" || to == "" || req.FromSecretKey == "" {
		h.writeError(w, validationErr(ErrCodeMissing, "Missing required fields"))
		return
	}
	if req.Amount <= 0 {
		h.writeError(w, validationErr(ErrCodeAmount, "Amount must be positive"))
		return
	}
	if req.Amount > maxSendAmount {
		h.writeError(w, validationErr(ErrCodeAmount, "Amount exceeds maximum allowed"))
		return
	}
	if !validate.IsValidAddress(from) {
		h.writeError(w, validationErr(ErrCodeAddress, "Invalid sender public key"))
		return
	}
	if !validate.IsValidAddress(to) {
		h.writeError(w, validationErr(ErrCodeAddress, "Invalid recipient public key"))
		return
	}
	if from == to {
		h.writeError(w, domainErr(ErrCodeSameAddr, "Sender and recipient addresses cannot be the same"))
		return
	}

	// ---------- 2. upsert 用户 ----------
	user, err := h.store.EnsureUser(r.Context(), from)
	if err != nil {
		h.writeError(w, upstreamErr(ErrCodeUser, err, "Failed to resolve user"))
		return
	}

	// ---------- 3. 解码并核对私钥 ----------
	signer, err := validate.DecodeSecretKey(req.FromSecretKey)
	if err != nil {
		h.writeError(w, validationErr(ErrCodeSecretKey, "Invalid secret key: %v", err))
		return
	}
	if signer.PublicKey.ToBase58() != from {
		h.writeError(w, domainErr(ErrCodeKeyMismatch, "Secret key does not match public key"))
		return
	}

	// ---------- 4. 余额校验 + 广播（同一发送方串行） ----------
	// 不串行的话，两个并发请求会各自读到同一份过期余额，
	// 双双通过校验后双双广播
	lamports := chain.SolToLamports(req.Amount)
	required := lamports + chain.FeeEstimateLamports

	mu := h.locks.forSender(from)
	mu.Lock()

	balance, err := h.senderBalance(r.Context(), from)
	if err != nil {
		mu.Unlock()
		h.writeError(w, upstreamErr(ErrCodeBalance, err, "Failed to check balance"))
		return
	}
	if balance < required {
		mu.Unlock()
		h.writeError(w, domainErr(ErrCodeInsufficient,
			"Insufficient balance. You have %.4f SOL but need %.4f SOL (including fees)",
			chain.LamportsToSol(balance), chain.LamportsToSol(required)))
		return
	}

	sendCtx, cancelSend := context.WithTimeout(r.Context(), h.cfg.Solana.SendTimeout)
	sig, err := h.chain.SendTransfer(sendCtx, signer, to, lamports)
	cancelSend()
	if err == nil {
		// 广播成功余额即已变化，必须在持锁内失效，
		// 否则下一笔同发送方请求会在确认等待期间读到旧余额
		h.cache.Invalidate(cache.BalanceKey(from))
	}
	mu.Unlock()
	if err != nil {
		broadcastTotal.WithLabelValues("rejected").Inc()
		h.writeError(w, upstreamErr(ErrCodeBroadcast, err, "Failed to send transaction"))
		return
	}
	logger.Infof("transaction sent, signature=%s", sig)

	// ---------- 5. 等待确认（不随请求取消，失败不拦截） ----------
	status := model.TxStatusConfirmed
	confirmCtx, cancelConfirm := context.WithTimeout(
		context.WithoutCancel(r.Context()), h.cfg.Solana.ConfirmTimeout)
	if err := h.chain.WaitForConfirmation(confirmCtx, sig); err != nil {
		if errors.Is(err, chain.ErrTxFailed) {
			logger.Warnf("transaction failed on chain, signature=%s: %v", sig, err)
			status = model.TxStatusFailed
		} else {
			// 签名已广播，记为 pending 由后续对账
			logger.Warnf("transaction sent but confirmation not observed, signature=%s: %v", sig, err)
			status = model.TxStatusPending
		}
	}
	cancelConfirm()
	broadcastTotal.WithLabelValues(status).Inc()

	// ---------- 6. 生成占位 proof ----------
	proof, err := privacy.Generate(req.Amount, 0, to, from)
	if err != nil {
		logger.Warnf("generate proof token failed: %v", err)
		proof = privacy.FallbackProof
	}

	// ---------- 7. 落库 ----------
	txRec := &model.Transaction{
		UserID:      user.ID,
		Type:        model.TxTypeSend,
		Amount:      req.Amount,
		FromAddress: from,
		ToAddress:   to,
		TxHash:      sig,
		Status:      status,
		ZkProof:     proof,
	}
	persistCtx, cancelPersist := context.WithTimeout(
		context.WithoutCancel(r.Context()), 10*time.Second)
	err = h.store.CreateTransaction(persistCtx, txRec)
	cancelPersist()
	if err != nil {
		// 链上已经转出，不能回滚，按成功带警告返回
		logger.Errorf("transaction sent but persist failed, signature=%s: %v", sig, err)
		httpx.OkJson(w, sendTxWarningResp{
			Success:   true,
			Signature: sig,
			Warning:   "Transaction sent but failed to save to database",
		})
		return
	}

	h.publishTxEvent(txRec)

	httpx.OkJson(w, sendTxResp{
		Success:     true,
		Transaction: txRec,
		Signature:   sig,
	})
}

// senderBalance 余额优先走缓存，miss 时查链并回填
func (h *Handlers) senderBalance(ctx context.Context, address string) (uint64, error) {
	if v, ok := h.cache.Get(cache.BalanceKey(address)); ok {
		return v.(uint64), nil
	}

	balCtx, cancel := context.WithTimeout(ctx, h.cfg.Solana.BalanceTimeout)
	defer cancel()
	balance, err := h.chain.Balance(balCtx, address)
	if err != nil {
		return 0, err
	}
	h.cache.Set(cache.BalanceKey(address), balance, h.cfg.Cache.BalanceTTL)
	return balance, nil
}

// publishTxEvent 落库后异步发布交易事件，失败只告警
func (h *Handlers) publishTxEvent(tx *model.Transaction) {
	if h.events == nil {
		return
	}
	payload, err := json.Marshal(tx)
	if err != nil {
		logger.Warnf("marshal tx event failed: %v", err)
		return
	}
	if err := h.events.Publish(tx.FromAddress, payload); err != nil {
		logger.Warnf("publish tx event failed, signature=%s: %v", tx.TxHash, err)
	}
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
