package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"wallet-api-sol/internal/cache"
	"wallet-api-sol/internal/chain"
	"wallet-api-sol/internal/model"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSig = "5VERYLongBase58SignatureForTests1111111111111111111111111111111111111111111111111111111"

func jsonReq(method, target string, payload any) *http.Request {
	raw, _ := json.Marshal(payload)
	r := httptest.NewRequest(method, target, bytes.NewReader(raw))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// 构造一对真实的测试密钥
func testKeypair(t *testing.T) (publicKey, secretKey string) {
	t.Helper()
	acc := types.NewAccount()
	return acc.PublicKey.ToBase58(), base58.Encode(acc.PrivateKey)
}

func sendReq(from, secret, to string, amount float64) *http.Request {
	return jsonReq(http.MethodPost, "/api/transactions/send", map[string]any{
		"fromPublicKey": from,
		"fromSecretKey": secret,
		"toPublicKey":   to,
		"amount":        amount,
	})
}

func TestSendTransaction_Success(t *testing.T) {
	from, secret := testKeypair(t)
	to, _ := testKeypair(t)
	ch := &fakeChain{balance: 2 * chain.LamportsPerSol, sig: testSig}
	st := &fakeStore{}
	h := newTestHandlers(ch, st, &fakePrice{})

	rec := httptest.NewRecorder()
	h.SendTransaction(rec, sendReq(from, secret, to, 0.5))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, testSig, body["signature"])

	tx := body["transaction"].(map[string]any)
	assert.Equal(t, model.TxStatusConfirmed, tx["status"])
	assert.Equal(t, 0.5, tx["amount"])
	assert.Equal(t, from, tx["fromAddress"])
	assert.Equal(t, to, tx["toAddress"])
	assert.NotEmpty(t, tx["zkProof"])

	require.Len(t, st.created, 1)
	assert.Equal(t, testSig, st.created[0].TxHash)
}

func TestSendTransaction_SameAddress(t *testing.T) {
	from, secret := testKeypair(t)
	ch := &fakeChain{balance: 2 * chain.LamportsPerSol, sig: testSig}
	h := newTestHandlers(ch, &fakeStore{}, &fakePrice{})

	rec := httptest.NewRecorder()
	h.SendTransaction(rec, sendReq(from, secret, from, 0.5))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Sender and recipient addresses cannot be the same", body["error"])
	assert.Equal(t, int32(0), atomic.LoadInt32(&ch.sendCalls))
}

func TestSendTransaction_InvalidRecipient(t *testing.T) {
	from, secret := testKeypair(t)
	h := newTestHandlers(&fakeChain{}, &fakeStore{}, &fakePrice{})

	rec := httptest.NewRecorder()
	h.SendTransaction(rec, sendReq(from, secret, "not-an-address", 0.5))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Invalid recipient public key", body["error"])
}

func TestSendTransaction_NonPositiveAmount(t *testing.T) {
	from, secret := testKeypair(t)
	to, _ := testKeypair(t)
	h := newTestHandlers(&fakeChain{}, &fakeStore{}, &fakePrice{})

	for _, amount := range []float64{0, -1} {
		rec := httptest.NewRecorder()
		h.SendTransaction(rec, sendReq(from, secret, to, amount))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Amount must be positive", body["error"])
	}
}

func TestSendTransaction_MissingFields(t *testing.T) {
	from, _ := testKeypair(t)
	to, _ := testKeypair(t)
	h := newTestHandlers(&fakeChain{}, &fakeStore{}, &fakePrice{})

	rec := httptest.NewRecorder()
	h.SendTransaction(rec, sendReq(from, "", to, 0.5))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Missing required fields", body["error"])
}

func TestSendTransaction_SecretKeyMismatch(t *testing.T) {
	from, _ := testKeypair(t)
	_, otherSecret := testKeypair(t)
	to, _ := testKeypair(t)
	ch := &fakeChain{balance: 2 * chain.LamportsPerSol}
	h := newTestHandlers(ch, &fakeStore{}, &fakePrice{})

	rec := httptest.NewRecorder()
	h.SendTransaction(rec, sendReq(from, otherSecret, to, 0.5))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Secret key does not match public key", body["error"])
	assert.Equal(t, int32(0), atomic.LoadInt32(&ch.sendCalls))
}

func TestSendTransaction_MalformedSecretKey(t *testing.T) {
	from, _ := testKeypair(t)
	to, _ := testKeypair(t)
	h := newTestHandlers(&fakeChain{}, &fakeStore{}, &fakePrice{})

	rec := httptest.NewRecorder()
	h.SendTransaction(rec, sendReq(from, "abc123", to, 0.5))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["error"], "Invalid secret key")
}

func TestSendTransaction_InsufficientBalance(t *testing.T) {
	from, secret := testKeypair(t)
	to, _ := testKeypair(t)
	// 余额 0.1 SOL，转 0.5 SOL 不够
	ch := &fakeChain{balance: chain.LamportsPerSol / 10, sig: testSig}
	h := newTestHandlers(ch, &fakeStore{}, &fakePrice{})

	rec := httptest.NewRecorder()
	h.SendTransaction(rec, sendReq(from, secret, to, 0.5))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t,
		"Insufficient balance. You have 0.1000 SOL but need 0.5000 SOL (including fees)",
		body["error"])
	// 余额不足时绝不能广播
	assert.Equal(t, int32(0), atomic.LoadInt32(&ch.sendCalls))
}

func TestSendTransaction_FeeIncludedInRequired(t *testing.T) {
	from, secret := testKeypair(t)
	to, _ := testKeypair(t)
	// 余额正好等于转账额，但不够手续费
	ch := &fakeChain{balance: chain.SolToLamports(0.5), sig: testSig}
	h := newTestHandlers(ch, &fakeStore{}, &fakePrice{})

	rec := httptest.NewRecorder()
	h.SendTransaction(rec, sendReq(from, secret, to, 0.5))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, int32(0), atomic.LoadInt32(&ch.sendCalls))
}

func TestSendTransaction_BroadcastFailure(t *testing.T) {
	from, secret := testKeypair(t)
	to, _ := testKeypair(t)
	ch := &fakeChain{balance: 2 * chain.LamportsPerSol, sendErr: errors.New("blockhash expired")}
	st := &fakeStore{}
	h := newTestHandlers(ch, st, &fakePrice{})

	rec := httptest.NewRecorder()
	h.SendTransaction(rec, sendReq(from, secret, to, 0.5))
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Empty(t, st.created)
}

func TestSendTransaction_ConfirmFailureStaysPending(t *testing.T) {
	from, secret := testKeypair(t)
	to, _ := testKeypair(t)
	ch := &fakeChain{
		balance:    2 * chain.LamportsPerSol,
		sig:        testSig,
		confirmErr: errors.New("confirmation timeout"),
	}
	st := &fakeStore{}
	h := newTestHandlers(ch, st, &fakePrice{})

	rec := httptest.NewRecorder()
	h.SendTransaction(rec, sendReq(from, secret, to, 0.5))
	// 广播成功，确认失败不算失败
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	tx := body["transaction"].(map[string]any)
	assert.Equal(t, model.TxStatusPending, tx["status"])

	require.Len(t, st.created, 1)
	assert.Equal(t, model.TxStatusPending, st.created[0].Status)
}

func TestSendTransaction_OnChainFailureRecordedAsFailed(t *testing.T) {
	from, secret := testKeypair(t)
	to, _ := testKeypair(t)
	ch := &fakeChain{
		balance:    2 * chain.LamportsPerSol,
		sig:        testSig,
		confirmErr: fmt.Errorf("%w: InstructionError", chain.ErrTxFailed),
	}
	st := &fakeStore{}
	h := newTestHandlers(ch, st, &fakePrice{})

	rec := httptest.NewRecorder()
	h.SendTransaction(rec, sendReq(from, secret, to, 0.5))
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, st.created, 1)
	assert.Equal(t, model.TxStatusFailed, st.created[0].Status)
}

func TestSendTransaction_PersistFailureReturnsWarning(t *testing.T) {
	from, secret := testKeypair(t)
	to, _ := testKeypair(t)
	ch := &fakeChain{balance: 2 * chain.LamportsPerSol, sig: testSig}
	st := &fakeStore{createErr: errors.New("db gone")}
	h := newTestHandlers(ch, st, &fakePrice{})

	rec := httptest.NewRecorder()
	h.SendTransaction(rec, sendReq(from, secret, to, 0.5))
	// 链上已转出，落库失败仍按成功返回
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, testSig, body["signature"])
	assert.Equal(t, "Transaction sent but failed to save to database", body["warning"])
}

// gatedChain 广播后立即扣减链上余额，确认等待阻塞到 confirmGate 关闭，
// 用于构造"第一笔还在等确认时第二笔进来"的并发场景
type gatedChain struct {
	mu          sync.Mutex
	balance     uint64
	sendCalls   int32
	broadcasted chan struct{}
	confirmGate chan struct{}
}

func (g *gatedChain) Balance(ctx context.Context, address string) (uint64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.balance, nil
}

func (g *gatedChain) SendTransfer(ctx context.Context, from types.Account, to string, lamports uint64) (string, error) {
	g.mu.Lock()
	g.balance -= lamports + chain.FeeEstimateLamports
	g.mu.Unlock()
	if atomic.AddInt32(&g.sendCalls, 1) == 1 {
		close(g.broadcasted)
	}
	return testSig, nil
}

func (g *gatedChain) WaitForConfirmation(ctx context.Context, signature string) error {
	<-g.confirmGate
	return nil
}

func TestSendTransaction_ConcurrentSameSenderSerialized(t *testing.T) {
	from, secret := testKeypair(t)
	to, _ := testKeypair(t)
	ch := &gatedChain{
		balance:     2 * chain.LamportsPerSol,
		broadcasted: make(chan struct{}),
		confirmGate: make(chan struct{}),
	}
	st := &fakeStore{}
	h := newTestHandlers(ch, st, &fakePrice{})

	// 第一笔 1.5 SOL：广播成功后阻塞在确认等待
	firstDone := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		rec := httptest.NewRecorder()
		h.SendTransaction(rec, sendReq(from, secret, to, 1.5))
		firstDone <- rec
	}()
	<-ch.broadcasted

	// 第二笔同发送方并发进来：余额缓存已在持锁内失效，
	// 重新查链读到扣减后的余额，必须在余额校验处被拒
	rec := httptest.NewRecorder()
	h.SendTransaction(rec, sendReq(from, secret, to, 1.5))
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Contains(t, body["error"], "Insufficient balance")
	// 全程只允许一次广播
	assert.Equal(t, int32(1), atomic.LoadInt32(&ch.sendCalls))

	close(ch.confirmGate)
	first := <-firstDone
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
}

func TestSendTransaction_UsesCachedBalance(t *testing.T) {
	from, secret := testKeypair(t)
	to, _ := testKeypair(t)
	ch := &fakeChain{balance: 2 * chain.LamportsPerSol, sig: testSig}
	h := newTestHandlers(ch, &fakeStore{}, &fakePrice{})

	// 预热缓存后发送不再查链
	h.cache.Set(cache.BalanceKey(from), uint64(2*chain.LamportsPerSol), 10*time.Second)

	rec := httptest.NewRecorder()
	h.SendTransaction(rec, sendReq(from, secret, to, 0.5))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int32(0), atomic.LoadInt32(&ch.balanceCalls))

	// 发送成功后余额缓存被失效
	_, ok := h.cache.Get(cache.BalanceKey(from))
	assert.False(t, ok)
}
