package privacy

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	senderKey    = "DRpbCBMxVnDK7maPM5tGv6MvB3v1sRMC86PZ8okm21hy"
	recipientKey = "7C4jsPZpht42Tw6MjXWF56Q5RQUocjBBmciEjDa8HRtp"
)

func TestGenerateVerifyRoundTrip(t *testing.T) {
	token, err := Generate(1.5, 0, recipientKey, senderKey)
	require.NoError(t, err)
	assert.True(t, Verify(token))

	payload, err := Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "1.5", payload["amount"])
	assert.Equal(t, "0", payload["senderBalance"])
	assert.Equal(t, recipientKey[:16]+"...", payload["recipient"])
	assert.Equal(t, senderKey[:16]+"...", payload["sender"])
	assert.NotEmpty(t, payload["nonce"])
	assert.NotZero(t, payload["timestamp"])
}

func TestGenerateTokensDiffer(t *testing.T) {
	// nonce 随机，同样输入两次生成的 token 不同
	a, err := Generate(2, 0, recipientKey, senderKey)
	require.NoError(t, err)
	b, err := Generate(2, 0, recipientKey, senderKey)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	assert.False(t, Verify("not-base64!!!"))
	assert.False(t, Verify(base64.StdEncoding.EncodeToString([]byte("not json"))))
	// 缺少必填字段
	assert.False(t, Verify(base64.StdEncoding.EncodeToString([]byte(`{"nonce":"x"}`))))
	assert.False(t, Verify(base64.StdEncoding.EncodeToString([]byte(`{"amount":"1"}`))))
}

func TestVerifyAcceptsMinimalFields(t *testing.T) {
	token := base64.StdEncoding.EncodeToString([]byte(`{"amount":"1","timestamp":123}`))
	assert.True(t, Verify(token))
}

func TestObfuscate(t *testing.T) {
	from, to, amount := Obfuscate(senderKey, recipientKey, 0.25)
	assert.Equal(t, senderKey[:8]+"..."+senderKey[len(senderKey)-4:], from)
	assert.Equal(t, recipientKey[:8]+"..."+recipientKey[len(recipientKey)-4:], to)

	decoded, err := base64.StdEncoding.DecodeString(amount)
	require.NoError(t, err)
	assert.Equal(t, "0.25", string(decoded))
}

func TestFallbackProofConstant(t *testing.T) {
	// 落库兜底值不是合法 token，Verify 必须返回 false
	assert.False(t, Verify(FallbackProof))
}
