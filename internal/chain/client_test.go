package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLamportsToSol(t *testing.T) {
	assert.Equal(t, 1.0, LamportsToSol(LamportsPerSol))
	assert.Equal(t, 0.5, LamportsToSol(LamportsPerSol/2))
	assert.Equal(t, 0.0, LamportsToSol(0))
}

func TestSolToLamports(t *testing.T) {
	assert.Equal(t, uint64(LamportsPerSol), SolToLamports(1))
	assert.Equal(t, uint64(500_000_000), SolToLamports(0.5))
	// 低于 1 lamport 的部分向下取整
	assert.Equal(t, uint64(1), SolToLamports(1.9e-9))
}
