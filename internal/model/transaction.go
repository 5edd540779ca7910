package model

import "time"

const (
	TxTypeSend = "send"

	// 广播成功后的三种终态：
	// pending   已广播但未观察到确认
	// confirmed 链上已确认
	// failed    链上执行失败
	TxStatusPending   = "pending"
	TxStatusConfirmed = "confirmed"
	TxStatusFailed    = "failed"
)

// Transaction 广播成功后落库的交易记录，创建后不再修改
type Transaction struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint64    `gorm:"index" json:"userId"`
	Type        string    `gorm:"size:16" json:"type"`
	Amount      float64   `json:"amount"` // 单位 SOL
	FromAddress string    `gorm:"size:44;index" json:"fromAddress"`
	ToAddress   string    `gorm:"size:44" json:"toAddress"`
	TxHash      string    `gorm:"size:88" json:"txHash"` // 链上签名
	Status      string    `gorm:"size:16" json:"status"`
	ZkProof     string    `gorm:"type:text" json:"zkProof"` // 占位 token，无任何密码学保证
	CreatedAt   time.Time `json:"createdAt"`
}

func (Transaction) TableName() string {
	return "transactions"
}
