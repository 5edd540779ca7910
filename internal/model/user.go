package model

import "time"

// User 钱包用户，首次出现时插入，公钥唯一，不做删除
type User struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	PublicKey string    `gorm:"size:44;uniqueIndex" json:"publicKey"` // base58 地址
	CreatedAt time.Time `json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}
