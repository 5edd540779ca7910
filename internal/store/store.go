package store

import (
	"context"
	"errors"
	"fmt"

	"wallet-api-sol/internal/model"

	lru "github.com/hashicorp/golang-lru"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrUserNotFound 查询的公钥没有对应用户
var ErrUserNotFound = errors.New("user not found")

// 近期 upsert 过的用户缓存上限
const seenUserCacheSize = 20000

// Store 持久层网关，用户和交易记录都经过这里读写
type Store struct {
	db        *gorm.DB
	seenUsers *lru.Cache // publicKey → *model.User，跳过重复 upsert
}

func New(db *gorm.DB) *Store {
	cache, err := lru.New(seenUserCacheSize)
	if err != nil {
		panic(err)
	}
	return &Store{db: db, seenUsers: cache}
}

// EnsureUser 按公钥 upsert 用户：不存在则创建，存在则原样返回。
// 近期见过的公钥直接走 LRU，不再访问数据库
func (s *Store) EnsureUser(ctx context.Context, publicKey string) (*model.User, error) {
	if v, ok := s.seenUsers.Get(publicKey); ok {
		return v.(*model.User), nil
	}

	user := &model.User{PublicKey: publicKey}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "public_key"}},
			DoNothing: true,
		}).
		Create(user).Error
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	// 冲突时 DoNothing 不回填 ID，需要再查一次
	if user.ID == 0 {
		if err := s.db.WithContext(ctx).
			Where("public_key = ?", publicKey).
			First(user).Error; err != nil {
			return nil, fmt.Errorf("load user: %w", err)
		}
	}

	s.seenUsers.Add(publicKey, user)
	return user, nil
}

// FindUser 按公钥查询，不存在返回 ErrUserNotFound
func (s *Store) FindUser(ctx context.Context, publicKey string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).
		Where("public_key = ?", publicKey).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}

// CreateTransaction 广播成功后落库，记录创建后不再修改
func (s *Store) CreateTransaction(ctx context.Context, tx *model.Transaction) error {
	if err := s.db.WithContext(ctx).Create(tx).Error; err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// ListTransactions 按公钥分页查询交易，按创建时间倒序。
// 用户不存在返回 ErrUserNotFound
func (s *Store) ListTransactions(ctx context.Context, publicKey string, page, limit int) ([]model.Transaction, int64, error) {
	user, err := s.FindUser(ctx, publicKey)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.db.WithContext(ctx).
		Model(&model.Transaction{}).
		Where("user_id = ?", user.ID).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	txs := make([]model.Transaction, 0, limit)
	err = s.db.WithContext(ctx).
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&txs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	return txs, total, nil
}

// CountUsers 统计用户总数
func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// CountTransactions 统计交易总数
func (s *Store) CountTransactions(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.Transaction{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}
