package repository

import (
	"context"

	"chatbot_rag/internal/models"
	"chatbot_rag/internal/storage"
)

type HistoryRepository interface {
	Create(ctx context.Context, messages ...*models.HistoryMessage) error
	FindRecent(ctx context.Context, limit int) ([]models.HistoryMessage, error)
	FindAll(ctx context.Context) ([]models.HistoryMessage, error)
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type historyRepository struct {
	db *storage.DB
}

func NewHistoryRepository(db *storage.DB) HistoryRepository {
	return &historyRepository{db: db}
}

// Create 在同一個交易中依序寫入訊息
func (r *historyRepository) Create(ctx context.Context, messages ...*models.HistoryMessage) error {
	if len(messages) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(messages).Error
}

// FindRecent 回傳最新的 limit 則訊息，依時間由舊到新排列
func (r *historyRepository) FindRecent(ctx context.Context, limit int) ([]models.HistoryMessage, error) {
	messages := []models.HistoryMessage{}
	if limit <= 0 {
		return messages, nil
	}

	err := r.db.WithContext(ctx).Order("seq desc").Limit(limit).Find(&messages).Error
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *historyRepository) FindAll(ctx context.Context) ([]models.HistoryMessage, error) {
	messages := []models.HistoryMessage{}
	err := r.db.WithContext(ctx).Order("seq asc").Find(&messages).Error
	return messages, err
}

// DeleteAll 清空對話歷史並回傳刪除的筆數
func (r *historyRepository) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.HistoryMessage{})
	return result.RowsAffected, result.Error
}

func (r *historyRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.HistoryMessage{}).Count(&count).Error
	return count, err
}
