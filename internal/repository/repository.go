package repository

import "chatbot_rag/internal/storage"

type Repositories struct {
	History HistoryRepository
}

func NewRepositories(db *storage.DB) *Repositories {
	return &Repositories{
		History: NewHistoryRepository(db),
	}
}
