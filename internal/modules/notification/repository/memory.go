package repository

import (
	"sync"

	"github.com/google/uuid"
	"github.com/mirasbazaar/economy/internal/entity"
)

type memoryNotificationRepository struct {
	mu            sync.Mutex
	notifications []entity.Notification
}

func NewMemoryNotificationRepository() NotificationRepository {
	return &memoryNotificationRepository{}
}

func (r *memoryNotificationRepository) Create(notification *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	r.notifications = append(r.notifications, *notification)
	return nil
}

func (r *memoryNotificationRepository) GetByUserID(userID uuid.UUID, limit, offset int) ([]entity.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []entity.Notification
	// Newest first
	for i := len(r.notifications) - 1; i >= 0; i-- {
		if r.notifications[i].UserID == userID {
			result = append(result, r.notifications[i])
		}
	}
	if offset < len(result) {
		result = result[offset:]
	} else {
		result = nil
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *memoryNotificationRepository) MarkAsRead(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.notifications {
		if r.notifications[i].ID == id {
			r.notifications[i].IsRead = true
		}
	}
	return nil
}

func (r *memoryNotificationRepository) MarkAllAsRead(userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.notifications {
		if r.notifications[i].UserID == userID {
			r.notifications[i].IsRead = true
		}
	}
	return nil
}

func (r *memoryNotificationRepository) CountUnread(userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}
