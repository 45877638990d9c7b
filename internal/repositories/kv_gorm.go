package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alfredoptarigan/cv-leaderboard/internal/models"
)

type gormKVRepository struct {
	db *gorm.DB
}

func NewGormKVRepository(db *gorm.DB) KeyValueRepository {
	return &gormKVRepository{db: db}
}

// Get implements KeyValueRepository.
func (r *gormKVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var entry models.KVEntry
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to get key %q: %w", key, err)
	}

	return entry.Value, nil
}

// Set implements KeyValueRepository.
func (r *gormKVRepository) Set(ctx context.Context, key string, value []byte) error {
	entry := models.KVEntry{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}

	return nil
}

// Clear implements KeyValueRepository.
func (r *gormKVRepository) Clear(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.KVEntry{}).Error; err != nil {
		return fmt.Errorf("failed to clear entries: %w", err)
	}

	return nil
}
