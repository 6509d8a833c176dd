package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/artiestudio/artie/internal/scene"
)

// record is one persisted scene. CreatedAt is duplicated out of the payload
// so load order doesn't require parsing JSON first.
type record struct {
	ID        string `gorm:"primaryKey"`
	Namespace string `gorm:"index"`
	CreatedAt time.Time
	Payload   datatypes.JSON
}

func (record) TableName() string { return "scenes" }

// SQLiteStore persists history in a local SQLite database.
type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLite opens (creating if needed) the history database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open history db %s: %w", path, err)
	}
	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("migrate history db: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// LoadAll returns every scene under the namespace in creation order.
// Rows whose payload no longer parses are skipped with a warning rather than
// poisoning the whole history.
func (s *SQLiteStore) LoadAll(ctx context.Context) ([]scene.Scene, error) {
	var rows []record
	err := s.db.WithContext(ctx).
		Where("namespace = ?", Namespace).
		Order("created_at asc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	scenes := make([]scene.Scene, 0, len(rows))
	for _, row := range rows {
		var sc scene.Scene
		if err := json.Unmarshal(row.Payload, &sc); err != nil {
			log.Warn().Err(err).Str("scene", row.ID).Msg("Skipping unreadable history row")
			continue
		}
		scenes = append(scenes, sc)
	}
	return scenes, nil
}

// SaveAll replaces the namespace's rows with the given collection in one
// transaction, so a crash can never leave behind a half-written history.
func (s *SQLiteStore) SaveAll(ctx context.Context, scenes []scene.Scene) error {
	rows := make([]record, 0, len(scenes))
	for i := range scenes {
		payload, err := json.Marshal(&scenes[i])
		if err != nil {
			return fmt.Errorf("encode scene %s: %w", scenes[i].ID, err)
		}
		rows = append(rows, record{
			ID:        scenes[i].ID,
			Namespace: Namespace,
			CreatedAt: scenes[i].CreatedAt,
			Payload:   payload,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("namespace = ?", Namespace).Delete(&record{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
