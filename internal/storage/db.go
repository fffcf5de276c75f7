package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SelectionEntry is one key/value row.
type SelectionEntry struct {
	Key       string         `gorm:"column:entry_key;type:varchar(191);primaryKey"`
	Value     datatypes.JSON `gorm:"type:json;not null"`
	UpdatedAt time.Time      `gorm:"type:datetime(3);not null"`
}

func (SelectionEntry) TableName() string { return "selection_entries" }

// DB stores entries in a MySQL table through gorm.
type DB struct {
	db       *gorm.DB
	attempts int
}

func NewDB(db *gorm.DB) *DB {
	return &DB{db: db, attempts: 3}
}

func (d *DB) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	var e SelectionEntry
	err := d.db.WithContext(ctx).Where("entry_key = ?", key).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(e.Value), nil
}

// Put upserts the row, retrying on deadlock and lock wait timeout.
func (d *DB) Put(ctx context.Context, key string, value []byte) error {
	if err := validKey(key); err != nil {
		return err
	}
	e := SelectionEntry{Key: key, Value: datatypes.JSON(value), UpdatedAt: time.Now().UTC()}
	return d.withRetry(ctx, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "entry_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&e).Error
	})
}

func (d *DB) Delete(ctx context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	return d.withRetry(ctx, func(tx *gorm.DB) error {
		return tx.Where("entry_key = ?", key).Delete(&SelectionEntry{}).Error
	})
}

func (d *DB) withRetry(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var lastErr error
	for i := 0; i < d.attempts; i++ {
		err := fn(d.db.WithContext(ctx))
		if err == nil {
			return nil
		}
		lastErr = err
		if isRetryableMySQLError(err) && i < d.attempts-1 {
			time.Sleep(time.Duration(50*(i+1)) * time.Millisecond)
			continue
		}
		return err
	}
	return lastErr
}

func isRetryableMySQLError(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		// 1213: deadlock, 1205: lock wait timeout
		return me.Number == 1213 || me.Number == 1205
	}
	return false
}

func (d *DB) String() string { return fmt.Sprintf("mysql(%s)", SelectionEntry{}.TableName()) }
