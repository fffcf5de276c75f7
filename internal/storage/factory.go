package storage

import (
	"context"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/config"
)

type FactoryResult struct {
	Driver  string
	Backend Backend
	// Close releases driver resources (the DB pool). Never nil.
	Close func() error
}

func Open(ctx context.Context, cfg config.StorageConfig) (FactoryResult, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case "", "local":
		return FactoryResult{Driver: "local", Backend: NewLocal(cfg.LocalDir), Close: noop}, nil

	case "memory":
		return FactoryResult{Driver: "memory", Backend: NewMemory(), Close: noop}, nil

	case "s3":
		if cfg.S3Region == "" || cfg.S3Bucket == "" {
			return FactoryResult{}, fmt.Errorf("S3 config missing: S3_REGION, S3_BUCKET required")
		}
		s, err := NewS3(ctx, S3Config{Region: cfg.S3Region, Bucket: cfg.S3Bucket, Prefix: cfg.S3Prefix})
		if err != nil {
			return FactoryResult{}, err
		}
		return FactoryResult{Driver: "s3", Backend: s, Close: noop}, nil

	case "mysql":
		if cfg.DBDSN == "" {
			return FactoryResult{}, fmt.Errorf("DB_DSN is required for STORAGE_DRIVER=mysql")
		}
		db, err := gorm.Open(mysql.Open(cfg.DBDSN), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
		if err != nil {
			return FactoryResult{}, fmt.Errorf("connect database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return FactoryResult{}, err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			sqlDB.Close()
			return FactoryResult{}, fmt.Errorf("ping database: %w", err)
		}
		return FactoryResult{Driver: "mysql", Backend: NewDB(db), Close: sqlDB.Close}, nil

	default:
		return FactoryResult{}, fmt.Errorf("unknown STORAGE_DRIVER: %s", cfg.Driver)
	}
}
