package database

import (
	"context"
	"strings"
	"time"

	"glowup-backend/models"
	"glowup-backend/store"

	"github.com/juju/loggo"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var logger = loggo.GetLogger("glowup.database")

const sqlitePrefix = "sqlite://"

// Connect opens the snapshot database. A DSN of the form sqlite://<path>
// selects an embedded SQLite file; anything else is handed to PostgreSQL.
func Connect(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=glowup port=5432 sslmode=disable"
	}

	var dialector gorm.Dialector
	if path, ok := strings.CutPrefix(dsn, sqlitePrefix); ok {
		dialector = sqlite.Open(path)
	} else {
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Snapshot{}); err != nil {
		return errors.Wrap(err, "migrate snapshots")
	}
	return nil
}

// SnapshotStorage keeps the slices of one device namespace as rows of the
// snapshots table.
type SnapshotStorage struct {
	db        *gorm.DB
	namespace string
}

func NewSnapshotStorage(db *gorm.DB, namespace string) *SnapshotStorage {
	return &SnapshotStorage{db: db, namespace: namespace}
}

// StorageFactory returns a factory suitable for store.NewRegistry.
func StorageFactory(db *gorm.DB) store.StorageFactory {
	return func(namespace string) store.Storage {
		return NewSnapshotStorage(db, namespace)
	}
}

func (s *SnapshotStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var row models.Snapshot
	err := s.db.WithContext(ctx).
		Where(&models.Snapshot{Namespace: s.namespace, Key: key}).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "load %s/%s", s.namespace, key)
	}
	return row.Value, true, nil
}

// Apply writes every op in one transaction. A failing op rolls back the
// whole batch.
func (s *SnapshotStorage) Apply(ctx context.Context, ops []store.Op) error {
	now := time.Now().UTC()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, op := range ops {
			if op.Delete {
				if err := tx.Where(&models.Snapshot{Namespace: s.namespace, Key: op.Key}).
					Delete(&models.Snapshot{}).Error; err != nil {
					return errors.Wrapf(err, "delete %s", op.Key)
				}
				continue
			}

			row := models.Snapshot{
				Namespace: s.namespace,
				Key:       op.Key,
				Value:     op.Value,
				UpdatedAt: now,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "namespace"}, {Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&row).Error; err != nil {
				return errors.Wrapf(err, "save %s", op.Key)
			}
		}
		return nil
	})
	if err != nil {
		logger.Errorf("snapshot batch for %s rolled back: %v", s.namespace, err)
		return err
	}
	return nil
}

// Namespaces lists the device namespaces that hold any state.
func Namespaces(ctx context.Context, db *gorm.DB) ([]string, error) {
	var out []string
	err := db.WithContext(ctx).Model(&models.Snapshot{}).
		Distinct("namespace").
		Order("namespace").
		Pluck("namespace", &out).Error
	if err != nil {
		return nil, errors.Wrap(err, "list namespaces")
	}
	return out, nil
}
