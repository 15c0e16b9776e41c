package portfolio

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/projectchronos/chronos/internal/models"
)

// entityRow is the SQLite representation of a CorporateEntity. The slug
// primary key keeps look-ups deterministic and makes the upsert naturally
// last-write-wins.
type entityRow struct {
	Slug         string    `gorm:"primaryKey"`
	Name         string    `gorm:"not null"`
	Jurisdiction string    `gorm:"size:8"`
	Formed       time.Time ``
	Status       string    `gorm:"size:16;index"`
	Officers     string    // JSON-encoded list
	Notes        string    ``
}

func (entityRow) TableName() string { return "corporate_entities" }

func rowFromEntity(e *models.CorporateEntity) (entityRow, error) {
	officers, err := json.Marshal(e.Officers)
	if err != nil {
		return entityRow{}, fmt.Errorf("encoding officers: %w", err)
	}
	return entityRow{
		Slug:         e.Slug(),
		Name:         e.Name,
		Jurisdiction: e.Jurisdiction,
		Formed:       e.Formed,
		Status:       string(e.Status),
		Officers:     string(officers),
		Notes:        e.Notes,
	}, nil
}

func (r entityRow) toEntity() (*models.CorporateEntity, error) {
	var officers []string
	if r.Officers != "" {
		if err := json.Unmarshal([]byte(r.Officers), &officers); err != nil {
			return nil, fmt.Errorf("decoding officers for %q: %w", r.Slug, err)
		}
	}
	return &models.CorporateEntity{
		Name:         r.Name,
		Jurisdiction: r.Jurisdiction,
		Formed:       r.Formed,
		Officers:     officers,
		Status:       models.Status(r.Status),
		Notes:        r.Notes,
	}, nil
}

// SQLiteRegistry is a Registry persisted to a SQLite file.
type SQLiteRegistry struct {
	db  *gorm.DB
	log *slog.Logger
}

// OpenSQLite opens (creating if needed) the registry database at path and
// migrates the schema.
func OpenSQLite(path string, log *slog.Logger) (*SQLiteRegistry, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite registry at %s: %w", path, err)
	}
	if err := db.AutoMigrate(&entityRow{}); err != nil {
		return nil, fmt.Errorf("migrating registry schema: %w", err)
	}
	log.Debug("sqlite registry ready", "path", path)
	return &SQLiteRegistry{db: db, log: log}, nil
}

func (r *SQLiteRegistry) Add(e *models.CorporateEntity) error {
	row, err := rowFromEntity(e)
	if err != nil {
		return err
	}
	if err := r.db.Save(&row).Error; err != nil {
		return fmt.Errorf("upserting entity %q: %w", row.Slug, err)
	}
	return nil
}

func (r *SQLiteRegistry) Get(slug string) (*models.CorporateEntity, error) {
	var row entityRow
	err := r.db.First(&row, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("entity %q: %w", slug, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading entity %q: %w", slug, err)
	}
	return row.toEntity()
}

func (r *SQLiteRegistry) FindByStatus(st models.Status) ([]*models.CorporateEntity, error) {
	var rows []entityRow
	if err := r.db.Where("status = ?", string(st)).Order("slug").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("querying entities by status %s: %w", st, err)
	}
	return rowsToEntities(rows)
}

func (r *SQLiteRegistry) All() ([]*models.CorporateEntity, error) {
	var rows []entityRow
	if err := r.db.Order("slug").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing entities: %w", err)
	}
	return rowsToEntities(rows)
}

func (r *SQLiteRegistry) Len() (int, error) {
	var n int64
	if err := r.db.Model(&entityRow{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting entities: %w", err)
	}
	return int(n), nil
}

func rowsToEntities(rows []entityRow) ([]*models.CorporateEntity, error) {
	out := make([]*models.CorporateEntity, 0, len(rows))
	for i := range rows {
		e, err := rows[i].toEntity()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
