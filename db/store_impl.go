package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"weddingsite/content"
	"weddingsite/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SQLStore struct {
	db *gorm.DB
}

var _ Store = (*SQLStore)(nil)

func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

// DB returns the underlying gorm DB handle.
func (s *SQLStore) DB() *gorm.DB {
	return s.db
}

// Ping verifies the underlying database connection is healthy.
func (s *SQLStore) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sql store is not initialized")
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

func (s *SQLStore) GetSiteContent(ctx context.Context) (*model.SiteContent, error) {
	var c model.SiteContent
	err := s.db.WithContext(ctx).First(&c, "id = ?", model.MainContentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	content.Normalize(&c)
	return &c, nil
}

// UpsertSiteContent merges the sections present in update into the stored
// content, creating the row from defaults when it does not exist yet.
func (s *SQLStore) UpsertSiteContent(ctx context.Context, update content.Update) (*model.SiteContent, error) {
	var out model.SiteContent
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current := content.Default()
		err := tx.First(&current, "id = ?", model.MainContentID).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			current = content.Default()
		}
		update.ApplyTo(&current)
		current.ID = model.MainContentID
		if err := tx.Save(&current).Error; err != nil {
			return err
		}
		out = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SQLStore) CreateRSVP(ctx context.Context, submission *model.RsvpSubmission) error {
	if submission == nil {
		return fmt.Errorf("submission is required")
	}
	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}
	if submission.AdditionalGuests == nil {
		submission.AdditionalGuests = []string{}
	}
	if submission.VolunteerOptions == nil {
		submission.VolunteerOptions = []string{}
	}
	if submission.Language == "" {
		submission.Language = model.Hungarian
	}
	return s.db.WithContext(ctx).Create(submission).Error
}

// ListRSVPs returns every submission, newest first.
func (s *SQLStore) ListRSVPs(ctx context.Context) ([]model.RsvpSubmission, error) {
	submissions := []model.RsvpSubmission{}
	if err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (s *SQLStore) DeleteRSVP(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&model.RsvpSubmission{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRSVPNotFound
	}
	return nil
}

// GetOrSeedTranslation returns the stored catalogue for lang. A missing row
// is created from fallback; an empty one is reset to fallback.
func (s *SQLStore) GetOrSeedTranslation(ctx context.Context, lang model.Language, fallback map[string]string) (map[string]string, error) {
	if !lang.IsValid() {
		return nil, fmt.Errorf("unsupported language %q", lang)
	}
	var existing model.Translation
	err := s.db.WithContext(ctx).First(&existing, "id = ?", lang).Error
	switch {
	case err == nil && len(existing.Content) > 0:
		return existing.Content, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		row := model.Translation{ID: lang, Content: fallback}
		if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
			return nil, err
		}
		return row.Content, nil
	case err != nil:
		return nil, err
	}
	row := model.Translation{ID: lang, Content: fallback}
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return nil, err
	}
	return row.Content, nil
}

// UpsertTranslations replaces the catalogues of every given language in one
// transaction.
func (s *SQLStore) UpsertTranslations(ctx context.Context, catalogs map[model.Language]map[string]string) (map[model.Language]map[string]string, error) {
	out := make(map[model.Language]map[string]string, len(catalogs))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, lang := range model.Languages {
			catalog, ok := catalogs[lang]
			if !ok {
				continue
			}
			row := model.Translation{ID: lang, Content: catalog}
			if err := tx.Save(&row).Error; err != nil {
				return fmt.Errorf("save %s translations: %w", lang, err)
			}
			out[lang] = row.Content
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLStore) LogAuditEvent(ctx context.Context, logger *zap.SugaredLogger, event model.AuditLog) {
	if event.Message == "" {
		event.Message = event.Action
	}

	err := s.db.WithContext(ctx).Create(&event).Error
	if err != nil && logger != nil {
		logger.Errorf("failed to write %v audit log: %v", event, err)
	}
}

// ListAuditEvents returns the most recent audit rows, newest first.
func (s *SQLStore) ListAuditEvents(ctx context.Context, limit int) ([]model.AuditLog, error) {
	var events []model.AuditLog
	q := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
