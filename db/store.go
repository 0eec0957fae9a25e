package db

import (
	"context"
	"errors"

	"weddingsite/content"
	"weddingsite/model"

	"go.uber.org/zap"
)

var ErrContentNotFound = errors.New("site content not found")
var ErrRSVPNotFound = errors.New("rsvp submission not found")

type Store interface {
	Ping(ctx context.Context) error
	GetSiteContent(ctx context.Context) (*model.SiteContent, error)
	UpsertSiteContent(ctx context.Context, update content.Update) (*model.SiteContent, error)
	CreateRSVP(ctx context.Context, submission *model.RsvpSubmission) error
	ListRSVPs(ctx context.Context) ([]model.RsvpSubmission, error)
	DeleteRSVP(ctx context.Context, id string) error
	GetOrSeedTranslation(ctx context.Context, lang model.Language, fallback map[string]string) (map[string]string, error)
	UpsertTranslations(ctx context.Context, catalogs map[model.Language]map[string]string) (map[model.Language]map[string]string, error)
	LogAuditEvent(ctx context.Context, logger *zap.SugaredLogger, event model.AuditLog)
}
