package model

import (
	"time"
)

// MainContentID is the primary key of the single site content row.
const MainContentID = "main"

type Language string

const (
	Hungarian Language = "hu"
	English   Language = "en"
)

func (l Language) IsValid() bool {
	switch l {
	case Hungarian, English:
		return true
	default:
		return false
	}
}

// Languages lists the supported languages, default first.
var Languages = []Language{Hungarian, English}

type ThemeConfig struct {
	Primary     string `json:"primary" validate:"required,hexcolor6"`
	Secondary   string `json:"secondary" validate:"required,hexcolor6"`
	Accent      string `json:"accent" validate:"required,hexcolor6"`
	FontHeading string `json:"fontHeading" validate:"required"`
	FontBody    string `json:"fontBody" validate:"required"`
}

type HeroContent struct {
	InvitationImage string `json:"invitationImage" validate:"required"`
	ShowScrollHint  bool   `json:"showScrollHint"`
}

type InfoSubsection struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content"`
}

type InfoContent struct {
	MainText    string           `json:"mainText"`
	Subsections []InfoSubsection `json:"subsections" validate:"dive"`
}

type SupportOption struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Link        string `json:"link,omitempty" validate:"omitempty,url"`
}

type SupportContent struct {
	Intro            string          `json:"intro"`
	Options          []SupportOption `json:"options" validate:"dive"`
	VolunteerOptions []string        `json:"volunteerOptions"`
}

type GalleryImage struct {
	Src     string `json:"src" validate:"required"`
	Caption string `json:"caption,omitempty"`
}

type AboutContent struct {
	Story  string         `json:"story"`
	Images []GalleryImage `json:"images" validate:"dive"`
}

// SiteContent is the editable content of the invitation page. There is only
// ever one row, keyed by MainContentID.
type SiteContent struct {
	ID        string         `json:"id" gorm:"primaryKey;size:32"`
	Theme     ThemeConfig    `json:"theme" gorm:"serializer:json"`
	Hero      HeroContent    `json:"hero" gorm:"serializer:json"`
	Info      InfoContent    `json:"info" gorm:"serializer:json"`
	Support   SupportContent `json:"support" gorm:"serializer:json"`
	About     AboutContent   `json:"about" gorm:"serializer:json"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

type RsvpSubmission struct {
	ID                 string    `json:"id" gorm:"primaryKey;size:36"`
	GuestName          string    `json:"guestName" gorm:"not null"`
	AdditionalGuests   []string  `json:"additionalGuests" gorm:"serializer:json"`
	Phone              *string   `json:"phone,omitempty"`
	NeedsAccommodation bool      `json:"needsAccommodation"`
	NeedsTransport     bool      `json:"needsTransport"`
	VolunteerOptions   []string  `json:"volunteerOptions" gorm:"serializer:json"`
	Comments           *string   `json:"comments,omitempty"`
	Language           Language  `json:"language" gorm:"size:2;default:hu"`
	CreatedAt          time.Time `json:"createdAt" gorm:"index"`
}

// Translation holds the flat key/value catalogue of one language.
type Translation struct {
	ID        Language          `json:"id" gorm:"primaryKey;size:2"`
	Content   map[string]string `json:"content" gorm:"serializer:json"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// AuditLog records admin actions.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey"`
	Action    string    `gorm:"size:64;index"`
	Actor     string    `gorm:"size:64"`
	Message   string
	Metadata  string
	CreatedAt time.Time `gorm:"index"`
}

// All returns every model, in migration order.
func All() []any {
	return []any{
		&SiteContent{},
		&RsvpSubmission{},
		&Translation{},
		&AuditLog{},
	}
}
