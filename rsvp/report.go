package rsvp

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"weddingsite/model"
)

// Stats summarises the stored replies for the admin dashboard.
type Stats struct {
	TotalGuests        int `json:"totalGuests"`
	NeedsAccommodation int `json:"needsAccommodation"`
	NeedsTransport     int `json:"needsTransport"`
	Submissions        int `json:"submissions"`
}

// Summarize counts each reply's guest plus their additional guests.
func Summarize(submissions []model.RsvpSubmission) Stats {
	stats := Stats{Submissions: len(submissions)}
	for _, s := range submissions {
		stats.TotalGuests += 1 + len(s.AdditionalGuests)
		if s.NeedsAccommodation {
			stats.NeedsAccommodation++
		}
		if s.NeedsTransport {
			stats.NeedsTransport++
		}
	}
	return stats
}

var csvHeader = []string{
	"Név",
	"További vendégek",
	"Telefon",
	"Szállás",
	"Szállítás",
	"Segítség",
	"Megjegyzés",
	"Dátum",
}

// ExportFilename is the download name for an export taken at now.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("rsvp-%s.csv", now.UTC().Format("2006-01-02"))
}

// WriteCSV writes the replies as a spreadsheet-friendly CSV with a UTF-8 BOM.
// Dates are rendered in loc.
func WriteCSV(w io.Writer, submissions []model.RsvpSubmission, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}
	if _, err := io.WriteString(w, "\ufeff"); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range submissions {
		row := []string{
			s.GuestName,
			strings.Join(s.AdditionalGuests, "; "),
			deref(s.Phone),
			yesNo(s.NeedsAccommodation),
			yesNo(s.NeedsTransport),
			strings.Join(s.VolunteerOptions, "; "),
			deref(s.Comments),
			FormatDateTime(s.CreatedAt.In(loc), model.Hungarian),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func yesNo(b bool) string {
	if b {
		return "Igen"
	}
	return "Nem"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var hungarianMonths = [...]string{
	"január", "február", "március", "április", "május", "június",
	"július", "augusztus", "szeptember", "október", "november", "december",
}

// FormatDate renders a long date: "2025. június 14." or "June 14, 2025".
func FormatDate(t time.Time, lang model.Language) string {
	if lang == model.English {
		return t.Format("January 2, 2006")
	}
	return fmt.Sprintf("%d. %s %d.", t.Year(), hungarianMonths[t.Month()-1], t.Day())
}

// FormatDateTime renders a long date with hours and minutes.
func FormatDateTime(t time.Time, lang model.Language) string {
	if lang == model.English {
		return t.Format("January 2, 2006 at 03:04 PM")
	}
	return fmt.Sprintf("%s %02d:%02d", FormatDate(t, lang), t.Hour(), t.Minute())
}
