package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"weddingsite/content"
	"weddingsite/db"
	"weddingsite/i18n"
	"weddingsite/model"

	"github.com/spf13/cobra"
)

type seedOptions struct {
	sampleRSVPs       bool
	resetTranslations bool
}

func newSeedCmd(a *app) *cobra.Command {
	var opts seedOptions
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Store the default content and translations",
		Long: `seed migrates the database, stores the default site content when none
exists and seeds both translation catalogues. Existing content is kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			store, err := a.openStore()
			if err != nil {
				return fmt.Errorf("seed: failed to open db: %w", err)
			}
			if err := db.Migrate(store.DB()); err != nil {
				return fmt.Errorf("seed: auto-migrate failed: %w", err)
			}
			return seed(ctx, store, opts, a.logger.Sugar().Infof)
		},
	}
	cmd.Flags().BoolVar(&opts.sampleRSVPs, "sample-rsvps", false, "Also insert a few sample RSVPs")
	cmd.Flags().BoolVar(&opts.resetTranslations, "reset-translations", false, "Overwrite stored translations with the built-in ones")
	return cmd
}

func seed(ctx context.Context, store db.Store, opts seedOptions, logf func(string, ...any)) error {
	if _, err := store.GetSiteContent(ctx); err != nil {
		if !errors.Is(err, db.ErrContentNotFound) {
			return fmt.Errorf("seed: content lookup failed: %w", err)
		}
		if _, err := store.UpsertSiteContent(ctx, content.Update{}); err != nil {
			return fmt.Errorf("seed: content insert failed: %w", err)
		}
		logf("seed: stored default content")
	}

	if opts.resetTranslations {
		catalogs := make(map[model.Language]map[string]string, len(model.Languages))
		for _, lang := range model.Languages {
			catalogs[lang] = i18n.Fallback(lang)
		}
		if _, err := store.UpsertTranslations(ctx, catalogs); err != nil {
			return fmt.Errorf("seed: translations reset failed: %w", err)
		}
		logf("seed: translations reset")
	} else {
		for _, lang := range model.Languages {
			if _, err := store.GetOrSeedTranslation(ctx, lang, i18n.Fallback(lang)); err != nil {
				return fmt.Errorf("seed: %s translations failed: %w", lang, err)
			}
		}
	}

	if !opts.sampleRSVPs {
		return nil
	}
	for _, sub := range sampleRSVPs() {
		if err := store.CreateRSVP(ctx, &sub); err != nil {
			return fmt.Errorf("seed: rsvp insert failed: %w", err)
		}
	}
	logf("seed: inserted %d sample rsvps", len(sampleRSVPs()))
	return nil
}

func sampleRSVPs() []model.RsvpSubmission {
	phone := "+36 30 123 4567"
	comment := "Vegetáriánus menüt kérünk."
	return []model.RsvpSubmission{
		{
			GuestName:          "Kovács Anna",
			AdditionalGuests:   []string{"Kovács Béla"},
			Phone:              &phone,
			NeedsAccommodation: true,
			VolunteerOptions:   []string{"Dekoráció"},
			Comments:           &comment,
			Language:           model.Hungarian,
		},
		{
			GuestName:      "John Smith",
			NeedsTransport: true,
			Language:       model.English,
		},
	}
}
