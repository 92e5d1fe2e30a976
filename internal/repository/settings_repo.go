package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mend/tickbridge/internal/db"
	"github.com/mend/tickbridge/internal/domain"
)

// SettingsRepo is a SQLite implementation of SettingsRepository. The
// settings row is a singleton; saving always upserts row 1.
type SettingsRepo struct {
	db *db.DB
}

// NewSettingsRepo creates a new SettingsRepo
func NewSettingsRepo(database *db.DB) *SettingsRepo {
	return &SettingsRepo{db: database}
}

// Get retrieves the stored settings, or nil when none exist yet
func (r *SettingsRepo) Get(ctx context.Context) (*domain.Settings, error) {
	query := `
		SELECT tick_url, tick_email, tick_password, fb_url, fb_token
		FROM settings
		WHERE id = 1
	`

	settings := &domain.Settings{}
	err := r.db.QueryRowContext(ctx, query).Scan(
		&settings.TickURL,
		&settings.TickEmail,
		&settings.TickPassword,
		&settings.FreshBooksURL,
		&settings.FreshBooksToken,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return settings, nil
}

// Save upserts the settings record
func (r *SettingsRepo) Save(ctx context.Context, settings *domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	query := `
		INSERT INTO settings (id, tick_url, tick_email, tick_password, fb_url, fb_token, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			tick_url = excluded.tick_url,
			tick_email = excluded.tick_email,
			tick_password = excluded.tick_password,
			fb_url = excluded.fb_url,
			fb_token = excluded.fb_token,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		settings.TickURL,
		settings.TickEmail,
		settings.TickPassword,
		settings.FreshBooksURL,
		settings.FreshBooksToken,
		formatTime(),
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
