package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/familyalbum/server/internal/models"
)

// SettingsRepository persists the single-row app settings (PWA branding)
type SettingsRepository struct {
	db      DB
	dialect Dialect
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(db DB, dialect Dialect) *SettingsRepository {
	return &SettingsRepository{db: db, dialect: dialect}
}

// Get returns the branding settings, nil when none are stored
func (r *SettingsRepository) Get(ctx context.Context) (*models.Branding, error) {
	query := `SELECT logo_path, icon_192_path, icon_512_path, maskable_192_path, maskable_512_path, updated_at
		FROM app_settings WHERE id = 1`

	var b models.Branding
	err := r.db.QueryRowContext(ctx, query).Scan(
		&b.LogoPath, &b.Icon192Path, &b.Icon512Path, &b.Maskable192Path, &b.Maskable512Path, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, models.UpstreamError("failed to query branding settings", err)
	}
	b.UpdatedAt = b.UpdatedAt.UTC()
	return &b, nil
}

// Save replaces the branding settings row
func (r *SettingsRepository) Save(ctx context.Context, branding *models.Branding) error {
	branding.UpdatedAt = time.Now().UTC()

	query := `INSERT INTO app_settings (id, logo_path, icon_192_path, icon_512_path, maskable_192_path, maskable_512_path, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			logo_path = excluded.logo_path,
			icon_192_path = excluded.icon_192_path,
			icon_512_path = excluded.icon_512_path,
			maskable_192_path = excluded.maskable_192_path,
			maskable_512_path = excluded.maskable_512_path,
			updated_at = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, r.dialect.rebind(query),
		branding.LogoPath, branding.Icon192Path, branding.Icon512Path,
		branding.Maskable192Path, branding.Maskable512Path, branding.UpdatedAt)
	if err != nil {
		return models.UpstreamError("failed to save branding settings", err)
	}
	return nil
}

// Delete clears the branding settings and returns the removed record so the
// caller can garbage-collect the stored blobs.
func (r *SettingsRepository) Delete(ctx context.Context) (*models.Branding, error) {
	branding, err := r.Get(ctx)
	if err != nil {
		return nil, err
	}
	if branding == nil {
		return nil, nil
	}

	if _, err := r.db.ExecContext(ctx, "DELETE FROM app_settings WHERE id = 1"); err != nil {
		return nil, models.UpstreamError("failed to delete branding settings", err)
	}
	return branding, nil
}
