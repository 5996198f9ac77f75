package repository

import (
	"context"

	"github.com/familyalbum/server/internal/models"
)

// SubscriptionRepository persists Web Push subscriptions
type SubscriptionRepository struct {
	db      DB
	dialect Dialect
}

// NewSubscriptionRepository creates a new SubscriptionRepository
func NewSubscriptionRepository(db DB, dialect Dialect) *SubscriptionRepository {
	return &SubscriptionRepository{db: db, dialect: dialect}
}

// Upsert stores a subscription, reactivating it when the endpoint is already
// known.
func (r *SubscriptionRepository) Upsert(ctx context.Context, sub *models.PushSubscription) error {
	query := `INSERT INTO push_subscriptions (id, endpoint, p256dh, auth, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (endpoint) DO UPDATE SET p256dh = excluded.p256dh, auth = excluded.auth, is_active = excluded.is_active`

	_, err := r.db.ExecContext(ctx, r.dialect.rebind(query),
		sub.ID, sub.Endpoint, sub.P256dh, sub.Auth, sub.IsActive, sub.CreatedAt)
	if err != nil {
		return models.UpstreamError("failed to store push subscription", err)
	}
	return nil
}

// Remove deletes a subscription by endpoint
func (r *SubscriptionRepository) Remove(ctx context.Context, endpoint string) error {
	query := "DELETE FROM push_subscriptions WHERE endpoint = ?"
	if _, err := r.db.ExecContext(ctx, r.dialect.rebind(query), endpoint); err != nil {
		return models.UpstreamError("failed to remove push subscription", err)
	}
	return nil
}

// Deactivate marks a dead subscription without deleting it
func (r *SubscriptionRepository) Deactivate(ctx context.Context, endpoint string) error {
	query := "UPDATE push_subscriptions SET is_active = FALSE WHERE endpoint = ?"
	if _, err := r.db.ExecContext(ctx, r.dialect.rebind(query), endpoint); err != nil {
		return models.UpstreamError("failed to deactivate push subscription", err)
	}
	return nil
}

// ListActive returns every subscription eligible for delivery
func (r *SubscriptionRepository) ListActive(ctx context.Context) ([]*models.PushSubscription, error) {
	query := `SELECT id, endpoint, p256dh, auth, is_active, created_at
		FROM push_subscriptions WHERE is_active = TRUE`

	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(query))
	if err != nil {
		return nil, models.UpstreamError("failed to query push subscriptions", err)
	}
	defer rows.Close()

	subs := []*models.PushSubscription{}
	for rows.Next() {
		var s models.PushSubscription
		if err := rows.Scan(&s.ID, &s.Endpoint, &s.P256dh, &s.Auth, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, models.UpstreamError("failed to scan push subscription", err)
		}
		subs = append(subs, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, models.UpstreamError("failed to read push subscriptions", err)
	}
	return subs, nil
}
