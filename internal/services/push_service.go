package services

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/familyalbum/server/internal/models"
	"github.com/familyalbum/server/internal/observability"
	"github.com/familyalbum/server/internal/repository"
)

// PushService delivers Web Push notifications to registered subscribers
type PushService struct {
	subs            repository.SubscriptionRepo
	vapidPublicKey  string
	vapidPrivateKey string
	subscriberEmail string
	httpClient      *http.Client
	metrics         *observability.AlbumMetrics
}

// NewPushService creates a PushService. Delivery requires VAPID keys; an
// unconfigured service still allows subscription management.
func NewPushService(subs repository.SubscriptionRepo, vapidPublicKey, vapidPrivateKey, subscriberEmail string, metrics *observability.AlbumMetrics) *PushService {
	return &PushService{
		subs:            subs,
		vapidPublicKey:  vapidPublicKey,
		vapidPrivateKey: vapidPrivateKey,
		subscriberEmail: subscriberEmail,
		httpClient:      &http.Client{Timeout: 10 * time.Second},
		metrics:         metrics,
	}
}

// Configured reports whether VAPID keys are present
func (s *PushService) Configured() bool {
	return s.vapidPublicKey != "" && s.vapidPrivateKey != ""
}

// PublicKey returns the VAPID public key clients subscribe with
func (s *PushService) PublicKey() string {
	return s.vapidPublicKey
}

// Notification is the payload delivered to subscribers
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
}

// Broadcast sends a notification to every active subscriber. Sends run
// concurrently and individual failures are tolerated; subscriptions the push
// service reports gone (404/410) are deactivated, not retried. Returns the
// number of successful sends.
func (s *PushService) Broadcast(ctx context.Context, notification Notification) (int, error) {
	if !s.Configured() {
		return 0, models.NotConfiguredError("web push VAPID keys are not configured")
	}

	subs, err := s.subs.ListActive(ctx)
	if err != nil {
		return 0, err
	}
	if len(subs) == 0 {
		return 0, nil
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		return 0, err
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	sent := 0

	for _, sub := range subs {
		wg.Add(1)
		go func(sub *models.PushSubscription) {
			defer wg.Done()

			resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
				Endpoint: sub.Endpoint,
				Keys: webpush.Keys{
					P256dh: sub.P256dh,
					Auth:   sub.Auth,
				},
			}, &webpush.Options{
				HTTPClient:      s.httpClient,
				Subscriber:      s.subscriberEmail,
				VAPIDPublicKey:  s.vapidPublicKey,
				VAPIDPrivateKey: s.vapidPrivateKey,
				TTL:             3600,
			})
			if err != nil {
				observability.Logger().WarnContext(ctx, "push send failed", "subscription", sub.ID, "error", err)
				return
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
				if err := s.subs.Deactivate(ctx, sub.Endpoint); err != nil {
					observability.Logger().WarnContext(ctx, "failed to deactivate dead subscription", "subscription", sub.ID, "error", err)
				}
				return
			}
			if resp.StatusCode >= 400 {
				observability.Logger().WarnContext(ctx, "push send rejected", "subscription", sub.ID, "status", resp.StatusCode)
				return
			}

			mu.Lock()
			sent++
			mu.Unlock()
		}(sub)
	}

	wg.Wait()
	s.metrics.RecordPushSends(ctx, len(subs), sent)
	return sent, nil
}
