package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jlobacci/goout-backend/internal/common"
	"github.com/jlobacci/goout-backend/internal/config"
	"github.com/jlobacci/goout-backend/internal/domain"
	"github.com/jlobacci/goout-backend/internal/repository"
	"github.com/jlobacci/goout-backend/pkg/cache"
	"github.com/jlobacci/goout-backend/pkg/logger"
)

// NotificationService builds the aggregated notification feed. The feed is
// derived on read from unread messages and upcoming accepted slots; nothing
// in it is persisted except the per-user watermark.
type NotificationService interface {
	// BuildFeed assembles the feed for a user. Compact mode keeps upcoming
	// slots within the lookahead window and caps the item count; full mode
	// widens the slot window into the recent past and returns everything.
	// BadgeCount in the response always reflects the uncapped item set.
	BuildFeed(userID string, now time.Time, full bool) (*domain.NotificationFeedResponse, error)
	// BadgeCount returns only the badge number, cached briefly per user.
	BadgeCount(userID string, now time.Time) (int, error)
	// Dismiss advances the user's watermark to now, zeroing the badge
	// without marking any message read.
	Dismiss(userID string, now time.Time) error
}

type notificationService struct {
	eventRepo     repository.EventRepository
	msgRepo       repository.MessageRepository
	dmRepo        repository.DMRepository
	appRepo       repository.ApplicationRepository
	watermarkRepo repository.WatermarkRepository
	cacheService  cache.Service
	cfg           config.NotificationConfig
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	eventRepo repository.EventRepository,
	msgRepo repository.MessageRepository,
	dmRepo repository.DMRepository,
	appRepo repository.ApplicationRepository,
	watermarkRepo repository.WatermarkRepository,
	cacheService cache.Service,
	cfg config.NotificationConfig,
) NotificationService {
	return &notificationService{
		eventRepo:     eventRepo,
		msgRepo:       msgRepo,
		dmRepo:        dmRepo,
		appRepo:       appRepo,
		watermarkRepo: watermarkRepo,
		cacheService:  cacheService,
		cfg:           cfg,
	}
}

// BuildFeed assembles message and slot items, newest first.
func (s *notificationService) BuildFeed(userID string, now time.Time, full bool) (*domain.NotificationFeedResponse, error) {
	items, err := s.collect(userID, now, full)
	if err != nil {
		return nil, err
	}

	// The badge always derives from the compact window, so a full-history
	// build reports the same count the compact feed and the badge endpoint
	// show. The history widens the list, never the count.
	badgeItems := items
	if full {
		badgeItems, err = s.collect(userID, now, false)
		if err != nil {
			return nil, err
		}
	}
	badge, err := s.badgeFromItems(userID, badgeItems)
	if err != nil {
		return nil, err
	}

	if !full && len(items) > s.cfg.CompactLimit {
		items = items[:s.cfg.CompactLimit]
	}

	return &domain.NotificationFeedResponse{
		Items:      items,
		BadgeCount: badge,
	}, nil
}

// BadgeCount returns the badge number with a short-lived cache in front.
// A stale badge self-corrects at TTL expiry; correctness of the feed
// itself never depends on the cache.
func (s *notificationService) BadgeCount(userID string, now time.Time) (int, error) {
	ctx := context.Background()
	if count, err := s.cacheService.GetBadgeCount(ctx, userID); err == nil {
		return count, nil
	}

	items, err := s.collect(userID, now, false)
	if err != nil {
		return 0, err
	}
	badge, err := s.badgeFromItems(userID, items)
	if err != nil {
		return 0, err
	}

	if err := s.cacheService.SetBadgeCount(ctx, userID, badge); err != nil {
		logger.Get().Warn().Err(err).Str("user_id", userID).Msg("Failed to cache badge count")
	}
	return badge, nil
}

// Dismiss moves the watermark to now and drops the cached badge
func (s *notificationService) Dismiss(userID string, now time.Time) error {
	if err := s.watermarkRepo.Upsert(userID, now); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	if err := s.cacheService.InvalidateBadge(context.Background(), userID); err != nil {
		logger.Get().Warn().Err(err).Str("user_id", userID).Msg("Failed to invalidate badge cache")
	}
	return nil
}

// collect gathers the uncapped, deduplicated, sorted item set.
func (s *notificationService) collect(userID string, now time.Time, full bool) ([]domain.NotificationItem, error) {
	seen := make(map[string]bool)
	var items []domain.NotificationItem
	add := func(item domain.NotificationItem) {
		if seen[item.ID] {
			return
		}
		seen[item.ID] = true
		items = append(items, item)
	}

	eventIDs, err := s.eventRepo.ParticipantEventIDs(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	msgRows, err := s.msgRepo.FindRecentUnread(eventIDs, userID, s.cfg.FetchPerThread)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	for _, row := range msgRows {
		add(domain.NotificationItem{
			ID:        domain.MessageItemID(row.ID),
			Kind:      domain.NotificationKindMessage,
			Title:     fmt.Sprintf("%s in %s", row.SenderNick, row.EventTitle),
			Body:      snippet(row.Body, s.cfg.SnippetRunes),
			Timestamp: row.CreatedAt,
			Link:      fmt.Sprintf("/events/%d/chat", row.EventID),
		})
	}

	threads, err := s.dmRepo.ListThreadsForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	threadIDs := make([]int64, 0, len(threads))
	for _, t := range threads {
		threadIDs = append(threadIDs, t.ID)
	}
	dmRows, err := s.dmRepo.FindRecentUnread(threadIDs, userID, s.cfg.FetchPerThread)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	for _, row := range dmRows {
		add(domain.NotificationItem{
			ID:        domain.DMItemID(row.ID),
			Kind:      domain.NotificationKindMessage,
			Title:     row.SenderNick,
			Body:      snippet(row.Body, s.cfg.SnippetRunes),
			Timestamp: row.CreatedAt,
			Link:      fmt.Sprintf("/dm/%d", row.ThreadID),
		})
	}

	// Compact mode looks ahead only; full mode also keeps slots that
	// started within the past lookahead window.
	lookahead := time.Duration(s.cfg.LookaheadHours) * time.Hour
	slotAfter := now
	if full {
		slotAfter = now.Add(-lookahead)
	}
	slots, err := s.appRepo.AcceptedSlotsAfter(userID, slotAfter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	for _, slot := range slots {
		if !full && slot.StartsAt.After(now.Add(lookahead)) {
			continue
		}
		add(domain.NotificationItem{
			ID:        domain.SlotItemID(slot.SlotID),
			Kind:      domain.NotificationKindUpcomingEvent,
			Title:     slot.EventTitle,
			Body:      fmt.Sprintf("Starts %s", slot.StartsAt.Format("Mon Jan 2 15:04")),
			Timestamp: slot.StartsAt,
			Link:      fmt.Sprintf("/events/%d", slot.EventID),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].Timestamp.Equal(items[j].Timestamp) {
			return items[i].Timestamp.After(items[j].Timestamp)
		}
		return items[i].ID > items[j].ID
	})
	return items, nil
}

// badgeFromItems counts items newer than the user's watermark
func (s *notificationService) badgeFromItems(userID string, items []domain.NotificationItem) (int, error) {
	wm, err := s.watermarkRepo.Get(userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	if wm == nil {
		return len(items), nil
	}
	badge := 0
	for _, item := range items {
		if item.Timestamp.After(wm.LastSeenAt) {
			badge++
		}
	}
	return badge, nil
}

// snippet truncates a message body to at most maxRunes runes, appending an
// ellipsis when anything was cut. Counts runes, not bytes.
func snippet(body string, maxRunes int) string {
	runes := []rune(body)
	if len(runes) <= maxRunes {
		return body
	}
	return string(runes[:maxRunes]) + "…"
}
