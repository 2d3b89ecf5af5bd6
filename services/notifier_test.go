package services

import (
	"testing"

	"event-marketplace-server/models"
)

type fakePublisher struct {
	pushes []uint
}

func (p *fakePublisher) Push(userID uint, event string, payload interface{}) {
	p.pushes = append(p.pushes, userID)
}

func TestNotifyWritesRowAndPushes(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice", models.RoleCustomer, true)
	publisher := &fakePublisher{}
	notifier := NewNotifier(db, publisher)

	notifier.Notify(user.ID, "system", "Hello", "Test message", map[string]interface{}{"k": "v"})

	var notification models.Notification
	if err := db.Where("user_id = ?", user.ID).First(&notification).Error; err != nil {
		t.Fatalf("notification row not written: %v", err)
	}
	if notification.Read {
		t.Error("new notification should be unread")
	}
	if notification.Data == "" {
		t.Error("payload should be stored")
	}
	if len(publisher.pushes) != 1 || publisher.pushes[0] != user.ID {
		t.Errorf("pushes = %v, want one push to user %d", publisher.pushes, user.ID)
	}
}

func TestNotifyManyBatches(t *testing.T) {
	db := newTestDB(t)
	a := createUser(t, db, "a", models.RoleCaterer, true)
	b := createUser(t, db, "b", models.RoleTransport, true)
	notifier := NewNotifier(db, nil)

	notifier.NotifyMany([]uint{a.ID, b.ID}, "new_bid_request", "New Request", "msg", nil)

	var count int64
	db.Model(&models.Notification{}).Where("type = ?", "new_bid_request").Count(&count)
	if count != 2 {
		t.Errorf("fan-out rows = %d, want 2", count)
	}
}

func TestMarkAllReadIdempotent(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice", models.RoleCustomer, true)
	notifier := NewNotifier(db, nil)

	for i := 0; i < 3; i++ {
		notifier.Notify(user.ID, "system", "Hello", "msg", nil)
	}

	updated, err := notifier.MarkAllRead(user.ID)
	if err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}
	if updated != 3 {
		t.Errorf("first MarkAllRead updated = %d, want 3", updated)
	}

	updated, err = notifier.MarkAllRead(user.ID)
	if err != nil {
		t.Fatalf("second MarkAllRead failed: %v", err)
	}
	if updated != 0 {
		t.Errorf("second MarkAllRead updated = %d, want 0", updated)
	}
}

func TestMarkReadOwnership(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "alice", models.RoleCustomer, true)
	stranger := createUser(t, db, "mallory", models.RoleCustomer, true)
	notifier := NewNotifier(db, nil)

	notifier.Notify(owner.ID, "system", "Hello", "msg", nil)
	var notification models.Notification
	db.Where("user_id = ?", owner.ID).First(&notification)

	if err := notifier.MarkRead(stranger.ID, notification.ID); AsAppError(err).Code != CodeForbidden {
		t.Error("marking another user's notification should be FORBIDDEN")
	}
	if err := notifier.MarkRead(owner.ID, notification.ID); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}

	var reloaded models.Notification
	db.First(&reloaded, notification.ID)
	if !reloaded.Read || reloaded.ReadAt == nil {
		t.Error("notification should be read with a read_at timestamp")
	}
}

func TestUnreadCount(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice", models.RoleCustomer, true)
	notifier := NewNotifier(db, nil)

	notifier.Notify(user.ID, "system", "A", "msg", nil)
	notifier.Notify(user.ID, "system", "B", "msg", nil)

	count, err := notifier.UnreadCount(user.ID)
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if count != 2 {
		t.Errorf("unread = %d, want 2", count)
	}
}

func TestListPagination(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice", models.RoleCustomer, true)
	notifier := NewNotifier(db, nil)

	for i := 0; i < 5; i++ {
		notifier.Notify(user.ID, "system", "n", "msg", nil)
	}

	page, total, err := notifier.List(user.ID, 2, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(page) != 2 {
		t.Errorf("page size = %d, want 2", len(page))
	}
}
