package repo

import (
	"context"
	"sort"
	"sync"

	"github.com/light-bringer/rawsy-service/internal/app/notification/domain"
)

// MemoryNotificationRepo keeps notifications in process.
type MemoryNotificationRepo struct {
	mu    sync.RWMutex
	items []*domain.Notification
}

func NewMemoryNotificationRepo() *MemoryNotificationRepo {
	return &MemoryNotificationRepo{}
}

func (r *MemoryNotificationRepo) Save(_ context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
	return nil
}

func (r *MemoryNotificationRepo) ListByUser(_ context.Context, userID string, limit int) ([]*domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Notification, 0)
	for _, n := range r.items {
		if n.UserID() == userID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt().After(out[j].CreatedAt())
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// All returns every stored notification in insertion order.
func (r *MemoryNotificationRepo) All() []*domain.Notification {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Notification, len(r.items))
	copy(out, r.items)
	return out
}

// MemoryDirectory is an in-process user directory with wishlists.
type MemoryDirectory struct {
	mu        sync.RWMutex
	users     map[string]domain.Recipient
	wishlists map[string]map[string]struct{} // product id -> user ids
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		users:     make(map[string]domain.Recipient),
		wishlists: make(map[string]map[string]struct{}),
	}
}

// PutUser adds or replaces a user.
func (d *MemoryDirectory) PutUser(r domain.Recipient) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r.DeviceTokens = append([]string(nil), r.DeviceTokens...)
	d.users[r.ID] = r
}

// AddToWishlist records that userID watches productID.
func (d *MemoryDirectory) AddToWishlist(userID, productID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.wishlists[productID] == nil {
		d.wishlists[productID] = make(map[string]struct{})
	}
	d.wishlists[productID][userID] = struct{}{}
}

func (d *MemoryDirectory) GetRecipient(_ context.Context, userID string) (*domain.Recipient, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneRecipient(r), nil
}

func (d *MemoryDirectory) FindWishlistWatchers(_ context.Context, productID string) ([]*domain.Recipient, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ids := make([]string, 0, len(d.wishlists[productID]))
	for id := range d.wishlists[productID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*domain.Recipient, 0, len(ids))
	for _, id := range ids {
		if r, ok := d.users[id]; ok {
			out = append(out, cloneRecipient(r))
		}
	}
	return out, nil
}

func cloneRecipient(r domain.Recipient) *domain.Recipient {
	r.DeviceTokens = append([]string(nil), r.DeviceTokens...)
	return &r
}
