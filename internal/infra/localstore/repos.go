package localstore

import (
	"context"
	"sort"

	"edu-entitlement-platform/internal/domain"
	"edu-entitlement-platform/internal/domain/model"
	"edu-entitlement-platform/internal/domain/ports/repository"
)

// The repos below all share the same shape: take the store mutex, scan or
// rewrite the flat array, flush the snapshot. Finders return copies so
// callers never alias store-owned records.

// ---- subscriptions ----

var _ repository.SubscriptionRepository = (*SubscriptionRepo)(nil)

type SubscriptionRepo struct{ store *Store }

func NewSubscriptionRepo(store *Store) *SubscriptionRepo { return &SubscriptionRepo{store: store} }

func (r *SubscriptionRepo) Save(ctx context.Context, tx repository.Tx, sub *model.Subscription) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *sub
	for i, existing := range r.store.data.Subscriptions {
		if existing.ID == sub.ID {
			r.store.data.Subscriptions[i] = &cp
			return r.store.flush()
		}
	}
	r.store.data.Subscriptions = append(r.store.data.Subscriptions, &cp)
	return r.store.flush()
}

func (r *SubscriptionRepo) FindByUserAndItem(ctx context.Context, tx repository.Tx, userID, itemID string) (*model.Subscription, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, s := range r.store.data.Subscriptions {
		if s.UserID == userID && s.ItemID == itemID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *SubscriptionRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Subscription, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*model.Subscription
	for _, s := range r.store.data.Subscriptions {
		if s.UserID == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *SubscriptionRepo) CountActive(ctx context.Context) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	n := 0
	for _, s := range r.store.data.Subscriptions {
		if s.Status == model.SubscriptionStatusActive {
			n++
		}
	}
	return n, nil
}

// ---- subscription requests ----

var _ repository.SubscriptionRequestRepository = (*RequestRepo)(nil)

type RequestRepo struct{ store *Store }

func NewRequestRepo(store *Store) *RequestRepo { return &RequestRepo{store: store} }

func (r *RequestRepo) Save(ctx context.Context, tx repository.Tx, req *model.SubscriptionRequest) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *req
	for i, existing := range r.store.data.Requests {
		if existing.ID == req.ID {
			r.store.data.Requests[i] = &cp
			return r.store.flush()
		}
	}
	r.store.data.Requests = append(r.store.data.Requests, &cp)
	return r.store.flush()
}

func (r *RequestRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.SubscriptionRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, req := range r.store.data.Requests {
		if req.ID == id {
			cp := *req
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *RequestRepo) List(ctx context.Context, tx repository.Tx, status model.RequestStatus) ([]*model.SubscriptionRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*model.SubscriptionRequest
	for _, req := range r.store.data.Requests {
		if status != "" && req.Status != status {
			continue
		}
		cp := *req
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *RequestRepo) CountPending(ctx context.Context) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	n := 0
	for _, req := range r.store.data.Requests {
		if req.Status == model.RequestStatusPending {
			n++
		}
	}
	return n, nil
}

// ---- prepaid codes ----

var _ repository.PrepaidCodeRepository = (*CodeRepo)(nil)

type CodeRepo struct{ store *Store }

func NewCodeRepo(store *Store) *CodeRepo { return &CodeRepo{store: store} }

func (r *CodeRepo) Save(ctx context.Context, tx repository.Tx, code *model.PrepaidCode) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *code
	cp.UsedByUserIDs = append([]string(nil), code.UsedByUserIDs...)
	for i, existing := range r.store.data.Codes {
		if existing.Code == code.Code {
			r.store.data.Codes[i] = &cp
			return r.store.flush()
		}
	}
	r.store.data.Codes = append(r.store.data.Codes, &cp)
	return r.store.flush()
}

func (r *CodeRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.PrepaidCode, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, c := range r.store.data.Codes {
		if c.Code == code {
			cp := *c
			cp.UsedByUserIDs = append([]string(nil), c.UsedByUserIDs...)
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *CodeRepo) Exists(ctx context.Context, tx repository.Tx, code string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, c := range r.store.data.Codes {
		if c.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *CodeRepo) List(ctx context.Context, tx repository.Tx) ([]*model.PrepaidCode, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*model.PrepaidCode, 0, len(r.store.data.Codes))
	for _, c := range r.store.data.Codes {
		cp := *c
		cp.UsedByUserIDs = append([]string(nil), c.UsedByUserIDs...)
		out = append(out, &cp)
	}
	return out, nil
}

func (r *CodeRepo) Delete(ctx context.Context, tx repository.Tx, code string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, c := range r.store.data.Codes {
		if c.Code == code {
			r.store.data.Codes = append(r.store.data.Codes[:i], r.store.data.Codes[i+1:]...)
			return r.store.flush()
		}
	}
	return domain.ErrNotFound
}

// ---- notifications ----

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

type NotificationRepo struct{ store *Store }

func NewNotificationRepo(store *Store) *NotificationRepo { return &NotificationRepo{store: store} }

func (r *NotificationRepo) Save(ctx context.Context, tx repository.Tx, n *model.Notification) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *n
	for i, existing := range r.store.data.Notifications {
		if existing.ID == n.ID {
			r.store.data.Notifications[i] = &cp
			return r.store.flush()
		}
	}
	r.store.data.Notifications = append(r.store.data.Notifications, &cp)
	return r.store.flush()
}

func (r *NotificationRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Notification, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*model.Notification
	for _, n := range r.store.data.Notifications {
		if n.UserID == userID {
			cp := *n
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *NotificationRepo) ExistsForItem(ctx context.Context, tx repository.Tx, userID, itemID, kind string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, n := range r.store.data.Notifications {
		if n.UserID == userID && n.ItemID == itemID && n.Type == kind {
			return true, nil
		}
	}
	return false, nil
}

func (r *NotificationRepo) MarkRead(ctx context.Context, tx repository.Tx, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, n := range r.store.data.Notifications {
		if n.ID == id {
			n.IsRead = true
			return r.store.flush()
		}
	}
	return domain.ErrNotFound
}

func (r *NotificationRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, n := range r.store.data.Notifications {
		if n.ID == id {
			r.store.data.Notifications = append(r.store.data.Notifications[:i], r.store.data.Notifications[i+1:]...)
			return r.store.flush()
		}
	}
	return domain.ErrNotFound
}

// ---- user directory ----

var _ repository.UserDirectory = (*UserRepo)(nil)

type UserRepo struct{ store *Store }

func NewUserRepo(store *Store) *UserRepo { return &UserRepo{store: store} }

func (r *UserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *u
	for i, existing := range r.store.data.Users {
		if existing.ID == u.ID {
			r.store.data.Users[i] = &cp
			return r.store.flush()
		}
	}
	r.store.data.Users = append(r.store.data.Users, &cp)
	return r.store.flush()
}

func (r *UserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.data.Users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *UserRepo) GetAll(ctx context.Context, tx repository.Tx) ([]*model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*model.User, 0, len(r.store.data.Users))
	for _, u := range r.store.data.Users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *UserRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, u := range r.store.data.Users {
		if u.ID == id {
			r.store.data.Users = append(r.store.data.Users[:i], r.store.data.Users[i+1:]...)
			return r.store.flush()
		}
	}
	return domain.ErrNotFound
}

// ---- catalog ----

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

type CatalogRepo struct{ store *Store }

func NewCatalogRepo(store *Store) *CatalogRepo { return &CatalogRepo{store: store} }

func (r *CatalogRepo) SaveUnit(ctx context.Context, tx repository.Tx, u *model.Unit) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *u
	for i, existing := range r.store.data.Units {
		if existing.ID == u.ID {
			r.store.data.Units[i] = &cp
			return r.store.flush()
		}
	}
	r.store.data.Units = append(r.store.data.Units, &cp)
	return r.store.flush()
}

func (r *CatalogRepo) UnitsByTeacher(ctx context.Context, tx repository.Tx, teacherID string) ([]*model.Unit, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*model.Unit
	for _, u := range r.store.data.Units {
		if u.TeacherID == teacherID {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *CatalogRepo) ListUnits(ctx context.Context, tx repository.Tx) ([]*model.Unit, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*model.Unit, 0, len(r.store.data.Units))
	for _, u := range r.store.data.Units {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *CatalogRepo) SaveLesson(ctx context.Context, tx repository.Tx, l *model.Lesson) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *l
	for i, existing := range r.store.data.Lessons {
		if existing.ID == l.ID {
			r.store.data.Lessons[i] = &cp
			return r.store.flush()
		}
	}
	r.store.data.Lessons = append(r.store.data.Lessons, &cp)
	return r.store.flush()
}

func (r *CatalogRepo) FindLesson(ctx context.Context, tx repository.Tx, id string) (*model.Lesson, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, l := range r.store.data.Lessons {
		if l.ID == id {
			cp := *l
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}
