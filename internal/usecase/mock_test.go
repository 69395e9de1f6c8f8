//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"edu-entitlement-platform/internal/domain"
	"edu-entitlement-platform/internal/domain/model"
	"edu-entitlement-platform/internal/domain/ports/adapter"
	"edu-entitlement-platform/internal/domain/ports/repository"
)

// -----------------------------
// Utilities: tiny helpers
// -----------------------------

func now() time.Time { return time.Now().Truncate(time.Millisecond) }

// newTestLogger creates a silent zerolog.Logger for use in tests.
// It writes to io.Discard to prevent logs from cluttering test output.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// =============================
// Adapters
// =============================

// ---- Mock AIServiceAdapter ----

type MockAI struct {
	mu sync.Mutex

	ChatFunc func(ctx context.Context, model string, msgs []adapter.Message) (string, error)

	// tracing of invocations
	Calls struct {
		Chat []string
	}
}

var _ adapter.AIServiceAdapter = (*MockAI)(nil)

func (m *MockAI) Chat(ctx context.Context, model string, msgs []adapter.Message) (string, error) {
	m.mu.Lock()
	m.Calls.Chat = append(m.Calls.Chat, model)
	m.mu.Unlock()
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, model, msgs)
	}
	return "ok", nil
}

// ---- Mock ActivitySink ----

type MockActivity struct {
	mu    sync.Mutex
	Lines []string
}

var _ adapter.ActivitySink = (*MockActivity)(nil)

func (m *MockActivity) Record(ctx context.Context, line string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Lines = append(m.Lines, line)
}

// =============================
// Repositories
// =============================

// ---- Mock SubscriptionRepository ----

type MockSubscriptionRepo struct {
	mu   sync.Mutex
	data map[string]*model.Subscription // by id

	SaveFunc              func(ctx context.Context, tx repository.Tx, s *model.Subscription) error
	FindByUserAndItemFunc func(ctx context.Context, tx repository.Tx, userID, itemID string) (*model.Subscription, error)
	FindByUserFunc        func(ctx context.Context, tx repository.Tx, userID string) ([]*model.Subscription, error)
	CountActiveFunc       func(ctx context.Context) (int, error)
}

var _ repository.SubscriptionRepository = (*MockSubscriptionRepo)(nil)

func NewMockSubscriptionRepo() *MockSubscriptionRepo {
	return &MockSubscriptionRepo{data: map[string]*model.Subscription{}}
}

func (r *MockSubscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, s)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	cp := *s
	r.data[s.ID] = &cp
	return nil
}

func (r *MockSubscriptionRepo) FindByUserAndItem(ctx context.Context, tx repository.Tx, userID, itemID string) (*model.Subscription, error) {
	if r.FindByUserAndItemFunc != nil {
		return r.FindByUserAndItemFunc(ctx, tx, userID, itemID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.data {
		if s.UserID == userID && s.ItemID == itemID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MockSubscriptionRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Subscription, error) {
	if r.FindByUserFunc != nil {
		return r.FindByUserFunc(ctx, tx, userID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Subscription
	for _, s := range r.data {
		if s.UserID == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MockSubscriptionRepo) CountActive(ctx context.Context) (int, error) {
	if r.CountActiveFunc != nil {
		return r.CountActiveFunc(ctx)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.data {
		if s.Status == model.SubscriptionStatusActive {
			n++
		}
	}
	return n, nil
}

// ---- Mock SubscriptionRequestRepository ----

type MockRequestRepo struct {
	mu   sync.Mutex
	data map[string]*model.SubscriptionRequest

	SaveFunc         func(ctx context.Context, tx repository.Tx, req *model.SubscriptionRequest) error
	FindByIDFunc     func(ctx context.Context, tx repository.Tx, id string) (*model.SubscriptionRequest, error)
	ListFunc         func(ctx context.Context, tx repository.Tx, status model.RequestStatus) ([]*model.SubscriptionRequest, error)
	CountPendingFunc func(ctx context.Context) (int, error)
}

var _ repository.SubscriptionRequestRepository = (*MockRequestRepo)(nil)

func NewMockRequestRepo() *MockRequestRepo {
	return &MockRequestRepo{data: map[string]*model.SubscriptionRequest{}}
}

func (r *MockRequestRepo) Save(ctx context.Context, tx repository.Tx, req *model.SubscriptionRequest) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, req)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	cp := *req
	r.data[req.ID] = &cp
	return nil
}

func (r *MockRequestRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.SubscriptionRequest, error) {
	if r.FindByIDFunc != nil {
		return r.FindByIDFunc(ctx, tx, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if req, ok := r.data[id]; ok {
		cp := *req
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockRequestRepo) List(ctx context.Context, tx repository.Tx, status model.RequestStatus) ([]*model.SubscriptionRequest, error) {
	if r.ListFunc != nil {
		return r.ListFunc(ctx, tx, status)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.SubscriptionRequest
	for _, req := range r.data {
		if status == "" || req.Status == status {
			cp := *req
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MockRequestRepo) CountPending(ctx context.Context) (int, error) {
	if r.CountPendingFunc != nil {
		return r.CountPendingFunc(ctx)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, req := range r.data {
		if req.Status == model.RequestStatusPending {
			n++
		}
	}
	return n, nil
}

// ---- Mock PrepaidCodeRepository ----

type MockCodeRepo struct {
	mu   sync.Mutex
	data map[string]*model.PrepaidCode

	SaveFunc       func(ctx context.Context, tx repository.Tx, code *model.PrepaidCode) error
	FindByCodeFunc func(ctx context.Context, tx repository.Tx, code string) (*model.PrepaidCode, error)
	ExistsFunc     func(ctx context.Context, tx repository.Tx, code string) (bool, error)
	ListFunc       func(ctx context.Context, tx repository.Tx) ([]*model.PrepaidCode, error)
	DeleteFunc     func(ctx context.Context, tx repository.Tx, code string) error
}

var _ repository.PrepaidCodeRepository = (*MockCodeRepo)(nil)

func NewMockCodeRepo() *MockCodeRepo {
	return &MockCodeRepo{data: map[string]*model.PrepaidCode{}}
}

func (r *MockCodeRepo) Save(ctx context.Context, tx repository.Tx, code *model.PrepaidCode) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, code)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *code
	cp.UsedByUserIDs = append([]string(nil), code.UsedByUserIDs...)
	r.data[code.Code] = &cp
	return nil
}

func (r *MockCodeRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.PrepaidCode, error) {
	if r.FindByCodeFunc != nil {
		return r.FindByCodeFunc(ctx, tx, code)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.data[code]; ok {
		cp := *c
		cp.UsedByUserIDs = append([]string(nil), c.UsedByUserIDs...)
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockCodeRepo) Exists(ctx context.Context, tx repository.Tx, code string) (bool, error) {
	if r.ExistsFunc != nil {
		return r.ExistsFunc(ctx, tx, code)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.data[code]
	return ok, nil
}

func (r *MockCodeRepo) List(ctx context.Context, tx repository.Tx) ([]*model.PrepaidCode, error) {
	if r.ListFunc != nil {
		return r.ListFunc(ctx, tx)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.PrepaidCode, 0, len(r.data))
	for _, c := range r.data {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *MockCodeRepo) Delete(ctx context.Context, tx repository.Tx, code string) error {
	if r.DeleteFunc != nil {
		return r.DeleteFunc(ctx, tx, code)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[code]; !ok {
		return domain.ErrNotFound
	}
	delete(r.data, code)
	return nil
}

// ---- Mock NotificationRepository ----

type MockNotificationRepo struct {
	mu   sync.Mutex
	data map[string]*model.Notification

	SaveFunc          func(ctx context.Context, tx repository.Tx, n *model.Notification) error
	FindByUserFunc    func(ctx context.Context, tx repository.Tx, userID string) ([]*model.Notification, error)
	ExistsForItemFunc func(ctx context.Context, tx repository.Tx, userID, itemID, kind string) (bool, error)
	MarkReadFunc      func(ctx context.Context, tx repository.Tx, id string) error
	DeleteFunc        func(ctx context.Context, tx repository.Tx, id string) error
}

var _ repository.NotificationRepository = (*MockNotificationRepo)(nil)

func NewMockNotificationRepo() *MockNotificationRepo {
	return &MockNotificationRepo{data: map[string]*model.Notification{}}
}

func (r *MockNotificationRepo) Save(ctx context.Context, tx repository.Tx, n *model.Notification) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, n)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	cp := *n
	r.data[n.ID] = &cp
	return nil
}

func (r *MockNotificationRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Notification, error) {
	if r.FindByUserFunc != nil {
		return r.FindByUserFunc(ctx, tx, userID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Notification
	for _, n := range r.data {
		if n.UserID == userID {
			cp := *n
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MockNotificationRepo) ExistsForItem(ctx context.Context, tx repository.Tx, userID, itemID, kind string) (bool, error) {
	if r.ExistsForItemFunc != nil {
		return r.ExistsForItemFunc(ctx, tx, userID, itemID, kind)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.data {
		if n.UserID == userID && n.ItemID == itemID && n.Type == kind {
			return true, nil
		}
	}
	return false, nil
}

func (r *MockNotificationRepo) MarkRead(ctx context.Context, tx repository.Tx, id string) error {
	if r.MarkReadFunc != nil {
		return r.MarkReadFunc(ctx, tx, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.data[id]
	if !ok {
		return domain.ErrNotFound
	}
	n.IsRead = true
	return nil
}

func (r *MockNotificationRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	if r.DeleteFunc != nil {
		return r.DeleteFunc(ctx, tx, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.data, id)
	return nil
}

// ---- Mock UserDirectory ----

type MockUserDirectory struct {
	mu   sync.Mutex
	data map[string]*model.User

	SaveFunc     func(ctx context.Context, tx repository.Tx, u *model.User) error
	FindByIDFunc func(ctx context.Context, tx repository.Tx, id string) (*model.User, error)
	GetAllFunc   func(ctx context.Context, tx repository.Tx) ([]*model.User, error)
	DeleteFunc   func(ctx context.Context, tx repository.Tx, id string) error
}

var _ repository.UserDirectory = (*MockUserDirectory)(nil)

func NewMockUserDirectory() *MockUserDirectory {
	return &MockUserDirectory{data: map[string]*model.User{}}
}

func (r *MockUserDirectory) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, u)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	cp := *u
	r.data[u.ID] = &cp
	return nil
}

func (r *MockUserDirectory) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	if r.FindByIDFunc != nil {
		return r.FindByIDFunc(ctx, tx, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.data[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockUserDirectory) GetAll(ctx context.Context, tx repository.Tx) ([]*model.User, error) {
	if r.GetAllFunc != nil {
		return r.GetAllFunc(ctx, tx)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.User, 0, len(r.data))
	for _, u := range r.data {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MockUserDirectory) Delete(ctx context.Context, tx repository.Tx, id string) error {
	if r.DeleteFunc != nil {
		return r.DeleteFunc(ctx, tx, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.data, id)
	return nil
}

// ---- Mock CatalogRepository ----

type MockCatalogRepo struct {
	mu      sync.Mutex
	data    map[string]*model.Unit
	lessons map[string]*model.Lesson

	SaveUnitFunc       func(ctx context.Context, tx repository.Tx, u *model.Unit) error
	UnitsByTeacherFunc func(ctx context.Context, tx repository.Tx, teacherID string) ([]*model.Unit, error)
	ListUnitsFunc      func(ctx context.Context, tx repository.Tx) ([]*model.Unit, error)
	SaveLessonFunc     func(ctx context.Context, tx repository.Tx, l *model.Lesson) error
	FindLessonFunc     func(ctx context.Context, tx repository.Tx, id string) (*model.Lesson, error)
}

var _ repository.CatalogRepository = (*MockCatalogRepo)(nil)

func NewMockCatalogRepo() *MockCatalogRepo {
	return &MockCatalogRepo{data: map[string]*model.Unit{}, lessons: map[string]*model.Lesson{}}
}

func (r *MockCatalogRepo) SaveUnit(ctx context.Context, tx repository.Tx, u *model.Unit) error {
	if r.SaveUnitFunc != nil {
		return r.SaveUnitFunc(ctx, tx, u)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	cp := *u
	r.data[u.ID] = &cp
	return nil
}

func (r *MockCatalogRepo) UnitsByTeacher(ctx context.Context, tx repository.Tx, teacherID string) ([]*model.Unit, error) {
	if r.UnitsByTeacherFunc != nil {
		return r.UnitsByTeacherFunc(ctx, tx, teacherID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Unit
	for _, u := range r.data {
		if u.TeacherID == teacherID {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MockCatalogRepo) ListUnits(ctx context.Context, tx repository.Tx) ([]*model.Unit, error) {
	if r.ListUnitsFunc != nil {
		return r.ListUnitsFunc(ctx, tx)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Unit, 0, len(r.data))
	for _, u := range r.data {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MockCatalogRepo) SaveLesson(ctx context.Context, tx repository.Tx, l *model.Lesson) error {
	if r.SaveLessonFunc != nil {
		return r.SaveLessonFunc(ctx, tx, l)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	cp := *l
	r.lessons[l.ID] = &cp
	return nil
}

func (r *MockCatalogRepo) FindLesson(ctx context.Context, tx repository.Tx, id string) (*model.Lesson, error) {
	if r.FindLessonFunc != nil {
		return r.FindLessonFunc(ctx, tx, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.lessons[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

// =============================
// Infra helpers for tests
// =============================

// ---- Mock TransactionManager ----

type MockTxManager struct {
	WithTxFunc       func(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error
	WithLockedTxFunc func(ctx context.Context, key string, fn func(ctx context.Context, tx repository.Tx) error) error

	mu   sync.Mutex
	Keys []string // lock keys seen by WithLockedTx
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

// WithTx runs the function immediately without a real transaction. Assign
// WithTxFunc to exercise rollback behavior in specific tests.
func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, fn)
	}
	return fn(ctx, repository.NoTX)
}

func (m *MockTxManager) WithLockedTx(ctx context.Context, key string, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithLockedTxFunc != nil {
		return m.WithLockedTxFunc(ctx, key, fn)
	}
	m.mu.Lock()
	m.Keys = append(m.Keys, key)
	m.mu.Unlock()
	return fn(ctx, repository.NoTX)
}

// ---- Mock BadgeCache ----

type MockBadgeCache struct {
	mu  sync.Mutex
	n   int
	hot bool

	Sets int
}

func (c *MockBadgeCache) GetPendingCount(ctx context.Context) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n, c.hot
}

func (c *MockBadgeCache) SetPendingCount(ctx context.Context, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n = n
	c.hot = true
	c.Sets++
}
