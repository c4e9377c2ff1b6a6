package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"pizzeria/internal/models"
	"pizzeria/internal/repository"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[string]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = r.nextID
	r.users[user.Username] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[username]; ok {
		return u, nil
	}
	return nil, repository.ErrUserNotFound
}

// fakeOrderRepo mirrors the conditional write of the gorm repository.
type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[uint]*models.Order
	nextID uint
	// beforeUpdate runs inside UpdateStatus before the status comparison.
	beforeUpdate func(o *models.Order)
	updateErr    map[uint]error
}

func newFakeOrderRepo(orders ...*models.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{orders: map[uint]*models.Order{}, updateErr: map[uint]error{}}
	for _, o := range orders {
		r.orders[o.ID] = o
		if o.ID > r.nextID {
			r.nextID = o.ID
		}
	}
	return r
}

func (r *fakeOrderRepo) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	order.ID = r.nextID
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id uint) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) GetActive(_ context.Context) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	for _, o := range r.orders {
		if !o.Status.IsTerminal() {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeOrderRepo) GetByStatus(_ context.Context, status models.OrderStatus) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	for _, o := range r.orders {
		if o.Status == status {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id uint, expected, next models.OrderStatus) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.updateErr[id]; err != nil {
		return nil, err
	}
	o, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	if r.beforeUpdate != nil {
		r.beforeUpdate(o)
	}
	if o.Status != expected {
		return nil, repository.ErrStatusConflict
	}
	o.Status = next
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) UpdatePaymentStatus(_ context.Context, id uint, paymentStatus string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	o.PaymentStatus = paymentStatus
	return nil
}

func (r *fakeOrderRepo) status(id uint) models.OrderStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.orders[id].Status
}

type fakeHistoryRepo struct {
	mu      sync.Mutex
	records []models.StatusChangeRecord
	reads   int
}

func (r *fakeHistoryRepo) Create(_ context.Context, record *models.StatusChangeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record.ID = uint(len(r.records) + 1)
	r.records = append(r.records, *record)
	return nil
}

func (r *fakeHistoryRepo) GetByOrderID(_ context.Context, orderID uint) ([]models.StatusChangeRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	var out []models.StatusChangeRecord
	for _, rec := range r.records {
		if rec.OrderID == orderID {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fakeSettingsRepo struct {
	notifications *models.NotificationSettings
	promotion     *models.PromotionSettings
}

func (r *fakeSettingsRepo) GetNotificationSettings(context.Context) (*models.NotificationSettings, error) {
	if r.notifications == nil {
		return nil, repository.ErrSettingsNotFound
	}
	cp := *r.notifications
	return &cp, nil
}

func (r *fakeSettingsRepo) SaveNotificationSettings(_ context.Context, s *models.NotificationSettings) error {
	cp := *s
	r.notifications = &cp
	return nil
}

func (r *fakeSettingsRepo) GetPromotionSettings(context.Context) (*models.PromotionSettings, error) {
	if r.promotion == nil {
		return nil, repository.ErrSettingsNotFound
	}
	cp := *r.promotion
	return &cp, nil
}

func (r *fakeSettingsRepo) SavePromotionSettings(_ context.Context, s *models.PromotionSettings) error {
	cp := *s
	r.promotion = &cp
	return nil
}

type publishedEvent struct {
	key     string
	payload any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *fakePublisher) PublishJSON(_ context.Context, key string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{key, payload})
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
