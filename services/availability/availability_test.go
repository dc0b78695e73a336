package availability

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"

	"barbook/models"
)

type countingSource struct {
	calls int64
	block chan struct{} // when non-nil, fetches wait until closed
}

func (s *countingSource) FetchDayAvailability(ctx context.Context, barberID string, serviceIDs []string, date string) (*models.DayAvailability, error) {
	atomic.AddInt64(&s.calls, 1)
	if s.block != nil {
		<-s.block
	}
	return &models.DayAvailability{
		Date:           date,
		AvailableSlots: []models.Slot{{Date: date, Start: 9 * 60, Available: true}},
		BookedSlots:    []models.Slot{},
	}, nil
}

func TestQuery_CoalescesConcurrentFetches(t *testing.T) {
	src := &countingSource{block: make(chan struct{})}
	q := NewQuery(src, nil, time.Minute)
	key := models.AvailabilityKey{BarberID: "b1", ServiceIDs: []string{"s1"}, Date: "2025-03-04"}

	var wg sync.WaitGroup
	results := make([]*models.DayAvailability, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			day, err := q.Get(context.Background(), key)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			results[i] = day
		}(i)
	}

	// Give the goroutines time to pile onto the in-flight fetch.
	time.Sleep(50 * time.Millisecond)
	close(src.block)
	wg.Wait()

	if got := atomic.LoadInt64(&src.calls); got != 1 {
		t.Fatalf("expected one shared fetch, got %d", got)
	}
	for i, day := range results {
		if day == nil || day.Date != key.Date {
			t.Fatalf("caller %d got bad result: %+v", i, day)
		}
	}
}

func TestQuery_DistinctKeysDoNotShareFetches(t *testing.T) {
	src := &countingSource{}
	q := NewQuery(src, nil, time.Minute)

	for _, date := range []string{"2025-03-04", "2025-03-05"} {
		key := models.AvailabilityKey{BarberID: "b1", ServiceIDs: []string{"s1"}, Date: date}
		if _, err := q.Get(context.Background(), key); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := atomic.LoadInt64(&src.calls); got != 2 {
		t.Fatalf("expected two fetches for two dates, got %d", got)
	}
}

// mapCache implements ResultCache over a plain map so tests can observe what
// the query stores and deletes.
type mapCache struct {
	mu      sync.Mutex
	entries map[string]string
	deleted []string
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]string)}
}

func (c *mapCache) Get(ctx context.Context, key string) *redis.StringCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.entries[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (c *mapCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = string(value.([]byte))
	return redis.NewStatusResult("OK", nil)
}

func (c *mapCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
		c.deleted = append(c.deleted, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestQuery_InvalidateForgetsInFlightFetch(t *testing.T) {
	src := &countingSource{block: make(chan struct{})}
	q := NewQuery(src, nil, time.Minute)
	key := models.AvailabilityKey{BarberID: "b1", ServiceIDs: []string{"s1"}, Date: "2025-03-04"}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := q.Get(context.Background(), key); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}()

	// Let the first fetch get in flight, then supersede it.
	time.Sleep(50 * time.Millisecond)
	q.Invalidate(context.Background(), key)
	close(src.block)
	wg.Wait()

	src.block = nil
	if _, err := q.Get(context.Background(), key); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := atomic.LoadInt64(&src.calls); got != 2 {
		t.Fatalf("a fetch after Invalidate must not join the superseded one, got %d calls", got)
	}
}

func TestQuery_InvalidateDeletesCachedResult(t *testing.T) {
	src := &countingSource{}
	cache := newMapCache()
	q := NewQuery(src, cache, time.Minute)
	key := models.AvailabilityKey{BarberID: "b1", ServiceIDs: []string{"s1"}, Date: "2025-03-04"}

	if _, err := q.Get(context.Background(), key); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := q.Get(context.Background(), key); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := atomic.LoadInt64(&src.calls); got != 1 {
		t.Fatalf("second lookup must come from the cache, got %d fetches", got)
	}

	q.Invalidate(context.Background(), key)
	if len(cache.deleted) != 1 || cache.deleted[0] != key.String() {
		t.Fatalf("invalidate must delete the cached entry, deleted: %v", cache.deleted)
	}

	if _, err := q.Get(context.Background(), key); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := atomic.LoadInt64(&src.calls); got != 2 {
		t.Fatalf("a lookup after Invalidate must fetch again, got %d fetches", got)
	}
}

func TestQuery_LateFetchDoesNotRepopulateInvalidatedKey(t *testing.T) {
	src := &countingSource{block: make(chan struct{})}
	cache := newMapCache()
	q := NewQuery(src, cache, time.Minute)
	key := models.AvailabilityKey{BarberID: "b1", ServiceIDs: []string{"s1"}, Date: "2025-03-04"}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := q.Get(context.Background(), key); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}()

	time.Sleep(50 * time.Millisecond)
	q.Invalidate(context.Background(), key)
	close(src.block)
	wg.Wait()

	cache.mu.Lock()
	_, cached := cache.entries[key.String()]
	cache.mu.Unlock()
	if cached {
		t.Fatal("a fetch superseded while in flight must not write its result to the cache")
	}
}

func TestAvailabilityKey_CanonicalServiceOrder(t *testing.T) {
	a := models.AvailabilityKey{BarberID: "b1", ServiceIDs: []string{"s2", "s1"}, Date: "2025-03-04"}
	b := models.AvailabilityKey{BarberID: "b1", ServiceIDs: []string{"s1", "s2"}, Date: "2025-03-04"}
	if a.String() != b.String() {
		t.Fatalf("selection order must not produce distinct keys: %q vs %q", a.String(), b.String())
	}

	c := models.AvailabilityKey{BarberID: "b2", ServiceIDs: []string{"s1", "s2"}, Date: "2025-03-04"}
	if a.String() == c.String() {
		t.Fatal("different barbers must produce distinct keys")
	}
}

type fakeScheduleRepo struct {
	schedule *models.WeeklySchedule
}

func (r *fakeScheduleRepo) GetByBarberID(ctx context.Context, barberID string) (*models.WeeklySchedule, error) {
	if r.schedule == nil {
		return nil, mongo.ErrNoDocuments
	}
	return r.schedule, nil
}

func (r *fakeScheduleRepo) Upsert(ctx context.Context, schedule *models.WeeklySchedule) error {
	r.schedule = schedule
	return nil
}

func TestLocalSource_SplitsAvailableAndBooked(t *testing.T) {
	src := &LocalSource{
		Schedules: &fakeScheduleRepo{},
		Appointments: &stubAppointmentRepo{
			active: []models.Appointment{
				{ID: "a1", BarberID: "b1", Date: "2025-03-04", Start: 10 * 60, Status: models.StatusConfirmed},
			},
		},
		Now: func() time.Time { return time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC) },
	}

	day, err := src.FetchDayAvailability(context.Background(), "b1", []string{"s1"}, "2025-03-04")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if day.Date != "2025-03-04" {
		t.Fatalf("unexpected date %q", day.Date)
	}
	// Default pattern: 18 raw slots, 2 on break, 1 booked -> 15 offered.
	if len(day.AvailableSlots) != 15 {
		t.Fatalf("expected 15 available slots, got %d", len(day.AvailableSlots))
	}
	if len(day.BookedSlots) != 1 || day.BookedSlots[0].Start != 10*60 {
		t.Fatalf("expected one booked slot at 10:00, got %+v", day.BookedSlots)
	}
}

func TestLocalSource_EmptyDayForOffDay(t *testing.T) {
	sched := models.DefaultSchedule("b1")
	sched.OffDays = []string{"2025-03-04"}
	src := &LocalSource{
		Schedules:    &fakeScheduleRepo{schedule: sched},
		Appointments: &stubAppointmentRepo{},
		Now:          func() time.Time { return time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC) },
	}

	day, err := src.FetchDayAvailability(context.Background(), "b1", nil, "2025-03-04")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(day.AvailableSlots) != 0 || len(day.BookedSlots) != 0 {
		t.Fatalf("off-day must yield an empty answer: %+v", day)
	}
}

// stubAppointmentRepo implements the appointment repository surface the
// LocalSource touches; the rest is unused here.
type stubAppointmentRepo struct {
	active []models.Appointment
}

func (r *stubAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	return nil
}

func (r *stubAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	return nil, mongo.ErrNoDocuments
}

func (r *stubAppointmentRepo) GetActiveByBarberAndDate(ctx context.Context, barberID, date string) ([]models.Appointment, error) {
	return r.active, nil
}

func (r *stubAppointmentRepo) UpdateSchedule(ctx context.Context, id, date string, start int) error {
	return nil
}

func (r *stubAppointmentRepo) UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) error {
	return nil
}

func (r *stubAppointmentRepo) ListByCustomer(ctx context.Context, customerID, date string, startMinute int, upcoming bool, page, size int) ([]models.Appointment, int64, error) {
	return nil, 0, nil
}
