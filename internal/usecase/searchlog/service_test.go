package searchlog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domlog "github.com/kailas-cloud/dreamdex/internal/domain/searchlog"
)

// --- Mocks ---

type counterKey struct {
	query string
	day   string
}

type memRepo struct {
	mu      sync.Mutex
	wg      sync.WaitGroup
	entries map[counterKey]*domlog.Entry
	err     error
	block   chan struct{}
	ctxErr  error

	topDay domlog.Day
	topN   int
	top    []domlog.Entry
	topErr error
}

func newMemRepo(expectedWrites int) *memRepo {
	r := &memRepo{entries: make(map[counterKey]*domlog.Entry)}
	r.wg.Add(expectedWrites)
	return r
}

func (m *memRepo) Record(ctx context.Context, q string, day domlog.Day, clicks int64) error {
	defer m.wg.Done()
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			m.mu.Lock()
			m.ctxErr = ctx.Err()
			m.mu.Unlock()
			return ctx.Err()
		}
	}
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	k := counterKey{q, day.String()}
	e, ok := m.entries[k]
	if !ok {
		e = &domlog.Entry{Query: q, Day: day}
		m.entries[k] = e
	}
	e.Searches++
	e.Clicks += clicks
	return nil
}

func (m *memRepo) Top(_ context.Context, day domlog.Day, n int) ([]domlog.Entry, error) {
	m.topDay = day
	m.topN = n
	return m.top, m.topErr
}

func (m *memRepo) entry(q, day string) domlog.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[counterKey{q, day}]; ok {
		return *e
	}
	return domlog.Entry{}
}

type mockRecorder struct {
	mu       sync.Mutex
	statuses map[string]int
}

func (m *mockRecorder) ObserveLogWrite(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.statuses == nil {
		m.statuses = make(map[string]int)
	}
	m.statuses[status]++
}

func (m *mockRecorder) count(status string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statuses[status]
}

var fixedNow = time.Date(2026, 5, 1, 23, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, repo Repository, opts ...Option) *Service {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	svc, err := New(repo, nil, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close(time.Second) })
	return svc
}

func waitTimeout(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for writes")
	}
}

// --- Tests ---

func TestLog_SameQuerySameDay(t *testing.T) {
	repo := newMemRepo(2)
	rec := &mockRecorder{}
	svc := newTestService(t, repo, WithRecorder(rec))

	svc.Log(context.Background(), "뱀", "ua", 3)
	svc.Log(context.Background(), "뱀", "", 0)
	waitTimeout(t, &repo.wg)

	e := repo.entry("뱀", "2026-05-01")
	if e.Searches != 2 {
		t.Errorf("searches = %d, want 2", e.Searches)
	}
	if e.Clicks != 1 {
		t.Errorf("clicks = %d, want 1", e.Clicks)
	}
}

func TestLog_ClicksBounded(t *testing.T) {
	repo := newMemRepo(2)
	svc := newTestService(t, repo)

	svc.Log(context.Background(), "돼지", "", 10)
	svc.Log(context.Background(), "돼지", "", 1)
	waitTimeout(t, &repo.wg)

	if e := repo.entry("돼지", "2026-05-01"); e.Searches != 2 || e.Clicks != 2 {
		t.Errorf("entry = %+v, want searches 2 clicks 2", e)
	}
}

func TestLog_SurvivesCancelledRequest(t *testing.T) {
	repo := newMemRepo(1)
	svc := newTestService(t, repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc.Log(ctx, "용", "", 1)
	waitTimeout(t, &repo.wg)

	if e := repo.entry("용", "2026-05-01"); e.Searches != 1 {
		t.Errorf("write must not be cancelled with the request: %+v", e)
	}
}

func TestLog_DoesNotBlock(t *testing.T) {
	repo := newMemRepo(1)
	repo.block = make(chan struct{})
	svc := newTestService(t, repo)

	start := time.Now()
	svc.Log(context.Background(), "뱀", "", 1)
	if time.Since(start) > 500*time.Millisecond {
		t.Error("Log must return without waiting for the write")
	}
	close(repo.block)
	waitTimeout(t, &repo.wg)
}

func TestLog_ErrorsSwallowed(t *testing.T) {
	repo := newMemRepo(1)
	repo.err = errors.New("store down")
	rec := &mockRecorder{}
	svc := newTestService(t, repo, WithRecorder(rec))

	svc.Log(context.Background(), "뱀", "", 1)
	waitTimeout(t, &repo.wg)

	deadline := time.Now().Add(2 * time.Second)
	for rec.count(StatusError) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if rec.count(StatusError) != 1 {
		t.Errorf("error writes = %d, want 1", rec.count(StatusError))
	}
}

func TestLog_WriteTimeout(t *testing.T) {
	repo := newMemRepo(1)
	repo.block = make(chan struct{})
	defer close(repo.block)
	svc := newTestService(t, repo, WithWriteTimeout(20*time.Millisecond))

	svc.Log(context.Background(), "뱀", "", 1)
	waitTimeout(t, &repo.wg)

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if !errors.Is(repo.ctxErr, context.DeadlineExceeded) {
		t.Errorf("ctx err = %v, want deadline exceeded", repo.ctxErr)
	}
}

func TestLog_OverloadDrops(t *testing.T) {
	repo := newMemRepo(1)
	repo.block = make(chan struct{})
	rec := &mockRecorder{}
	svc := newTestService(t, repo, WithPoolSize(1), WithRecorder(rec))

	svc.Log(context.Background(), "a", "", 1) // occupies the only worker
	svc.Log(context.Background(), "b", "", 1) // pool full, dropped

	if rec.count(StatusDropped) != 1 {
		t.Errorf("dropped = %d, want 1", rec.count(StatusDropped))
	}
	close(repo.block)
	waitTimeout(t, &repo.wg)
}

func TestLog_AfterClose(t *testing.T) {
	repo := newMemRepo(0)
	rec := &mockRecorder{}
	svc := newTestService(t, repo, WithRecorder(rec))

	if err := svc.HealthCheck(context.Background()); err != nil {
		t.Fatalf("open logger should be healthy: %v", err)
	}
	if err := svc.Close(time.Second); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := svc.Close(time.Second); err != nil {
		t.Fatalf("second Close must be a no-op: %v", err)
	}

	svc.Log(context.Background(), "뱀", "", 1)
	if rec.count(StatusDropped) != 1 {
		t.Errorf("write after close should be dropped")
	}
	if !errors.Is(svc.HealthCheck(context.Background()), ErrClosed) {
		t.Error("closed logger must fail health check")
	}
}

func TestTrending_Defaults(t *testing.T) {
	repo := newMemRepo(0)
	repo.top = []domlog.Entry{{Query: "뱀", Searches: 5}}
	svc := newTestService(t, repo)

	got, err := svc.Trending(context.Background(), domlog.Day{}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Query != "뱀" {
		t.Errorf("got %+v", got)
	}
	if repo.topDay.String() != "2026-05-01" || repo.topN != DefaultTrendingN {
		t.Errorf("Top called with %s/%d", repo.topDay, repo.topN)
	}

	if _, err = svc.Trending(context.Background(), domlog.DayOf(fixedNow), 500); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.topN != MaxTrendingN {
		t.Errorf("n = %d, want capped %d", repo.topN, MaxTrendingN)
	}
}

func TestTrending_Error(t *testing.T) {
	repo := newMemRepo(0)
	repo.topErr = errors.New("boom")
	svc := newTestService(t, repo)

	if _, err := svc.Trending(context.Background(), domlog.Day{}, 5); err == nil {
		t.Fatal("expected error")
	}
}
