package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/dairy-pos/internal/config"
	"github.com/sangkips/dairy-pos/internal/domain/entity"
	"github.com/sangkips/dairy-pos/pkg/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memKeys struct {
	mu   sync.Mutex
	rows map[string]entity.IdempotencyKey
}

func (m *memKeys) GetByKey(_ context.Context, key, scope string) (*entity.IdempotencyKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, ok := m.rows[scope+"|"+key]
	if !ok {
		return nil, nil
	}
	return &k, nil
}

func (m *memKeys) Create(_ context.Context, k *entity.IdempotencyKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[k.Scope+"|"+k.Key] = *k
	return nil
}

func (m *memKeys) DeleteExpired(context.Context) (int64, error) { return 0, nil }

func post(r http.Handler, key, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/bills", nil)
	req.RemoteAddr = ip + ":5000"
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotencyReplaysCreatedBill(t *testing.T) {
	keys := &memKeys{rows: map[string]entity.IdempotencyKey{}}
	calls := 0
	r := gin.New()
	r.POST("/bills", Idempotency(IdempotencyConfig{Repo: keys}), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"invoice_no": calls})
	})

	first := post(r, "abc", "10.0.0.1")
	second := post(r, "abc", "10.0.0.1")
	if calls != 1 {
		t.Fatalf("handler ran %d times, want 1", calls)
	}
	if second.Code != http.StatusCreated || second.Body.String() != first.Body.String() {
		t.Errorf("replay = %d %s, want %d %s", second.Code, second.Body, first.Code, first.Body)
	}
	if second.Header().Get("X-Idempotency-Replayed") != "true" {
		t.Error("replayed response is not marked")
	}

	// another till may reuse the same key
	post(r, "abc", "10.0.0.2")
	post(r, "", "10.0.0.1")
	if calls != 3 {
		t.Errorf("handler ran %d times, want 3", calls)
	}
}

func TestIdempotencyReusesExpiredKey(t *testing.T) {
	keys := &memKeys{rows: map[string]entity.IdempotencyKey{
		"10.0.0.1|abc": {
			Key: "abc", Scope: "10.0.0.1", ResponseCode: http.StatusCreated,
			ResponseBody: `{"invoice_no":0}`, ExpiresAt: time.Now().Add(-time.Minute),
		},
	}}
	calls := 0
	r := gin.New()
	r.POST("/bills", Idempotency(IdempotencyConfig{Repo: keys}), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"invoice_no": calls})
	})

	first := post(r, "abc", "10.0.0.1")
	if first.Body.String() != `{"invoice_no":1}` {
		t.Fatalf("body = %s, want a fresh bill", first.Body)
	}
	second := post(r, "abc", "10.0.0.1")
	if calls != 1 || second.Body.String() != first.Body.String() {
		t.Errorf("calls = %d replay = %s, want 1 and %s", calls, second.Body, first.Body)
	}
	if stored := keys.rows["10.0.0.1|abc"]; !stored.ExpiresAt.After(time.Now()) {
		t.Errorf("stored key expires %v, want a renewed expiry", stored.ExpiresAt)
	}
}

func TestIdempotencySkipsFailures(t *testing.T) {
	keys := &memKeys{rows: map[string]entity.IdempotencyKey{}}
	calls := 0
	r := gin.New()
	r.POST("/bills", Idempotency(IdempotencyConfig{Repo: keys}), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusBadRequest, gin.H{"message": "Insufficient stock for: Paneer"})
	})

	post(r, "retry-me", "10.0.0.1")
	post(r, "retry-me", "10.0.0.1")
	if calls != 2 || len(keys.rows) != 0 {
		t.Errorf("calls = %d stored = %d, want 2 and 0", calls, len(keys.rows))
	}
}

func TestRateLimiterPerClient(t *testing.T) {
	rl := NewClientRateLimiter(RateLimiterConfig{
		RequestsPerSecond: 0.001,
		BurstSize:         2,
		CleanupInterval:   time.Hour,
		EntryTTL:          time.Minute,
	})
	defer rl.Close()

	r := gin.New()
	r.Use(rl.Middleware())
	r.POST("/bills", func(c *gin.Context) { c.Status(http.StatusOK) })

	var codes []int
	for i := 0; i < 3; i++ {
		codes = append(codes, post(r, "", "10.0.0.1").Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want 200 200 429", codes)
	}
	if got := post(r, "", "10.0.0.9").Code; got != http.StatusOK {
		t.Errorf("second client = %d, want 200", got)
	}

	if rl.ActiveClients() != 2 {
		t.Errorf("active = %d, want 2", rl.ActiveClients())
	}
	rl.cleanup(time.Now().Add(2 * time.Minute))
	if rl.ActiveClients() != 0 {
		t.Errorf("active after cleanup = %d, want 0", rl.ActiveClients())
	}
}

func TestRateLimiterConfigFrom(t *testing.T) {
	cfg := RateLimiterConfigFrom(config.RateLimitConfig{Requests: 120, Duration: 60})
	if cfg.RequestsPerSecond != 2 || cfg.BurstSize != 120 {
		t.Errorf("cfg = %+v", cfg)
	}
	if def := RateLimiterConfigFrom(config.RateLimitConfig{}); def != DefaultRateLimiterConfig() {
		t.Errorf("zero config = %+v, want defaults", def)
	}
}

func TestLoggerAssignsRequestID(t *testing.T) {
	m := metrics.New("test")
	r := gin.New()
	r.Use(LoggerMiddleware(nil), MetricsMiddleware(m))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	id := w.Header().Get(RequestIDHeader)
	if id == "" || w.Body.String() != id {
		t.Errorf("request id header %q, body %q", id, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "till-7")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "till-7" {
		t.Errorf("incoming request id was not kept: %q", w.Body.String())
	}

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "test_http_requests_total" {
			found = true
		}
	}
	if !found {
		t.Error("request counter was not recorded")
	}
}
