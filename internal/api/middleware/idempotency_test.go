package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ssg-mis/dispatch-api/internal/domain"
	"github.com/ssg-mis/dispatch-api/internal/repository"
)

type fakeKeyRepo struct {
	mu   sync.Mutex
	keys map[string]*domain.IdempotencyKey
}

func (r *fakeKeyRepo) GetByKey(ctx context.Context, key string) (*domain.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if k, ok := r.keys[key]; ok {
		return k, nil
	}
	return nil, nil
}

func (r *fakeKeyRepo) Create(ctx context.Context, key *domain.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.keys == nil {
		r.keys = make(map[string]*domain.IdempotencyKey)
	}
	r.keys[key.Key] = key
	return nil
}

func (r *fakeKeyRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.keys)
}

// newIdempotentRouter wires the middleware in front of a handler that fails
// until succeedAfter calls have been made, then succeeds and records the key
// the way the submit handlers do.
func newIdempotentRouter(repo *fakeKeyRepo, succeedAfter int, calls *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	repos := &repository.Repositories{IdempotencyKey: repo}

	r := gin.New()
	r.Use(IdempotencyMiddleware(repos, zap.NewNop()))
	r.POST("/submit", func(c *gin.Context) {
		*calls++
		if *calls <= succeedAfter {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": "validation failed"})
			return
		}
		if key, hash := GetIdempotencyInfo(c); key != "" {
			repo.Create(c.Request.Context(), &domain.IdempotencyKey{Key: key, RequestHash: hash})
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return r
}

func postWithKey(r *gin.Engine, key, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/submit", bytes.NewBufferString(body))
	req.Header.Set(IdempotencyKeyHeader, key)
	r.ServeHTTP(w, req)
	return w
}

func TestFailedSubmissionDoesNotConsumeKey(t *testing.T) {
	repo := &fakeKeyRepo{}
	var calls int
	r := newIdempotentRouter(repo, 1, &calls)

	// First attempt fails; the key must stay unconsumed
	if w := postWithKey(r, "key-1", `{"line_ids":[]}`); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("first attempt status = %d, want 422", w.Code)
	}
	if repo.count() != 0 {
		t.Fatal("failed submission stored the idempotency key")
	}

	// Retry with the same key and payload runs the handler again and succeeds
	if w := postWithKey(r, "key-1", `{"line_ids":[]}`); w.Code != http.StatusOK {
		t.Fatalf("retry status = %d, want 200", w.Code)
	}
	if calls != 2 {
		t.Errorf("handler ran %d times, want 2", calls)
	}
	if repo.count() != 1 {
		t.Errorf("successful retry did not store the key")
	}
}

func TestReplayAfterSuccessShortCircuits(t *testing.T) {
	repo := &fakeKeyRepo{}
	var calls int
	r := newIdempotentRouter(repo, 0, &calls)

	if w := postWithKey(r, "key-2", `{"line_ids":["a"]}`); w.Code != http.StatusOK {
		t.Fatalf("first attempt status = %d, want 200", w.Code)
	}

	w := postWithKey(r, "key-2", `{"line_ids":["a"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("replay status = %d, want 200", w.Code)
	}
	if calls != 1 {
		t.Errorf("handler ran %d times, want 1 (replay must not re-run the batch)", calls)
	}
}

func TestSameKeyDifferentPayloadIsConflict(t *testing.T) {
	repo := &fakeKeyRepo{}
	var calls int
	r := newIdempotentRouter(repo, 0, &calls)

	if w := postWithKey(r, "key-3", `{"line_ids":["a"]}`); w.Code != http.StatusOK {
		t.Fatalf("first attempt status = %d, want 200", w.Code)
	}

	if w := postWithKey(r, "key-3", `{"line_ids":["b"]}`); w.Code != http.StatusConflict {
		t.Errorf("different payload status = %d, want 409", w.Code)
	}
}

func TestNoKeyPassesThrough(t *testing.T) {
	repo := &fakeKeyRepo{}
	var calls int
	r := newIdempotentRouter(repo, 0, &calls)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/submit", bytes.NewBufferString(`{}`))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK || calls != 1 {
		t.Errorf("keyless request: status = %d, calls = %d", w.Code, calls)
	}
	if repo.count() != 0 {
		t.Errorf("keyless request stored a key")
	}
}
