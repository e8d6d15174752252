// README: Smoke test cases for the planner API; session flow, lookups, and a perf check.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	redis *redis.Client
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 30 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-7s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.redis != nil {
		_ = r.redis.Close()
	}
	return results
}

func (r *Runner) cases() []TestCase {
	return []TestCase{
		{"health", runHealth},
		{"session lifecycle", runSessionLifecycle},
		{"click and route", runClickAndRoute},
		{"share round trip", runShareRoundTrip},
		{"geocode search", runGeocodeSearch},
		{"redis ping", runRedisPing},
		{"session create perf", runCreatePerf},
	}
}

// snapshot mirrors the subset of the session response the bench asserts on.
type snapshot struct {
	ID    string `json:"id"`
	Role  string `json:"role"`
	Mode  string `json:"mode"`
	Start *struct {
		Label string `json:"label"`
	} `json:"start"`
	Route struct {
		State string `json:"state"`
	} `json:"route"`
}

func runHealth(ctx context.Context, r *Runner) Result {
	start := time.Now()
	status, _, err := r.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return Result{Status: "FAIL", Note: err.Error()}
	}
	if status != http.StatusOK {
		return Result{Status: "FAIL", Note: fmt.Sprintf("status %d", status)}
	}
	return Result{Status: "PASS", Latency: time.Since(start)}
}

func runSessionLifecycle(ctx context.Context, r *Runner) Result {
	start := time.Now()
	snap, err := r.createSession(ctx, "")
	if err != nil {
		return Result{Status: "FAIL", Note: err.Error()}
	}
	if snap.Role != "start" || snap.Mode != "driving" {
		return Result{Status: "FAIL", Note: fmt.Sprintf("bad defaults: role=%s mode=%s", snap.Role, snap.Mode)}
	}

	status, _, err := r.do(ctx, http.MethodDelete, "/api/trips/"+snap.ID, nil)
	if err != nil || status != http.StatusNoContent {
		return Result{Status: "FAIL", Note: fmt.Sprintf("delete: %v status=%d", err, status)}
	}
	status, _, err = r.do(ctx, http.MethodGet, "/api/trips/"+snap.ID, nil)
	if err != nil || status != http.StatusNotFound {
		return Result{Status: "FAIL", Note: fmt.Sprintf("get after delete: %v status=%d", err, status)}
	}
	return Result{Status: "PASS", Latency: time.Since(start)}
}

func runClickAndRoute(ctx context.Context, r *Runner) Result {
	start := time.Now()
	snap, err := r.createSession(ctx, "")
	if err != nil {
		return Result{Status: "FAIL", Note: err.Error()}
	}
	defer r.deleteSession(snap.ID)

	// Two clicks around central Paris.
	got, err := r.click(ctx, snap.ID, 48.8566, 2.3522)
	if err != nil {
		return Result{Status: "FAIL", Note: err.Error()}
	}
	if got.Start == nil || got.Start.Label == "" {
		return Result{Status: "FAIL", Note: "start has no label"}
	}
	got, err = r.click(ctx, snap.ID, 48.8606, 2.3376)
	if err != nil {
		return Result{Status: "FAIL", Note: err.Error()}
	}
	// Live routing may legitimately fail; only idle/requesting are wrong here.
	if got.Route.State != "displayed" && got.Route.State != "error" {
		return Result{Status: "FAIL", Note: "route state " + got.Route.State}
	}
	return Result{Status: "PASS", Latency: time.Since(start), Note: "route " + got.Route.State}
}

func runShareRoundTrip(ctx context.Context, r *Runner) Result {
	start := time.Now()
	snap, err := r.createSession(ctx, "")
	if err != nil {
		return Result{Status: "FAIL", Note: err.Error()}
	}
	defer r.deleteSession(snap.ID)

	if _, err := r.click(ctx, snap.ID, 48.8566, 2.3522); err != nil {
		return Result{Status: "FAIL", Note: err.Error()}
	}
	status, body, err := r.do(ctx, http.MethodGet, "/api/trips/"+snap.ID+"/share", nil)
	if err != nil || status != http.StatusOK {
		return Result{Status: "FAIL", Note: fmt.Sprintf("share: %v status=%d", err, status)}
	}
	var shareResp struct {
		Share string `json:"share"`
	}
	if err := json.Unmarshal(body, &shareResp); err != nil || shareResp.Share == "" {
		return Result{Status: "FAIL", Note: "empty share"}
	}

	restored, err := r.createSession(ctx, shareResp.Share)
	if err != nil {
		return Result{Status: "FAIL", Note: err.Error()}
	}
	defer r.deleteSession(restored.ID)
	if restored.Start == nil {
		return Result{Status: "FAIL", Note: "share did not hydrate start"}
	}
	return Result{Status: "PASS", Latency: time.Since(start)}
}

func runGeocodeSearch(ctx context.Context, r *Runner) Result {
	start := time.Now()
	status, body, err := r.do(ctx, http.MethodGet, "/api/geocode?q=Paris", nil)
	if err != nil {
		return Result{Status: "FAIL", Note: err.Error()}
	}
	if status != http.StatusOK {
		return Result{Status: "FAIL", Note: fmt.Sprintf("status %d", status)}
	}
	var resp struct {
		Places []json.RawMessage `json:"places"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return Result{Status: "FAIL", Note: err.Error()}
	}
	return Result{Status: "PASS", Latency: time.Since(start), Note: fmt.Sprintf("%d places", len(resp.Places))}
}

func runRedisPing(ctx context.Context, r *Runner) Result {
	if r.redis == nil {
		return Result{Status: "SKIP", Note: "no redis configured"}
	}
	start := time.Now()
	if err := r.redis.Ping(ctx).Err(); err != nil {
		return Result{Status: "FAIL", Note: err.Error()}
	}
	return Result{Status: "PASS", Latency: time.Since(start)}
}

func runCreatePerf(ctx context.Context, r *Runner) Result {
	var ok, failed int64
	var wg sync.WaitGroup
	deadline := time.Now().Add(r.cfg.Duration)
	start := time.Now()

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(deadline) {
				snap, err := r.createSession(ctx, "")
				if err != nil {
					atomic.AddInt64(&failed, 1)
					continue
				}
				r.deleteSession(snap.ID)
				atomic.AddInt64(&ok, 1)
			}
		}()
	}
	wg.Wait()

	if ok == 0 {
		return Result{Status: "FAIL", Note: "no successful creates"}
	}
	rate := float64(ok) / time.Since(start).Seconds()
	return Result{
		Status:  "PASS",
		Latency: time.Since(start),
		Note:    fmt.Sprintf("%.0f creates/s, %d failed", rate, failed),
	}
}

func (r *Runner) createSession(ctx context.Context, share string) (*snapshot, error) {
	payload := map[string]string{}
	if share != "" {
		payload["share"] = share
	}
	status, body, err := r.do(ctx, http.MethodPost, "/api/trips", payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusCreated {
		return nil, fmt.Errorf("create: status %d", status)
	}
	var snap snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	return &snap, nil
}

func (r *Runner) click(ctx context.Context, id string, lat, lng float64) (*snapshot, error) {
	status, body, err := r.do(ctx, http.MethodPost, "/api/trips/"+id+"/click", map[string]float64{"lat": lat, "lng": lng})
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("click: status %d", status)
	}
	var snap snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("click: %w", err)
	}
	return &snap, nil
}

func (r *Runner) deleteSession(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, _, _ = r.do(ctx, http.MethodDelete, "/api/trips/"+id, nil)
}

func (r *Runner) do(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		reqBody = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.cfg.BaseURL+path, reqBody)
	if err != nil {
		return 0, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}
