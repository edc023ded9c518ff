// README: Smoke cases for the trip-cost API plus store connectivity and a recalculate load check.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	StatusPass = "PASS"
	StatusFail = "FAIL"
	StatusSkip = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) (*Runner, error) {
	// the saved-trip list is keyed by the client cookie
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second, Jar: jar},
	}, nil
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
			defer db.Close()
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
		defer r.redis.Close()
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))
	for _, tc := range tests {
		res := tc.Run(ctx, r)
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}
	return results
}

// Obelisco -> Plaza Moreno, La Plata.
var sampleParams = map[string]any{
	"origin":      map[string]float64{"lat": -34.6037, "lng": -58.3816},
	"destination": map[string]float64{"lat": -34.9214, "lng": -57.9545},
	"brand":       "Toyota",
	"model":       "Corolla 2.0",
	"fuel_price":  1000,
	"passengers":  3,
}

var sampleRoute = map[string]any{
	"base_distance_km":      58.4,
	"base_duration_seconds": 3120,
	"base_toll_cost":        500,
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		{
			Name: "Env: Postgres connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: StatusSkip, Note: "dsn not set"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.db.Ping(ctx); err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				var exists bool
				err := r.db.QueryRow(ctx,
					"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
					"saved_trip_lists",
				).Scan(&exists)
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				if !exists {
					return Result{Status: StatusFail, Note: "missing table: saved_trip_lists"}
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "Env: Redis connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: StatusSkip, Note: "redis not set"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				return Result{Status: StatusPass}
			},
		},

		httpCase("API: health", http.MethodGet, base+"/health", nil, http.StatusOK),
		httpCase("API: metrics", http.MethodGet, base+"/metrics", nil, http.StatusOK),
		httpCase("API: vehicles", http.MethodGet, base+"/api/vehicles", nil, http.StatusOK),
		httpCase("API: page renders", http.MethodGet, base+"/", nil, http.StatusOK),

		// Validation happens before any Google call.
		httpCase("Trip: same location -> 400", http.MethodPost, base+"/api/trips/calculate", map[string]any{
			"origin":      map[string]float64{"lat": -34.6037, "lng": -58.3816},
			"destination": map[string]float64{"lat": -34.60371, "lng": -58.38161},
			"consumption": 8,
		}, http.StatusBadRequest),
		httpCase("Trip: missing endpoints -> 400", http.MethodPost, base+"/api/trips/calculate", map[string]any{
			"consumption": 8,
		}, http.StatusBadRequest),
		httpCase("Trip: recalculate", http.MethodPost, base+"/api/trips/recalculate", map[string]any{
			"params": sampleParams,
			"route":  sampleRoute,
		}, http.StatusOK),
		{
			Name: "Trip: calculate (live)",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.Live {
					return Result{Status: StatusSkip, Note: "live=false"}
				}
				return r.do(ctx, http.MethodPost, base+"/api/trips/calculate", sampleParams, http.StatusOK)
			},
		},

		{
			Name: "Saved trips: create, list, delete",
			Run: func(ctx context.Context, r *Runner) Result {
				return savedTripRoundTrip(ctx, r, base+"/api/saved-trips")
			},
		},
		httpCase("Saved trips: unknown id -> 404", http.MethodGet, base+"/api/saved-trips/does-not-exist", nil, http.StatusNotFound),

		{
			Name: "Load: recalculate",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base+"/api/trips/recalculate", map[string]any{
					"params": sampleParams,
					"route":  sampleRoute,
				})
			},
		},
	}
}

func httpCase(name, method, url string, body any, want int) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			return r.do(ctx, method, url, body, want)
		},
	}
}

func (r *Runner) do(ctx context.Context, method, url string, body any, want int) Result {
	start := time.Now()
	status, _, err := r.send(ctx, method, url, body)
	latency := time.Since(start)
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	if status != want {
		return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("status=%d want=%d", status, want)}
	}
	return Result{Status: StatusPass, Latency: latency, Note: fmt.Sprintf("status=%d", status)}
}

func (r *Runner) send(ctx context.Context, method, url string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	return resp.StatusCode, b, err
}

func savedTripRoundTrip(ctx context.Context, r *Runner, url string) Result {
	start := time.Now()
	status, b, err := r.send(ctx, http.MethodPost, url, map[string]any{
		"name":   "bench",
		"params": sampleParams,
	})
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	if status != http.StatusCreated {
		return Result{Status: StatusFail, Note: fmt.Sprintf("create status=%d", status)}
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(b, &created); err != nil || created.ID == "" {
		return Result{Status: StatusFail, Note: "create returned no id"}
	}

	status, b, err = r.send(ctx, http.MethodGet, url, nil)
	if err != nil || status != http.StatusOK {
		return Result{Status: StatusFail, Note: fmt.Sprintf("list status=%d err=%v", status, err)}
	}
	var list struct {
		Trips []struct {
			ID string `json:"id"`
		} `json:"trips"`
	}
	if err := json.Unmarshal(b, &list); err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	if len(list.Trips) == 0 || list.Trips[0].ID != created.ID {
		return Result{Status: StatusFail, Note: "new trip is not first in the list"}
	}

	status, _, err = r.send(ctx, http.MethodDelete, url+"/"+created.ID, nil)
	if err != nil || status != http.StatusNoContent {
		return Result{Status: StatusFail, Note: fmt.Sprintf("delete status=%d err=%v", status, err)}
	}
	return Result{Status: StatusPass, Latency: time.Since(start)}
}

func perfLoad(ctx context.Context, r *Runner, url string, payload any) Result {
	b, err := json.Marshal(payload)
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount, limited atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
				req.Header.Set("Content-Type", "application/json")
				resp, err := r.httpc.Do(req)
				if err != nil {
					errCount.Add(1)
					continue
				}
				_, _ = io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				switch {
				case resp.StatusCode == http.StatusTooManyRequests:
					limited.Add(1)
				case resp.StatusCode != http.StatusOK:
					errCount.Add(1)
				default:
					count.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	if count.Load() == 0 {
		return Result{Status: StatusFail, Note: "no requests completed"}
	}
	rps := float64(count.Load()) / r.cfg.Duration.Seconds()
	return Result{Status: StatusPass, Note: fmt.Sprintf("rps=%.1f errors=%d limited=%d", rps, errCount.Load(), limited.Load())}
}
