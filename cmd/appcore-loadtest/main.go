// Command appcore-loadtest measures the hot paths of the session core:
// persisted-session restore (Redis round trip plus binary decode) and route
// gating. It seeds N sessions, then runs two phases over random client
// contexts and reports latency percentiles.
//
// Without -redis-addr (or REDIS_ADDR) it runs against an embedded
// miniredis, which measures codec and library overhead rather than network
// latency.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/perchapps/appcore/routegate"
	"github.com/perchapps/appcore/session"
)

func main() {
	var (
		sessions    = flag.Int("sessions", 100000, "number of sessions to seed")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "operations per phase (restore + decide)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "appcore", "session key prefix")
	)
	flag.Parse()

	if *sessions <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "sessions, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	store, err := session.NewStore(client, *prefix)
	if err != nil {
		fmt.Fprintf(os.Stderr, "store init failed: %v\n", err)
		os.Exit(1)
	}

	gate, err := routegate.NewGate(routegate.Config{
		Public: []string{"/login", "/signup", "/auth/reset-password"},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "gate init failed: %v\n", err)
		os.Exit(1)
	}

	clientIDs := make([]string, *sessions)
	fmt.Printf("seeding %d sessions...\n", *sessions)
	startSeed := time.Now()
	now := time.Now()
	for i := 0; i < *sessions; i++ {
		clientIDs[i] = fmt.Sprintf("client-%d", i)
		s := &session.Session{
			ID:          uuid.NewString(),
			AccessToken: fmt.Sprintf("token-%d-%s", i, uuid.NewString()),
			UserID:      uuid.NewString(),
			Email:       fmt.Sprintf("user%d@example.com", i),
			CreatedAt:   now.Unix(),
			ExpiresAt:   now.Add(24 * time.Hour).Unix(),
		}
		if err := store.Save(ctx, clientIDs[i], s); err != nil {
			fmt.Fprintf(os.Stderr, "save failed: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	restoreStats := runRestorePhase(ctx, store, clientIDs, *ops, *concurrency)
	decideStats := runDecidePhase(gate, *ops, *concurrency)

	fmt.Println("---- results ----")
	printStats("restore", restoreStats)
	printStats("decide", decideStats)
}

func runRestorePhase(ctx context.Context, store *session.Store, clientIDs []string, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				id := clientIDs[r.Intn(len(clientIDs))]
				t0 := time.Now()
				s, err := store.Load(ctx, id)
				d := time.Since(t0)
				if err != nil || s == nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

func runDecidePhase(gate *routegate.Gate, ops, concurrency int) phaseStats {
	paths := []string{
		"/", "/dashboard", "/login", "/signup", "/auth/reset-password",
		"/auth/reset-password/abc123", "/diary/today", "/static/app.css",
		"/api/progress", "/loginx",
	}

	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*6151))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				path := paths[r.Intn(len(paths))]
				authed := r.Intn(2) == 0
				t0 := time.Now()
				_ = gate.Decide(path, authed)
				d := time.Since(t0)
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := (len(sorted)*p + 99) / 100
	if idx <= 0 {
		idx = 1
	}
	if idx > len(sorted) {
		idx = len(sorted)
	}
	return sorted[idx-1]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%-8s ops=%d failures=%d total=%s ops/s=%.0f p50=%s p95=%s p99=%s\n",
		name, s.ops, s.failures, s.total.Round(time.Millisecond), s.opsPerS,
		s.p50, s.p95, s.p99)
}
