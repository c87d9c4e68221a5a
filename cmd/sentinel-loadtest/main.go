package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	goSentinel "github.com/MrEthical07/goSentinel"
	"github.com/MrEthical07/goSentinel/metrics/export/prometheus"
	"github.com/MrEthical07/goSentinel/mirror"
)

func main() {
	var (
		constants   = flag.Int("constants", 10000, "number of constants to create")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "operations per phase")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		configPath  = flag.String("config", "", "optional TOML registry configuration")
		showMetrics = flag.Bool("metrics", false, "print Prometheus metrics of the receiving registry")
		verbose     = flag.Bool("v", false, "log registry events")
	)
	flag.Parse()

	if *constants <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "constants, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	logger := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "logger: %v\n", err)
			os.Exit(1)
		}
		logger = l
	}
	defer func() { _ = logger.Sync() }()

	cfg := goSentinel.DefaultConfig()
	if *configPath != "" {
		loaded, err := goSentinel.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	cfg.Metrics.Enabled = true
	cfg.Metrics.EnableLatencyHistograms = true

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
		client = redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	build := func() *goSentinel.Registry {
		store := mirror.NewStore(client, mirror.Config{Prefix: cfg.Mirror.Prefix}, logger)
		r, err := goSentinel.New().
			WithConfig(cfg).
			WithLogger(logger).
			WithMirror(store).
			Build()
		if err != nil {
			fmt.Fprintf(os.Stderr, "build registry: %v\n", err)
			os.Exit(1)
		}
		return r
	}
	sender := build()
	defer sender.Close()
	receiver := build()
	defer receiver.Close()

	names := make([]string, *constants)
	for i := range names {
		names[i] = fmt.Sprintf("LOADTEST_%d", i)
	}

	createStats := runPhase(*ops, *concurrency, len(names), func(idx int) error {
		c, err := sender.GetOrCreate(names[idx])
		if err != nil {
			return err
		}
		_, err = c.Bytes()
		return err
	})

	keys := make([][]byte, len(names))
	for i, name := range names {
		raw, err := sender.MustGet(name).Bytes()
		if err != nil {
			raw = sender.MustGet(name).DefaultKey().Bytes()
		}
		keys[i] = raw
	}

	resolveStats := runPhase(*ops, *concurrency, len(keys), func(idx int) error {
		res, err := sender.Resolve(keys[idx])
		if err != nil {
			return err
		}
		if !res.IsConstant() {
			return fmt.Errorf("key %d did not resolve", idx)
		}
		return nil
	})

	startPublish := time.Now()
	if err := sender.PublishDefaults(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "publish defaults: %v\n", err)
	}
	fmt.Printf("published %d defaults in %s\n", len(keys), time.Since(startPublish).Round(time.Millisecond))

	mirrorStats := runPhase(*ops, *concurrency, len(keys), func(idx int) error {
		res, err := receiver.ResolveContext(ctx, keys[idx])
		if err != nil {
			return err
		}
		if !res.IsConstant() {
			return fmt.Errorf("key %d did not resolve through the mirror", idx)
		}
		return nil
	})

	fmt.Println("---- results ----")
	printStats("create+materialize", createStats)
	printStats("resolve", resolveStats)
	printStats("mirror-resolve", mirrorStats)
	fmt.Printf("receiver constants=%d\n", receiver.Len())

	if *showMetrics {
		fmt.Println("---- receiver metrics ----")
		fmt.Print(prometheus.NewExporter(receiver).Render())
	}
}

func runPhase(ops, concurrency, keyspace int, op func(idx int) error) phaseStats {
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
				idx := r.Intn(keyspace)
				t0 := time.Now()
				err := op(idx)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
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
	slices.Sort(samples)
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

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	return samples[(len(samples)-1)*p/100]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
