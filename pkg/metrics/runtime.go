package metrics

import (
	"context"
	"runtime"
	"time"
)

// RuntimeCollector exports Go runtime and uptime gauges.
type RuntimeCollector struct {
	started    time.Time
	uptime     *Gauge
	goroutines *Gauge
	heapAlloc  *Gauge
	heapObject *Gauge
	gcCycles   *Gauge
}

// NewRuntimeCollector registers the runtime gauges on r.
func NewRuntimeCollector(r *Registry) *RuntimeCollector {
	rc := &RuntimeCollector{
		started:    time.Now(),
		uptime:     r.NewGauge("koenote_uptime_seconds", "Process uptime in seconds"),
		goroutines: r.NewGauge("go_goroutines", "Number of goroutines that currently exist"),
		heapAlloc:  r.NewGauge("go_memstats_heap_alloc_bytes", "Number of heap bytes allocated and still in use"),
		heapObject: r.NewGauge("go_memstats_heap_objects", "Number of allocated heap objects"),
		gcCycles:   r.NewGauge("go_gc_cycles_total", "Total number of completed GC cycles"),
	}
	info := r.NewGauge("go_info", "Information about the Go environment", "version")
	if vec, err := info.WithLabels(runtime.Version()); err == nil {
		vec.Set(1)
	}
	return rc
}

// Collect refreshes every gauge.
func (rc *RuntimeCollector) Collect() {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	_ = rc.uptime.Set(time.Since(rc.started).Seconds())
	_ = rc.goroutines.Set(float64(runtime.NumGoroutine()))
	_ = rc.heapAlloc.Set(float64(mem.HeapAlloc))
	_ = rc.heapObject.Set(float64(mem.HeapObjects))
	_ = rc.gcCycles.Set(float64(mem.NumGC))
}

// Run collects immediately and then every interval until ctx is done.
func (rc *RuntimeCollector) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	rc.Collect()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rc.Collect()
		}
	}
}
