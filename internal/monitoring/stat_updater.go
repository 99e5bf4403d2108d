package monitoring

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostStats is a point-in-time sample of the machine serving the API.
type HostStats struct {
	CPUPercent    float64   `json:"cpuPercent"`
	MemoryPercent float64   `json:"memoryPercent"`
	DiskPercent   float64   `json:"diskPercent"`
	UptimeSeconds uint64    `json:"uptimeSeconds"`
	SampledAt     time.Time `json:"sampledAt"`
}

// SampleFunc collects one HostStats sample.
type SampleFunc func(ctx context.Context) (HostStats, error)

// StatUpdater periodically samples host stats and keeps the latest one.
type StatUpdater struct {
	sample   SampleFunc
	interval time.Duration

	mu     sync.RWMutex
	latest HostStats
	ok     bool

	lastCPUAlert time.Time
	done         chan struct{}
	stopOnce     sync.Once
}

// NewStatUpdater creates a StatUpdater. A nil sample uses SampleHost.
func NewStatUpdater(sample SampleFunc, interval time.Duration) *StatUpdater {
	if sample == nil {
		sample = SampleHost
	}
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &StatUpdater{
		sample:   sample,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Run starts the periodic updates.
func (su *StatUpdater) Run() {
	log.Info().Dur("interval", su.interval).Msg("Starting host stat updater")
	ticker := time.NewTicker(su.interval)
	defer ticker.Stop()

	// Run once immediately on start
	su.Update(context.Background())

	for {
		select {
		case <-su.done:
			log.Info().Msg("Stopping host stat updater")
			return
		case <-ticker.C:
			su.Update(context.Background())
		}
	}
}

// Stop halts the periodic updates.
func (su *StatUpdater) Stop() {
	su.stopOnce.Do(func() { close(su.done) })
}

// Update takes one sample and stores it.
func (su *StatUpdater) Update(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	stats, err := su.sample(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("StatUpdater: Failed to sample host stats")
		return
	}

	su.mu.Lock()
	su.latest = stats
	su.ok = true
	su.mu.Unlock()

	su.checkAndAlertForHighCPU(stats)
}

// Snapshot returns the latest sample and whether one has been taken.
func (su *StatUpdater) Snapshot() (HostStats, bool) {
	su.mu.RLock()
	defer su.mu.RUnlock()
	return su.latest, su.ok
}

func (su *StatUpdater) checkAndAlertForHighCPU(stats HostStats) {
	const highCPUThreshold = 90.0
	const alertCooldown = 15 * time.Minute

	if stats.CPUPercent <= highCPUThreshold {
		return
	}
	if !su.lastCPUAlert.IsZero() && stats.SampledAt.Sub(su.lastCPUAlert) < alertCooldown {
		return
	}
	log.Warn().Float64("cpu_percent", stats.CPUPercent).Msg("High CPU usage detected")
	su.lastCPUAlert = stats.SampledAt
}

// SampleHost reads CPU, memory, root disk usage and uptime via gopsutil.
func SampleHost(ctx context.Context) (HostStats, error) {
	stats := HostStats{SampledAt: time.Now().UTC()}

	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return HostStats{}, err
	}
	if len(percents) > 0 {
		stats.CPUPercent = percents[0]
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return HostStats{}, err
	}
	stats.MemoryPercent = vm.UsedPercent

	if usage, err := disk.UsageWithContext(ctx, "/"); err == nil {
		stats.DiskPercent = usage.UsedPercent
	} else {
		log.Debug().Err(err).Msg("StatUpdater: Could not read disk usage")
	}

	uptime, err := host.UptimeWithContext(ctx)
	if err != nil {
		return HostStats{}, err
	}
	stats.UptimeSeconds = uptime
	return stats, nil
}
