package health

import (
	"context"
	"errors"
	"time"

	"edustaff-backend/internal/cache"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusDisabled  = "disabled"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthChecker struct {
	db        Pinger
	redisPing func(ctx context.Context) error
	startedAt time.Time
}

type HealthStatus struct {
	Status   string          `json:"status"`
	Database ComponentHealth `json:"database"`
	Redis    ComponentHealth `json:"redis"`
}

type ComponentHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

// DetailedStatus adds host resource usage to HealthStatus.
type DetailedStatus struct {
	HealthStatus
	UptimeSeconds int64      `json:"uptime_seconds"`
	Host          HostHealth `json:"host"`
}

type HostHealth struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsedMB  uint64  `json:"memory_used_mb"`
	DiskPercent   float64 `json:"disk_percent"`
}

func NewHealthChecker(db Pinger) *HealthChecker {
	return &HealthChecker{db: db, redisPing: cache.Ping, startedAt: time.Now()}
}

// CheckBasic pings the database and Redis. Redis being disabled does not
// make the service unhealthy.
func (h *HealthChecker) CheckBasic(ctx context.Context) HealthStatus {
	dbHealth := ping(ctx, h.db.Ping)
	redisHealth := ping(ctx, h.redisPing)

	status := StatusHealthy
	if dbHealth.Status != StatusHealthy || redisHealth.Status == StatusUnhealthy {
		status = StatusUnhealthy
	}

	return HealthStatus{
		Status:   status,
		Database: dbHealth,
		Redis:    redisHealth,
	}
}

func (h *HealthChecker) CheckDetailed(ctx context.Context) DetailedStatus {
	d := DetailedStatus{
		HealthStatus:  h.CheckBasic(ctx),
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
	}

	if cpuPercents, err := cpu.Percent(0, false); err == nil && len(cpuPercents) > 0 {
		d.Host.CPUPercent = cpuPercents[0]
	}
	if memStats, err := mem.VirtualMemory(); err == nil {
		d.Host.MemoryPercent = memStats.UsedPercent
		d.Host.MemoryUsedMB = memStats.Used / 1024 / 1024
	}
	if diskStats, err := disk.Usage("/"); err == nil {
		d.Host.DiskPercent = diskStats.UsedPercent
	}
	return d
}

func ping(ctx context.Context, fn func(context.Context) error) ComponentHealth {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	responseTime := time.Since(start).Milliseconds()

	switch {
	case errors.Is(err, cache.ErrDisabled):
		return ComponentHealth{Status: StatusDisabled}
	case err != nil:
		return ComponentHealth{Status: StatusUnhealthy, ResponseTime: responseTime}
	}
	return ComponentHealth{Status: StatusHealthy, ResponseTime: responseTime}
}
