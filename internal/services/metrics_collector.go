package services

import (
	"context"
	"sync"
	"time"

	"edustaff-backend/internal/hierarchy"
	"edustaff-backend/internal/metrics"

	"go.uber.org/zap"
)

// MetricsCollector refreshes the organisation gauges (headcount per role and
// total balance) from the employee store on a fixed interval.
type MetricsCollector struct {
	repo            EmployeeStore
	collectInterval time.Duration
	logger          *zap.Logger
	stopChan        chan struct{}
	wg              sync.WaitGroup
}

func NewMetricsCollector(repo EmployeeStore, interval time.Duration, logger *zap.Logger) *MetricsCollector {
	if interval <= 0 {
		interval = time.Minute
	}
	return &MetricsCollector{
		repo:            repo,
		collectInterval: interval,
		logger:          logger,
		stopChan:        make(chan struct{}),
	}
}

// Start collects once and then on every tick until Stop.
func (c *MetricsCollector) Start() {
	c.logger.Info("starting organisation metrics collector", zap.Duration("interval", c.collectInterval))

	c.collect()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(c.collectInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopChan:
				c.logger.Info("stopping organisation metrics collector")
				return
			}
		}
	}()
}

func (c *MetricsCollector) Stop() {
	close(c.stopChan)
	c.wg.Wait()
}

func (c *MetricsCollector) collect() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := c.Collect(ctx); err != nil {
		metrics.OrgMetricsCollectErrors.Inc()
		c.logger.Warn("organisation metrics collection failed", zap.Error(err))
	}
}

// Collect reads the dashboard stats and publishes them as gauges. Roles with
// no employees are reported as zero.
func (c *MetricsCollector) Collect(ctx context.Context) error {
	stats, err := c.repo.Stats(ctx)
	if err != nil {
		return err
	}
	for _, role := range hierarchy.EmployeeRoles {
		metrics.EmployeesByRole.WithLabelValues(string(role)).Set(float64(stats.RoleCounts[role]))
	}
	metrics.OrganisationFunds.Set(float64(stats.TotalFunds))
	return nil
}
