package metrics

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DBPoolConnections reports pgx pool connection counts by state.
var DBPoolConnections = promauto.With(Registry).NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "db_pool_connections",
		Help:      "Database connection pool counts by state",
	},
	[]string{"state"},
)

// PoolCollector samples pgxpool statistics on a fixed interval and
// publishes them as gauges.
type PoolCollector struct {
	pool *pgxpool.Pool
	done chan struct{}
}

func NewPoolCollector(pool *pgxpool.Pool) *PoolCollector {
	return &PoolCollector{
		pool: pool,
		done: make(chan struct{}),
	}
}

// Run samples the pool until the context is cancelled or Stop is called.
func (c *PoolCollector) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.sample()

	for {
		select {
		case <-ticker.C:
			c.sample()
		case <-c.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (c *PoolCollector) Stop() {
	close(c.done)
}

func (c *PoolCollector) sample() {
	if c.pool == nil {
		return
	}

	stat := c.pool.Stat()
	DBPoolConnections.WithLabelValues("total").Set(float64(stat.TotalConns()))
	DBPoolConnections.WithLabelValues("acquired").Set(float64(stat.AcquiredConns()))
	DBPoolConnections.WithLabelValues("idle").Set(float64(stat.IdleConns()))
	DBPoolConnections.WithLabelValues("max").Set(float64(stat.MaxConns()))
}
