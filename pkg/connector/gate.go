// pkg/connector/gate.go
package connector

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/retailops/ingress/pkg/config"
	"github.com/retailops/ingress/pkg/model"
)

// probeFunc opens a throwaway connection and verifies liveness
type probeFunc func(ctx context.Context) error

// Gate blocks process startup until the database becomes reachable.
// Unreachability is retried per the injected policy; errors that a
// retry cannot cure (malformed connection string, rejected credentials,
// unknown database) fail fast instead of looping forever.
type Gate struct {
	dsn    string
	policy config.RetryPolicy
	logger *zap.Logger
	probe  probeFunc
}

// NewGate creates a connection gate for the given connection string
func NewGate(dsn string, policy config.RetryPolicy, logger *zap.Logger) *Gate {
	g := &Gate{
		dsn:    dsn,
		policy: policy,
		logger: logger,
	}
	g.probe = g.probeOnce
	return g
}

// Await blocks until a probe connection succeeds, the policy's attempt
// budget runs out, or the context is cancelled. The probe connection is
// closed before returning; the caller opens its own connection afterwards.
func (g *Gate) Await(ctx context.Context) error {
	attempt := 0
	for {
		attempt++
		err := g.probe(ctx)
		if err == nil {
			g.logger.Info("Database reachable", zap.Int("attempt", attempt))
			return nil
		}

		if ctx.Err() != nil {
			return model.NewError(model.CategoryConnectivity, "gate", ctx.Err())
		}

		if !IsRetryable(err) {
			return model.NewError(model.CategoryConfig, "gate",
				fmt.Errorf("connection rejected, not retrying: %w", err))
		}

		if !g.policy.Unbounded() && attempt >= g.policy.MaxAttempts {
			return model.NewError(model.CategoryConnectivity, "gate",
				fmt.Errorf("database unreachable after %d attempts: %w", attempt, err))
		}

		g.logger.Warn("Database unreachable, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("interval", g.policy.Interval),
			zap.Error(err))

		select {
		case <-time.After(g.policy.Interval):
		case <-ctx.Done():
			return model.NewError(model.CategoryConnectivity, "gate", ctx.Err())
		}
	}
}

// probeOnce opens a fresh connection, pings it, and closes it
func (g *Gate) probeOnce(ctx context.Context) error {
	db, err := sqlx.Open("postgres", g.dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	return PingWithTimeout(ctx, db.DB, 5*time.Second)
}

// IsRetryable reports whether a connection attempt failure is worth
// retrying. Network-level failures and server states that resolve on
// their own (starting up, shutting down, over capacity) retry; anything
// the server actively rejected does not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code.Class()) {
		case "08", "53", "57": // connection exception, insufficient resources, operator intervention
			return true
		default:
			return false
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	// DSN parse errors and anything else unrecognized fail fast
	return false
}
