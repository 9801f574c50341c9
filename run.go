package compflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// runConfig accumulates RunOption overrides for Run and RunIncremental.
type runConfig struct {
	broker  *Broker
	timeout time.Duration
	limiter *rate.Limiter
}

// RunOption configures a Run or RunIncremental call.
type RunOption func(*runConfig)

// WithRunBroker supplies the broker a run writes its results into,
// instead of a freshly constructed one. RunIncremental treats it as the
// seed each subgraph's broker is built from, rather than the broker
// every subgraph shares.
func WithRunBroker(b *Broker) RunOption {
	return func(c *runConfig) { c.broker = b }
}

// WithRunTimeout bounds the whole run with a context deadline, derived
// from the context passed to Run. A component already executing when
// the deadline passes still completes; the loop simply stops starting
// new ones.
func WithRunTimeout(d time.Duration) RunOption {
	return func(c *runConfig) { c.timeout = d }
}

// WithRunRateLimit throttles how fast the run loop starts components,
// useful when components make outbound calls a downstream system would
// rather not see all at once. It governs start rate only; it has no
// effect on how long an individual component takes.
func WithRunRateLimit(l *rate.Limiter) RunOption {
	return func(c *runConfig) { c.limiter = l }
}

// Run executes every component registered in group, in dependency
// order, against a single broker, and returns that broker once every
// component has had its turn.
func Run(ctx context.Context, reg *Registry, group GroupTag, opts ...RunOption) (*Broker, error) {
	cfg := &runConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	broker := cfg.broker
	if broker == nil {
		broker = NewBroker(reg)
	}

	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	order, err := RunOrder(reg, reg.ComponentsInGroup(group))
	if err != nil {
		return broker, err
	}

	runComponents(ctx, reg, order, broker, cfg.limiter)
	return broker, nil
}

// RunIncremental runs each of group's disjoint connected subgraphs
// independently, yielding one broker per subgraph over the returned
// channel as soon as it finishes. If opts supplies WithRunBroker, every
// subgraph's broker is seeded from it, letting callers fold in results
// from a previous run.
func RunIncremental(ctx context.Context, reg *Registry, group GroupTag, opts ...RunOption) <-chan *Broker {
	cfg := &runConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	out := make(chan *Broker)
	go func() {
		defer close(out)

		components := reg.ComponentsInGroup(group)
		for _, subgraph := range Subgraphs(reg, components) {
			if ctx.Err() != nil {
				return
			}

			broker := NewBroker(reg, WithSeed(cfg.broker))

			order, err := RunOrder(reg, subgraph)
			if err == nil {
				runComponents(ctx, reg, order, broker, cfg.limiter)
			}

			select {
			case out <- broker:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func runComponents(ctx context.Context, reg *Registry, order []Component, broker *Broker, limiter *rate.Limiter) {
	for _, c := range order {
		if ctx.Err() != nil {
			return
		}
		if broker.has(c) {
			continue
		}
		d := reg.GetDelegate(c)
		if d == nil {
			continue
		}
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
		}
		runOne(reg, d, broker)
	}
}

// runOne executes d's executor once, sorting the outcome into the
// broker's value, missing-requirements, or exception slot, then always
// fires observers and records the execution time (which includes the
// observers) regardless of how the component exited.
func runOne(reg *Registry, d *Delegate, broker *Broker) {
	start := time.Now()
	defer func() {
		broker.FireObservers(d.Component)
		broker.setExecTime(d.Component, time.Since(start))
	}()

	defer func() {
		if r := recover(); r != nil {
			broker.AddException(d.Component, fmt.Errorf("compflow: component panicked: %v", r))
		}
	}()

	executor := d.Executor
	if executor == nil {
		executor = DefaultExecutor
	}

	v, err := executor(reg, d, broker)
	if err != nil {
		var mr *MissingRequirements
		switch {
		case errors.As(err, &mr):
			broker.setMissing(d.Component, mr)
			slog.Debug("compflow: missing requirements", "component", reg.GetName(d.Component), "requirements", mr.String())
		case errors.Is(err, SkipComponent):
			slog.Debug("compflow: component skipped", "component", reg.GetName(d.Component))
			// A voluntary skip leaves no value, no exception, and no
			// missing-requirements record — only the exec time and
			// observer dispatch the outer defer always performs.
		default:
			broker.AddException(d.Component, err)
		}
		return
	}

	if err := broker.Put(d.Component, v); err != nil {
		broker.AddException(d.Component, err)
	}
}
