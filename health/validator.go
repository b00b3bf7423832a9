package health

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Check names used by the validator's overall-status rule. A failing
// authentication or connectivity check makes the whole report
// unhealthy; other failing checks only degrade it.
const (
	CheckEnvironment    = "environment"
	CheckAuthentication = "authentication"
	CheckDependencies   = "dependencies"
	CheckConnectivity   = "connectivity"
)

// ValidatorConfig configures a Validator.
type ValidatorConfig struct {
	// Timeout bounds one whole validation run.
	// Default: 10 seconds
	Timeout time.Duration
}

// Report is the outcome of one validation run.
type Report struct {
	Status    Status            `json:"status"`
	Checks    map[string]Result `json:"checks"`
	Timestamp time.Time         `json:"timestamp"`
}

// Validator runs registered checks and folds them into a Report. Safe
// for concurrent use; running it repeatedly has no side effects beyond
// the checks themselves.
type Validator struct {
	config ValidatorConfig
	now    func() time.Time

	mu       sync.RWMutex
	checkers map[string]Checker
	order    []string
}

// NewValidator creates a Validator with no checks registered.
func NewValidator(config ...ValidatorConfig) *Validator {
	cfg := ValidatorConfig{Timeout: 10 * time.Second}
	if len(config) > 0 {
		cfg = config[0]
		if cfg.Timeout <= 0 {
			cfg.Timeout = 10 * time.Second
		}
	}
	return &Validator{
		config:   cfg,
		now:      time.Now,
		checkers: make(map[string]Checker),
	}
}

// Register adds a check under the checker's name, replacing any
// previous check with that name.
func (v *Validator) Register(c Checker) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, exists := v.checkers[c.Name()]; !exists {
		v.order = append(v.order, c.Name())
	}
	v.checkers[c.Name()] = c
}

// CheckNames returns the registered check names in registration order.
func (v *Validator) CheckNames() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()

	names := make([]string, len(v.order))
	copy(names, v.order)
	return names
}

// Check runs a single named check.
func (v *Validator) Check(ctx context.Context, name string) (Result, error) {
	v.mu.RLock()
	c, ok := v.checkers[name]
	v.mu.RUnlock()

	if !ok {
		return Result{}, ErrUnknownCheck
	}
	return v.run(ctx, c), nil
}

// Validate runs every registered check in parallel, bounded by the
// configured timeout, and folds the results into a Report. A check
// failure never aborts the others.
func (v *Validator) Validate(ctx context.Context) Report {
	v.mu.RLock()
	checkers := make([]Checker, 0, len(v.order))
	for _, name := range v.order {
		checkers = append(checkers, v.checkers[name])
	}
	v.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, v.config.Timeout)
	defer cancel()

	results := make(map[string]Result, len(checkers))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range checkers {
		g.Go(func() error {
			res := v.run(gctx, c)
			mu.Lock()
			results[c.Name()] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return Report{
		Status:    overallStatus(results),
		Checks:    results,
		Timestamp: v.now(),
	}
}

func (v *Validator) run(ctx context.Context, c Checker) Result {
	start := v.now()
	resultCh := make(chan Result, 1)

	go func() {
		resultCh <- c.Check(ctx)
	}()

	select {
	case res := <-resultCh:
		res.Duration = v.now().Sub(start)
		return res
	case <-ctx.Done():
		return Result{
			Status:   StatusUnhealthy,
			Message:  "check timed out",
			Error:    ErrCheckTimeout,
			Duration: v.now().Sub(start),
		}
	}
}

// overallStatus folds per-check results: unhealthy when authentication
// or connectivity fails, degraded when any other check is not healthy,
// healthy otherwise.
func overallStatus(results map[string]Result) Status {
	status := StatusHealthy
	for name, res := range results {
		if res.Status == StatusHealthy {
			continue
		}
		critical := name == CheckAuthentication || name == CheckConnectivity
		if res.Status == StatusUnhealthy && critical {
			return StatusUnhealthy
		}
		status = StatusDegraded
	}
	return status
}
