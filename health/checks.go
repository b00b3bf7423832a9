package health

import (
	"context"
	"sort"
	"time"

	"github.com/BjornMelin/contribux-sub005/auth"
)

// EnvironmentChecker verifies that required configuration settings are
// present. Values are captured at construction; a missing setting
// degrades the report but does not make it unhealthy.
type EnvironmentChecker struct {
	settings map[string]string
}

// NewEnvironmentChecker takes setting name to value; an empty value
// counts as missing.
func NewEnvironmentChecker(settings map[string]string) *EnvironmentChecker {
	return &EnvironmentChecker{settings: settings}
}

func (c *EnvironmentChecker) Name() string { return CheckEnvironment }

func (c *EnvironmentChecker) Check(context.Context) Result {
	var missing []string
	for name, value := range c.settings {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return Healthy("all required settings present")
	}
	sort.Strings(missing)
	return Degraded("missing required settings").
		WithDetails(map[string]any{"missing": missing})
}

// AuthenticationChecker verifies the active credentials: the material
// must be well-formed and, when a probe is supplied, one lightweight
// authenticated call must succeed.
type AuthenticationChecker struct {
	config auth.Config
	probe  func(ctx context.Context) error
}

// NewAuthenticationChecker wires the active auth config and an
// optional authenticated probe call.
func NewAuthenticationChecker(cfg auth.Config, probe func(ctx context.Context) error) *AuthenticationChecker {
	return &AuthenticationChecker{config: cfg, probe: probe}
}

func (c *AuthenticationChecker) Name() string { return CheckAuthentication }

func (c *AuthenticationChecker) Check(ctx context.Context) Result {
	if c.config == nil {
		return Unhealthy("no credentials configured", auth.ErrMissingToken)
	}
	if err := c.config.Validate(); err != nil {
		return Unhealthy("credential material is invalid", err).
			WithDetails(map[string]any{"kind": c.config.Kind()})
	}
	if c.probe != nil {
		if err := c.probe(ctx); err != nil {
			return Unhealthy("authenticated probe failed", err).
				WithDetails(map[string]any{"kind": c.config.Kind()})
		}
	}
	return Healthy("credentials accepted").
		WithDetails(map[string]any{"kind": c.config.Kind()})
}

// DependenciesChecker pings supporting collaborators. One unreachable
// dependency degrades the report.
type DependenciesChecker struct {
	pings map[string]func(ctx context.Context) error
}

// NewDependenciesChecker takes dependency name to ping function.
func NewDependenciesChecker(pings map[string]func(ctx context.Context) error) *DependenciesChecker {
	return &DependenciesChecker{pings: pings}
}

func (c *DependenciesChecker) Name() string { return CheckDependencies }

func (c *DependenciesChecker) Check(ctx context.Context) Result {
	var failed []string
	for name, ping := range c.pings {
		if err := ping(ctx); err != nil {
			failed = append(failed, name)
		}
	}
	if len(failed) == 0 {
		return Healthy("all dependencies reachable")
	}
	sort.Strings(failed)
	return Degraded("dependencies unreachable").
		WithDetails(map[string]any{"failed": failed})
}

// ConnectivityChecker issues a single unauthenticated probe and
// records its round-trip time.
type ConnectivityChecker struct {
	probe func(ctx context.Context) error
	now   func() time.Time
}

// NewConnectivityChecker wires the unauthenticated probe call.
func NewConnectivityChecker(probe func(ctx context.Context) error) *ConnectivityChecker {
	return &ConnectivityChecker{probe: probe, now: time.Now}
}

func (c *ConnectivityChecker) Name() string { return CheckConnectivity }

func (c *ConnectivityChecker) Check(ctx context.Context) Result {
	start := c.now()
	if err := c.probe(ctx); err != nil {
		return Unhealthy("endpoint unreachable", err)
	}
	rtt := c.now().Sub(start)
	return Healthy("endpoint reachable").
		WithDetails(map[string]any{"rtt": rtt.String()})
}
