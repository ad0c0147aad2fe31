package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kbukum/typedflow/component"
)

// Route is an HTTP route listed in the startup summary.
type Route struct {
	Method string
	Path   string
}

// Summary collects what the application started with.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	routes          []Route
	pipelines       []string
}

// NewSummary creates an empty summary.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// TrackRoute records an HTTP route.
func (s *Summary) TrackRoute(method, path string) {
	s.routes = append(s.routes, Route{Method: method, Path: path})
}

// TrackPipeline records a configured pipeline by name.
func (s *Summary) TrackPipeline(name string) {
	s.pipelines = append(s.pipelines, name)
}

// Routes returns the tracked routes.
func (s *Summary) Routes() []Route { return s.routes }

// Write renders the summary as a tree, with live health taken from registry.
func (s *Summary) Write(ctx context.Context, w io.Writer, registry *component.Registry) {
	fmt.Fprintf(w, "\n%s %s started in %.2fs\n", s.serviceName, s.version, s.startupDuration.Seconds())

	if registry != nil {
		descs := registry.Describe()
		if len(descs) > 0 {
			fmt.Fprintf(w, "\nComponents\n")
			for i, d := range descs {
				line := d.Name + " [" + d.Type + "]"
				if d.Details != "" {
					line += ": " + d.Details
				}
				if d.Port > 0 {
					line += fmt.Sprintf(" (:%d)", d.Port)
				}
				fmt.Fprintf(w, "   %s %s\n", treePrefix(i, len(descs)), line)
			}
		}
	}

	if len(s.pipelines) > 0 {
		fmt.Fprintf(w, "\nPipelines\n")
		for i, p := range s.pipelines {
			fmt.Fprintf(w, "   %s %s\n", treePrefix(i, len(s.pipelines)), p)
		}
	}

	if len(s.routes) > 0 {
		fmt.Fprintf(w, "\nRoutes (%d)\n", len(s.routes))
		for i, r := range s.routes {
			fmt.Fprintf(w, "   %s %-7s %s\n", treePrefix(i, len(s.routes)), r.Method, r.Path)
		}
	}

	if registry != nil {
		healths := registry.HealthAll(ctx)
		if len(healths) > 0 {
			fmt.Fprintf(w, "\nHealth\n")
			for i, h := range healths {
				msg := ""
				if h.Message != "" {
					msg = " (" + h.Message + ")"
				}
				fmt.Fprintf(w, "   %s %s %s: %s%s\n", treePrefix(i, len(healths)),
					healthIcon(h.Status), h.Name, strings.ToLower(string(h.Status)), msg)
			}
		}
	}
	fmt.Fprintln(w)
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func healthIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}
