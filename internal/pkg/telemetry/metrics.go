package telemetry

// SLI metric names used for instrumentation.
const (
	// Latency
	MetricAPILatencyP50 = "api.latency.p50"
	MetricAPILatencyP95 = "api.latency.p95"
	MetricAPILatencyP99 = "api.latency.p99"

	// Throughput
	MetricRequestsPerSec = "api.requests_per_second"

	// Data freshness
	MetricCycleAge          = "airac.cycle_age_seconds"
	MetricResolutionLatency = "resolver.resolution_latency"

	// Availability
	MetricUptime = "service.uptime_percentage"

	// Business
	MetricRoutesResolved = "business.routes_resolved"
	MetricUnknownRoutes  = "business.unknown_routes"
)
