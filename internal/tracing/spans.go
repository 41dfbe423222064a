package tracing

// Span attribute keys for build tracing.
// These constants define the semantic conventions for span attributes
// across build runs.
const (
	// Build run attributes
	AttrBuildID     = "build.id"
	AttrBuildOutput = "build.output"
	AttrBuildUnits  = "build.units"

	// Scan attributes
	AttrScanDir   = "scan.dir"
	AttrScanFiles = "scan.files"

	// Unit attributes
	AttrUnitName = "unit.name"
	AttrUnitPath = "unit.path"

	// Cache attributes
	AttrCacheHit = "cache.hit"

	// Error attributes
	AttrErrorMessage = "error.message"
	AttrErrorType    = "error.type"
)

// Span names for consistent naming across build phases.
const (
	SpanBuild   = "build.run"
	SpanScan    = "build.scan"
	SpanResolve = "build.resolve"
	SpanBundle  = "build.bundle"
)

// Event names for span events.
const (
	EventUnitParsed    = "unit.parsed"
	EventUnitPulled    = "unit.pulled"
	EventCacheFlushed  = "cache.flushed"
	EventErrorOccurred = "error.occurred"
)
