package analysis

import "github.com/rotisserie/eris"

// Sentinel errors surfaced by store operations. Callers distinguish them
// with eris.Is; none is fatal to the process.
var (
	// ErrSiteNotFound means the site key has no registered analysis.
	ErrSiteNotFound = eris.New("analysis: site not found")

	// ErrIndexOutOfRange means a positional record index is outside the
	// current record count for the site.
	ErrIndexOutOfRange = eris.New("analysis: area index out of range")

	// ErrUpstreamUnavailable means the geocoding collaborator failed,
	// timed out, or returned no match for the address.
	ErrUpstreamUnavailable = eris.New("analysis: geocoder unavailable or no match")

	// ErrNothingToExport means an export was requested against an empty
	// store.
	ErrNothingToExport = eris.New("analysis: nothing to export")
)
