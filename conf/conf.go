package conf

var (
	// MaxIdentLength bounds identifier tokens, terminator included in the
	// classic layout: names cap at MaxIdentLength-1 bytes.
	MaxIdentLength = 32

	// CaseSensitive controls flag name lookups in the flag provider. The
	// core compares nothing itself, it hands names to the resolver verbatim.
	CaseSensitive = false
)
