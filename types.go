package synthdoc

// Severity expresses the severity level for issues found while decoding.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// LoadOpt bundles decoding options for schemas and datasets.
type LoadOpt struct {
	// MaxDepth bounds container nesting; 0 means unlimited.
	MaxDepth int
	// OnDuplicateKey decides whether a repeated object key is ignored (last
	// one wins), reported through OnWarning, or rejected.
	OnDuplicateKey Severity
	// OnWarning receives issues downgraded to warnings.
	OnWarning func(Issue)
}

// DefaultLoadOpt is used when no LoadOpt is given.
var DefaultLoadOpt = LoadOpt{MaxDepth: 128, OnDuplicateKey: Error}

func loadOpt(opts []LoadOpt) LoadOpt {
	if len(opts) == 0 {
		return DefaultLoadOpt
	}
	return opts[0]
}
