package roster

import "context"

// Ports for roster sources. The roster is the ordered list of candidate
// names offered by the person picker; the core never inspects membership
// rules, it only consumes the ordered names.
type (
	NameReader interface {
		// Names returns the roster in its stored order.
		Names(ctx context.Context) ([]string, error)
	}

	NameWriter interface {
		// Add appends a name to the roster and returns a backend-specific
		// reference for the new entry.
		Add(ctx context.Context, name string) (ref string, err error)
	}
)
