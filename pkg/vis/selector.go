package vis

import (
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vabarbosa/simple-data-vis/pkg/dataset"
	"github.com/vabarbosa/simple-data-vis/pkg/errors"
)

// TableType is the universal fallback chart.
const TableType = "table-vis"

// Selector picks one chart descriptor for a dataset.
type Selector struct {
	Registry *Registry
	Logger   *log.Logger
}

// NewSelector returns a Selector over reg, or the default registry when nil.
func NewSelector(reg *Registry, logger *log.Logger) *Selector {
	if reg == nil {
		reg = Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Selector{Registry: reg, Logger: logger}
}

// Select returns the descriptor used to draw ds.
//
// A requested type matching exactly one descriptor wins outright. Otherwise
// the descriptors whose predicate accepts ds are considered, and when none
// does the table renderer is used. Among several candidates the highest
// priority wins, then the earliest registered.
func (s *Selector) Select(ds *dataset.Dataset, requested string) (*Descriptor, error) {
	d, _, err := s.selectCounted(ds, requested)
	return d, err
}

func (s *Selector) selectCounted(ds *dataset.Dataset, requested string) (*Descriptor, int, error) {
	reg := s.registry()
	requested = strings.TrimSpace(requested)

	var matches []*Descriptor
	if requested != "" {
		matches = reg.Lookup(requested)
		if len(matches) == 1 {
			return matches[0], 1, nil
		}
		if len(matches) > 1 {
			return best(matches), len(matches), nil
		}
		s.logger().Warn("invalid vis type specified", "type", requested)
	} else {
		s.logger().Debug("no vis type specified")
	}

	matches = s.Candidates(ds)
	switch len(matches) {
	case 0:
		s.logger().Warn("no valid vis found, using table", "types", strings.Join(reg.Types(), ","))
		if t := reg.Lookup(TableType); len(t) > 0 {
			return t[0], 0, nil
		}
		return nil, 0, errors.New(errors.ErrCodeNoRenderer, "no renderer accepts the data and %s is not registered", TableType)
	case 1:
		return matches[0], 1, nil
	}
	return best(matches), len(matches), nil
}

// Candidates returns the descriptors whose predicate accepts ds, best first.
func (s *Selector) Candidates(ds *dataset.Dataset) []*Descriptor {
	var out []*Descriptor
	for _, d := range s.registry().All() {
		if d.Accepts(ds) {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out
}

// best returns the highest priority descriptor, earliest registered first.
// cands must be non-empty and in registration order.
func best(cands []*Descriptor) *Descriptor {
	b := cands[0]
	for _, d := range cands[1:] {
		if d.Priority > b.Priority {
			b = d
		}
	}
	return b
}

func (s *Selector) registry() *Registry {
	if s.Registry == nil {
		return Default()
	}
	return s.Registry
}

func (s *Selector) logger() *log.Logger {
	if s.Logger == nil {
		return log.Default()
	}
	return s.Logger
}
