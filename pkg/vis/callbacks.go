package vis

import (
	"github.com/vabarbosa/simple-data-vis/pkg/dataset"
	"github.com/vabarbosa/simple-data-vis/pkg/options"
	"github.com/vabarbosa/simple-data-vis/pkg/scene"
)

// Hook names accepted by Binding.On.
const (
	HookStart = "start"
	HookData  = "data"
	HookEnd   = "end"
	HookFail  = "fail"
	HookClick = "click"
)

// Callback signatures. Plain func literals with the same signatures are
// accepted wherever these are.
type (
	// StartFunc receives the URL about to be fetched.
	StartFunc func(url string)
	// DataFunc may replace fetched data. Returning nil keeps it.
	DataFunc func(data any) any
	// EndFunc receives the drawn dataset and chart root. Both are nil for
	// headless renders; root is nil for the empty-data message.
	EndFunc func(ds *dataset.Dataset, root *scene.Node)
	// FailFunc receives a failure message.
	FailFunc func(msg string)
	// ClickFunc receives the clicked record and its index.
	ClickFunc func(rec dataset.Record, index int)
	// TooltipFunc returns the tooltip text for a record.
	TooltipFunc func(rec dataset.Record) string
)

// Scope maps callback names to functions. Bindings configured with callback
// names, as declarative attachment does, look them up at call time.
type Scope map[string]any

// Lookup returns the function registered under name.
func (s Scope) Lookup(name string) (any, bool) {
	if s == nil || name == "" {
		return nil, false
	}
	fn, ok := s[name]
	return fn, ok && fn != nil
}

// resolve returns the function a callback value refers to: the value itself
// unless it is a name, in which case it is looked up in s.
func (s Scope) resolve(v any) any {
	if name, ok := v.(string); ok {
		fn, _ := s.Lookup(name)
		return fn
	}
	return v
}

func asStart(v any) StartFunc {
	switch fn := v.(type) {
	case StartFunc:
		return fn
	case func(string):
		return fn
	}
	return nil
}

func asData(v any) DataFunc {
	switch fn := v.(type) {
	case DataFunc:
		return fn
	case func(any) any:
		return fn
	}
	return nil
}

func asEnd(v any) EndFunc {
	switch fn := v.(type) {
	case EndFunc:
		return fn
	case func(*dataset.Dataset, *scene.Node):
		return fn
	case func():
		return func(*dataset.Dataset, *scene.Node) { fn() }
	}
	return nil
}

func asFail(v any) FailFunc {
	switch fn := v.(type) {
	case FailFunc:
		return fn
	case func(string):
		return fn
	}
	return nil
}

func asClick(v any) ClickFunc {
	switch fn := v.(type) {
	case ClickFunc:
		return fn
	case func(dataset.Record, int):
		return fn
	}
	return nil
}

func asTooltip(v any) TooltipFunc {
	switch fn := v.(type) {
	case TooltipFunc:
		return fn
	case func(dataset.Record) string:
		return fn
	}
	return nil
}

// ClickOption returns the click callback configured in opts, or nil.
func ClickOption(opts options.Options) ClickFunc {
	return asClick(opts.Get(options.Click))
}

// Callbacks are the engine's lifecycle hooks.
type Callbacks struct {
	OnEnd  EndFunc
	OnFail FailFunc
}

func (c Callbacks) end(ds *dataset.Dataset, root *scene.Node) {
	if c.OnEnd != nil {
		c.OnEnd(ds, root)
	}
}

func (c Callbacks) fail(msg string) {
	if c.OnFail != nil {
		c.OnFail(msg)
	}
}
