package vis

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vabarbosa/simple-data-vis/pkg/dataset"
	"github.com/vabarbosa/simple-data-vis/pkg/errors"
	"github.com/vabarbosa/simple-data-vis/pkg/options"
	"github.com/vabarbosa/simple-data-vis/pkg/resolve"
	"github.com/vabarbosa/simple-data-vis/pkg/scene"
)

// Container styles applied before drawing.
var containerStyles = []scene.Attr{
	{Name: "color", Value: "#264a60"},
	{Name: "fill", Value: "#264a60"},
	{Name: "font-family", Value: "HelvNeue,Helvetica,sans-serif"},
	{Name: "font-size", Value: "0.8rem"},
	{Name: "font-weight", Value: "300"},
}

// Binding pairs a data source with render options and lifecycle callbacks.
// A binding is configured incrementally and drawn with Render. It is not
// safe for concurrent use.
type Binding struct {
	source    any
	opts      options.Options
	callbacks map[string]any
	scope     Scope
	target    *scene.Node

	resolver *resolve.Resolver
	engine   *Engine
	logger   *log.Logger
}

// BindingOption configures a Binding.
type BindingOption func(*Binding)

// WithResolver sets the resolver used to fetch data.
func WithResolver(r *resolve.Resolver) BindingOption {
	return func(b *Binding) { b.resolver = r }
}

// WithEngine sets the engine used to draw.
func WithEngine(e *Engine) BindingOption {
	return func(b *Binding) { b.engine = e }
}

// WithLogger sets the binding's logger.
func WithLogger(l *log.Logger) BindingOption {
	return func(b *Binding) { b.logger = l }
}

// WithScope sets the scope callback names are resolved against.
func WithScope(s Scope) BindingOption {
	return func(b *Binding) { b.scope = s }
}

// New returns a binding for source: a record sequence, a Producer, a
// location string or a *dataset.Dataset.
func New(source any, opts ...BindingOption) *Binding {
	b := &Binding{
		source:    source,
		opts:      options.Options{},
		callbacks: make(map[string]any),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = log.Default()
	}
	if b.resolver == nil {
		b.resolver = resolve.New(nil, b.logger)
	}
	if b.engine == nil {
		b.engine = NewEngine(nil, b.logger)
	}
	return b
}

// Source returns the data source.
func (b *Binding) Source() any { return b.source }

// Target returns the element the binding was discovered on, if any.
func (b *Binding) Target() *scene.Node { return b.target }

// Options returns a copy of the current options.
func (b *Binding) Options() options.Options { return b.opts.Clone() }

// Set stores an option. A nil value removes it. Setting "group" drops a
// "group_level" query parameter; setting "param" to a mapping or url.Values
// replaces every parameter, and any other value is ignored with a warning.
func (b *Binding) Set(option string, value any) *Binding {
	if value == nil {
		return b.Unset(option)
	}
	if err := errors.ValidateOptionKey(option); err != nil {
		b.logger.Warn("ignoring option", "option", option, "err", err)
		return b
	}
	switch option {
	case options.Param:
		p, ok := options.ParamsFrom(value)
		if !ok {
			b.logger.Warn("ignoring params", "type", fmt.Sprintf("%T", value))
			return b
		}
		b.opts.Set(options.Param, p)
		return b
	case options.Group:
		if b.opts.Has(options.Param) {
			b.opts.Params().Delete(options.GroupLevel)
		}
	}
	b.opts.Set(option, value)
	return b
}

// Get returns an option.
func (b *Binding) Get(option string) any {
	return b.opts.Get(option)
}

// Unset removes an option.
func (b *Binding) Unset(option string) *Binding {
	b.opts.Delete(option)
	return b
}

// Param stores a query parameter. Setting "group_level" drops the "group"
// option.
func (b *Binding) Param(key string, value any) *Binding {
	if err := errors.ValidateOptionKey(key); err != nil {
		b.logger.Warn("ignoring param", "param", key, "err", err)
		return b
	}
	if key == options.GroupLevel {
		b.opts.Delete(options.Group)
	}
	b.opts.Params().Set(key, value)
	return b
}

// GetParam returns a query parameter.
func (b *Binding) GetParam(key string) (any, bool) {
	if !b.opts.Has(options.Param) {
		return nil, false
	}
	return b.opts.Params().Get(key)
}

// ClearParams removes every query parameter.
func (b *Binding) ClearParams() *Binding {
	b.opts.Params().Clear()
	return b
}

// On sets a hook to a function or to a name resolved against the scope when
// the hook fires. A nil value removes the hook.
func (b *Binding) On(hook string, fn any) *Binding {
	if fn == nil {
		return b.Off(hook)
	}
	b.callbacks[hook] = fn
	return b
}

// Off removes a hook.
func (b *Binding) Off(hook string) *Binding {
	delete(b.callbacks, hook)
	return b
}

// Callback returns the function or name set for a hook.
func (b *Binding) Callback(hook string) any {
	return b.callbacks[hook]
}

// Render fetches the data and draws it into container. A nil container
// renders headless: the data hook runs and the end hook is called with no
// arguments. A non-nil scope replaces the binding's scope.
func (b *Binding) Render(ctx context.Context, container *scene.Node, scope Scope) error {
	if scope != nil {
		b.scope = scope
	}
	raw, err := b.Fetch(ctx)
	if err != nil {
		return err
	}
	b.Draw(ctx, container, raw)
	return nil
}

// RenderInto renders into the first element of doc matching selector.
func (b *Binding) RenderInto(ctx context.Context, doc *scene.Document, selector string, scope Scope) error {
	if scope != nil {
		b.scope = scope
	}
	var target *scene.Node
	if doc != nil {
		target = doc.Root().Select(selector)
	}
	if target == nil {
		msg := "render invalid selector: " + selector
		b.logger.Error(msg)
		b.fail(msg)
		return errors.New(errors.ErrCodeInvalidTarget, "%s", msg)
	}
	return b.Render(ctx, target, nil)
}

// Fetch resolves the data source, firing the start and fail hooks.
func (b *Binding) Fetch(ctx context.Context) (any, error) {
	view := b.opts.String(options.View)
	return b.resolver.Resolve(ctx, b.source, view, b.opts.Clone(), resolve.Hooks{
		OnStart: b.start,
		OnFail:  b.fail,
	})
}

// Draw runs the data hook on raw and draws the result into container, then
// flushes the container's document so every transition completes.
func (b *Binding) Draw(ctx context.Context, container *scene.Node, raw any) {
	data := raw
	if fn := asData(b.scope.resolve(b.callbacks[HookData])); fn != nil {
		if updated := fn(raw); updated != nil {
			data = updated
		}
	}

	if container == nil {
		b.end(nil, nil)
		return
	}

	// Options may have changed inside the data hook.
	opts := b.opts.Clone()
	if name, ok := opts.Get(options.Tooltip).(string); ok {
		if fn := asTooltip(b.scope.resolve(name)); fn != nil {
			opts.Set(options.Tooltip, fn)
		}
	}
	if b.callbacks[HookClick] != nil {
		opts.Set(options.Click, ClickFunc(b.click))
	}

	for _, s := range containerStyles {
		container.SetStyle(s.Name, s.Value)
	}

	ds, err := dataset.Normalize(data)
	if err != nil {
		b.logger.Error("unusable data", "err", err)
		b.fail(errors.UserMessage(err))
		return
	}
	container.SetDatum(ds)

	b.engine.Render(ctx, container, ds, opts, Callbacks{OnEnd: b.end, OnFail: b.fail})
	container.Document().Flush()
}

func (b *Binding) start(url string) {
	if fn := asStart(b.scope.resolve(b.callbacks[HookStart])); fn != nil {
		fn(url)
	}
}

func (b *Binding) fail(msg string) {
	if fn := asFail(b.scope.resolve(b.callbacks[HookFail])); fn != nil {
		fn(msg)
	}
}

func (b *Binding) end(ds *dataset.Dataset, root *scene.Node) {
	if fn := asEnd(b.scope.resolve(b.callbacks[HookEnd])); fn != nil {
		fn(ds, root)
	}
}

func (b *Binding) click(rec dataset.Record, index int) {
	if fn := asClick(b.scope.resolve(b.callbacks[HookClick])); fn != nil {
		fn(rec, index)
	}
}
