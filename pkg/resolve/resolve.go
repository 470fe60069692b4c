// Package resolve turns a binding's data source into concrete data.
//
// A source is one of:
//   - a record sequence or *dataset.Dataset, returned unchanged
//   - a Producer, invoked once
//   - a location string, expanded with BuildURL and fetched with one GET
//
// Anything else is logged and passed through so the renderer can decide what
// to do with it. Failures never panic: they reach the OnFail hook as a
// message built by ErrorMessage and are also returned to the caller.
package resolve

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vabarbosa/simple-data-vis/pkg/dataset"
	"github.com/vabarbosa/simple-data-vis/pkg/errors"
	"github.com/vabarbosa/simple-data-vis/pkg/observability"
	"github.com/vabarbosa/simple-data-vis/pkg/options"
)

// Producer computes data on demand.
type Producer func() any

// Hooks are the lifecycle callbacks of one resolution. Any of them may be nil.
type Hooks struct {
	// OnStart receives the final URL before a remote request is made.
	OnStart func(url string)
	// OnFail receives the failure message.
	OnFail func(msg string)
	// Done receives the resolved data.
	Done func(raw any)
}

// Resolver resolves data sources.
type Resolver struct {
	Client *Client
	Logger *log.Logger

	// Origin is the location an empty source refers to. Relative locations
	// are resolved against it.
	Origin string

	// AllowFiles lets location strings name local files, either as plain
	// paths or file:// URLs. BuildURL is not applied to them.
	AllowFiles bool
}

// New returns a Resolver using client, or a default Client when nil.
func New(client *Client, logger *log.Logger) *Resolver {
	if client == nil {
		client = NewClient()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{Client: client, Logger: logger}
}

// Resolve resolves source. view and opts only apply to location strings.
func (r *Resolver) Resolve(ctx context.Context, source any, view string, opts options.Options, h Hooks) (any, error) {
	switch src := source.(type) {
	case Producer:
		return r.produce(ctx, src, h)
	case func() any:
		return r.produce(ctx, src, h)
	case string:
		return r.fetch(ctx, src, view, opts, h)
	case *url.URL:
		return r.fetch(ctx, src.String(), view, opts, h)
	}

	if source == nil || dataset.IsSequence(source) {
		observability.Chart().OnResolveStart(ctx, "sequence", "")
		observability.Chart().OnResolveComplete(ctx, "sequence", "", 0, nil)
		done(h, source)
		return source, nil
	}

	r.logger().Warn("unexpected data source", "type", fmt.Sprintf("%T", source))
	observability.Chart().OnResolveStart(ctx, "other", "")
	observability.Chart().OnResolveComplete(ctx, "other", "", 0, nil)
	done(h, source)
	return source, nil
}

func (r *Resolver) produce(ctx context.Context, p func() any, h Hooks) (any, error) {
	observability.Chart().OnResolveStart(ctx, "producer", "")
	start := time.Now()
	v := p()
	observability.Chart().OnResolveComplete(ctx, "producer", "", time.Since(start), nil)
	done(h, v)
	return v, nil
}

func (r *Resolver) fetch(ctx context.Context, source, view string, opts options.Options, h Hooks) (any, error) {
	if path, ok := r.localPath(source); ok {
		return r.readFile(ctx, path, h)
	}

	base, err := r.base(source)
	if err != nil {
		return nil, r.fail(h, err)
	}
	target := BuildURL(base, view, opts)
	r.logger().Debug("fetching data", "url", target)

	if h.OnStart != nil {
		h.OnStart(target)
	}

	observability.Chart().OnResolveStart(ctx, "url", target)
	start := time.Now()
	v, err := r.client().Get(ctx, target)
	observability.Chart().OnResolveComplete(ctx, "url", target, time.Since(start), err)
	if err != nil {
		return nil, r.fail(h, err)
	}
	done(h, v)
	return v, nil
}

func (r *Resolver) readFile(ctx context.Context, path string, h Hooks) (any, error) {
	if h.OnStart != nil {
		h.OnStart(path)
	}
	observability.Chart().OnResolveStart(ctx, "file", path)
	start := time.Now()
	v, err := decodeFile(path)
	observability.Chart().OnResolveComplete(ctx, "file", path, time.Since(start), err)
	if err != nil {
		return nil, r.fail(h, err)
	}
	done(h, v)
	return v, nil
}

func decodeFile(path string) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "data file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "open %s", path)
	}
	defer f.Close()

	v, err := dataset.Decode(io.LimitReader(f, maxBodySize))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "parse %s", path)
	}
	return v, nil
}

// localPath reports whether source names a local file.
func (r *Resolver) localPath(source string) (string, bool) {
	if !r.AllowFiles || source == "" {
		return "", false
	}
	if strings.HasPrefix(source, "file://") {
		u, err := url.Parse(source)
		if err != nil {
			return "", false
		}
		return u.Path, true
	}
	if strings.Contains(source, "://") {
		return "", false
	}
	if _, err := os.Stat(source); err == nil {
		return source, true
	}
	return "", false
}

// base resolves source against Origin. An empty source is the origin itself.
func (r *Resolver) base(source string) (string, error) {
	if source == "" {
		if r.Origin == "" {
			return "", errors.New(errors.ErrCodeInvalidSource, "empty data source")
		}
		return r.Origin, nil
	}
	if r.Origin == "" {
		return source, nil
	}
	ref, err := url.Parse(source)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidSource, err, "invalid data source %q", source)
	}
	if ref.IsAbs() {
		return source, nil
	}
	origin, err := url.Parse(r.Origin)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidSource, err, "invalid origin %q", r.Origin)
	}
	return origin.ResolveReference(ref).String(), nil
}

func (r *Resolver) fail(h Hooks, err error) error {
	msg := ErrorMessage(err)
	r.logger().Debug("data resolution failed", "err", err)
	if h.OnFail != nil {
		h.OnFail(msg)
	}
	return err
}

func (r *Resolver) client() *Client {
	if r.Client == nil {
		r.Client = NewClient()
	}
	return r.Client
}

func (r *Resolver) logger() *log.Logger {
	if r.Logger == nil {
		return log.Default()
	}
	return r.Logger
}

func done(h Hooks, v any) {
	if h.Done != nil {
		h.Done(v)
	}
}
