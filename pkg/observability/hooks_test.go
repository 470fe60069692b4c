package observability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	c := NoopChartHooks{}
	c.OnResolveStart(ctx, "url", "http://db/_view/v")
	c.OnResolveComplete(ctx, "url", "http://db/_view/v", time.Second, nil)
	c.OnSelect(ctx, "", "bar-chart", 3)
	c.OnRenderStart(ctx, "bar-chart", 2)
	c.OnRenderComplete(ctx, "bar-chart", time.Millisecond, nil)

	k := NoopCacheHooks{}
	k.OnCacheHit(ctx, "response")
	k.OnCacheMiss(ctx, "response")
	k.OnCacheSet(ctx, "artifact", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "localhost", "/db/_view/v")
	h.OnResponse(ctx, "GET", "localhost", "/db/_view/v", 200, time.Second)
	h.OnError(ctx, "GET", "localhost", "/db/_view/v", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Chart().(NoopChartHooks); !ok {
		t.Error("Chart() should return NoopChartHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customChart := &testChartHooks{}
	SetChartHooks(customChart)
	if Chart() != customChart {
		t.Error("SetChartHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Chart().(NoopChartHooks); !ok {
		t.Error("Reset() should restore NoopChartHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testChartHooks{}
	SetChartHooks(custom)
	SetChartHooks(nil)
	if Chart() != custom {
		t.Error("SetChartHooks(nil) should keep the registered hooks")
	}
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testChartHooks{}
	SetChartHooks(custom)

	ctx := context.Background()
	Chart().OnRenderStart(ctx, "pie-chart", 4)
	Chart().OnRenderComplete(ctx, "pie-chart", time.Millisecond, errors.New("boom"))

	custom.mu.Lock()
	defer custom.mu.Unlock()
	if len(custom.events) != 2 || custom.events[0] != "render-start:pie-chart" || custom.events[1] != "render-complete:pie-chart:boom" {
		t.Errorf("events = %v", custom.events)
	}
}

func TestConcurrentAccess(t *testing.T) {
	Reset()
	defer Reset()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetCacheHooks(&testCacheHooks{})
		}()
		go func() {
			defer wg.Done()
			Cache().OnCacheHit(context.Background(), "response")
		}()
	}
	wg.Wait()
}

type testChartHooks struct {
	NoopChartHooks
	mu     sync.Mutex
	events []string
}

func (h *testChartHooks) OnRenderStart(_ context.Context, chartType string, _ int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, "render-start:"+chartType)
}

func (h *testChartHooks) OnRenderComplete(_ context.Context, chartType string, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	msg := "render-complete:" + chartType
	if err != nil {
		msg += ":" + err.Error()
	}
	h.events = append(h.events, msg)
}

type testCacheHooks struct{ NoopCacheHooks }

type testHTTPHooks struct{ NoopHTTPHooks }
