package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	d := NoopDashboardHooks{}
	d.OnLoadStart(ctx, "data/f1.csv")
	d.OnLoadComplete(ctx, "data/f1.csv", 100, time.Second, nil)
	d.OnComputeStart(ctx, "f1-dnf")
	d.OnComputeComplete(ctx, "f1-dnf", time.Second, nil)
	d.OnRenderStart(ctx, "f1-dnf", []string{"svg"})
	d.OnRenderComplete(ctx, "f1-dnf", []string{"svg"}, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "dataset")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "id", "GET", "/views")
	h.OnResponse(ctx, "id", "GET", "/views", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Dashboard().(NoopDashboardHooks); !ok {
		t.Error("Dashboard() should return NoopDashboardHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customDashboard := &testDashboardHooks{}
	SetDashboardHooks(customDashboard)
	if Dashboard() != customDashboard {
		t.Error("SetDashboardHooks should set custom hooks")
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
	if _, ok := Dashboard().(NoopDashboardHooks); !ok {
		t.Error("Reset() should restore NoopDashboardHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testDashboardHooks{}
	SetDashboardHooks(custom)
	SetDashboardHooks(nil)

	if Dashboard() != custom {
		t.Error("SetDashboardHooks(nil) should be ignored")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := NewLogHooks(logger)
	ctx := context.Background()

	h.OnLoadComplete(ctx, "data/nfl.csv", 544, 12*time.Millisecond, nil)
	h.OnCacheHit(ctx, "artifact")
	h.OnRenderComplete(ctx, "nfl-landscape", []string{"png"}, time.Millisecond, errors.New("boom"))
	h.OnResponse(ctx, "req-1", "GET", "/views/f1-kpis", 200, time.Millisecond)

	out := buf.String()
	for _, want := range []string{"dataset loaded", "rows=544", "cache hit", "render failed", "boom", "status=200"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooksRespectLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel})
	h := NewLogHooks(logger)

	h.OnCacheMiss(context.Background(), "dataset")
	if buf.Len() != 0 {
		t.Errorf("debug events should be filtered at info level, got %q", buf.String())
	}
}

type testDashboardHooks struct{ NoopDashboardHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
