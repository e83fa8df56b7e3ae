package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopParseHooks{}
	p.OnParse(ctx, "botanical", true, 1, time.Millisecond)
	p.OnBatchStart(ctx, 3)
	p.OnBatchComplete(ctx, 2, 1, 0, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "memory")
	c.OnCacheMiss(ctx, "file")
	c.OnCacheSet(ctx, "redis", 1024)
	c.OnCacheError(ctx, "mongo", "get", errors.New("down"))

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/api/v1/{names}")
	h.OnResponse(ctx, "GET", "/api/v1/{names}", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Parse().(NoopParseHooks); !ok {
		t.Error("Parse() should return NoopParseHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customParse := &testParseHooks{}
	SetParseHooks(customParse)
	if Parse() != customParse {
		t.Error("SetParseHooks should set custom hooks")
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
	if _, ok := Parse().(NoopParseHooks); !ok {
		t.Error("Reset() should restore NoopParseHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testParseHooks{}
	SetParseHooks(custom)
	SetParseHooks(nil)

	if Parse() != custom {
		t.Error("SetParseHooks(nil) should be ignored")
	}
}

type testParseHooks struct{ NoopParseHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
