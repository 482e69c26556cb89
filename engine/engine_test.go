package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

var renderedPage = `<html><head><title> Defense vs Position </title></head><body>` +
	strings.Repeat(`<p>Shots on Goal allowed to left wings: 25th in the league this season.</p>`, 5) +
	`</body></html>`

func TestNeedsBrowser(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"rendered", renderedPage, false},
		{"empty shell", `<html><body><div id="root"></div><script src="/app.js"></script></body></html>`, true},
		{
			"noscript warning",
			`<html><body>` + strings.Repeat("<p>some text here to pass the length check</p>", 10) +
				`<noscript>You need to enable JavaScript to run this app.</noscript></body></html>`,
			true,
		},
		{
			"script text does not count",
			`<html><body><script>` + strings.Repeat("var x = 1;", 100) + `</script></body></html>`,
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsBrowser([]byte(tt.body)); got != tt.want {
				t.Errorf("NeedsBrowser = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPageTitle(t *testing.T) {
	if got := pageTitle([]byte(renderedPage)); got != "Defense vs Position" {
		t.Errorf("pageTitle = %q", got)
	}
	if got := pageTitle([]byte("<html><body>no title</body></html>")); got != "" {
		t.Errorf("pageTitle without title = %q", got)
	}
}

func TestHTTPEngine(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/shell":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, `<html><body><div id="app"></div></body></html>`)
		case "/json":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{}`)
		default:
			if got := r.Header.Get("X-Test"); got != "yes" {
				t.Errorf("custom header = %q", got)
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, renderedPage)
		}
	}))
	defer srv.Close()

	e := NewHTTPEngine(5 * time.Second)

	res, err := e.Fetch(context.Background(), &FetchRequest{URL: srv.URL + "/", Headers: map[string]string{"X-Test": "yes"}})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if res.Title != "Defense vs Position" || res.StatusCode != http.StatusOK || res.EngineName != "http" {
		t.Errorf("result = %+v", res)
	}

	if _, err := e.Fetch(context.Background(), &FetchRequest{URL: srv.URL + "/shell"}); !errors.Is(err, ErrNeedsBrowser) {
		t.Errorf("shell err = %v, want ErrNeedsBrowser", err)
	}
	if _, err := e.Fetch(context.Background(), &FetchRequest{URL: srv.URL + "/json"}); err == nil {
		t.Error("non-html response accepted")
	}
}

type fakeEngine struct {
	name  string
	delay time.Duration
	err   error
	calls atomic.Int32
}

func (f *fakeEngine) Name() string { return f.name }

func (f *fakeEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	f.calls.Add(1)
	select {
	case <-time.After(f.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &FetchResult{HTML: f.name, EngineName: f.name}, nil
}

func TestDispatcher_FirstSuccessWins(t *testing.T) {
	httpEng := &fakeEngine{name: "http", err: ErrNeedsBrowser}
	rodEng := &fakeEngine{name: "rod", delay: 10 * time.Millisecond}
	mem := NewDomainMemory(time.Hour)
	d := NewDispatcher([]Engine{httpEng, rodEng}, []time.Duration{0, 5 * time.Millisecond}, mem)

	res, err := d.Dispatch(context.Background(), &FetchRequest{URL: "https://example.com/nhl"})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if res.EngineName != "rod" {
		t.Errorf("winner = %s, want rod", res.EngineName)
	}
	if got := mem.Get("example.com"); got != "rod" {
		t.Errorf("memory = %q, want rod", got)
	}

	// Remembered engine runs alone.
	if _, err := d.Dispatch(context.Background(), &FetchRequest{URL: "https://example.com/other"}); err != nil {
		t.Fatalf("second Dispatch: %v", err)
	}
	if got := httpEng.calls.Load(); got != 1 {
		t.Errorf("http engine called %d times, want 1", got)
	}
}

func TestDispatcher_SlowEngineNeverStarts(t *testing.T) {
	fast := &fakeEngine{name: "http"}
	slow := &fakeEngine{name: "rod"}
	d := NewDispatcher([]Engine{fast, slow}, []time.Duration{0, time.Hour}, nil)

	res, err := d.Dispatch(context.Background(), &FetchRequest{URL: "https://example.com"})
	if err != nil || res.EngineName != "http" {
		t.Fatalf("Dispatch = %+v, %v", res, err)
	}
	if slow.calls.Load() != 0 {
		t.Error("escalated engine started after the race was won")
	}
}

func TestDispatcher_AllFail(t *testing.T) {
	boom := errors.New("boom")
	d := NewDispatcher([]Engine{
		&fakeEngine{name: "http", err: ErrNeedsBrowser},
		&fakeEngine{name: "rod", err: boom, delay: 5 * time.Millisecond},
	}, nil, nil)

	if _, err := d.Dispatch(context.Background(), &FetchRequest{URL: "https://example.com"}); !errors.Is(err, boom) {
		t.Errorf("err = %v, want last engine's error", err)
	}
}

func TestDispatcher_StaleMemoryFallsBackToRace(t *testing.T) {
	mem := NewDomainMemory(time.Hour)
	mem.Set("example.com", "rod")
	d := NewDispatcher([]Engine{
		&fakeEngine{name: "http"},
		&fakeEngine{name: "rod", err: errors.New("crashed")},
	}, nil, mem)

	res, err := d.Dispatch(context.Background(), &FetchRequest{URL: "https://example.com"})
	if err != nil || res.EngineName != "http" {
		t.Fatalf("Dispatch = %+v, %v", res, err)
	}
	if got := mem.Get("example.com"); got != "http" {
		t.Errorf("memory = %q, want http after re-race", got)
	}
}

func TestRodEngine_ForcesStealth(t *testing.T) {
	var sawStealth bool
	e := NewRodEngine(func(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
		sawStealth = req.Stealth
		return &FetchResult{HTML: "<html></html>"}, nil
	}, true)

	req := &FetchRequest{URL: "https://example.com"}
	res, err := e.Fetch(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if !sawStealth || req.Stealth {
		t.Errorf("stealth forced = %v, caller mutated = %v", sawStealth, req.Stealth)
	}
	if res.EngineName != "rod-stealth" {
		t.Errorf("EngineName = %q", res.EngineName)
	}

	if _, err := NewRodEngine(nil, false).Fetch(context.Background(), req); err == nil {
		t.Error("unconfigured rod engine returned no error")
	}
}
