package scraper

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-rod/rod/lib/proto"

	"github.com/puckline/matchup/extract"
	"github.com/puckline/matchup/models"
)

func TestIsTrackerHost(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"google-analytics.com", true},
		{"www.google-analytics.com", true},
		{"pagead2.googlesyndication.com", true},
		{"CDN.Cookielaw.ORG", true},
		{"www.nhl.com", false},
		{"analytics.com", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isTrackerHost(tt.host); got != tt.want {
			t.Errorf("isTrackerHost(%q) = %v, want %v", tt.host, got, tt.want)
		}
	}
}

func TestBlocker(t *testing.T) {
	b := newBlocker([]string{"Image", "Font", "Bogus"}, true)
	if b.empty() {
		t.Fatal("blocker with types reported empty")
	}
	if len(b.types) != 2 {
		t.Errorf("unknown type names kept: %v", b.types)
	}

	cases := []struct {
		rt   proto.NetworkResourceType
		url  string
		want bool
	}{
		{proto.NetworkResourceTypeImage, "https://cdn.example.com/logo.png", true},
		{proto.NetworkResourceTypeDocument, "https://www.example.com/defense", false},
		{proto.NetworkResourceTypeScript, "https://www.googletagmanager.com/gtm.js", true},
		{proto.NetworkResourceTypeXHR, "https://api.example.com/rankings", false},
	}
	for _, c := range cases {
		if got := b.blocks(c.rt, c.url); got != c.want {
			t.Errorf("blocks(%s, %s) = %v, want %v", c.rt, c.url, got, c.want)
		}
	}

	off := newBlocker(nil, false)
	if !off.empty() {
		t.Error("blocker with nothing configured is not empty")
	}
	if off.blocks(proto.NetworkResourceTypeScript, "https://www.googletagmanager.com/gtm.js") {
		t.Error("tracker blocked with trackers disabled")
	}
}

func TestCategorizeError(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{context.DeadlineExceeded, models.ErrCodeTimeout},
		{fmt.Errorf("wrapped: %w", context.Canceled), models.ErrCodeTimeout},
		{errors.New("net::ERR_NAME_NOT_RESOLVED"), models.ErrCodeNavigation},
	}
	for _, c := range cases {
		if got := categorizeError(c.err, "nav").Code; got != c.want {
			t.Errorf("categorizeError(%v) = %s, want %s", c.err, got, c.want)
		}
	}
}

func TestMissingIsLocatorNotFound(t *testing.T) {
	err := missing("no element matches %q", "#tabs")
	if !errors.Is(err, extract.ErrLocatorNotFound) {
		t.Errorf("missing() = %v, not ErrLocatorNotFound", err)
	}
}

func TestRodPage_CloseOnce(t *testing.T) {
	n := 0
	p := &RodPage{release: func() { n++ }}
	p.Close()
	p.Close()
	if n != 1 {
		t.Errorf("release ran %d times, want 1", n)
	}
}
