package scraper

import (
	"net/url"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// resourceTypes maps config names to Rod protocol resource types.
var resourceTypes = map[string]proto.NetworkResourceType{
	"Image":      proto.NetworkResourceTypeImage,
	"Stylesheet": proto.NetworkResourceTypeStylesheet,
	"Font":       proto.NetworkResourceTypeFont,
	"Media":      proto.NetworkResourceTypeMedia,
}

// trackerHosts are ad, analytics and consent hosts that sports stat pages
// load on every navigation. Subdomains match too.
var trackerHosts = map[string]struct{}{
	"doubleclick.net":       {},
	"googlesyndication.com": {},
	"googleadservices.com":  {},
	"google-analytics.com":  {},
	"googletagmanager.com":  {},
	"googletagservices.com": {},
	"connect.facebook.net":  {},
	"amazon-adsystem.com":   {},
	"adnxs.com":             {},
	"adsrvr.org":            {},
	"criteo.com":            {},
	"outbrain.com":          {},
	"taboola.com":           {},
	"pubmatic.com":          {},
	"rubiconproject.com":    {},
	"scorecardresearch.com": {},
	"quantserve.com":        {},
	"hotjar.com":            {},
	"segment.io":            {},
	"chartbeat.com":         {},
	"chartbeat.net":         {},
	"onetrust.com":          {},
	"cookielaw.org":         {},
	"consensu.org":          {},
}

// isTrackerHost reports whether host or one of its parent domains is listed.
func isTrackerHost(host string) bool {
	host = strings.ToLower(host)
	for host != "" {
		if _, ok := trackerHosts[host]; ok {
			return true
		}
		i := strings.IndexByte(host, '.')
		if i < 0 {
			return false
		}
		host = host[i+1:]
	}
	return false
}

// blocker decides which subresource requests a session tab drops.
type blocker struct {
	types    map[proto.NetworkResourceType]struct{}
	trackers bool
}

func newBlocker(typeNames []string, trackers bool) blocker {
	b := blocker{types: make(map[proto.NetworkResourceType]struct{}, len(typeNames)), trackers: trackers}
	for _, name := range typeNames {
		if rt, ok := resourceTypes[name]; ok {
			b.types[rt] = struct{}{}
		}
	}
	return b
}

func (b blocker) empty() bool { return len(b.types) == 0 && !b.trackers }

func (b blocker) blocks(rt proto.NetworkResourceType, rawURL string) bool {
	if _, ok := b.types[rt]; ok {
		return true
	}
	if !b.trackers {
		return false
	}
	u, err := url.Parse(rawURL)
	return err == nil && isTrackerHost(u.Hostname())
}

// mount installs the request interceptor on page. It returns nil when
// nothing is blocked; otherwise the caller stops the router on release.
func (b blocker) mount(page *rod.Page) *rod.HijackRouter {
	if b.empty() {
		return nil
	}

	router := page.HijackRequests()
	_ = router.Add("*", "", func(ctx *rod.Hijack) {
		if b.blocks(ctx.Request.Type(), ctx.Request.URL().String()) {
			ctx.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		ctx.ContinueRequest(&proto.FetchContinueRequest{})
	})

	// Run blocks until Stop.
	go router.Run()
	return router
}
