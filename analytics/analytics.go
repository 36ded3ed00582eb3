// Package analytics keeps privacy-friendly request statistics: which paths
// were served, how they resolved, and by what kind of client. No addresses
// or identifiers are stored.
package analytics

import (
	"strings"
	"time"
)

// Request is one served request.
type Request struct {
	Path    string
	Outcome string // generated, file, redirect, not_found, error
	Status  int
	Browser string
	OS      string
	Device  string
	Bot     string // empty for human visitors
	Time    time.Time
}

// Stats holds aggregated request data for a period.
type Stats struct {
	Period        string
	TotalRequests int
	BotRequests   int
	NotFound      int
	TopPages      []PageStat
	Outcomes      []DimensionStat
	Browsers      []DimensionStat
	Devices       []DimensionStat
	DailyViews    []DailyView
}

// PageStat represents page view statistics.
type PageStat struct {
	Path  string
	Views int
}

// DimensionStat is a count for one value of a dimension.
type DimensionStat struct {
	Name  string
	Count int
}

// DailyView represents views per day.
type DailyView struct {
	Date  string
	Views int
}

// ParseUserAgent extracts browser, OS, and device from User-Agent string.
func ParseUserAgent(ua string) (browser, os, device string) {
	ua = strings.ToLower(ua)

	// More specific patterns first: Edge and Opera UAs also contain "chrome".
	switch {
	case strings.Contains(ua, "firefox"):
		browser = "Firefox"
	case strings.Contains(ua, "opera") || strings.Contains(ua, "opr/"):
		browser = "Opera"
	case strings.Contains(ua, "edg"):
		browser = "Edge"
	case strings.Contains(ua, "chrome"):
		browser = "Chrome"
	case strings.Contains(ua, "safari"):
		browser = "Safari"
	default:
		browser = "Other"
	}

	// Android before Linux since Android UAs contain "linux".
	switch {
	case strings.Contains(ua, "windows"):
		os = "Windows"
	case strings.Contains(ua, "android"):
		os = "Android"
	case strings.Contains(ua, "iphone") || strings.Contains(ua, "ipad"):
		os = "iOS"
	case strings.Contains(ua, "macintosh") || strings.Contains(ua, "mac os"):
		os = "macOS"
	case strings.Contains(ua, "linux"):
		os = "Linux"
	default:
		os = "Other"
	}

	// iPad UAs contain "mobile".
	switch {
	case strings.Contains(ua, "tablet") || strings.Contains(ua, "ipad"):
		device = "Tablet"
	case strings.Contains(ua, "mobile"):
		device = "Mobile"
	default:
		device = "Desktop"
	}

	return
}

var botPatterns = []struct {
	pattern string
	name    string
}{
	{"googlebot", "Googlebot"},
	{"bingbot", "Bingbot"},
	{"yandex", "Yandex"},
	{"baidu", "Baidu"},
	{"duckduckbot", "DuckDuckBot"},
	{"facebookexternalhit", "Facebook"},
	{"twitterbot", "Twitterbot"},
	{"linkedinbot", "LinkedIn"},
	{"ahrefsbot", "Ahrefs"},
	{"semrushbot", "SEMrush"},
	{"mj12bot", "Majestic"},
	{"dotbot", "Moz"},
	{"slurp", "Yahoo Slurp"},
	{"feedfetcher", "Feed Fetcher"},
	{"crawler", "Generic Crawler"},
	{"crawl", "Generic Crawler"},
	{"spider", "Generic Spider"},
	{"scrape", "Scraper"},
}

// BotName returns the name of the crawler that sent ua, or "" when ua
// looks like a browser.
func BotName(ua string) string {
	ua = strings.ToLower(ua)
	for _, p := range botPatterns {
		if strings.Contains(ua, p.pattern) {
			return p.name
		}
	}
	if strings.Contains(ua, "bot") {
		return "Other Bot"
	}
	return ""
}

// StartOfDay returns midnight of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
