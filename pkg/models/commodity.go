package models

import "time"

// FailureKind tags why an extracted value is unavailable.
// The zero value means the extraction succeeded.
type FailureKind string

const (
	FailureNone    FailureKind = ""
	FailureNetwork FailureKind = "network" // site unreachable, timeout, HTTP error status
	FailureParse   FailureKind = "parse"   // page or payload no longer has the expected shape
	FailureMissing FailureKind = "missing" // page parsed but the labelled field is absent
)

// Value is a single scraped display string, or the reason it is missing.
// Prices and rates are kept exactly as the source prints them.
type Value struct {
	Text    string      `json:"text,omitempty"`
	Failure FailureKind `json:"failure,omitempty"`
}

// Text returns a successful Value.
func Text(s string) Value { return Value{Text: s} }

// Failed returns a Value carrying only a failure kind.
func Failed(kind FailureKind) Value { return Value{Failure: kind} }

// OK reports whether the value was extracted.
func (v Value) OK() bool { return v.Failure == FailureNone }

// CharterRates holds the raw charter-rate lines of the listing page, in page order.
type CharterRates struct {
	Lines   []string    `json:"lines"`
	Failure FailureKind `json:"failure,omitempty"`
}

// OK reports whether the charter page was fetched and scanned.
func (c CharterRates) OK() bool { return c.Failure == FailureNone }

// CommodityReport is the result of one collection run.
// It is assembled once after every source has finished and is not modified afterwards.
type CommodityReport struct {
	Timestamp   string    `json:"timestamp"` // "2006-01-02 15:04:05"
	GeneratedAt time.Time `json:"generated_at"`

	Brent    Value `json:"brent"`      // USD/barrel
	WTI      Value `json:"wti"`        // USD/barrel
	Coal     Value `json:"coal"`       // USD/ton
	Bunker   Value `json:"bunker"`     // USD/mt, global average
	USDToPKR Value `json:"usd_to_pkr"` // two decimals

	Kibor        KiborResult  `json:"kibor"`
	CharterRates CharterRates `json:"charter_rates"`
}
