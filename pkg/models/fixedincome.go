package models

// BidOffer is one KIBOR quote pair as printed on the SBP page.
type BidOffer struct {
	Bid   string `json:"bid"`
	Offer string `json:"offer"`
}

// KiborRates is the parsed KIBOR table.
type KiborRates struct {
	AsOfDate string              `json:"as_of_date,omitempty"` // empty when the table has no "As on" row
	Tenors   []string            `json:"tenors"`               // first-seen order
	Rates    map[string]BidOffer `json:"rates"`                // tenor → quote, last row wins
}

// NewKiborRates returns an empty table ready for Set.
func NewKiborRates() *KiborRates {
	return &KiborRates{Rates: make(map[string]BidOffer)}
}

// Set records a quote for tenor. A repeated tenor overwrites the earlier quote
// but keeps its original position.
func (k *KiborRates) Set(tenor string, q BidOffer) {
	if _, ok := k.Rates[tenor]; !ok {
		k.Tenors = append(k.Tenors, tenor)
	}
	k.Rates[tenor] = q
}

// KiborEntry is a tenor with its quote, used for ordered iteration.
type KiborEntry struct {
	Tenor string
	BidOffer
}

// Entries returns the quotes in first-seen tenor order.
func (k *KiborRates) Entries() []KiborEntry {
	out := make([]KiborEntry, 0, len(k.Tenors))
	for _, t := range k.Tenors {
		out = append(out, KiborEntry{Tenor: t, BidOffer: k.Rates[t]})
	}
	return out
}

// KiborResult is either a parsed table or the reason there is none.
type KiborResult struct {
	Rates   *KiborRates `json:"rates,omitempty"`
	Failure FailureKind `json:"failure,omitempty"`
}

// OK reports whether Rates is usable.
func (r KiborResult) OK() bool { return r.Failure == FailureNone && r.Rates != nil }
