package domain

// StopReason names why a progression run ended.
type StopReason string

const (
	// StopComposite means the next candidate term is composite.
	StopComposite StopReason = "composite"
	// StopOverflow means the next candidate term exceeds 2^64-1.
	StopOverflow StopReason = "overflow"
	// StopTermCap means the requested number of terms was reached.
	StopTermCap StopReason = "term_cap"
)

// ProgressionResult is the longest initial run of primes in
// start, start+diff, start+2*diff, ...
//
// Length == len(Primes) and Primes[i] == Start + i*Diff.
type ProgressionResult struct {
	Start  Bounded64   `json:"start" yaml:"start"`
	Diff   Bounded64   `json:"diff" yaml:"diff"`
	Length int         `json:"length" yaml:"length"`
	Primes []Bounded64 `json:"primes" yaml:"primes"`
	Stop   StopReason  `json:"stop" yaml:"stop"`
}
