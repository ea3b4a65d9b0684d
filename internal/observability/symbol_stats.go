// Package observability tracks which unit symbols clients use and which
// ones fail to resolve.
package observability

import (
	"sort"
	"sync"
	"time"

	"github.com/snugunits/snug/internal/parser"
)

// Positions a symbol can take in an expression.
const (
	PositionNumerator   = "numerator"
	PositionDenominator = "denominator"
)

// SymbolStats tracks symbol and failure frequency over a sliding window.
type SymbolStats struct {
	mu          sync.RWMutex
	symbolFreq  map[string]*SymbolStat
	failureFreq map[string]*SymbolStat
	window      time.Duration
}

// SymbolStat holds statistics for one symbol or failing token.
type SymbolStat struct {
	Symbol    string         `json:"symbol"`
	Frequency int64          `json:"frequency"`
	LastSeen  time.Time      `json:"last_seen"`
	Positions map[string]int `json:"positions,omitempty"` // position → count
}

// NewSymbolStats creates a new tracker.
// window: entries not seen for this long are dropped by Prune
func NewSymbolStats(window time.Duration) *SymbolStats {
	return &SymbolStats{
		symbolFreq:  make(map[string]*SymbolStat),
		failureFreq: make(map[string]*SymbolStat),
		window:      window,
	}
}

// RecordSymbol records one use of a symbol in the given position.
func (s *SymbolStats) RecordSymbol(symbol, position string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stat, exists := s.symbolFreq[symbol]
	if !exists {
		stat = &SymbolStat{
			Symbol:    symbol,
			Positions: make(map[string]int),
		}
		s.symbolFreq[symbol] = stat
	}

	stat.Frequency++
	stat.LastSeen = time.Now()
	stat.Positions[position]++
}

// RecordExpression records every symbol of a successfully parsed expression,
// tracking whether it fell in the numerator or the denominator.
func (s *SymbolStats) RecordExpression(expr string) {
	position := PositionNumerator
	for _, tok := range parser.NewLexer(expr).Tokenize() {
		switch tok.Type {
		case parser.TokenSlash:
			position = PositionDenominator
		case parser.TokenSymbol:
			s.RecordSymbol(tok.Literal, position)
		}
	}
}

// RecordFailure records a token that did not resolve.
func (s *SymbolStats) RecordFailure(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stat, exists := s.failureFreq[token]
	if !exists {
		stat = &SymbolStat{Symbol: token}
		s.failureFreq[token] = stat
	}

	stat.Frequency++
	stat.LastSeen = time.Now()
}

// GetTopSymbols returns the top N symbols by frequency, most frequent first.
func (s *SymbolStats) GetTopSymbols(n int) []SymbolStat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return topN(s.symbolFreq, n)
}

// GetTopFailures returns the top N failing tokens by frequency.
func (s *SymbolStats) GetTopFailures(n int) []SymbolStat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return topN(s.failureFreq, n)
}

// topN copies and sorts a frequency map. Callers hold the read lock.
func topN(freq map[string]*SymbolStat, n int) []SymbolStat {
	if n <= 0 || len(freq) == 0 {
		return []SymbolStat{}
	}

	stats := make([]SymbolStat, 0, len(freq))
	for _, st := range freq {
		cp := SymbolStat{
			Symbol:    st.Symbol,
			Frequency: st.Frequency,
			LastSeen:  st.LastSeen,
		}
		if st.Positions != nil {
			cp.Positions = make(map[string]int, len(st.Positions))
			for pos, count := range st.Positions {
				cp.Positions[pos] = count
			}
		}
		stats = append(stats, cp)
	}

	// ties broken by symbol for stable output
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Frequency != stats[j].Frequency {
			return stats[i].Frequency > stats[j].Frequency
		}
		return stats[i].Symbol < stats[j].Symbol
	})

	if n > len(stats) {
		n = len(stats)
	}
	return stats[:n]
}

// Prune removes entries where time.Since(LastSeen) > window.
func (s *SymbolStats) Prune() {
	s.mu.Lock()
	defer s.mu.Unlock()

	threshold := time.Now().Add(-s.window)

	for sym, st := range s.symbolFreq {
		if st.LastSeen.Before(threshold) {
			delete(s.symbolFreq, sym)
		}
	}
	for tok, st := range s.failureFreq {
		if st.LastSeen.Before(threshold) {
			delete(s.failureFreq, tok)
		}
	}
}
