package model

import "time"

// CycleProgress is the single process-wide snapshot of scheduler state for
// the cycle currently running (or just settled). It is reset at the start
// of each cycle and incremented as the cycle advances.
type CycleProgress struct {
	TotalSymbols    int
	AnalyzedInCycle int
	SkippedInCycle  int
	ErrorsInCycle   int
	CurrentSymbol   Symbol
	CycleStart      time.Time
}
