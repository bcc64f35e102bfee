package model

import "github.com/shopspring/decimal"

// Reason explains a verdict.
type Reason string

const (
	ReasonPassed             Reason = "passed"
	ReasonCriteriaNotMet     Reason = "criteria not met"
	ReasonZeroBaselineVolume Reason = "zero baseline volume"
	ReasonZeroBaselinePrice  Reason = "zero baseline price"
)

// Verdict is the screening result for one symbol.
// Factors skipped by a zero-baseline guard are recorded as failed with a zero ratio.
type Verdict struct {
	Symbol       string
	Pass         bool
	Momentum     bool
	VolumeGrowth bool
	PriceGrowth  bool
	Reason       Reason

	UpDays      int
	UpRatio     float64
	VolumeRatio decimal.Decimal
	PriceRatio  decimal.Decimal
}
