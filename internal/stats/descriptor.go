// Package stats maps logical prop descriptors onto box-score values and
// evaluates over/under outcomes.
package stats

import (
	"fmt"
	"strings"

	"prop-tracker/internal/nba"
)

// PropType identifies the wagered stat: a primitive or a declared linear
// combination of primitives.
type PropType string

const (
	PropPoints    PropType = "points"
	PropRebounds  PropType = "rebounds"
	PropAssists   PropType = "assists"
	PropSteals    PropType = "steals"
	PropBlocks    PropType = "blocks"
	PropThrees    PropType = "threes"
	PropTurnovers PropType = "turnovers"
	PropPRA       PropType = "pra"
	PropPR        PropType = "pr"
	PropPA        PropType = "pa"
	PropRA        PropType = "ra"
)

type primitive int

const (
	primPoints primitive = iota
	primRebounds
	primAssists
	primSteals
	primBlocks
	primThrees
	primTurnovers
)

func (p primitive) from(line nba.StatLine) int {
	switch p {
	case primPoints:
		return line.Points
	case primRebounds:
		return line.Rebounds
	case primAssists:
		return line.Assists
	case primSteals:
		return line.Steals
	case primBlocks:
		return line.Blocks
	case primThrees:
		return line.Threes
	case primTurnovers:
		return line.Turnovers
	}
	return 0
}

// propComponents is the single source of truth for which box-score fields a
// prop type reads, in full-game and period mode alike.
var propComponents = map[PropType][]primitive{
	PropPoints:    {primPoints},
	PropRebounds:  {primRebounds},
	PropAssists:   {primAssists},
	PropSteals:    {primSteals},
	PropBlocks:    {primBlocks},
	PropThrees:    {primThrees},
	PropTurnovers: {primTurnovers},
	PropPRA:       {primPoints, primRebounds, primAssists},
	PropPR:        {primPoints, primRebounds},
	PropPA:        {primPoints, primAssists},
	PropRA:        {primRebounds, primAssists},
}

// ParsePropType validates and normalizes a prop type label.
func ParsePropType(s string) (PropType, error) {
	p := PropType(strings.ToLower(strings.TrimSpace(s)))
	if p == "3-pointers" || p == "3pm" {
		p = PropThrees
	}
	if _, ok := propComponents[p]; !ok {
		return "", fmt.Errorf("unknown prop type %q", s)
	}
	return p, nil
}

// ValueFrom resolves the prop's value from a stat line, summing constituent
// fields for combination types.
func (p PropType) ValueFrom(line nba.StatLine) float64 {
	total := 0
	for _, prim := range propComponents[p] {
		total += prim.from(line)
	}
	return float64(total)
}

// Period scopes a prop to a quarter, a half, or the full game.
type Period string

const (
	PeriodFullGame   Period = ""
	PeriodQ1         Period = "Q1"
	PeriodQ2         Period = "Q2"
	PeriodQ3         Period = "Q3"
	PeriodQ4         Period = "Q4"
	PeriodFirstHalf  Period = "1H"
	PeriodSecondHalf Period = "2H"
)

// ParsePeriod validates a period label; the empty string means full game.
func ParsePeriod(s string) (Period, error) {
	switch Period(strings.ToUpper(strings.TrimSpace(s))) {
	case PeriodFullGame:
		return PeriodFullGame, nil
	case PeriodQ1:
		return PeriodQ1, nil
	case PeriodQ2:
		return PeriodQ2, nil
	case PeriodQ3:
		return PeriodQ3, nil
	case PeriodQ4:
		return PeriodQ4, nil
	case PeriodFirstHalf:
		return PeriodFirstHalf, nil
	case PeriodSecondHalf:
		return PeriodSecondHalf, nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// Quarters returns the quarter numbers the period aggregates.
func (p Period) Quarters() []int {
	switch p {
	case PeriodQ1:
		return []int{1}
	case PeriodQ2:
		return []int{2}
	case PeriodQ3:
		return []int{3}
	case PeriodQ4:
		return []int{4}
	case PeriodFirstHalf:
		return []int{1, 2}
	case PeriodSecondHalf:
		return []int{3, 4}
	}
	return []int{1, 2, 3, 4}
}
