package data

import (
	"fmt"
	"slices"
)

// Curve names looked up by the damage pipeline.
const (
	CurveAttackBonus        = "attack_bonus"
	CurveCriticalMultiplier = "critical_multiplier"
)

// CurvePoint is one key of a scalar curve.
type CurvePoint struct {
	Level float64 `yaml:"level"`
	Value float64 `yaml:"value"`
}

// Curve is a piecewise-linear scalar function of level.
// Outside the keyed range the nearest key's value is returned.
type Curve struct {
	points []CurvePoint
}

// NewCurve builds a curve from keys in any order.
func NewCurve(points []CurvePoint) (*Curve, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("curve has no keys")
	}
	sorted := slices.Clone(points)
	slices.SortFunc(sorted, func(a, b CurvePoint) int {
		switch {
		case a.Level < b.Level:
			return -1
		case a.Level > b.Level:
			return 1
		}
		return 0
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Level == sorted[i-1].Level {
			return nil, fmt.Errorf("duplicate curve key at level %v", sorted[i].Level)
		}
	}
	return &Curve{points: sorted}, nil
}

// Eval returns the curve value at level.
func (c *Curve) Eval(level float64) float64 {
	pts := c.points
	if level <= pts[0].Level {
		return pts[0].Value
	}
	last := pts[len(pts)-1]
	if level >= last.Level {
		return last.Value
	}
	i, _ := slices.BinarySearchFunc(pts, level, func(p CurvePoint, l float64) int {
		switch {
		case p.Level < l:
			return -1
		case p.Level > l:
			return 1
		}
		return 0
	})
	// pts[i-1].Level < level <= pts[i].Level
	lo, hi := pts[i-1], pts[i]
	t := (level - lo.Level) / (hi.Level - lo.Level)
	return lo.Value + t*(hi.Value-lo.Value)
}
