package lospec

import (
	"fmt"
	"math"
	"strings"
)

// Metric ranks colors by closeness. Distance must be non-negative and zero
// for identical colors. Alpha is ignored by all built-in metrics.
type Metric interface {
	Name() string
	Distance(a, b Color) float64
}

// ManhattanMetric is the palette's own metric: the scaled, truncated
// Manhattan distance returned by Distance.
type ManhattanMetric struct{}

// Name returns "Manhattan".
func (ManhattanMetric) Name() string { return "Manhattan" }

// Distance returns Distance(a, b) as a float64.
func (ManhattanMetric) Distance(a, b Color) float64 {
	return float64(Distance(a, b))
}

// RedmeanMetric is the "redmean" weighted Euclidean approximation of
// perceived difference, computed on the 0-255 scale.
type RedmeanMetric struct{}

// Name returns "Redmean".
func (RedmeanMetric) Name() string { return "Redmean" }

// Distance returns the redmean distance between a and b.
func (RedmeanMetric) Distance(a, b Color) float64 {
	rmean := (a.R + b.R) * 255 / 2
	dr := (a.R - b.R) * 255
	dg := (a.G - b.G) * 255
	db := (a.B - b.B) * 255
	return math.Sqrt((2+rmean/256)*dr*dr + 4*dg*dg + (2+(255-rmean)/256)*db*db)
}

// LabMetric is the Euclidean distance in CIE L*a*b* space.
type LabMetric struct{}

// Name returns "LAB".
func (LabMetric) Name() string { return "LAB" }

// Distance returns the CIE76 distance between a and b.
func (LabMetric) Distance(a, b Color) float64 {
	return a.Color.DistanceLab(b.Color)
}

// Metrics lists the built-in metrics.
var Metrics = []Metric{ManhattanMetric{}, RedmeanMetric{}, LabMetric{}}

// ParseMetric returns the built-in metric with the given name, ignoring
// case.
func ParseMetric(name string) (Metric, error) {
	for _, m := range Metrics {
		if strings.EqualFold(m.Name(), name) {
			return m, nil
		}
	}
	return nil, fmt.Errorf("unknown color metric %q, options are Manhattan, Redmean or LAB", name)
}
