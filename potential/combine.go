package potential

import (
	"fmt"

	"github.com/katalvlaran/apf/vecfield"
)

// Combine returns attractive + Σ repulsive with every vector's magnitude
// clamped to [eps, maxMag]. The inputs are not modified; nil repulsive entries
// are skipped.
func Combine(attractive *vecfield.Field, repulsive []*vecfield.Field, maxMag, eps float64) (*vecfield.Field, error) {
	if attractive == nil {
		return nil, fmt.Errorf("potential: Combine: %w", ErrNilField)
	}

	fields := make([]*vecfield.Field, 0, 1+len(repulsive))
	fields = append(fields, attractive)
	for _, r := range repulsive {
		if r != nil {
			fields = append(fields, r)
		}
	}

	out, err := vecfield.Sum(fields...)
	if err != nil {
		return nil, fmt.Errorf("potential: Combine: %w", err)
	}
	out.Clamp(maxMag, eps)

	return out, nil
}
