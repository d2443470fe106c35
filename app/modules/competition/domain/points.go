package competitiondomain

import (
	"math/big"
	"strconv"
)

// Points is an exact match-play point value. Split holes produce thirds and
// quarters, so values are kept as rationals and only rounded for display.
// The zero value is zero points. Points values are immutable.
type Points struct {
	r *big.Rat
}

// NewPoints returns num/den points. den must be non-zero.
func NewPoints(num, den int64) Points {
	return Points{r: big.NewRat(num, den)}
}

func (p Points) rat() *big.Rat {
	if p.r == nil {
		return new(big.Rat)
	}
	return p.r
}

// Add returns p + q.
func (p Points) Add(q Points) Points {
	return Points{r: new(big.Rat).Add(p.rat(), q.rat())}
}

// Cmp compares p and q.
func (p Points) Cmp(q Points) int {
	return p.rat().Cmp(q.rat())
}

// IsZero reports whether p equals zero.
func (p Points) IsZero() bool {
	return p.rat().Sign() == 0
}

// Float64 returns the nearest float value.
func (p Points) Float64() float64 {
	f, _ := p.rat().Float64()
	return f
}

// Exact returns the fraction in lowest terms, e.g. "17/2".
func (p Points) Exact() string {
	return p.rat().RatString()
}

// String renders the value with one decimal, e.g. "8.5".
func (p Points) String() string {
	return p.rat().FloatString(1)
}

// MarshalJSON encodes the value as a JSON number.
func (p Points) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(p.Float64(), 'f', -1, 64)), nil
}

// sumPoints adds every value of the table.
func sumPoints(table map[string]Points) Points {
	total := Points{}
	for _, v := range table {
		total = total.Add(v)
	}
	return total
}
