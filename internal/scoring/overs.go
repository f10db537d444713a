package scoring

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Overs is a count of legal balls. It is stored as balls so that no rounding
// ever enters the ledger, and presented in cricket's over.ball notation.
type Overs int

// OversFromBalls builds an Overs value from a legal ball count.
func OversFromBalls(balls int) Overs {
	return Overs(balls)
}

// Balls returns the legal ball count.
func (o Overs) Balls() int {
	return int(o)
}

// Completed returns the number of whole overs.
func (o Overs) Completed() int {
	return int(o) / legalBallsOver
}

// Remainder returns the balls bowled in the unfinished over.
func (o Overs) Remainder() int {
	return int(o) % legalBallsOver
}

// Fraction returns the overs as a true fraction, e.g. 4 overs 3 balls is 4.5.
// Run rates divide by this value.
func (o Overs) Fraction() float64 {
	return float64(o) / legalBallsOver
}

// String renders over.ball notation, e.g. "4.3".
func (o Overs) String() string {
	return fmt.Sprintf("%d.%d", o.Completed(), o.Remainder())
}

// ParseOvers reads over.ball notation. The ball part must be 0 to 5 and may
// be omitted ("20" is twenty complete overs).
func ParseOvers(s string) (Overs, error) {
	whole, part, _ := strings.Cut(strings.TrimSpace(s), ".")
	n, err := strconv.Atoi(whole)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid overs %q", s)
	}
	balls := 0
	if part != "" {
		if balls, err = strconv.Atoi(part); err != nil || balls < 0 || balls >= legalBallsOver {
			return 0, fmt.Errorf("invalid overs %q", s)
		}
	}
	return Overs(n*legalBallsOver + balls), nil
}

func (o Overs) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

func (o *Overs) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("overs must be a string in over.ball notation: %w", err)
	}
	v, err := ParseOvers(s)
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// RunRate returns runs per over, or 0 when no ball has been bowled.
func RunRate(runs int, overs Overs) float64 {
	if overs == 0 {
		return 0
	}
	return float64(runs) / overs.Fraction()
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
