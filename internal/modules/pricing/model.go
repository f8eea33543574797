// README: Fare inputs, results and discount tiers.
package pricing

import "fairride/internal/types"

const (
	BaseFare   = 15.0
	RatePerKm  = 2.0
	FlatInside = 15.0
)

// Rule identifies which precedence branch produced a fare.
type Rule int

const (
	RuleDowntownToFixed Rule = iota + 1
	RuleFixedToDowntown
	RuleIntoDowntown
	RuleOutOfDowntown
	RuleWithinDowntown
	RuleThroughDowntown
	RuleOutsideDowntown
)

func (r Rule) String() string {
	switch r {
	case RuleDowntownToFixed:
		return "downtown_to_fixed"
	case RuleFixedToDowntown:
		return "fixed_to_downtown"
	case RuleIntoDowntown:
		return "into_downtown"
	case RuleOutOfDowntown:
		return "out_of_downtown"
	case RuleWithinDowntown:
		return "within_downtown"
	case RuleThroughDowntown:
		return "through_downtown"
	case RuleOutsideDowntown:
		return "outside_downtown"
	default:
		return "unknown"
	}
}

func (r Rule) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

type FareInput struct {
	StartInside         bool
	EndInside           bool
	EverEnteredDowntown bool
	DistanceKm          float64
	StartFixedFare      *float64
	EndFixedFare        *float64
}

// FareTiers are successive discounts: TierA high school/college/PWD/senior,
// TierB elementary, TierC kinder/daycare.
type FareTiers struct {
	TierA int `json:"tierA"`
	TierB int `json:"tierB"`
	TierC int `json:"tierC"`
}

type FareResult struct {
	Fare  int
	Tiers FareTiers
	Rule  Rule
}

// Estimate is a pre-trip quote between two points.
type Estimate struct {
	Origin       types.Coordinate `json:"origin"`
	Destination  types.Coordinate `json:"destination"`
	DistanceKm   float64          `json:"distanceKm"`
	RoadDistance bool             `json:"roadDistance"`
	Fare         int              `json:"fare"`
	Tiers        FareTiers        `json:"fareTiers"`
	Rule         Rule             `json:"rule"`
}

// MatrixEntry is one published row of the fare matrix.
type MatrixEntry struct {
	ID          int64     `json:"id"`
	Destination string    `json:"destination"`
	DistanceKm  float64   `json:"distanceKm"`
	Fare        int       `json:"fare"`
	Tiers       FareTiers `json:"fareTiers"`
}
