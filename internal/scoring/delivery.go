package scoring

// ExtraKind identifies which extras rule applies to a delivery. Exactly one
// kind applies per ball.
type ExtraKind string

const (
	ExtraNone   ExtraKind = "none"
	ExtraWide   ExtraKind = "wide"
	ExtraNoBall ExtraKind = "no_ball"
	ExtraBye    ExtraKind = "bye"
	ExtraLegBye ExtraKind = "leg_bye"
)

// WicketType describes how a batsman was dismissed on a delivery.
type WicketType string

const (
	WicketNone             WicketType = "none"
	WicketBowled           WicketType = "bowled"
	WicketCaught           WicketType = "caught"
	WicketLBW              WicketType = "lbw"
	WicketRunOut           WicketType = "run_out"
	WicketStumped          WicketType = "stumped"
	WicketHitWicket        WicketType = "hit_wicket"
	WicketHandledBall      WicketType = "handled_ball"
	WicketObstructingField WicketType = "obstructing_field"
)

const (
	maxRunsOffBat  = 6
	maxExtraRuns   = 6
	legalBallsOver = 6
)

// strikerOnly lists dismissals that can only fall to the batsman on strike.
var strikerOnly = map[WicketType]bool{
	WicketBowled:    true,
	WicketCaught:    true,
	WicketLBW:       true,
	WicketStumped:   true,
	WicketHitWicket: true,
}

// needsFielder lists dismissals that must credit a fielder.
var needsFielder = map[WicketType]bool{
	WicketCaught:  true,
	WicketStumped: true,
}

// allowedOnExtra lists the dismissals still possible off a wide or a no-ball.
var allowedOnExtra = map[ExtraKind]map[WicketType]bool{
	ExtraWide: {
		WicketStumped:          true,
		WicketRunOut:           true,
		WicketHitWicket:        true,
		WicketObstructingField: true,
	},
	ExtraNoBall: {
		WicketRunOut:           true,
		WicketObstructingField: true,
		WicketHandledBall:      true,
	},
}

// Extra is the extras part of a delivery.
type Extra struct {
	Kind ExtraKind
	Runs int
}

// Wicket is the dismissal part of a delivery. DismissedID and FielderID are
// only meaningful when Type is not WicketNone.
type Wicket struct {
	Type        WicketType
	DismissedID uint
	FielderID   *uint
}

// Delivery is one scored ball as the scorer reports it.
type Delivery struct {
	RunsOffBat int
	Extra      Extra
	Wicket     Wicket
}

// DeliveryFlags is the flat form a scoring client submits: four extras flags
// each with their own run count.
type DeliveryFlags struct {
	RunsOffBat         int
	IsWide             bool
	WideExtra          int
	IsNoBall           bool
	NoBallExtra        int
	IsBye              bool
	ByeExtra           int
	IsLegBye           bool
	LegByeExtra        int
	WicketType         WicketType
	DismissedBatsmanID *uint
	FielderID          *uint
}

// ParseDelivery turns the flat flag form into a Delivery, rejecting any
// combination that does not describe exactly one extras rule.
func ParseDelivery(f DeliveryFlags) (Delivery, error) {
	d := Delivery{RunsOffBat: f.RunsOffBat, Extra: Extra{Kind: ExtraNone}}

	set := 0
	for _, flag := range []bool{f.IsWide, f.IsNoBall, f.IsBye, f.IsLegBye} {
		if flag {
			set++
		}
	}
	if set > 1 {
		return Delivery{}, invalid("at most one of wide, no-ball, bye and leg-bye may be set")
	}

	if !f.IsWide && f.WideExtra != 0 {
		return Delivery{}, invalid("wide runs supplied without the wide flag")
	}
	if !f.IsNoBall && f.NoBallExtra != 0 {
		return Delivery{}, invalid("no-ball runs supplied without the no-ball flag")
	}
	if !f.IsBye && f.ByeExtra != 0 {
		return Delivery{}, invalid("bye runs supplied without the bye flag")
	}
	if !f.IsLegBye && f.LegByeExtra != 0 {
		return Delivery{}, invalid("leg-bye runs supplied without the leg-bye flag")
	}

	switch {
	case f.IsWide:
		d.Extra = Extra{Kind: ExtraWide, Runs: f.WideExtra}
	case f.IsNoBall:
		d.Extra = Extra{Kind: ExtraNoBall, Runs: f.NoBallExtra}
	case f.IsBye:
		d.Extra = Extra{Kind: ExtraBye, Runs: f.ByeExtra}
	case f.IsLegBye:
		d.Extra = Extra{Kind: ExtraLegBye, Runs: f.LegByeExtra}
	}

	d.Wicket.Type = f.WicketType
	if d.Wicket.Type == "" {
		d.Wicket.Type = WicketNone
	}
	if d.Wicket.Type != WicketNone {
		if f.DismissedBatsmanID == nil {
			return Delivery{}, invalid("dismissed batsman is required when a wicket falls")
		}
		d.Wicket.DismissedID = *f.DismissedBatsmanID
		d.Wicket.FielderID = f.FielderID
	} else if f.DismissedBatsmanID != nil || f.FielderID != nil {
		return Delivery{}, invalid("dismissal details supplied without a wicket")
	}

	if err := d.Validate(); err != nil {
		return Delivery{}, err
	}
	return d, nil
}

// Validate checks the internal consistency of a delivery. It does not know
// who is at the crease; the ledger checks that.
func (d Delivery) Validate() error {
	if d.RunsOffBat < 0 || d.RunsOffBat > maxRunsOffBat {
		return invalid("runs off the bat must be between 0 and %d", maxRunsOffBat)
	}
	if d.Extra.Runs < 0 || d.Extra.Runs > maxExtraRuns {
		return invalid("extra runs must be between 0 and %d", maxExtraRuns)
	}

	switch d.Extra.Kind {
	case ExtraNone, "":
		if d.Extra.Runs != 0 {
			return invalid("extra runs supplied without an extras kind")
		}
	case ExtraWide:
		if d.RunsOffBat != 0 {
			return invalid("a wide cannot carry runs off the bat")
		}
	case ExtraNoBall:
	case ExtraBye, ExtraLegBye:
		if d.RunsOffBat != 0 {
			return invalid("%s runs cannot also be credited to the bat", d.Extra.Kind)
		}
		if d.Extra.Runs == 0 {
			return invalid("%s must carry at least one run", d.Extra.Kind)
		}
	default:
		return invalid("unknown extras kind %q", d.Extra.Kind)
	}

	switch d.Wicket.Type {
	case WicketNone, "":
		return nil
	case WicketBowled, WicketCaught, WicketLBW, WicketRunOut, WicketStumped,
		WicketHitWicket, WicketHandledBall, WicketObstructingField:
	default:
		return invalid("unknown wicket type %q", d.Wicket.Type)
	}

	if d.Wicket.DismissedID == 0 {
		return invalid("dismissed batsman is required when a wicket falls")
	}
	if allowed, ok := allowedOnExtra[d.Extra.Kind]; ok && !allowed[d.Wicket.Type] {
		return invalid("%s is not a possible dismissal off a %s", d.Wicket.Type, d.Extra.Kind)
	}
	if needsFielder[d.Wicket.Type] && d.Wicket.FielderID == nil {
		return invalid("%s requires the fielder who completed it", d.Wicket.Type)
	}
	return nil
}

// Outcome is the classification of a single delivery.
type Outcome struct {
	// Total is every run credited to the batting side.
	Total int
	// BatRuns is the part of Total credited to the striker.
	BatRuns int
	// Extras is the part of Total not credited to any batsman.
	Extras int
	// Legal deliveries count toward the six-ball over.
	Legal bool
	Dot   bool
	// Wicket is true when a batsman was dismissed.
	Wicket bool
	// RotateStrike means striker and non-striker swap ends for the next ball.
	RotateStrike bool
}

// Classify applies the extras, legality and strike rules to a delivery.
// It assumes d has passed Validate.
func Classify(d Delivery) Outcome {
	var o Outcome

	switch d.Extra.Kind {
	case ExtraWide:
		o.Extras = 1 + d.Extra.Runs
	case ExtraNoBall:
		o.Extras = 1 + d.Extra.Runs
		o.BatRuns = d.RunsOffBat
	case ExtraBye, ExtraLegBye:
		o.Extras = d.Extra.Runs
	default:
		o.BatRuns = d.RunsOffBat
	}

	o.Total = o.BatRuns + o.Extras
	o.Legal = IsLegal(d)
	o.Wicket = d.Wicket.Type != "" && d.Wicket.Type != WicketNone
	o.Dot = o.Total == 0 && o.Legal && !o.Wicket
	o.RotateStrike = o.Legal && !o.Wicket && o.BatRuns%2 == 1
	return o
}

// normalized fills the zero kinds with their explicit "none" values.
func (d Delivery) normalized() Delivery {
	if d.Extra.Kind == "" {
		d.Extra.Kind = ExtraNone
	}
	if d.Wicket.Type == "" {
		d.Wicket.Type = WicketNone
	}
	return d
}

// IsLegal reports whether the delivery counts toward the six-ball over.
func IsLegal(d Delivery) bool {
	return d.Extra.Kind != ExtraWide && d.Extra.Kind != ExtraNoBall
}
