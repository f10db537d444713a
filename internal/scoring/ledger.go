package scoring

import (
	"context"
	"fmt"
)

// maxWickets is the most wickets an inning can lose with a full eleven.
const maxWickets = 10

// OpenOverInput starts a new over. Opening batsmen are required for the first
// over of an inning and rejected afterwards; later overs carry the crease over.
type OpenOverInput struct {
	InningNumber int
	OverNumber   int
	BowlerID     uint
	StrikerID    *uint
	NonStrikerID *uint
}

// BallInput is one delivery as reported by the scorer. NewBatsmanID fills the
// crease after a wicket and is required on the first ball that follows one.
type BallInput struct {
	Delivery     Delivery
	NewBatsmanID *uint
}

// InningTotals is the running score of one inning.
type InningTotals struct {
	Runs    int   `json:"runs"`
	Wickets int   `json:"wickets"`
	Extras  int   `json:"extras"`
	Overs   Overs `json:"overs"`
}

// ledger is the in-memory view of one match's overs and balls.
type ledger struct {
	match *Match
	overs []Over
	balls []Ball
}

func loadLedger(ctx context.Context, s Store, m *Match) (*ledger, error) {
	overs, err := s.ListOvers(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("list overs: %w", err)
	}
	balls, err := s.ListBalls(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("list balls: %w", err)
	}
	return &ledger{match: m, overs: overs, balls: balls}, nil
}

func (l *ledger) inningOvers(n int) []*Over {
	var out []*Over
	for i := range l.overs {
		if l.overs[i].InningNumber == n {
			out = append(out, &l.overs[i])
		}
	}
	return out
}

func (l *ledger) inningBalls(n int) []Ball {
	var out []Ball
	for _, b := range l.balls {
		if b.InningNumber == n {
			out = append(out, b)
		}
	}
	return out
}

func (l *ledger) overBalls(overID uint) []Ball {
	var out []Ball
	for _, b := range l.balls {
		if b.OverID == overID {
			out = append(out, b)
		}
	}
	return out
}

// openOver returns the over currently accepting balls, if any.
func (l *ledger) openOver() *Over {
	for i := range l.overs {
		if l.overs[i].IsOpen() {
			return &l.overs[i]
		}
	}
	return nil
}

func (l *ledger) lastOver() *Over {
	if len(l.overs) == 0 {
		return nil
	}
	return &l.overs[len(l.overs)-1]
}

func (l *ledger) totals(n int) InningTotals {
	var t InningTotals
	legal := 0
	for _, b := range l.inningBalls(n) {
		out := b.Outcome()
		t.Runs += out.Total
		t.Extras += out.Extras
		if out.Wicket {
			t.Wickets++
		}
		if out.Legal {
			legal++
		}
	}
	t.Overs = OversFromBalls(legal)
	return t
}

// dismissed returns the batsmen already out in inning n.
func (l *ledger) dismissed(n int) map[uint]bool {
	out := make(map[uint]bool)
	for _, b := range l.inningBalls(n) {
		if b.DismissedBatsmanID != nil && b.WicketType != WicketNone {
			out[*b.DismissedBatsmanID] = true
		}
	}
	return out
}

// crease is who stands at each end. Zero marks a slot vacated by a wicket.
type crease struct {
	striker    uint
	nonStriker uint
}

func (c crease) changeEnds() crease {
	return crease{striker: c.nonStriker, nonStriker: c.striker}
}

func (c crease) vacant() bool {
	return c.striker == 0 || c.nonStriker == 0
}

// creaseAfter replays the balls of an over from its opening pair.
func creaseAfter(o *Over, balls []Ball) crease {
	c := crease{striker: o.OpeningStrikerID, nonStriker: o.OpeningNonStrikerID}
	for _, b := range balls {
		c = crease{striker: b.StrikerID, nonStriker: b.NonStrikerID}
		out := b.Outcome()
		switch {
		case out.Wicket && b.DismissedBatsmanID != nil:
			if *b.DismissedBatsmanID == c.striker {
				c.striker = 0
			} else if *b.DismissedBatsmanID == c.nonStriker {
				c.nonStriker = 0
			}
		case out.RotateStrike:
			c = c.changeEnds()
		}
	}
	return c
}

// aggregateOver recomputes an over's totals from its balls. A maiden is a
// full over with nothing off the bat and no byes; wide and no-ball penalties
// do not spoil it.
func aggregateOver(o *Over, balls []Ball) {
	o.Runs, o.Extras, o.Wickets, o.LegalBalls = 0, 0, 0, 0
	conceded := 0
	for _, b := range balls {
		out := b.Outcome()
		o.Runs += out.Total
		o.Extras += out.Extras
		conceded += out.BatRuns
		if out.Wicket {
			o.Wickets++
		}
		if out.Legal {
			o.LegalBalls++
			conceded += out.Extras
		}
	}
	o.IsMaiden = o.LegalBalls == legalBallsOver && conceded == 0
}

// allOutAt is the wicket count that ends an inning for teamID.
func (e *Engine) allOutAt(ctx context.Context, matchID, teamID uint) (int, error) {
	size, err := e.roster.Size(ctx, matchID, teamID)
	if err != nil {
		return 0, fmt.Errorf("roster size of team %d: %w", teamID, err)
	}
	if size < 2 || size-1 > maxWickets {
		return maxWickets, nil
	}
	return size - 1, nil
}

// inningComplete reports whether inning n can take no more balls: an over
// already ended it, the batting side is all out, the chase is won, or the
// over quota is used up and closed. Inning 1 is complete once inning 2 began.
func (e *Engine) inningComplete(ctx context.Context, l *ledger, n int) (bool, error) {
	batting, _, ok := l.match.Sides(n)
	if !ok {
		return false, nil
	}
	if n == 1 && len(l.inningOvers(2)) > 0 {
		return true, nil
	}
	for _, o := range l.inningOvers(n) {
		if o.EndsInning {
			return true, nil
		}
	}
	t := l.totals(n)
	if t.Wickets > 0 {
		limit, err := e.allOutAt(ctx, l.match.ID, batting)
		if err != nil {
			return false, err
		}
		if t.Wickets >= limit {
			return true, nil
		}
	}
	if n == 2 && t.Runs > l.totals(1).Runs {
		return true, nil
	}
	overs := l.inningOvers(n)
	if len(overs) < l.match.OversLimit() {
		return false, nil
	}
	for _, o := range overs {
		if o.IsOpen() {
			return false, nil
		}
	}
	return true, nil
}

func (e *Engine) requireMember(ctx context.Context, matchID, teamID, playerID uint, role string) error {
	ok, err := e.roster.IsMember(ctx, matchID, teamID, playerID)
	if err != nil {
		return fmt.Errorf("check roster of team %d: %w", teamID, err)
	}
	if !ok {
		return precondition("%s %d is not on the roster of team %d", role, playerID, teamID)
	}
	return nil
}

// OpenOver starts the next over of an inning. Batting and fielding sides are
// derived from the toss, never supplied by the caller.
func (e *Engine) OpenOver(ctx context.Context, matchID, callerID uint, in OpenOverInput) (*Over, error) {
	if in.InningNumber != 1 && in.InningNumber != 2 {
		return nil, invalid("inning number must be 1 or 2")
	}
	if in.OverNumber < 1 {
		return nil, invalid("over number must be positive")
	}
	if in.BowlerID == 0 {
		return nil, invalid("bowler is required")
	}

	var out *Over
	err := e.mutateMatch(ctx, matchID, func(s Store) error {
		m, err := loadMatch(ctx, s, matchID)
		if err != nil {
			return err
		}
		if err := requireScorer(m, callerID); err != nil {
			return err
		}
		if err := requireStatus(m, StatusInProgress); err != nil {
			return err
		}
		l, err := loadLedger(ctx, s, m)
		if err != nil {
			return err
		}

		if open := l.openOver(); open != nil {
			return precondition("over %d of inning %d is still open", open.OverNumber, open.InningNumber)
		}
		if in.InningNumber == 2 {
			done, err := e.inningComplete(ctx, l, 1)
			if err != nil {
				return err
			}
			if !done {
				return precondition("inning 1 is not complete")
			}
		}
		done, err := e.inningComplete(ctx, l, in.InningNumber)
		if err != nil {
			return err
		}
		if done {
			return precondition("inning %d is complete", in.InningNumber)
		}

		prior := l.inningOvers(in.InningNumber)
		if in.OverNumber != len(prior)+1 {
			return precondition("next over of inning %d is %d, got %d", in.InningNumber, len(prior)+1, in.OverNumber)
		}
		if in.OverNumber > m.OversLimit() {
			return precondition("inning %d is limited to %d overs", in.InningNumber, m.OversLimit())
		}

		batting, fielding, _ := m.Sides(in.InningNumber)
		if err := e.requireMember(ctx, m.ID, fielding, in.BowlerID, "bowler"); err != nil {
			return err
		}

		var c crease
		if len(prior) == 0 {
			if in.StrikerID == nil || in.NonStrikerID == nil {
				return invalid("opening batsmen are required for the first over of an inning")
			}
			if *in.StrikerID == *in.NonStrikerID {
				return invalid("striker and non-striker must differ")
			}
			for _, id := range []uint{*in.StrikerID, *in.NonStrikerID} {
				if err := e.requireMember(ctx, m.ID, batting, id, "batsman"); err != nil {
					return err
				}
			}
			c = crease{striker: *in.StrikerID, nonStriker: *in.NonStrikerID}
		} else {
			if in.StrikerID != nil || in.NonStrikerID != nil {
				return invalid("batsmen carry over from the previous over")
			}
			prev := prior[len(prior)-1]
			if prev.BowlerID == in.BowlerID {
				return precondition("bowler %d bowled the previous over", in.BowlerID)
			}
			c = creaseAfter(prev, l.overBalls(prev.ID)).changeEnds()
		}

		o := &Over{
			MatchID:             m.ID,
			InningNumber:        in.InningNumber,
			OverNumber:          in.OverNumber,
			BowlerID:            in.BowlerID,
			BattingTeamID:       batting,
			FieldingTeamID:      fielding,
			OpeningStrikerID:    c.striker,
			OpeningNonStrikerID: c.nonStriker,
		}
		if err := s.CreateOver(ctx, o); err != nil {
			return fmt.Errorf("create over: %w", err)
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.logger.Info().
		Uint("match_id", matchID).
		Uint("over_id", out.ID).
		Int("inning", out.InningNumber).
		Int("over", out.OverNumber).
		Uint("bowler_id", out.BowlerID).
		Msg("over opened")
	return out, nil
}

// ballEffects is what a committed ball triggered, acted on after commit.
type ballEffects struct {
	closedReason string
	result       *MatchResult
	match        *Match
}

// RecordBall appends a delivery to the open over. The over closes itself at
// six legal balls, and the inning ends on all out or a won chase. When the
// second inning ends the match is completed and its result written.
func (e *Engine) RecordBall(ctx context.Context, matchID, callerID uint, in BallInput) (*Ball, error) {
	if err := in.Delivery.Validate(); err != nil {
		return nil, err
	}
	d := in.Delivery.normalized()

	var (
		out *Ball
		fx  ballEffects
	)
	err := e.mutateMatch(ctx, matchID, func(s Store) error {
		m, err := loadMatch(ctx, s, matchID)
		if err != nil {
			return err
		}
		if err := requireScorer(m, callerID); err != nil {
			return err
		}
		if err := requireStatus(m, StatusInProgress); err != nil {
			return err
		}
		l, err := loadLedger(ctx, s, m)
		if err != nil {
			return err
		}
		ov := l.openOver()
		if ov == nil {
			return precondition("no open over in match %d", m.ID)
		}

		prev := l.overBalls(ov.ID)
		c := creaseAfter(ov, prev)
		if c, err = e.fillCrease(ctx, l, ov, c, in.NewBatsmanID); err != nil {
			return err
		}
		if err := e.checkWicket(ctx, ov, c, d); err != nil {
			return err
		}

		seq := 1
		if len(prev) > 0 {
			seq = prev[len(prev)-1].Sequence + 1
		}
		outcome := Classify(d)
		b := &Ball{
			OverID:       ov.ID,
			MatchID:      m.ID,
			InningNumber: ov.InningNumber,
			Sequence:     seq,
			StrikerID:    c.striker,
			NonStrikerID: c.nonStriker,
			BowlerID:     ov.BowlerID,
			RunsOffBat:   d.RunsOffBat,
			ExtraKind:    d.Extra.Kind,
			ExtraRuns:    d.Extra.Runs,
			WicketType:   d.Wicket.Type,
			TotalRuns:    outcome.Total,
			BatRuns:      outcome.BatRuns,
			ExtrasRuns:   outcome.Extras,
			IsLegal:      outcome.Legal,
			IsDotBall:    outcome.Dot,
		}
		if outcome.Wicket {
			dismissed := d.Wicket.DismissedID
			b.DismissedBatsmanID = &dismissed
			b.FielderID = d.Wicket.FielderID
		}
		if err := s.CreateBall(ctx, b); err != nil {
			return fmt.Errorf("create ball: %w", err)
		}
		l.balls = append(l.balls, *b)

		aggregateOver(ov, append(prev, *b))
		if ov.LegalBalls >= legalBallsOver {
			ov.CompletedAt = e.stamp()
			fx.closedReason = "six_balls"
		}
		done, err := e.inningComplete(ctx, l, ov.InningNumber)
		if err != nil {
			return err
		}
		if done && ov.IsOpen() {
			ov.CompletedAt = e.stamp()
			fx.closedReason = "inning_end"
		}
		ov.EndsInning = done
		if err := s.UpdateOver(ctx, ov); err != nil {
			return fmt.Errorf("update over %d: %w", ov.ID, err)
		}

		if done && ov.InningNumber == 2 {
			if fx.result, err = e.finishMatch(ctx, s, l, false); err != nil {
				return err
			}
			fx.match = m
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.metrics.ballRecorded(out.IsLegal)
	e.logger.Info().
		Uint("match_id", matchID).
		Uint("over_id", out.OverID).
		Int("inning", out.InningNumber).
		Int("sequence", out.Sequence).
		Int("total_runs", out.TotalRuns).
		Bool("legal", out.IsLegal).
		Str("wicket", string(out.WicketType)).
		Msg("ball recorded")
	e.afterCommit(ctx, out.OverID, fx)
	return out, nil
}

// fillCrease seats the incoming batsman in a vacated slot.
func (e *Engine) fillCrease(ctx context.Context, l *ledger, ov *Over, c crease, newBatsmanID *uint) (crease, error) {
	if !c.vacant() {
		if newBatsmanID != nil {
			return c, invalid("no vacancy at the crease for a new batsman")
		}
		return c, nil
	}
	if c.striker == 0 && c.nonStriker == 0 {
		return c, precondition("both crease slots are empty")
	}
	if newBatsmanID == nil || *newBatsmanID == 0 {
		return c, precondition("a new batsman must come in after the wicket")
	}
	id := *newBatsmanID
	if id == c.striker || id == c.nonStriker {
		return c, precondition("batsman %d is already at the crease", id)
	}
	if l.dismissed(ov.InningNumber)[id] {
		return c, precondition("batsman %d is already out", id)
	}
	if err := e.requireMember(ctx, l.match.ID, ov.BattingTeamID, id, "batsman"); err != nil {
		return c, err
	}
	if c.striker == 0 {
		c.striker = id
	} else {
		c.nonStriker = id
	}
	return c, nil
}

// checkWicket matches a dismissal against who is at the crease.
func (e *Engine) checkWicket(ctx context.Context, ov *Over, c crease, d Delivery) error {
	if d.Wicket.Type == WicketNone {
		return nil
	}
	id := d.Wicket.DismissedID
	if id != c.striker && id != c.nonStriker {
		return precondition("batsman %d is not at the crease", id)
	}
	if strikerOnly[d.Wicket.Type] && id != c.striker {
		return precondition("%s can only dismiss the striker", d.Wicket.Type)
	}
	if d.Wicket.FielderID != nil {
		return e.requireMember(ctx, ov.MatchID, ov.FieldingTeamID, *d.Wicket.FielderID, "fielder")
	}
	return nil
}

// CloseOver ends the open over early. With no open over it returns the most
// recent one unchanged.
func (e *Engine) CloseOver(ctx context.Context, matchID, callerID uint) (*Over, error) {
	var (
		out *Over
		fx  ballEffects
	)
	err := e.mutateMatch(ctx, matchID, func(s Store) error {
		m, err := loadMatch(ctx, s, matchID)
		if err != nil {
			return err
		}
		if err := requireScorer(m, callerID); err != nil {
			return err
		}
		if m.Status != StatusInProgress && m.Status != StatusCompleted {
			return precondition("match %d is %s", m.ID, m.Status)
		}
		l, err := loadLedger(ctx, s, m)
		if err != nil {
			return err
		}
		ov := l.openOver()
		if ov == nil {
			last := l.lastOver()
			if last == nil {
				return precondition("match %d has no overs", m.ID)
			}
			out = last
			return nil
		}

		ov.CompletedAt = e.stamp()
		done, err := e.inningComplete(ctx, l, ov.InningNumber)
		if err != nil {
			return err
		}
		ov.EndsInning = done
		if err := s.UpdateOver(ctx, ov); err != nil {
			return fmt.Errorf("update over %d: %w", ov.ID, err)
		}
		fx.closedReason = "manual"

		if done && ov.InningNumber == 2 {
			if fx.result, err = e.finishMatch(ctx, s, l, false); err != nil {
				return err
			}
			fx.match = m
		}
		out = ov
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.afterCommit(ctx, out.ID, fx)
	return out, nil
}

func (e *Engine) afterCommit(ctx context.Context, overID uint, fx ballEffects) {
	if fx.closedReason != "" {
		e.metrics.overClosed(fx.closedReason)
		e.logger.Info().Uint("over_id", overID).Str("reason", fx.closedReason).Msg("over closed")
	}
	if fx.result != nil {
		e.matchFinished(ctx, fx.match, fx.result)
	}
}
