package scoring

import "context"

// Store is the persistence port of the engine. Lookups that miss return an
// error wrapping ErrRecordNotFound.
type Store interface {
	CreateMatch(ctx context.Context, match *Match) error
	GetMatch(ctx context.Context, id uint) (*Match, error)
	UpdateMatch(ctx context.Context, match *Match) error

	CreateOver(ctx context.Context, over *Over) error
	UpdateOver(ctx context.Context, over *Over) error
	// ListOvers returns the overs of a match ordered by inning then over number.
	ListOvers(ctx context.Context, matchID uint) ([]Over, error)

	CreateBall(ctx context.Context, ball *Ball) error
	// ListBalls returns the balls of a match ordered by inning, over and sequence.
	ListBalls(ctx context.Context, matchID uint) ([]Ball, error)

	CreateResult(ctx context.Context, result *MatchResult) error
	GetResult(ctx context.Context, matchID uint) (*MatchResult, error)

	GetTournament(ctx context.Context, id uint) (*Tournament, error)
	// ListTournamentTeams returns the ids of teams accepted into a tournament.
	ListTournamentTeams(ctx context.Context, tournamentID uint) ([]uint, error)
	// ListCompletedMatches returns completed matches of a tournament with their results.
	ListCompletedMatches(ctx context.Context, tournamentID uint) ([]Fixture, error)
	// ReplacePointsTable deletes every entry of the tournament and inserts
	// entries. Implementations must not write IDs or timestamps back into entries.
	ReplacePointsTable(ctx context.Context, tournamentID uint, entries []PointsTableEntry) error
	ListPointsTable(ctx context.Context, tournamentID uint) ([]PointsTableEntry, error)

	// WithTx runs fn against a Store bound to a single transaction.
	WithTx(ctx context.Context, fn func(Store) error) error
}

// Fixture pairs a completed match with its result.
type Fixture struct {
	Match  Match
	Result *MatchResult
}

// Roster answers who may play for which side in a match. It is backed by the
// team and invitation workflows, which the engine does not drive.
type Roster interface {
	IsMember(ctx context.Context, matchID, teamID, playerID uint) (bool, error)
	// Size is the number of players available to a side.
	Size(ctx context.Context, matchID, teamID uint) (int, error)
}

// ScorerInvitations reports whether a delegated scorer accepted the invitation.
type ScorerInvitations interface {
	HasAccepted(ctx context.Context, matchID, scorerID uint) (bool, error)
}
