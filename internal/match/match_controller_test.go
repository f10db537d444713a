package match

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/DhavalSuthar-24/crease/internal/scoring"
	"github.com/DhavalSuthar-24/crease/pkg/token"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "match-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Status    string          `json:"status"`
	Message   string          `json:"message"`
	Code      int             `json:"code"`
	Kind      string          `json:"kind"`
	Retryable bool            `json:"retryable"`
	Errors    map[string]any  `json:"errors"`
	Data      json.RawMessage `json:"data"`
}

type apiClient struct {
	t      *testing.T
	router *gin.Engine
	store  *scoring.MemoryStore
}

func newAPIClient(t *testing.T) *apiClient {
	t.Helper()
	store := scoring.NewMemoryStore()
	engine := scoring.NewEngine(store, stubRoster{}, stubInvites{42: true}, scoring.WithLockTimeout(time.Second))
	r := gin.New()
	MatchRoutes(r.Group("/api"), engine, testSecret)
	return &apiClient{t: t, router: r, store: store}
}

func (a *apiClient) do(method, path string, userID uint, body any) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		tok, err := token.GenerateJWT(userID, "", testSecret, 5)
		require.NoError(a.t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func (a *apiClient) createMatch(creator uint, overs int) uint {
	a.t.Helper()
	w, env := a.do(http.MethodPost, "/api/matches", creator, gin.H{
		"team1_id":     1,
		"team2_id":     2,
		"overs":        overs,
		"scheduled_at": "2025-03-01T14:00:00Z",
		"scorer_id":    creator,
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var m scoring.Match
	require.NoError(a.t, json.Unmarshal(env.Data, &m))
	return m.ID
}

func matchPath(id uint, suffix string) string {
	return "/api/matches/" + strconv.FormatUint(uint64(id), 10) + suffix
}

func TestMatchAPIPlaysAMatch(t *testing.T) {
	api := newAPIClient(t)
	const scorer uint = 9
	id := api.createMatch(scorer, 2)

	w, env := api.do(http.MethodPost, matchPath(id, "/start"), scorer, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Match started", env.Message)

	w, _ = api.do(http.MethodPost, matchPath(id, "/toss"), scorer, gin.H{"winner_team_id": 2, "decision": "field"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Team 1 bats after team 2 chose to field.
	w, _ = api.do(http.MethodPost, matchPath(id, "/overs"), scorer, gin.H{
		"inning_number": 1, "over_number": 1, "bowler_id": 201, "striker_id": 101, "non_striker_id": 102,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env = api.do(http.MethodPost, matchPath(id, "/balls"), scorer, gin.H{"runs_off_bat": 3})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var ball scoring.Ball
	require.NoError(t, json.Unmarshal(env.Data, &ball))
	assert.Equal(t, 1, ball.Sequence)
	assert.Equal(t, uint(101), ball.StrikerID)

	w, _ = api.do(http.MethodPost, matchPath(id, "/balls"), scorer, gin.H{"is_wide": true, "wide_extra": 2})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env = api.do(http.MethodGet, matchPath(id, "/state"), scorer, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var state scoring.MatchState
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.Equal(t, 1, state.CurrentInning)
	require.NotEmpty(t, state.Innings)
	assert.Equal(t, 6, state.Innings[0].Runs)
	assert.Equal(t, 3, state.Innings[0].Extras)
	require.NotNil(t, state.CurrentOver)
	assert.Equal(t, uint(102), state.CurrentOver.StrikerID, "odd runs rotate the strike")

	w, env = api.do(http.MethodPost, matchPath(id, "/overs/close"), scorer, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var over scoring.Over
	require.NoError(t, json.Unmarshal(env.Data, &over))
	assert.False(t, over.IsOpen())
	assert.Equal(t, 1, over.LegalBalls)

	w, env = api.do(http.MethodPost, matchPath(id, "/complete"), scorer, gin.H{"abandoned": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result scoring.MatchResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.True(t, result.IsAbandoned)
	assert.Nil(t, result.WinningTeamID)

	w, env = api.do(http.MethodGet, matchPath(id, "/result"), scorer, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 6, result.Team1Score)
}

func TestMatchAPIErrors(t *testing.T) {
	api := newAPIClient(t)
	const scorer uint = 9
	id := api.createMatch(scorer, 2)

	tests := []struct {
		name   string
		method string
		path   string
		user   uint
		body   any
		code   int
		kind   string
	}{
		{"no token", http.MethodGet, matchPath(id, ""), 0, nil, http.StatusUnauthorized, ""},
		{"bad id", http.MethodGet, "/api/matches/abc", scorer, nil, http.StatusBadRequest, ""},
		{"unknown match", http.MethodGet, matchPath(999, ""), scorer, nil, http.StatusNotFound, string(scoring.KindNotFound)},
		{"not the scorer", http.MethodPost, matchPath(id, "/start"), 7, nil, http.StatusForbidden, string(scoring.KindForbidden)},
		{"toss before start", http.MethodPost, matchPath(id, "/toss"), scorer, gin.H{"winner_team_id": 1, "decision": "bat"}, http.StatusConflict, string(scoring.KindPreconditionFailed)},
		{"ball before any over", http.MethodPost, matchPath(id, "/balls"), scorer, gin.H{"runs_off_bat": 1}, http.StatusConflict, string(scoring.KindPreconditionFailed)},
		{"bye runs without the flag", http.MethodPost, matchPath(id, "/balls"), scorer, gin.H{"bye_extra": 2}, http.StatusUnprocessableEntity, string(scoring.KindValidationFailed)},
		{"two extras flags", http.MethodPost, matchPath(id, "/balls"), scorer, gin.H{"is_wide": true, "is_no_ball": true}, http.StatusUnprocessableEntity, string(scoring.KindValidationFailed)},
		{"seven off the bat", http.MethodPost, matchPath(id, "/balls"), scorer, gin.H{"runs_off_bat": 7}, http.StatusBadRequest, ""},
		{"bad toss decision", http.MethodPost, matchPath(id, "/toss"), scorer, gin.H{"winner_team_id": 1, "decision": "bowl"}, http.StatusBadRequest, ""},
		{"same team twice", http.MethodPost, "/api/matches", scorer, gin.H{"team1_id": 1, "team2_id": 1, "overs": 5, "scheduled_at": "2025-03-01T14:00:00Z"}, http.StatusBadRequest, ""},
		{"overs out of range", http.MethodPost, "/api/matches", scorer, gin.H{"team1_id": 1, "team2_id": 2, "overs": 500, "scheduled_at": "2025-03-01T14:00:00Z"}, http.StatusUnprocessableEntity, string(scoring.KindValidationFailed)},
		{"unknown tournament", http.MethodGet, "/api/tournaments/77/points-table", scorer, nil, http.StatusNotFound, string(scoring.KindNotFound)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := api.do(tt.method, tt.path, tt.user, tt.body)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
			assert.Equal(t, tt.kind, env.Kind)
			if tt.kind != "" {
				assert.Equal(t, "error", env.Status)
				assert.Equal(t, tt.code, env.Code)
			}
			assert.Empty(t, w.Header().Get("Retry-After"))
		})
	}
}

func TestMatchAPIValidationDetails(t *testing.T) {
	api := newAPIClient(t)

	w, env := api.do(http.MethodPost, "/api/matches", 9, gin.H{"team1_id": 1})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Errors, "team2id")
	assert.Contains(t, env.Errors, "overs")
	assert.Contains(t, env.Errors, "scheduledat")
}

func TestMatchAPIDelegatedScorer(t *testing.T) {
	api := newAPIClient(t)
	const creator, delegate, stranger uint = 9, 42, 43
	id := api.createMatch(creator, 2)

	w, _ := api.do(http.MethodPost, matchPath(id, "/scorer"), delegate, gin.H{"scorer_id": delegate})
	assert.Equal(t, http.StatusForbidden, w.Code, "only the creator assigns the scorer")

	w, _ = api.do(http.MethodPost, matchPath(id, "/scorer"), creator, gin.H{"scorer_id": stranger})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w, env := api.do(http.MethodPost, matchPath(id, "/start"), stranger, nil)
	assert.Equal(t, http.StatusConflict, w.Code, "the invitation was never accepted")
	assert.Equal(t, string(scoring.KindPreconditionFailed), env.Kind)

	w, _ = api.do(http.MethodPost, matchPath(id, "/scorer"), creator, gin.H{"scorer_id": delegate})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w, _ = api.do(http.MethodPost, matchPath(id, "/start"), creator, nil)
	assert.Equal(t, http.StatusForbidden, w.Code, "the creator handed scoring over")
	w, _ = api.do(http.MethodPost, matchPath(id, "/start"), delegate, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = api.do(http.MethodPut, matchPath(id, ""), creator, gin.H{"overs": 10})
	assert.Equal(t, http.StatusConflict, w.Code, "a started match cannot be edited")
}

func TestMatchAPIPointsTable(t *testing.T) {
	api := newAPIClient(t)
	api.store.AddTournament(&scoring.Tournament{Name: "Spring Cup"}, 1, 2)

	w, env := api.do(http.MethodPost, "/api/tournaments/1/points-table/recalculate", 9, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var table []scoring.PointsTableEntry
	require.NoError(t, json.Unmarshal(env.Data, &table))
	require.Len(t, table, 2)
	for _, e := range table {
		assert.Zero(t, e.MatchesPlayed)
	}

	w, env = api.do(http.MethodGet, "/api/tournaments/1/points-table", 9, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, &table))
	assert.Len(t, table, 2)
}
