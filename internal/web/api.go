package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/negz/hoops/internal/db"
	"github.com/negz/hoops/internal/metrics"
	"github.com/negz/hoops/internal/stats/aggregate"
	"github.com/negz/hoops/internal/stats/compare"
	"github.com/negz/hoops/internal/stats/leaders"
	"github.com/negz/hoops/internal/stats/standings"
)

// maxBodyBytes caps the size of write request bodies.
const maxBodyBytes = 1 << 20

func parseID(name, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", errBadRequest, name, s)
	}
	return id, nil
}

func requireQuery(r *http.Request, name string) (string, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return "", fmt.Errorf("%w: missing query parameter %q", errBadRequest, name)
	}
	return v, nil
}

// Directory.

type seasonsResponse struct {
	Seasons []string `json:"seasons"`
}

func (s *Server) handleSeasons(w http.ResponseWriter, r *http.Request) {
	seasons, err := s.store.ListSeasons(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, seasonsResponse{Seasons: seasons})
}

func (s *Server) handleTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.store.ListTeams(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if teams == nil {
		teams = []db.TeamSummary{}
	}
	writeJSON(w, http.StatusOK, teams)
}

func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	players, err := s.store.ListPlayers(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if players == nil {
		players = []db.PlayerSummary{}
	}
	writeJSON(w, http.StatusOK, players)
}

// Standings.

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	var opts []standings.Option
	if c := r.URL.Query().Get("conference"); c != "" {
		opts = append(opts, standings.InConference(c))
	}

	t, err := standings.Get(r.Context(), s.store, mux.Vars(r)["season"], opts...)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// Season records.

type ranksView struct {
	Conference int `json:"conference"`
	Division   int `json:"division"`
	Overall    int `json:"overall"`
}

type teamRecordView struct {
	Team              db.Team      `json:"team"`
	Season            string       `json:"season"`
	GamesPlayed       int          `json:"gamesPlayed"`
	Wins              int          `json:"wins"`
	Losses            int          `json:"losses"`
	Home              db.WinLoss   `json:"home"`
	Away              db.WinLoss   `json:"away"`
	Conference        db.WinLoss   `json:"conference"`
	Division          db.WinLoss   `json:"division"`
	PointsFor         int          `json:"pointsFor"`
	PointsAgainst     int          `json:"pointsAgainst"`
	Streak            string       `json:"streak"`
	LongestWinStreak  int          `json:"longestWinStreak"`
	LongestLossStreak int          `json:"longestLossStreak"`
	LastFive          string       `json:"lastFive"`
	LastTen           string       `json:"lastTen"`
	Ranks             ranksView    `json:"ranks"`
	Metrics           metrics.Team `json:"metrics"`
}

func newTeamRecordView(r db.TeamSeasonRecord) teamRecordView {
	return teamRecordView{
		Team:              r.Team,
		Season:            r.Season,
		GamesPlayed:       r.GamesPlayed,
		Wins:              r.Wins,
		Losses:            r.Losses,
		Home:              db.WinLoss{Wins: r.HomeWins, Losses: r.HomeLosses},
		Away:              db.WinLoss{Wins: r.AwayWins, Losses: r.AwayLosses},
		Conference:        r.ConferenceRecord,
		Division:          r.DivisionRecord,
		PointsFor:         r.PointsFor,
		PointsAgainst:     r.PointsAgainst,
		Streak:            r.Streak.String(),
		LongestWinStreak:  r.Streak.BestWin,
		LongestLossStreak: r.Streak.WorstLoss,
		LastFive:          r.LastFive.Record(),
		LastTen:           r.LastTen.Record(),
		Ranks:             ranksView{Conference: r.ConferenceRank, Division: r.DivisionRank, Overall: r.OverallRank},
		Metrics:           metrics.ForTeam(r),
	}
}

func (s *Server) handleTeamRecord(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := parseID("team id", vars["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}

	rec, err := s.store.GetTeamRecord(r.Context(), id, vars["season"])
	if err != nil {
		s.fail(w, r, fmt.Errorf("team %d season %s: %w", id, vars["season"], err))
		return
	}
	writeJSON(w, http.StatusOK, newTeamRecordView(rec))
}

type playerRecordView struct {
	Player         db.Player      `json:"player"`
	TeamKey        string         `json:"teamKey,omitempty"`
	Season         string         `json:"season"`
	GamesPlayed    int            `json:"gamesPlayed"`
	GamesStarted   int            `json:"gamesStarted"`
	Minutes        float64        `json:"minutes"`
	Points         int            `json:"points"`
	Rebounds       int            `json:"rebounds"`
	Assists        int            `json:"assists"`
	Steals         int            `json:"steals"`
	Blocks         int            `json:"blocks"`
	Turnovers      int            `json:"turnovers"`
	PersonalFouls  int            `json:"personalFouls"`
	TechnicalFouls int            `json:"technicalFouls"`
	PlusMinus      int            `json:"plusMinus"`
	DoubleDoubles  int            `json:"doubleDoubles"`
	TripleDoubles  int            `json:"tripleDoubles"`
	Metrics        metrics.Player `json:"metrics"`
}

func newPlayerRecordView(r db.PlayerSeasonRecord) playerRecordView {
	return playerRecordView{
		Player:         r.Player,
		TeamKey:        r.TeamKey,
		Season:         r.Season,
		GamesPlayed:    r.GamesPlayed,
		GamesStarted:   r.GamesStarted,
		Minutes:        r.Minutes,
		Points:         r.Points,
		Rebounds:       r.Rebounds(),
		Assists:        r.Assists,
		Steals:         r.Steals,
		Blocks:         r.Blocks,
		Turnovers:      r.Turnovers,
		PersonalFouls:  r.PersonalFouls,
		TechnicalFouls: r.TechnicalFouls,
		PlusMinus:      r.PlusMinus,
		DoubleDoubles:  r.DoubleDoubles,
		TripleDoubles:  r.TripleDoubles,
		Metrics:        metrics.ForPlayer(r),
	}
}

func (s *Server) handlePlayerRecord(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := parseID("player id", vars["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}

	rec, err := s.store.GetPlayerRecord(r.Context(), id, vars["season"])
	if err != nil {
		s.fail(w, r, fmt.Errorf("player %d season %s: %w", id, vars["season"], err))
		return
	}
	writeJSON(w, http.StatusOK, newPlayerRecordView(rec))
}

// Leaders.

func limitOption(r *http.Request) ([]leaders.Option, error) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("%w: limit must be an integer, got %q", errBadRequest, v)
	}
	return []leaders.Option{leaders.WithLimit(n)}, nil
}

func (s *Server) handleLeaders(w http.ResponseWriter, r *http.Request) {
	opts, err := limitOption(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	m := leaders.MetricPoints
	if v := r.URL.Query().Get("metric"); v != "" {
		if m, err = leaders.ParseMetric(v); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	l, err := leaders.Players(r.Context(), s.store, mux.Vars(r)["season"], m, opts...)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleTeamLeaders(w http.ResponseWriter, r *http.Request) {
	opts, err := limitOption(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	m := leaders.TeamMetricWinPercentage
	if v := r.URL.Query().Get("metric"); v != "" {
		if m, err = leaders.ParseTeamMetric(v); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	l, err := leaders.Teams(r.Context(), s.store, mux.Vars(r)["season"], m, opts...)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleLeague(w http.ResponseWriter, r *http.Request) {
	sum, err := leaders.League(r.Context(), s.store, mux.Vars(r)["season"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// Comparisons.

type compareArgs struct {
	season string
	a, b   int64
}

func parseCompareArgs(r *http.Request) (compareArgs, error) {
	var (
		out compareArgs
		err error
	)
	if out.season, err = requireQuery(r, "season"); err != nil {
		return out, err
	}
	for _, p := range []struct {
		name string
		id   *int64
	}{{"a", &out.a}, {"b", &out.b}} {
		v, err := requireQuery(r, p.name)
		if err != nil {
			return out, err
		}
		if *p.id, err = parseID(p.name, v); err != nil {
			return out, err
		}
	}
	if out.a == out.b {
		return out, fmt.Errorf("%w: cannot compare %d with itself", errBadRequest, out.a)
	}
	return out, nil
}

func (s *Server) handleCompareTeams(w http.ResponseWriter, r *http.Request) {
	args, err := parseCompareArgs(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := compare.CompareTeams(r.Context(), s.store, args.season, args.a, args.b)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleComparePlayers(w http.ResponseWriter, r *http.Request) {
	args, err := parseCompareArgs(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := compare.ComparePlayers(r.Context(), s.store, args.season, args.a, args.b)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Writes.

type gameRequest struct {
	ID             string       `json:"id"`
	Season         string       `json:"season"`
	Matchday       int          `json:"matchday"`
	Date           string       `json:"date"`
	HomeTeamID     int64        `json:"homeTeamId"`
	AwayTeamID     int64        `json:"awayTeamId"`
	HomeScore      int          `json:"homeScore"`
	AwayScore      int          `json:"awayScore"`
	State          db.GameState `json:"state"`
	ConferenceGame *bool        `json:"conferenceGame"` // Derived from the teams if unset.
	DivisionGame   *bool        `json:"divisionGame"`   // Derived from the teams if unset.
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	d := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	d.DisallowUnknownFields()
	if err := d.Decode(v); err != nil {
		return fmt.Errorf("%w: decode request body: %v", errBadRequest, err) //nolint:errorlint // Decode errors are not part of the API.
	}
	return nil
}

func (s *Server) handleApplyGame(w http.ResponseWriter, r *http.Request) {
	var req gameRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	g := db.Game{
		ID:         req.ID,
		Season:     req.Season,
		Matchday:   req.Matchday,
		Date:       req.Date,
		HomeTeamID: req.HomeTeamID,
		AwayTeamID: req.AwayTeamID,
		HomeScore:  req.HomeScore,
		AwayScore:  req.AwayScore,
		State:      req.State,
	}
	if g.State == "" {
		g.State = db.GameFinished
	}

	if req.ConferenceGame == nil || req.DivisionGame == nil {
		home, err := s.store.GetTeam(r.Context(), g.HomeTeamID)
		if err != nil {
			s.fail(w, r, fmt.Errorf("home team %d: %w", g.HomeTeamID, err))
			return
		}
		away, err := s.store.GetTeam(r.Context(), g.AwayTeamID)
		if err != nil {
			s.fail(w, r, fmt.Errorf("away team %d: %w", g.AwayTeamID, err))
			return
		}
		g.ConferenceGame, g.DivisionGame = aggregate.Classify(home, away)
	}
	if req.ConferenceGame != nil {
		g.ConferenceGame = *req.ConferenceGame
	}
	if req.DivisionGame != nil {
		g.DivisionGame = *req.DivisionGame
	}

	if err := s.engine.ApplyFinishedGame(r.Context(), g); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) handleReverseGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.engine.ReverseGame(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

type boxScoreRequest struct {
	Season                 string  `json:"season"`
	PlayerID               int64   `json:"playerId"`
	Started                bool    `json:"started"`
	Minutes                float64 `json:"minutes"`
	Points                 int     `json:"points"`
	FieldGoalsAttempted    int     `json:"fieldGoalsAttempted"`
	FieldGoalsMade         int     `json:"fieldGoalsMade"`
	ThreePointersAttempted int     `json:"threePointersAttempted"`
	ThreePointersMade      int     `json:"threePointersMade"`
	FreeThrowsAttempted    int     `json:"freeThrowsAttempted"`
	FreeThrowsMade         int     `json:"freeThrowsMade"`
	OffensiveRebounds      int     `json:"offensiveRebounds"`
	DefensiveRebounds      int     `json:"defensiveRebounds"`
	Assists                int     `json:"assists"`
	Steals                 int     `json:"steals"`
	Blocks                 int     `json:"blocks"`
	Turnovers              int     `json:"turnovers"`
	PersonalFouls          int     `json:"personalFouls"`
	TechnicalFouls         int     `json:"technicalFouls"`
	PlusMinus              int     `json:"plusMinus"`
}

func (b boxScoreRequest) line() db.BoxScoreLine {
	return db.BoxScoreLine{
		PlayerID:               b.PlayerID,
		Started:                b.Started,
		Minutes:                b.Minutes,
		Points:                 b.Points,
		FieldGoalsAttempted:    b.FieldGoalsAttempted,
		FieldGoalsMade:         b.FieldGoalsMade,
		ThreePointersAttempted: b.ThreePointersAttempted,
		ThreePointersMade:      b.ThreePointersMade,
		FreeThrowsAttempted:    b.FreeThrowsAttempted,
		FreeThrowsMade:         b.FreeThrowsMade,
		OffensiveRebounds:      b.OffensiveRebounds,
		DefensiveRebounds:      b.DefensiveRebounds,
		Assists:                b.Assists,
		Steals:                 b.Steals,
		Blocks:                 b.Blocks,
		Turnovers:              b.Turnovers,
		PersonalFouls:          b.PersonalFouls,
		TechnicalFouls:         b.TechnicalFouls,
		PlusMinus:              b.PlusMinus,
	}
}

func (s *Server) handleRecordBoxScore(w http.ResponseWriter, r *http.Request) {
	var req boxScoreRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Season == "" || req.PlayerID < 1 {
		s.fail(w, r, fmt.Errorf("%w: season and playerId are required", errBadRequest))
		return
	}

	id := mux.Vars(r)["id"]
	if err := s.engine.RecordPlayerGame(r.Context(), id, req.Season, req.line()); err != nil {
		s.fail(w, r, err)
		return
	}
	rec, err := s.store.GetPlayerRecord(r.Context(), req.PlayerID, req.Season)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newPlayerRecordView(rec))
}
