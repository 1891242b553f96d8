package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/negz/hoops/internal/db"
	"github.com/negz/hoops/internal/stats/aggregate"
)

// A Store registers league data.
type Store interface {
	RegisterTeam(ctx context.Context, t db.Team) (int64, error)
	RegisterPlayer(ctx context.Context, p db.Player) (int64, error)
	RegisterTeamSeason(ctx context.Context, teamID int64, season string) error
	RegisterPlayerSeason(ctx context.Context, playerID int64, season string) error
}

// An Applier aggregates finished games and box scores.
type Applier interface {
	ApplyFinishedGame(ctx context.Context, g db.Game) error
	RecordPlayerGame(ctx context.Context, gameID, season string, l db.BoxScoreLine) error
}

// League extracts, transforms, and loads the teams and players in
// league.yaml.
type League struct {
	raw leagueYAML
}

type leagueYAML struct {
	Teams   []teamYAML   `yaml:"teams"`
	Players []playerYAML `yaml:"players"`
}

type teamYAML struct {
	Key        string `yaml:"key"`
	Name       string `yaml:"name"`
	City       string `yaml:"city"`
	Conference string `yaml:"conference"`
	Division   string `yaml:"division"`
}

type playerYAML struct {
	Name     string `yaml:"name"`
	Team     string `yaml:"team"`
	Position string `yaml:"position"`
	Number   int    `yaml:"number"`
}

// PlayerData is a transformed player with their team's key.
type PlayerData struct {
	Player  db.Player
	TeamKey string
}

// Extract reads and decodes league data from a YAML file.
func (l *League) Extract(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // Internal archive path.
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return yaml.Unmarshal(data, &l.raw)
}

// Transform returns clean domain types from the raw YAML data.
func (l *League) Transform() ([]db.Team, []PlayerData) {
	teams := make([]db.Team, 0, len(l.raw.Teams))
	for _, t := range l.raw.Teams {
		teams = append(teams, db.Team{
			Key:        strings.ToUpper(t.Key),
			Name:       t.Name,
			City:       t.City,
			Conference: t.Conference,
			Division:   t.Division,
		})
	}

	players := make([]PlayerData, 0, len(l.raw.Players))
	for _, p := range l.raw.Players {
		players = append(players, PlayerData{
			Player:  db.Player{Name: p.Name, Position: p.Position, Number: p.Number},
			TeamKey: strings.ToUpper(p.Team),
		})
	}
	return teams, players
}

// Registry maps archive keys to registered IDs.
type Registry struct {
	Teams   map[string]db.Team // By key.
	Players map[string]int64   // By name.
}

// Load registers every team and player, and registers a season record for
// each in every supplied season. It returns the registered IDs.
func (l *League) Load(ctx context.Context, s Store, seasons []string) (*Registry, error) {
	teams, players := l.Transform()
	reg := &Registry{Teams: make(map[string]db.Team, len(teams)), Players: make(map[string]int64, len(players))}

	for _, t := range teams {
		id, err := s.RegisterTeam(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("register team %s: %w", t.Key, err)
		}
		t.ID = id
		reg.Teams[t.Key] = t
		for _, season := range seasons {
			if err := s.RegisterTeamSeason(ctx, id, season); err != nil {
				return nil, fmt.Errorf("register team %s season %s: %w", t.Key, season, err)
			}
		}
	}

	for _, p := range players {
		if p.TeamKey != "" {
			t, ok := reg.Teams[p.TeamKey]
			if !ok {
				return nil, fmt.Errorf("player %s: unknown team %q", p.Player.Name, p.TeamKey)
			}
			p.Player.TeamID = t.ID
		}
		id, err := s.RegisterPlayer(ctx, p.Player)
		if err != nil {
			return nil, fmt.Errorf("register player %s: %w", p.Player.Name, err)
		}
		reg.Players[p.Player.Name] = id
		for _, season := range seasons {
			if err := s.RegisterPlayerSeason(ctx, id, season); err != nil {
				return nil, fmt.Errorf("register player %s season %s: %w", p.Player.Name, season, err)
			}
		}
	}

	return reg, nil
}

// Game extracts and transforms one game file.
type Game struct {
	raw gameJSON
}

type gameJSON struct {
	ID       string       `json:"id"`
	Matchday int          `json:"matchday"`
	Date     string       `json:"date"`
	State    string       `json:"state"`
	Home     teamGameJSON `json:"home"`
	Away     teamGameJSON `json:"away"`
}

type teamGameJSON struct {
	Team    string     `json:"team"`
	Score   int        `json:"score"`
	Players []lineJSON `json:"players"`
}

type lineJSON struct {
	Name                   string  `json:"name"`
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

// GameData is a transformed game with its box score, keyed by player name.
type GameData struct {
	Game    db.Game
	HomeKey string
	AwayKey string
	Lines   map[string]db.BoxScoreLine
}

// Extract reads and decodes a game file.
func (g *Game) Extract(path string) error {
	f, err := os.Open(path) //nolint:gosec // Internal archive path.
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close() //nolint:errcheck // Read-only file.
	return json.NewDecoder(f).Decode(&g.raw)
}

// Transform resolves team keys using the registry and builds a game for the
// supplied season. Games missing a state are assumed finished.
func (g *Game) Transform(season string, reg *Registry) (GameData, error) {
	homeKey, awayKey := strings.ToUpper(g.raw.Home.Team), strings.ToUpper(g.raw.Away.Team)
	home, ok := reg.Teams[homeKey]
	if !ok {
		return GameData{}, fmt.Errorf("game %s: unknown home team %q", g.raw.ID, g.raw.Home.Team)
	}
	away, ok := reg.Teams[awayKey]
	if !ok {
		return GameData{}, fmt.Errorf("game %s: unknown away team %q", g.raw.ID, g.raw.Away.Team)
	}

	state := db.GameState(g.raw.State)
	if state == "" {
		state = db.GameFinished
	}
	conference, division := aggregate.Classify(home, away)

	lines := make(map[string]db.BoxScoreLine, len(g.raw.Home.Players)+len(g.raw.Away.Players))
	for _, side := range []teamGameJSON{g.raw.Home, g.raw.Away} {
		for _, l := range side.Players {
			lines[l.Name] = db.BoxScoreLine{
				Started:                l.Started,
				Minutes:                l.Minutes,
				Points:                 l.Points,
				FieldGoalsAttempted:    l.FieldGoalsAttempted,
				FieldGoalsMade:         l.FieldGoalsMade,
				ThreePointersAttempted: l.ThreePointersAttempted,
				ThreePointersMade:      l.ThreePointersMade,
				FreeThrowsAttempted:    l.FreeThrowsAttempted,
				FreeThrowsMade:         l.FreeThrowsMade,
				OffensiveRebounds:      l.OffensiveRebounds,
				DefensiveRebounds:      l.DefensiveRebounds,
				Assists:                l.Assists,
				Steals:                 l.Steals,
				Blocks:                 l.Blocks,
				Turnovers:              l.Turnovers,
				PersonalFouls:          l.PersonalFouls,
				TechnicalFouls:         l.TechnicalFouls,
				PlusMinus:              l.PlusMinus,
			}
		}
	}

	return GameData{
		Game: db.Game{
			ID:             g.raw.ID,
			Season:         season,
			Matchday:       g.raw.Matchday,
			Date:           g.raw.Date,
			HomeTeamID:     home.ID,
			AwayTeamID:     away.ID,
			HomeScore:      g.raw.Home.Score,
			AwayScore:      g.raw.Away.Score,
			State:          state,
			ConferenceGame: conference,
			DivisionGame:   division,
		},
		HomeKey: homeKey,
		AwayKey: awayKey,
		Lines:   lines,
	}, nil
}
