// Command standings ranks a season of competitions under a federation
// ruleset and prints the resulting league tables as YAML.
//
// Configuration is layered: built-in defaults, then an optional YAML
// config file, then STANDINGS_* environment variables, then flags.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/monsieurgui/climbinsight/internal/application"
	"github.com/monsieurgui/climbinsight/internal/domain"
)

// competitionDoc is one competition in a season document.
type competitionDoc struct {
	ID           string             `yaml:"id"`
	Discipline   domain.Discipline  `yaml:"discipline"`
	Tier         domain.Tier        `yaml:"tier"`
	Category     domain.Category    `yaml:"category"`
	Date         time.Time          `yaml:"date"`
	SeasonFinale bool               `yaml:"season_finale"`
	Derogated    []domain.AthleteID `yaml:"derogated"`
	Results      []domain.RawResult `yaml:"results"`
}

// seasonDoc is the input document: a league's competitions for one
// season.
type seasonDoc struct {
	League       string           `yaml:"league"`
	Competitions []competitionDoc `yaml:"competitions"`
}

func main() {
	var (
		configPath  = flag.String("config", "", "Optional YAML config file")
		rulesetPath = flag.String("ruleset", "", "Ruleset YAML document")
		seasonPath  = flag.String("season", "", "Season YAML document")
		noteLang    = flag.String("note-language", "", "BCP-47 tag for derogation display notes")
	)
	flag.Parse()

	k := koanf.New(".")
	defaults := map[string]any{
		"ruleset":       "configs/ifsc.yaml",
		"season":        "season.yaml",
		"note_language": "en",
	}
	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			log.Fatalf("setting default %s: %v", key, err)
		}
	}
	if *configPath != "" {
		if err := k.Load(file.Provider(*configPath), yaml.Parser()); err != nil {
			log.Fatalf("loading config %s: %v", *configPath, err)
		}
	}
	if err := k.Load(env.Provider("STANDINGS_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "STANDINGS_"))
	}), nil); err != nil {
		log.Fatalf("loading environment: %v", err)
	}
	for key, value := range map[string]string{
		"ruleset":       *rulesetPath,
		"season":        *seasonPath,
		"note_language": *noteLang,
	} {
		if value != "" {
			if err := k.Set(key, value); err != nil {
				log.Fatalf("setting %s: %v", key, err)
			}
		}
	}

	if err := run(context.Background(), k); err != nil {
		log.Fatalf("standings: %v", err)
	}
}

func run(ctx context.Context, k *koanf.Koanf) error {
	registry, err := application.NewRulesetRegistry()
	if err != nil {
		return fmt.Errorf("creating ruleset registry: %w", err)
	}
	rs, err := registry.LoadFromFile(ctx, k.String("ruleset"))
	if err != nil {
		return fmt.Errorf("loading ruleset: %w", err)
	}

	raw, err := os.ReadFile(k.String("season"))
	if err != nil {
		return fmt.Errorf("reading season document: %w", err)
	}
	var season seasonDoc
	if err := yamlv3.Unmarshal(raw, &season); err != nil {
		return fmt.Errorf("parsing season document: %w", err)
	}
	if season.League == "" {
		return fmt.Errorf("season document has no league name")
	}

	calculators, err := application.NewDefaultCalculatorRegistry()
	if err != nil {
		return fmt.Errorf("creating calculator registry: %w", err)
	}
	engine, err := application.NewEngine(calculators, nil, nil)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}

	byCategory := make(map[domain.Category][]*domain.CompetitionRanking)
	dates := make(map[string]time.Time, len(season.Competitions))
	for _, comp := range season.Competitions {
		derogated := make(map[domain.AthleteID]bool, len(comp.Derogated))
		for _, id := range comp.Derogated {
			derogated[id] = true
		}
		ranking, err := engine.RankCompetition(ctx, application.CompetitionInput{
			Ruleset:       rs,
			CompetitionID: comp.ID,
			Discipline:    comp.Discipline,
			Tier:          comp.Tier,
			Category:      comp.Category,
			Results:       comp.Results,
			Derogated:     derogated,
			SeasonFinale:  comp.SeasonFinale,
			NoteLanguage:  k.String("note_language"),
		})
		if err != nil {
			return fmt.Errorf("ranking competition %q: %w", comp.ID, err)
		}
		for _, skipped := range ranking.Skipped {
			fmt.Fprintf(os.Stderr, "warning: skipped result: %v\n", skipped)
		}
		byCategory[comp.Category] = append(byCategory[comp.Category], ranking)
		if !comp.Date.IsZero() {
			dates[comp.ID] = comp.Date
		}
	}

	tables, err := engine.RankSeason(ctx, rs, season.League, byCategory, dates)
	if err != nil {
		return fmt.Errorf("aggregating season: %w", err)
	}

	categories := make([]domain.Category, 0, len(tables))
	for cat := range tables {
		categories = append(categories, cat)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

	out := yamlv3.NewEncoder(os.Stdout)
	defer out.Close()
	for _, cat := range categories {
		if err := out.Encode(tables[cat]); err != nil {
			return fmt.Errorf("encoding standings for %q: %w", cat, err)
		}
	}
	return nil
}
