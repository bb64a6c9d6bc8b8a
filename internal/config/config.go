// Package config loads the kernel's layered configuration: built-in
// defaults, then an optional JSON file, then environment variables
// prefixed NARS_ (SPEC_FULL.md §2.2), mirroring the teacher's
// defaults-then-file-then-env layering.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/narswright/nars-kernel/internal/reasoner"
)

// Config is the kernel process's top-level configuration.
type Config struct {
	Server   Server   `json:"server"`
	Reasoner Reasoner `json:"reasoner"`
	Storage  Storage  `json:"storage"`
	Logging  Logging  `json:"logging"`
}

// Server identifies the running process for host-surface diagnostics
// (INF summary, MCP server implementation metadata).
type Server struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

// Reasoner mirrors internal/reasoner.Hyperparams field-for-field so the
// JSON/env layer can override any tunable named in spec.md §4.
type Reasoner struct {
	BagLevel             int     `json:"bag_level"`
	BagThreshold         int     `json:"bag_threshold"`
	ConceptBagSize       int     `json:"concept_bag_size"`
	NovelTaskBagSize     int     `json:"novel_task_bag_size"`
	TaskBufferSize       int     `json:"task_buffer_size"`
	MaxStampLength       int     `json:"max_stamp_length"`
	MaxBeliefLength      int     `json:"max_belief_length"`
	MaxQuestionLength    int     `json:"max_question_length"`
	TermLinkRecordLength int     `json:"term_link_record_length"`
	MaxReasonedTermLink  int     `json:"max_reasoned_term_link"`
	EvidentialHorizon    float64 `json:"evidential_horizon"`
	ForgetRate           float64 `json:"forget_rate"`
	CreationExpectation  float64 `json:"creation_expectation"`
	BudgetThreshold      float64 `json:"budget_threshold"`
	SilenceFloor         float64 `json:"silence_floor"`
}

// ToHyperparams converts the config section to the reasoner's native type.
func (r Reasoner) ToHyperparams() reasoner.Hyperparams {
	return reasoner.Hyperparams{
		BagLevel:             r.BagLevel,
		BagThreshold:         r.BagThreshold,
		ConceptBagSize:       r.ConceptBagSize,
		NovelTaskBagSize:     r.NovelTaskBagSize,
		TaskBufferSize:       r.TaskBufferSize,
		MaxStampLength:       r.MaxStampLength,
		MaxBeliefLength:      r.MaxBeliefLength,
		MaxQuestionLength:    r.MaxQuestionLength,
		TermLinkRecordLength: r.TermLinkRecordLength,
		MaxReasonedTermLink:  r.MaxReasonedTermLink,
		EvidentialHorizon:    r.EvidentialHorizon,
		ForgetRate:           r.ForgetRate,
		CreationExpectation:  r.CreationExpectation,
		BudgetThreshold:      r.BudgetThreshold,
		SilenceFloor:         r.SilenceFloor,
	}
}

// Storage selects and configures the persistence backend
// (internal/persist): "memory" (default, no durability), "sqlite" (DSN is
// a file path or ":memory:"), or "neo4j" (DSN is a bolt:// URI).
type Storage struct {
	Backend string `json:"backend"`
	DSN     string `json:"dsn"`
}

// Logging controls the standard-library logger's verbosity, following the
// teacher's DEBUG-flag convention (SPEC_FULL.md §2.1).
type Logging struct {
	Debug bool `json:"debug"`
}

// Default returns the kernel's built-in configuration: reasoner.
// DefaultHyperparams mirrored into the Reasoner section, an in-memory
// storage backend, and debug logging off.
func Default() Config {
	hp := reasoner.DefaultHyperparams()
	return Config{
		Server: Server{Name: "nars-kernel", Version: "0.1.0", Environment: "development"},
		Reasoner: Reasoner{
			BagLevel:             hp.BagLevel,
			BagThreshold:         hp.BagThreshold,
			ConceptBagSize:       hp.ConceptBagSize,
			NovelTaskBagSize:     hp.NovelTaskBagSize,
			TaskBufferSize:       hp.TaskBufferSize,
			MaxStampLength:       hp.MaxStampLength,
			MaxBeliefLength:      hp.MaxBeliefLength,
			MaxQuestionLength:    hp.MaxQuestionLength,
			TermLinkRecordLength: hp.TermLinkRecordLength,
			MaxReasonedTermLink:  hp.MaxReasonedTermLink,
			EvidentialHorizon:    hp.EvidentialHorizon,
			ForgetRate:           hp.ForgetRate,
			CreationExpectation:  hp.CreationExpectation,
			BudgetThreshold:      hp.BudgetThreshold,
			SilenceFloor:         hp.SilenceFloor,
		},
		Storage: Storage{Backend: "memory"},
		Logging: Logging{Debug: false},
	}
}

// Load builds a Config by layering defaults, an optional JSON file at
// path (skipped silently if path is empty or the file does not exist),
// and NARS_-prefixed environment variables, then validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
			}
		} else if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate is the kernel's ConstructionError boundary at the config layer
// (spec.md §7): it delegates numeric range checks to Hyperparams.Validate
// and additionally rejects an unknown storage backend.
func (c Config) Validate() error {
	if err := c.Reasoner.ToHyperparams().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.Storage.Backend {
	case "memory", "sqlite", "neo4j":
	default:
		return fmt.Errorf("config: construction error: unknown storage backend %q", c.Storage.Backend)
	}
	return nil
}

// envPrefix is NARS_ in place of the teacher's UT_ (SPEC_FULL.md §2.2).
const envPrefix = "NARS_"

func applyEnv(cfg *Config) {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			*dst = v == "1" || strings.EqualFold(v, "true")
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	float := func(key string, dst *float64) {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = f
			}
		}
	}

	str("SERVER_NAME", &cfg.Server.Name)
	str("SERVER_VERSION", &cfg.Server.Version)
	str("SERVER_ENVIRONMENT", &cfg.Server.Environment)

	integer("BAG_LEVEL", &cfg.Reasoner.BagLevel)
	integer("BAG_THRESHOLD", &cfg.Reasoner.BagThreshold)
	integer("CONCEPT_BAG_SIZE", &cfg.Reasoner.ConceptBagSize)
	integer("NOVEL_TASK_BAG_SIZE", &cfg.Reasoner.NovelTaskBagSize)
	integer("TASK_BUFFER_SIZE", &cfg.Reasoner.TaskBufferSize)
	integer("MAX_STAMP_LENGTH", &cfg.Reasoner.MaxStampLength)
	integer("MAX_BELIEF_LENGTH", &cfg.Reasoner.MaxBeliefLength)
	integer("MAX_QUESTION_LENGTH", &cfg.Reasoner.MaxQuestionLength)
	integer("TERM_LINK_RECORD_LENGTH", &cfg.Reasoner.TermLinkRecordLength)
	integer("MAX_REASONED_TERM_LINK", &cfg.Reasoner.MaxReasonedTermLink)
	float("EVIDENTIAL_HORIZON", &cfg.Reasoner.EvidentialHorizon)
	float("FORGET_RATE", &cfg.Reasoner.ForgetRate)
	float("CREATION_EXPECTATION", &cfg.Reasoner.CreationExpectation)
	float("BUDGET_THRESHOLD", &cfg.Reasoner.BudgetThreshold)
	float("SILENCE_FLOOR", &cfg.Reasoner.SilenceFloor)

	str("STORAGE_BACKEND", &cfg.Storage.Backend)
	str("STORAGE_DSN", &cfg.Storage.DSN)

	boolean("DEBUG", &cfg.Logging.Debug)
}
