package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
)

// EngineConfig holds every tunable of the comparison engine. It is loaded
// once and passed by value into each comparison call; the engine keeps no
// process-wide mutable scoring state.
type EngineConfig struct {
	AcceptanceThreshold   float64             `toml:"acceptance_threshold"`
	ImbalanceWarningRatio float64             `toml:"imbalance_warning_ratio"`
	TopKRelationships     int                 `toml:"top_k_relationships"`
	EntityWeight          float64             `toml:"entity_weight"`
	RelationshipWeight    float64             `toml:"relationship_weight"`
	FinancialRiskBoost    bool                `toml:"financial_risk_boost"`
	ConsistencyTolerance  float64             `toml:"consistency_tolerance"`
	DeploymentThreshold   float64             `toml:"deployment_threshold"`
	AccuracyWeights       AccuracyWeights     `toml:"accuracy_weights"`
	Bridging              map[string][]string `toml:"bridging"`
}

type AccuracyWeights struct {
	Content float64 `toml:"content"`
	Quality float64 `toml:"quality"`
}

type SemanticConfig struct {
	Provider       string `toml:"provider"`
	Model          string `toml:"model"`
	EmbeddingModel string `toml:"embedding_model"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type ServerConfig struct {
	Port string `toml:"port"`
}

type Config struct {
	Engine   EngineConfig   `toml:"engine"`
	Semantic SemanticConfig `toml:"semantic"`
	Memgraph MemgraphConfig `toml:"memgraph"`
	Server   ServerConfig   `toml:"server"`
}

// Default returns the documented engine defaults. Callers that load a file
// start from these so a sparse TOML only overrides what it names.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			AcceptanceThreshold:   0.55,
			ImbalanceWarningRatio: 5.0,
			TopKRelationships:     20,
			EntityWeight:          0.4,
			RelationshipWeight:    0.6,
			FinancialRiskBoost:    true,
			ConsistencyTolerance:  0.15,
			DeploymentThreshold:   0.7,
			AccuracyWeights:       AccuracyWeights{Content: 0.7, Quality: 0.3},
		},
		Server: ServerConfig{Port: "8080"},
	}
}

func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config file %q", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "parse TOML")
	}
	cfg.applyEnv()
	return cfg, nil
}

// applyEnv lets deployment environments override file settings without
// editing the TOML.
func (c *Config) applyEnv() {
	if v := os.Getenv("SEMANTIC_PROVIDER"); v != "" {
		c.Semantic.Provider = v
	}
	if v := os.Getenv("SEMANTIC_MODEL"); v != "" {
		c.Semantic.Model = v
	}
	if v := os.Getenv("SEMANTIC_EMBEDDING_MODEL"); v != "" {
		c.Semantic.EmbeddingModel = v
	}
	if v := os.Getenv("SEMANTIC_API_KEY"); v != "" {
		c.Semantic.APIKey = v
	}
	if v := os.Getenv("SEMANTIC_BASE_URL"); v != "" {
		c.Semantic.BaseURL = v
	}
	if v := os.Getenv("MEMGRAPH_URI"); v != "" {
		c.Memgraph.URI = v
	}
	if v := os.Getenv("MEMGRAPH_USER"); v != "" {
		c.Memgraph.User = v
	}
	if v := os.Getenv("MEMGRAPH_PASSWORD"); v != "" {
		c.Memgraph.Password = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
}
