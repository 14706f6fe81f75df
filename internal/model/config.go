package model

import "time"

// Config holds the complete replyscore configuration
type Config struct {
	Normalizer   NormalizerConfig `yaml:"normalizer" mapstructure:"normalizer"`
	Facts        FactSet          `yaml:"facts" mapstructure:"facts"`
	References   []string         `yaml:"references" mapstructure:"references"`
	Policy       PolicyConfig     `yaml:"policy" mapstructure:"policy"`
	Judge        LLMConfig        `yaml:"judge" mapstructure:"judge"`
	Embedding    EmbeddingConfig  `yaml:"embedding" mapstructure:"embedding"`
	Cache        CacheConfig      `yaml:"cache" mapstructure:"cache"`
	RateLimiting RateLimitConfig  `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Transcript   TranscriptConfig `yaml:"transcript" mapstructure:"transcript"`
	Logging      LoggingConfig    `yaml:"logging" mapstructure:"logging"`
	Output       OutputConfig     `yaml:"output" mapstructure:"output"`
}

// NormalizerConfig configures the text normalizer
type NormalizerConfig struct {
	Language       string   `yaml:"language" mapstructure:"language"`                 // portuguese, english, spanish, ...
	ExtraStopwords []string `yaml:"extra_stopwords" mapstructure:"extra_stopwords"`   // Added to the language list
	MinTokenLength int      `yaml:"min_token_length" mapstructure:"min_token_length"` // Tokens shorter than this are dropped (runes)
	Stem           bool     `yaml:"stem" mapstructure:"stem"`
}

// PolicyConfig holds the ad hoc constants of the scoring policy.
// None of these values is statistically derived.
type PolicyConfig struct {
	AcceptThreshold      float64    `yaml:"accept_threshold" mapstructure:"accept_threshold"`
	AllPresentConfidence float64    `yaml:"all_present_confidence" mapstructure:"all_present_confidence"`
	PairedConfidence     float64    `yaml:"paired_confidence" mapstructure:"paired_confidence"`
	AnyConfidence        float64    `yaml:"any_confidence" mapstructure:"any_confidence"`
	NoneConfidence       float64    `yaml:"none_confidence" mapstructure:"none_confidence"`
	Pairings             [][]string `yaml:"pairings" mapstructure:"pairings"` // Fact-name pairs granting PairedConfidence
	GradeScale           float64    `yaml:"grade_scale" mapstructure:"grade_scale"`
}

// LLMConfig configures the remote judge
type LLMConfig struct {
	Provider   string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama, "" (disabled)
	Model      string `yaml:"model" mapstructure:"model"`
	APIKey     string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL    string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout    int    `yaml:"timeout" mapstructure:"timeout"` // seconds, per attempt
	MaxTokens  int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// EmbeddingConfig configures the sentence-embedding model
type EmbeddingConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // hashing, openai, ollama, lexical
	Model     string `yaml:"model,omitempty" mapstructure:"model"`
	APIKey    string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"`     // seconds
	Dimension int    `yaml:"dimension" mapstructure:"dimension"` // hashing model only
	Normalize bool   `yaml:"normalize" mapstructure:"normalize"` // Normalize references and candidate alike
}

// CacheConfig configures embedding memoization
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL             time.Duration `yaml:"ttl" mapstructure:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
}

// RateLimitConfig configures remote call rate limiting
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// TranscriptConfig configures transcript extraction and the relevance gate
type TranscriptConfig struct {
	Format            string   `yaml:"format" mapstructure:"format"`               // text, html
	BotSender         string   `yaml:"bot_sender" mapstructure:"bot_sender"`       // Sender name of the bot in text exports
	MessageClass      string   `yaml:"message_class" mapstructure:"message_class"` // CSS class of message nodes in HTML captures
	RelevanceKeywords []string `yaml:"relevance_keywords" mapstructure:"relevance_keywords"`
}

// LoggingConfig configures the structured logger
type LoggingConfig struct {
	JSON   bool `yaml:"json" mapstructure:"json"`
	Source bool `yaml:"source" mapstructure:"source"`
}

// OutputConfig controls output generation
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultPolicy returns the policy values of the reference validator
func DefaultPolicy() PolicyConfig {
	return PolicyConfig{
		AcceptThreshold:      0.8,
		AllPresentConfidence: 0.95,
		PairedConfidence:     0.7,
		AnyConfidence:        0.4,
		NoneConfidence:       0.0,
		Pairings: [][]string{
			{"exam_type", "performed_on"},
			{"exam_type", "report_due"},
		},
		GradeScale: 5,
	}
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Normalizer: NormalizerConfig{
			Language:       "portuguese",
			MinTokenLength: 3,
			Stem:           true,
		},
		Facts:      DefaultFacts(),
		References: DefaultReferences(),
		Policy:     DefaultPolicy(),
		Judge: LLMConfig{
			Provider:  "", // Disabled: local heuristic
			Timeout:   30,
			MaxTokens: 500,
		},
		Embedding: EmbeddingConfig{
			Provider:  "hashing",
			Timeout:   30,
			Dimension: 512,
			Normalize: true,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             time.Hour,
			CleanupInterval: 10 * time.Minute,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 2,
			BurstSize:         2,
		},
		Transcript: TranscriptConfig{
			Format:            "text",
			BotSender:         "Futurotec Homologação",
			MessageClass:      "message-text",
			RelevanceKeywords: []string{"exame"},
		},
	}
}
