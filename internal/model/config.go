package model

import "time"

// Config is the complete claimstream configuration
type Config struct {
	HTTP    HTTPConfig    `json:"http" yaml:"http"`
	ASR     ASRConfig     `json:"asr" yaml:"asr"`
	LLM     LLMConfig     `json:"llm" yaml:"llm"`
	Search  SearchConfig  `json:"search" yaml:"search"`
	Rerank  RerankConfig  `json:"rerank" yaml:"rerank"`
	Storage StorageConfig `json:"storage" yaml:"storage"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
	Media   MediaConfig   `json:"media" yaml:"media"`
	Cache   CacheConfig   `json:"cache" yaml:"cache"`
	Verbose bool          `json:"verbose" yaml:"verbose"`
}

// HTTPConfig holds shared HTTP client settings
type HTTPConfig struct {
	Timeout      time.Duration `json:"timeout" yaml:"timeout"`
	UserAgent    string        `json:"user_agent" yaml:"user_agent"`
	MaxBodyBytes int64         `json:"max_body_bytes" yaml:"max_body_bytes"`
	MaxRetries   int           `json:"max_retries" yaml:"max_retries"`
}

// ASRConfig holds transcription service settings
type ASRConfig struct {
	BaseURL string        `json:"base_url" yaml:"base_url"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"` // Long: whole-file transcription
}

// LLMConfig holds generative model settings.
// Timeout is always explicit; the model calls never run unbounded.
type LLMConfig struct {
	Provider    string        `json:"provider" yaml:"provider"` // "openai" or an OpenAI-compatible endpoint via base_url
	Model       string        `json:"model" yaml:"model"`
	APIKey      string        `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL     string        `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Timeout     time.Duration `json:"timeout" yaml:"timeout"`
	Temperature float32       `json:"temperature" yaml:"temperature"`
	MaxTokens   int           `json:"max_tokens" yaml:"max_tokens"`
}

// SearchConfig holds web-search and page-extraction settings
type SearchConfig struct {
	APIKey          string        `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	SearchEngineID  string        `json:"search_engine_id,omitempty" yaml:"search_engine_id,omitempty"`
	NumResults      int           `json:"num_results" yaml:"num_results"`
	Timeout         time.Duration `json:"timeout" yaml:"timeout"` // Short: single API round trip
	ExtractFullText bool          `json:"extract_full_text" yaml:"extract_full_text"`
	MaxTextLength   int           `json:"max_text_length" yaml:"max_text_length"`
	Workers         int           `json:"workers" yaml:"workers"` // Bounded fan-out for batch retrieval
	RatePerSecond   float64       `json:"rate_per_second" yaml:"rate_per_second"`
	RateBurst       int           `json:"rate_burst" yaml:"rate_burst"`
}

// RerankConfig holds evidence reranking weights and thresholds
type RerankConfig struct {
	Weights  Weights `json:"weights" yaml:"weights"`
	TopK     int     `json:"top_k" yaml:"top_k"`
	MinScore float64 `json:"min_score" yaml:"min_score"`
}

// Weights are the reranker component weights. They sum to 1 by
// convention; arbitrary weights are accepted and the final score is
// clamped to [0,1].
type Weights struct {
	DomainAuthority float64 `json:"domain_authority" yaml:"domain_authority"`
	KeywordOverlap  float64 `json:"keyword_overlap" yaml:"keyword_overlap"`
	Recency         float64 `json:"recency" yaml:"recency"`
}

// StorageConfig holds relational persistence settings
type StorageConfig struct {
	Path string `json:"path" yaml:"path"` // SQLite database file
}

// MetricsConfig holds time-series metrics settings
type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	URL     string `json:"url" yaml:"url"`
	Token   string `json:"token,omitempty" yaml:"token,omitempty"`
	Org     string `json:"org" yaml:"org"`
	Bucket  string `json:"bucket" yaml:"bucket"`
}

// MediaConfig holds video/audio handling settings
type MediaConfig struct {
	DataDir    string `json:"data_dir" yaml:"data_dir"`
	SampleRate int    `json:"sample_rate" yaml:"sample_rate"`
}

// CacheConfig holds search-response cache settings
type CacheConfig struct {
	Enabled bool          `json:"enabled" yaml:"enabled"`
	TTL     time.Duration `json:"ttl" yaml:"ttl"`
	Dir     string        `json:"dir,omitempty" yaml:"dir,omitempty"` // Disk cache for extracted page text
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "claimstream/0.1 (+https://github.com/ppiankov/claimstream)",
			MaxBodyBytes: 2_000_000,
			MaxRetries:   3,
		},
		ASR: ASRConfig{
			BaseURL: "http://localhost:8001",
			Timeout: 5 * time.Minute,
		},
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			Timeout:     60 * time.Second,
			Temperature: 0.3,
			MaxTokens:   2000,
		},
		Search: SearchConfig{
			NumResults:    5,
			Timeout:       10 * time.Second,
			MaxTextLength: 5000,
			Workers:       4,
			RatePerSecond: 2,
			RateBurst:     5,
		},
		Rerank: RerankConfig{
			Weights: Weights{
				DomainAuthority: 0.4,
				KeywordOverlap:  0.4,
				Recency:         0.2,
			},
			TopK:     3,
			MinScore: 0.3,
		},
		Storage: StorageConfig{
			Path: "claimstream.db",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			URL:     "http://localhost:8086",
			Org:     "claimstream",
			Bucket:  "metrics",
		},
		Media: MediaConfig{
			DataDir:    "./data",
			SampleRate: 16000,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     1 * time.Hour,
		},
	}
}
