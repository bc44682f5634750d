package config

// Config holds the full masterctl configuration, read from the file named
// by --config or else from ./config.yaml or $HOME/.masterctl/config.yaml,
// and overridable with MASTERCTL_-prefixed environment variables.
type Config struct {
	Concurrency ConcurrencyConfig `mapstructure:"concurrency" yaml:"concurrency"`
	ASR         ASRConfig         `mapstructure:"asr" yaml:"asr"`
	ForcedAlign ForcedAlignConfig `mapstructure:"forced_align" yaml:"forced_align"`
	Anchor      AnchorConfig      `mapstructure:"anchor" yaml:"anchor"`
	Align       AlignConfig       `mapstructure:"align" yaml:"align"`
	Prosody     ProsodyConfig     `mapstructure:"prosody" yaml:"prosody"`
	Roomtone    RoomtoneConfig    `mapstructure:"roomtone" yaml:"roomtone"`
	Mirror      MirrorConfig      `mapstructure:"mirror" yaml:"mirror"`
	Search      SearchConfig      `mapstructure:"search" yaml:"search"`
}

// ConcurrencyConfig sizes the pipeline's resource pools.
type ConcurrencyConfig struct {
	ASRCapacity         int `mapstructure:"asr_capacity" yaml:"asr_capacity"`
	ForcedAlignCapacity int `mapstructure:"forced_align_capacity" yaml:"forced_align_capacity"`
	Workspaces          int `mapstructure:"workspaces" yaml:"workspaces"`
	BatchWorkers        int `mapstructure:"batch_workers" yaml:"batch_workers"`
}

// ASRConfig configures which engine adapter Stage Asr dispatches to.
type ASRConfig struct {
	Engine   string   `mapstructure:"engine" yaml:"engine"`
	Endpoint string   `mapstructure:"endpoint" yaml:"endpoint"`
	APIKey   string   `mapstructure:"api_key" yaml:"api_key"`
	Language string   `mapstructure:"language" yaml:"language"`
	Hints    []string `mapstructure:"hints" yaml:"hints"`
	Timeout  string   `mapstructure:"timeout" yaml:"timeout"`
	Retries  int      `mapstructure:"retries" yaml:"retries"`
}

// ForcedAlignConfig configures the Dockerized Montreal Forced Aligner
// adapter.
type ForcedAlignConfig struct {
	Image         string `mapstructure:"image" yaml:"image"`
	ContainerName string `mapstructure:"container_name" yaml:"container_name"`
	Port          string `mapstructure:"port" yaml:"port"`
	Timeout       string `mapstructure:"timeout" yaml:"timeout"`
	Retries       int    `mapstructure:"retries" yaml:"retries"`
	DictPath      string `mapstructure:"dict_path" yaml:"dict_path"`
	AcousticModel string `mapstructure:"acoustic_model" yaml:"acoustic_model"`
	Lookahead     int    `mapstructure:"lookahead" yaml:"lookahead"`
}

// AnchorConfig configures the Anchor Engine.
type AnchorConfig struct {
	MinNgram             int      `mapstructure:"min_ngram" yaml:"min_ngram"`
	MaxNgram             int      `mapstructure:"max_ngram" yaml:"max_ngram"`
	Stopwords            []string `mapstructure:"stopwords" yaml:"stopwords"`
	AllowRelaxedMatching bool     `mapstructure:"allow_relaxed_matching" yaml:"allow_relaxed_matching"`
	AllowDuplicates      bool     `mapstructure:"allow_duplicates" yaml:"allow_duplicates"`
	MinSeparation        int      `mapstructure:"min_separation" yaml:"min_separation"`
	AllowBoundaryCross   bool     `mapstructure:"allow_boundary_cross" yaml:"allow_boundary_cross"`
	TargetPerTokens      int      `mapstructure:"target_per_tokens" yaml:"target_per_tokens"`
}

// AlignConfig configures the Windowed DP Aligner's cost model. Equivalence
// maps a normalized narration spelling to its canonical book form (e.g.
// "cant" -> "can't") so the two compare equal instead of as a
// substitution; Fillers names normalized ASR tokens ("um", "uh") that
// insert cheaply instead of counting as a genuinely extra word.
type AlignConfig struct {
	Equivalence map[string]string `mapstructure:"equivalence" yaml:"equivalence"`
	Fillers     []string          `mapstructure:"fillers" yaml:"fillers"`
}

// ProsodyConfig configures the Pause Analyzer.
type ProsodyConfig struct {
	MinPauseSec float64 `mapstructure:"min_pause_sec" yaml:"min_pause_sec"`
}

// RoomtoneConfig configures the Roomtone Treatment stage.
type RoomtoneConfig struct {
	SeedPath           string  `mapstructure:"seed_path" yaml:"seed_path"`
	ProbeStepSec       float64 `mapstructure:"probe_step_sec" yaml:"probe_step_sec"`
	SilenceThresholdDb float64 `mapstructure:"silence_threshold_db" yaml:"silence_threshold_db"`
	MinTreatableGapSec float64 `mapstructure:"min_treatable_gap_sec" yaml:"min_treatable_gap_sec"`
	CrossfadeSec       float64 `mapstructure:"crossfade_sec" yaml:"crossfade_sec"`
}

// MirrorConfig configures the optional S3/OSS artifact mirror.
type MirrorConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"` // "", "s3", "oss"
	Bucket  string `mapstructure:"bucket" yaml:"bucket"`
	Prefix  string `mapstructure:"prefix" yaml:"prefix"`
	Region  string `mapstructure:"region" yaml:"region"`
	// OSS-only:
	AccessKeyID     string `mapstructure:"access_key_id" yaml:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret" yaml:"access_key_secret"`
}

// SearchConfig configures the optional Meilisearch QA index.
type SearchConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Host    string `mapstructure:"host" yaml:"host"`
	APIKey  string `mapstructure:"api_key" yaml:"api_key"`
	Index   string `mapstructure:"index" yaml:"index"`
}

// DefaultConfig returns configuration with sensible defaults, matching
// suggested capacities and §4.G/§4.F's suggested thresholds.
func DefaultConfig() *Config {
	return &Config{
		Concurrency: ConcurrencyConfig{
			ASRCapacity:         2,
			ForcedAlignCapacity: 1,
			Workspaces:          4,
			BatchWorkers:        4,
		},
		ASR: ASRConfig{
			Engine:   "http",
			Language: "en",
			Timeout:  "5m",
			Retries:  0,
		},
		ForcedAlign: ForcedAlignConfig{
			Image:         "mmcauliffe/montreal-forced-aligner:latest",
			ContainerName: "masterctl-mfa",
			Port:          "8765",
			Timeout:       "10m",
			Retries:       0,
			AcousticModel: "english_us_arpa",
			Lookahead:     3,
		},
		Anchor: AnchorConfig{
			MinNgram:             2,
			MaxNgram:             4,
			AllowRelaxedMatching: true,
			AllowDuplicates:      false,
			MinSeparation:        20,
			AllowBoundaryCross:   false,
			TargetPerTokens:      50,
		},
		Align: AlignConfig{
			Equivalence: map[string]string{
				"cant":  "can't",
				"wont":  "won't",
				"dont":  "don't",
				"im":    "i'm",
				"youre": "you're",
				"theyre": "they're",
			},
			Fillers: []string{"um", "uh", "er", "ah", "hm"},
		},
		Prosody: ProsodyConfig{
			MinPauseSec: 0.08,
		},
		Roomtone: RoomtoneConfig{
			ProbeStepSec:       0.02,
			SilenceThresholdDb: -40,
			MinTreatableGapSec: 0.25,
			CrossfadeSec:       0.015,
		},
	}
}
