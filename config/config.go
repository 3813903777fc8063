package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full service configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	OCR        OCRConfig        `yaml:"ocr" mapstructure:"ocr"`
	Extraction ExtractionConfig `yaml:"extraction" mapstructure:"extraction"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port        string `yaml:"port" mapstructure:"port"`
	MaxUploadMB int64  `yaml:"max_upload_mb" mapstructure:"max_upload_mb"`
}

// OCRConfig tunes the OCR fallback path.
type OCRConfig struct {
	TessdataPrefix  string `yaml:"tessdata_prefix" mapstructure:"tessdata_prefix"`
	Language        string `yaml:"language" mapstructure:"language"`
	PageSegMode     int    `yaml:"page_seg_mode" mapstructure:"page_seg_mode"`
	DPI             int    `yaml:"dpi" mapstructure:"dpi"`
	PaddleURL       string `yaml:"paddle_url" mapstructure:"paddle_url"`
	RetryUnderChars int    `yaml:"retry_under_chars" mapstructure:"retry_under_chars"`
	PdfToPpmPath    string `yaml:"pdftoppm_path" mapstructure:"pdftoppm_path"`
}

// ExtractionConfig tunes field resolution and the statement revenue rule.
// The revenue jurisdictions and deposit exclusion keywords are data, not code:
// they come from deployment config.
type ExtractionConfig struct {
	NativeMinCharsApplication int      `yaml:"native_min_chars_application" mapstructure:"native_min_chars_application"`
	NativeMinCharsStatement   int      `yaml:"native_min_chars_statement" mapstructure:"native_min_chars_statement"`
	AnchorScoreFloor          int      `yaml:"anchor_score_floor" mapstructure:"anchor_score_floor"`
	MaxAnchorHits             int      `yaml:"max_anchor_hits" mapstructure:"max_anchor_hits"`
	DepositExclusionKeywords  []string `yaml:"deposit_exclusion_keywords" mapstructure:"deposit_exclusion_keywords"`
	RevenueBest3States        []string `yaml:"revenue_best3_states" mapstructure:"revenue_best3_states"`
}

// LogConfig configures the global zap logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from an optional ocr-underwriting.yaml in the
// working directory, with OCRUW_* environment overrides on top of defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.max_upload_mb", 35)

	v.SetDefault("ocr.tessdata_prefix", "/usr/share/tesseract-ocr/5/tessdata/")
	v.SetDefault("ocr.language", "eng")
	v.SetDefault("ocr.page_seg_mode", 4)
	v.SetDefault("ocr.dpi", 300)
	v.SetDefault("ocr.paddle_url", "http://paddleocr:8866/predict/ocr_system")
	v.SetDefault("ocr.retry_under_chars", 100)
	v.SetDefault("ocr.pdftoppm_path", "pdftoppm")

	v.SetDefault("extraction.native_min_chars_application", 1000)
	v.SetDefault("extraction.native_min_chars_statement", 300)
	v.SetDefault("extraction.anchor_score_floor", 80)
	v.SetDefault("extraction.max_anchor_hits", 8)
	v.SetDefault("extraction.deposit_exclusion_keywords", []string{"zelle", "zelle®"})
	v.SetDefault("extraction.revenue_best3_states", []string{"NY", "CA"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetConfigName("ocr-underwriting")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/ocr-underwriting")

	v.SetEnvPrefix("OCRUW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	return &cfg, nil
}

// InitLogger builds the global zap logger from config.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrapf(err, "config: parse log level %q", cfg.Level)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)
	return nil
}
