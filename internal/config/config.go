package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/at-ishikawa/englearn/internal/grading"
	"github.com/at-ishikawa/englearn/internal/quiz"
	"github.com/at-ishikawa/englearn/internal/skill"
)

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Storage      StorageConfig      `mapstructure:"storage"`
	Catalog      CatalogConfig      `mapstructure:"catalog"`
	Dictionaries DictionariesConfig `mapstructure:"dictionaries"`
	OpenAI       OpenAIConfig       `mapstructure:"openai"`
	Quiz         QuizConfig         `mapstructure:"quiz"`
	Grading      GradingConfig      `mapstructure:"grading"`
	Study        StudyConfig        `mapstructure:"study"`
	Outputs      OutputsConfig      `mapstructure:"outputs"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port" validate:"min=1,max=65535"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

const (
	StorageBackendYAML  = "yaml"
	StorageBackendMySQL = "mysql"
)

// StorageConfig selects where per-user progress is kept.
type StorageConfig struct {
	Backend   string `mapstructure:"backend" validate:"oneof=yaml mysql"`
	Directory string `mapstructure:"directory" validate:"required_if=Backend yaml"`
}

type CatalogConfig struct {
	WordsDirectory string `mapstructure:"words_directory" validate:"required"`
	LessonsFile    string `mapstructure:"lessons_file" validate:"required"`
}

type DictionariesConfig struct {
	RapidAPI RapidAPIConfig `mapstructure:"rapidapi"`
}

type RapidAPIConfig struct {
	CacheDirectory string `mapstructure:"cache_directory"`
	Host           string `mapstructure:"host"`
	Key            string `mapstructure:"key"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type QuizConfig struct {
	NumberOfQuestions  int  `mapstructure:"number_of_questions" validate:"min=1,max=50"`
	NoDuplicateAnswers bool `mapstructure:"no_duplicate_answers"`
}

// Options returns quiz options for the given filters.
func (c QuizConfig) Options(topic, level string) quiz.Options {
	opts := quiz.DefaultOptions()
	opts.Topic = topic
	opts.Level = skill.Level(level)
	opts.NumberOfQuestions = c.NumberOfQuestions
	opts.NoDuplicateAnswers = c.NoDuplicateAnswers
	return opts
}

type GradingConfig struct {
	CaseSensitive         bool    `mapstructure:"case_sensitive"`
	AllowTypos            bool    `mapstructure:"allow_typos"`
	MaxTypoDistance       int     `mapstructure:"max_typo_distance" validate:"min=0,max=5"`
	MinSpeakingSimilarity float64 `mapstructure:"min_speaking_similarity" validate:"min=0,max=100"`
	StrictSpeaking        bool    `mapstructure:"strict_speaking"`
}

func (c GradingConfig) FillInBlankOptions() grading.FillInBlankOptions {
	return grading.FillInBlankOptions{
		CaseSensitive:   c.CaseSensitive,
		AllowTypos:      c.AllowTypos,
		MaxTypoDistance: c.MaxTypoDistance,
	}
}

func (c GradingConfig) SpeakingOptions() grading.SpeakingOptions {
	return grading.SpeakingOptions{
		MinSimilarity: c.MinSpeakingSimilarity,
		StrictMode:    c.StrictSpeaking,
	}
}

type StudyConfig struct {
	// UserID is the learner the CLI reads and writes progress for
	UserID        string `mapstructure:"user_id" validate:"required"`
	MaxDailyWords int    `mapstructure:"max_daily_words" validate:"min=1"`
	Scheduler     string `mapstructure:"scheduler" validate:"oneof=ladder sm2"`
}

type OutputsConfig struct {
	ReportDirectory string `mapstructure:"report_directory"`
	// ReportTemplate is optional. The embedded template is used when it is empty.
	ReportTemplate string `mapstructure:"report_template" validate:"omitempty,file"`
}

type ConfigLoader struct {
	viper     *viper.Viper
	validator *configValidator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, err := newConfigValidator()
	if err != nil {
		return nil, fmt.Errorf("newConfigValidator() > %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/englearn")
	}

	return &ConfigLoader{
		viper:     v,
		validator: validate,
	}, nil
}

// Load reads configFile, or config.yml from the current or home config directory.
func Load(configFile string) (*Config, error) {
	loader, err := NewConfigLoader(configFile)
	if err != nil {
		return nil, err
	}
	return loader.Load()
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "englearn")
	v.SetDefault("database.username", "user")
	v.SetDefault("storage.backend", StorageBackendYAML)
	v.SetDefault("storage.directory", filepath.Join("data", "progress"))
	v.SetDefault("catalog.words_directory", filepath.Join("catalog", "words"))
	v.SetDefault("catalog.lessons_file", filepath.Join("catalog", "lessons.yml"))
	v.SetDefault("dictionaries.rapidapi.cache_directory", filepath.Join("dictionaries", "rapidapi"))
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("quiz.number_of_questions", quiz.DefaultNumberOfQuestions)
	v.SetDefault("quiz.no_duplicate_answers", true)
	v.SetDefault("grading.case_sensitive", false)
	v.SetDefault("grading.allow_typos", true)
	v.SetDefault("grading.max_typo_distance", 2)
	v.SetDefault("grading.min_speaking_similarity", 70)
	v.SetDefault("grading.strict_speaking", false)
	v.SetDefault("study.user_id", "local")
	v.SetDefault("study.max_daily_words", 20)
	v.SetDefault("study.scheduler", "ladder")
	v.SetDefault("outputs.report_directory", filepath.Join("outputs", "reports"))
	v.SetDefault("outputs.report_template", "")

	// Secrets are bound to environment variables only
	for key, env := range map[string]string{
		"dictionaries.rapidapi.host": "RAPID_API_HOST",
		"dictionaries.rapidapi.key":  "RAPID_API_KEY",
		"openai.api_key":             "OPENAI_API_KEY",
		"openai.model":               "OPENAI_MODEL",
		"database.password":          "DB_PASSWORD",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s environment variable: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.check(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
