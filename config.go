package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ProjectInfo is the static metadata rendered verbatim onto every report.
type ProjectInfo struct {
	Name                string `yaml:"name"`
	Subtitle            string `yaml:"subtitle"`
	Address             string `yaml:"address"`
	Architect           string `yaml:"architect"`
	Duration            string `yaml:"duration"`
	PreparedBy          string `yaml:"prepared_by"`
	GeneralContractor   string `yaml:"general_contractor"`
	ConstructionManager string `yaml:"construction_manager"`
	District            string `yaml:"district"`
	Description         string `yaml:"description"`
	CommitmentText      string `yaml:"commitment_text"`
	ContactName         string `yaml:"contact_name"`
	ContactEmail        string `yaml:"contact_email"`
	ContactPhone        string `yaml:"contact_phone"`
}

// HolidayEntry is the YAML form of one known-holiday row.
type HolidayEntry struct {
	Date  string `yaml:"date"` // YYYY-MM-DD
	Label string `yaml:"label"`
}

type Config struct {
	DailyReportsDir    string `yaml:"daily_reports_dir"`
	SchedulesDir       string `yaml:"schedules_dir"`
	MinutesDir         string `yaml:"minutes_dir"`
	PhotosDir          string `yaml:"photos_dir"`
	LogosDir           string `yaml:"logos_dir"`
	MasterSchedulePath string `yaml:"master_schedule_path"`
	OutputDir          string `yaml:"output_dir"`
	DBPath             string `yaml:"db_path"`
	OverridesPath      string `yaml:"overrides_path"`

	ReportStartDate string `yaml:"report_start_date"` // Week 1 Monday
	CompletionDate  string `yaml:"substantial_completion_date"`

	DailyReportTemplate     string `yaml:"daily_report_template"` // one %s, filled with MM-DD-YYYY
	LookAheadMarker         string `yaml:"look_ahead_marker"`
	MinutesAnnotationMarker string `yaml:"minutes_annotation_marker"`
	FilenameYearMin         int    `yaml:"filename_year_min"`
	FilenameYearMax         int    `yaml:"filename_year_max"`

	PhotosPerReport    int `yaml:"photos_per_report"`
	MaxPhotoCandidates int `yaml:"max_photo_candidates"`

	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	ExtractModel    string `yaml:"llm_extract_model"`
	SynthesisModel  string `yaml:"llm_synthesis_model"`
	EmailModel      string `yaml:"llm_email_model"`

	Latitude         float64  `yaml:"latitude"`
	Longitude        float64  `yaml:"longitude"`
	WeatherUserAgent string   `yaml:"weather_user_agent"`
	WeatherKeywords  []string `yaml:"weather_sensitive_keywords"`

	WBSKeywords []string `yaml:"wbs_keywords"`

	SlackBotToken  string `yaml:"slack_bot_token"`
	SlackChannelID string `yaml:"slack_channel_id"`

	CronSchedule string `yaml:"cron_schedule"`

	Project       ProjectInfo       `yaml:"project"`
	Abbreviations map[string]string `yaml:"abbreviations"`
	Holidays      []HolidayEntry    `yaml:"holidays"`

	// Parsed at load; not read from YAML.
	StartDate        time.Time `yaml:"-"`
	SubstantialCompl time.Time `yaml:"-"`
	HolidayTable     []Holiday `yaml:"-"`
}

func LoadConfig(configPath string) Config {
	var cfg Config

	if configPath == "" {
		configPath = "config.yaml"
		if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
			configPath = envPath
		}
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values.
	envOverride(&cfg.DailyReportsDir, "DAILY_REPORTS_DIR")
	envOverride(&cfg.SchedulesDir, "SCHEDULES_DIR")
	envOverride(&cfg.MinutesDir, "MINUTES_DIR")
	envOverride(&cfg.PhotosDir, "PHOTOS_DIR")
	envOverride(&cfg.LogosDir, "LOGOS_DIR")
	envOverride(&cfg.MasterSchedulePath, "MASTER_SCHEDULE_PATH")
	envOverride(&cfg.OutputDir, "OUTPUT_DIR")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.ReportStartDate, "REPORT_START_DATE")
	envOverride(&cfg.CompletionDate, "SUBSTANTIAL_COMPLETION_DATE")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.ExtractModel, "LLM_EXTRACT_MODEL")
	envOverride(&cfg.SynthesisModel, "LLM_SYNTHESIS_MODEL")
	envOverride(&cfg.EmailModel, "LLM_EMAIL_MODEL")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.SlackChannelID, "SLACK_CHANNEL_ID")
	envOverride(&cfg.CronSchedule, "CRON_SCHEDULE")
	envOverrideInt(&cfg.PhotosPerReport, "PHOTOS_PER_REPORT")
	envOverrideInt(&cfg.MaxPhotoCandidates, "MAX_PHOTO_CANDIDATES")

	// Defaults.
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./siteweekly.db"
	}
	if cfg.DailyReportTemplate == "" {
		cfg.DailyReportTemplate = "Daily_Report_-%s.pdf"
	}
	if cfg.LookAheadMarker == "" {
		cfg.LookAheadMarker = "Look Ahead"
	}
	if cfg.FilenameYearMin == 0 {
		cfg.FilenameYearMin = 2025
	}
	if cfg.FilenameYearMax == 0 {
		cfg.FilenameYearMax = 2030
	}
	if cfg.PhotosPerReport == 0 {
		cfg.PhotosPerReport = 2
	}
	if cfg.MaxPhotoCandidates == 0 {
		cfg.MaxPhotoCandidates = 10
	}
	if cfg.ExtractModel == "" {
		cfg.ExtractModel = defaultExtractModel
	}
	if cfg.SynthesisModel == "" {
		cfg.SynthesisModel = defaultSynthesisModel
	}
	if cfg.EmailModel == "" {
		cfg.EmailModel = cfg.SynthesisModel
	}
	if len(cfg.WeatherKeywords) == 0 {
		cfg.WeatherKeywords = defaultWeatherKeywords
	}
	if len(cfg.WBSKeywords) == 0 {
		cfg.WBSKeywords = defaultWBSKeywords
	}
	if cfg.CronSchedule == "" {
		cfg.CronSchedule = "0 16 * * FRI"
	}

	// Validate required fields.
	required := map[string]string{
		"daily_reports_dir":           cfg.DailyReportsDir,
		"schedules_dir":               cfg.SchedulesDir,
		"minutes_dir":                 cfg.MinutesDir,
		"photos_dir":                  cfg.PhotosDir,
		"report_start_date":           cfg.ReportStartDate,
		"substantial_completion_date": cfg.CompletionDate,
		"anthropic_api_key":           cfg.AnthropicAPIKey,
	}
	for name, val := range required {
		if val == "" {
			log.Fatalf("Required config '%s' is not set (via config.yaml or env var)", name)
		}
	}

	var err error
	cfg.StartDate, err = ParseISODate(cfg.ReportStartDate)
	if err != nil {
		log.Fatalf("invalid report_start_date: %v", err)
	}
	cfg.SubstantialCompl, err = ParseISODate(cfg.CompletionDate)
	if err != nil {
		log.Fatalf("invalid substantial_completion_date: %v", err)
	}

	for _, h := range cfg.Holidays {
		d, err := ParseISODate(h.Date)
		if err != nil {
			log.Fatalf("invalid holiday date '%s': %v", h.Date, err)
		}
		cfg.HolidayTable = append(cfg.HolidayTable, Holiday{Date: d, Label: h.Label})
	}

	if cfg.FilenameYearMin > cfg.FilenameYearMax {
		log.Fatalf("filename_year_min %d exceeds filename_year_max %d", cfg.FilenameYearMin, cfg.FilenameYearMax)
	}
	if cfg.PhotosPerReport < 1 {
		log.Fatalf("invalid photos_per_report '%d': must be >= 1", cfg.PhotosPerReport)
	}
	if cfg.SlackBotToken != "" && cfg.SlackChannelID == "" {
		log.Fatalf("slack_channel_id is required when slack_bot_token is set")
	}

	return cfg
}

func (c Config) yearWindow() YearWindow {
	return YearWindow{Min: c.FilenameYearMin, Max: c.FilenameYearMax}
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}
