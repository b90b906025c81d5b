package config

import (
	"fmt"
	"strings"
	"time"

	"clinic-management/internal/domain/scheduling"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	DB         DBConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Scheduling SchedulingConfig
	Admin      AdminConfig
}

type AppConfig struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

type DBConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	TimeZone    string
	AutoMigrate bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// AdminConfig seeds the first admin account. Empty values skip seeding.
type AdminConfig struct {
	Email    string
	Password string
}

// SchedulingConfig holds the raw clinic operating window settings.
type SchedulingConfig struct {
	SlotGranularity   string
	OperatingDays     []string
	OpenHour          int
	CloseHour         int
	AllowPastForEdits bool
	TimeZone          string
	DefaultDuration   int
}

func LoadConfig() (*Config, error) {
	// .env is optional, real environment variables win
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	accessExpiry, err := time.ParseDuration(v.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(v.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	config := &Config{
		App: AppConfig{
			Port:           v.GetString("APP_PORT"),
			Env:            v.GetString("APP_ENV"),
			LogLevel:       v.GetString("LOG_LEVEL"),
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			Name:        v.GetString("DB_NAME"),
			TimeZone:    v.GetString("DB_TIMEZONE"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        v.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Scheduling: SchedulingConfig{
			SlotGranularity:   v.GetString("SCHEDULING_SLOT_GRANULARITY"),
			OperatingDays:     splitList(v.GetString("SCHEDULING_OPERATING_DAYS")),
			OpenHour:          v.GetInt("SCHEDULING_OPEN_HOUR"),
			CloseHour:         v.GetInt("SCHEDULING_CLOSE_HOUR"),
			AllowPastForEdits: v.GetBool("SCHEDULING_ALLOW_PAST_FOR_EDITS"),
			TimeZone:          v.GetString("SCHEDULING_TIMEZONE"),
			DefaultDuration:   v.GetInt("SCHEDULING_DEFAULT_DURATION"),
		},
		Admin: AdminConfig{
			Email:    v.GetString("ADMIN_EMAIL"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
	}

	if config.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("SCHEDULING_SLOT_GRANULARITY", string(scheduling.SlotContinuous))
	v.SetDefault("SCHEDULING_OPERATING_DAYS", "mon,tue,wed,thu,fri")
	v.SetDefault("SCHEDULING_OPEN_HOUR", 9)
	v.SetDefault("SCHEDULING_CLOSE_HOUR", 18)
	v.SetDefault("SCHEDULING_ALLOW_PAST_FOR_EDITS", true)
	v.SetDefault("SCHEDULING_TIMEZONE", "UTC")
	v.SetDefault("SCHEDULING_DEFAULT_DURATION", scheduling.DefaultDurationMinutes)
}

// SchedulingPolicy converts the raw settings into a validated scheduling.Policy.
func (c *Config) SchedulingPolicy() (scheduling.Policy, error) {
	policy := scheduling.DefaultPolicy()
	sc := c.Scheduling

	granularity, err := scheduling.ParseSlotGranularity(sc.SlotGranularity)
	if err != nil {
		return policy, err
	}
	policy.SlotGranularity = granularity

	days, err := scheduling.ParseWeekdays(sc.OperatingDays)
	if err != nil {
		return policy, err
	}
	policy.OperatingDays = days

	loc, err := time.LoadLocation(sc.TimeZone)
	if err != nil {
		return policy, fmt.Errorf("invalid SCHEDULING_TIMEZONE %q: %w", sc.TimeZone, err)
	}
	policy.Location = loc

	policy.OpenHour = sc.OpenHour
	policy.CloseHour = sc.CloseHour
	policy.AllowPastForEdits = sc.AllowPastForEdits

	if err := policy.Validate(); err != nil {
		return policy, err
	}

	return policy, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
