package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/ayusman/taala/internal/cycle"
)

// Config holds process-level settings. Detector thresholds here are only
// the startup defaults; values persisted through the settings API take
// precedence once loaded.
type Config struct {
	HTTPAddr string
	DataDir  string
	DBPath   string

	CameraID     int
	MotionThresh float64

	HighThreshold float64
	LowThreshold  float64
	MinDuration   float64

	UploadEndpoint string
	DrawSkeleton   bool
	EnableTray     bool
}

// Detector returns the startup detector configuration.
func (c *Config) Detector() cycle.Config {
	return cycle.Config{
		High:        c.HighThreshold,
		Low:         c.LowThreshold,
		MinDuration: c.MinDuration,
	}
}

// Load reads configuration from the environment, with an optional .env
// file in the working directory.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	defaults := cycle.DefaultConfig()
	cfg := &Config{
		HTTPAddr:       getEnv("TAALA_ADDR", "localhost:8844"),
		DataDir:        getEnv("TAALA_DATA_DIR", defaultDataDir()),
		CameraID:       getEnvInt("TAALA_CAMERA_ID", 0),
		MotionThresh:   getEnvFloat("TAALA_MOTION_THRESHOLD", 1.0),
		HighThreshold:  getEnvFloat("TAALA_HIGH_THRESHOLD", defaults.High),
		LowThreshold:   getEnvFloat("TAALA_LOW_THRESHOLD", defaults.Low),
		MinDuration:    getEnvFloat("TAALA_MIN_DURATION", defaults.MinDuration),
		UploadEndpoint: getEnv("TAALA_UPLOAD_ENDPOINT", ""),
		DrawSkeleton:   getEnvBool("TAALA_DRAW_SKELETON", true),
		EnableTray:     getEnvBool("TAALA_TRAY", true),
	}
	cfg.DBPath = getEnv("TAALA_DB_PATH", filepath.Join(cfg.DataDir, "taala.db"))

	if cfg.LowThreshold >= cfg.HighThreshold {
		log.Printf("WARNING: invalid thresholds low=%v high=%v, using defaults",
			cfg.LowThreshold, cfg.HighThreshold)
		cfg.HighThreshold = defaults.High
		cfg.LowThreshold = defaults.Low
	}

	return cfg
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taala"
	}
	return filepath.Join(home, ".taala")
}

func getEnv(key string, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if intVal, err := strconv.Atoi(v); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}
