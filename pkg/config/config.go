package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	ContentPath  = "./content"
	PostsDir     = "mind-map"
	ModelsDir    = "models"
	GlossaryFile = "glossary.yaml"

	// Server settings
	Port          = "8080"
	GinMode       = "release"
	SessionSecret = "hundred-minds-dev-secret"
	SessionName   = "hundred-minds"

	// Logging settings
	LogLevel  = "info"
	LogPretty = false

	// Search settings
	SearchLimit = 20
)

func Init() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found or error loading it.")
	}

	// Helper to get env with default
	getEnv := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	ContentPath = getEnv("CONTENT_PATH", ContentPath)
	PostsDir = getEnv("POSTS_DIR", PostsDir)
	ModelsDir = getEnv("MODELS_DIR", ModelsDir)
	GlossaryFile = getEnv("GLOSSARY_FILE", GlossaryFile)

	Port = getEnv("PORT", Port)
	GinMode = getEnv("GIN_MODE", GinMode)
	SessionSecret = getEnv("SESSION_SECRET", SessionSecret)

	LogLevel = getEnv("LOG_LEVEL", LogLevel)
	if v, err := strconv.ParseBool(getEnv("LOG_PRETTY", "false")); err == nil {
		LogPretty = v
	}

	if sl := os.Getenv("SEARCH_LIMIT"); sl != "" {
		if val, err := strconv.Atoi(sl); err == nil && val > 0 {
			SearchLimit = val
		}
	}
}

func PostsPath() string {
	return filepath.Join(ContentPath, PostsDir)
}

func ModelsPath() string {
	return filepath.Join(ContentPath, ModelsDir)
}

// GlossaryPath resolves GlossaryFile against ContentPath unless it is absolute.
func GlossaryPath() string {
	if filepath.IsAbs(GlossaryFile) {
		return GlossaryFile
	}
	return filepath.Join(ContentPath, GlossaryFile)
}

func ListenAddr() string {
	if Port != "" && Port[0] == ':' {
		return Port
	}
	return ":" + Port
}
