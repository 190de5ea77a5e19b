package config

import (
	"strconv"
	"strings"
	"time"
)

// Defaults for a scrape run.
const (
	DefaultConfigPath          = "config.yml"
	DefaultDataDir             = "./data"
	DefaultLatestLimit         = 5
	DefaultWorkers             = 4
	DefaultCacheTTL            = 6 * time.Hour
	DefaultFirestoreCollection = "episodes"
)

// Settings are the runtime knobs of a scrape. Flags override the environment.
type Settings struct {
	ConfigPath  string
	DataDir     string
	LatestOnly  bool
	LatestLimit int
	Workers     int
	LogLevel    string

	CacheDir string
	CacheTTL time.Duration
	// RefreshCache empties the page cache before the run.
	RefreshCache bool

	Browser    bool
	ChromePath string
	CheckLinks bool

	GCSBucket string
	GCSPrefix string

	FirestoreProject    string
	FirestoreCollection string

	Shows []string
}

// SettingsFromEnv returns the defaults overlaid with the process environment.
func SettingsFromEnv(getenv func(string) string) Settings {
	s := Settings{
		ConfigPath:          DefaultConfigPath,
		DataDir:             DefaultDataDir,
		LatestLimit:         DefaultLatestLimit,
		Workers:             DefaultWorkers,
		LogLevel:            "info",
		CacheTTL:            DefaultCacheTTL,
		FirestoreCollection: DefaultFirestoreCollection,
	}

	if v := getenv("CONFIG_FILE"); v != "" {
		s.ConfigPath = v
	}
	if v := getenv("DATA_DIR"); v != "" {
		s.DataDir = v
	}
	s.LatestOnly = envBool(getenv("LATEST_ONLY"))
	if v := getenv("LATEST_ONLY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.LatestLimit = n
		}
	}
	if v := getenv("WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.Workers = n
		}
	}
	if v := getenv("LOG_LVL"); v != "" {
		s.LogLevel = v
	}
	s.CacheDir = getenv("CACHE_DIR")
	if v := getenv("CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			s.CacheTTL = d
		}
	}
	s.ChromePath = getenv("CHROME_PATH")
	s.GCSBucket = getenv("GCS_BUCKET")
	s.GCSPrefix = getenv("GCS_PREFIX")
	s.FirestoreProject = getenv("GCP_PROJECT_ID")
	if v := getenv("FIRESTORE_COLLECTION"); v != "" {
		s.FirestoreCollection = v
	}
	if v := getenv("SHOWS"); v != "" {
		s.Shows = SplitList(v)
	}
	return s
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// envBool treats any non-empty value as true, except explicit false spellings.
func envBool(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return true
}
