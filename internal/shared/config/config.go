package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port            string
	PublicBaseURL   string
	CORSAllowOrigin []string
	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	AWSEndpointURL  string
	S3Bucket        string
	S3Prefix        string
	S3PublicBaseURL string
	SSEKMSKeyID     string
	DocumentDB      string
	DatabaseURL     string
	DynamoDocsTable string
	DynamoAppsTable string
	RedisURL        string
	SQSQueueURL     string
	OCREndpoint     string
	OCRTimeout      time.Duration
	DocTypesFile    string
	Env             string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")
	port := getEnv("PORT", "3000")

	if env == "production" && dbURL == "" && normalizeDocumentDB(os.Getenv("DOCUMENT_DB")) == "postgres" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:            port,
		PublicBaseURL:   strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:"+strings.TrimPrefix(port, ":")), "/"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./uploads"),
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL:  getEnv("AWS_ENDPOINT_URL", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		S3PublicBaseURL: getEnv("S3_PUBLIC_BASE_URL", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),
		DocumentDB:      normalizeDocumentDB(getEnv("DOCUMENT_DB", "postgres")),
		DatabaseURL:     dbURL,
		DynamoDocsTable: getEnv("DYNAMO_DOCUMENTS_TABLE", "documents"),
		DynamoAppsTable: getEnv("DYNAMO_APPLICANTS_TABLE", "applicants"),
		RedisURL:        getEnv("REDIS_URL", ""),
		SQSQueueURL:     getEnv("VERIFY_SQS_QUEUE_URL", ""),
		OCREndpoint:     getEnv("OCR_ENDPOINT", ""),
		OCRTimeout:      getEnvDuration("OCR_TIMEOUT", 30*time.Second),
		DocTypesFile:    getEnv("DOC_TYPES_FILE", ""),
		Env:             env,
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("config: %s invalid duration %q, using %s", key, raw, def)
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeDocumentDB(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "dynamodb", "dynamo", "ddb":
		return "dynamodb"
	case "memory", "mem":
		return "memory"
	default:
		return "postgres"
	}
}

// IsDevLike reports whether env allows in-memory fallbacks.
func IsDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
