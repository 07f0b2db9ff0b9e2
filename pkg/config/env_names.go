package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "RELEASEBOARD"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "RELEASEBOARD_APP_ENV"
	EnvPort     = "RELEASEBOARD_APP_PORT"
	EnvDBDSN    = "RELEASEBOARD_DB_DSN"
	EnvDBHost   = "RELEASEBOARD_DB_HOST"
	EnvDBUser   = "RELEASEBOARD_DB_USER"
	EnvDBName   = "RELEASEBOARD_DB_NAME"
	EnvRedisURL = "RELEASEBOARD_REDIS_URL"

	EnvJWTSecret  = "RELEASEBOARD_JWT_SECRET"
	EnvJWTIssuer  = "RELEASEBOARD_JWT_ISSUER"
	EnvJWTExpMins = "RELEASEBOARD_JWT_EXPIRATION_MINUTES"

	EnvGCPProjectID = "RELEASEBOARD_GCP_PROJECT_ID"
	EnvGCSBucket    = "RELEASEBOARD_GCS_BUCKET_NAME"

	EnvPubSubAnalyticsTopic        = "RELEASEBOARD_PUBSUB_ANALYTICS_TOPIC"
	EnvPubSubAnalyticsSubscription = "RELEASEBOARD_PUBSUB_ANALYTICS_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
