package config

const EnvPrefix = "ACCOUNTS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DefaultPort = "6001"

	StoreDriverMongo    = "mongo"
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv      = "ACCOUNTS_APP_ENV"
	EnvPort        = "ACCOUNTS_APP_PORT"
	EnvLogLevel    = "ACCOUNTS_LOG_LEVEL"
	EnvStoreDriver = "ACCOUNTS_STORE_DRIVER"
	EnvMongoURI    = "ACCOUNTS_MONGO_URI"
	EnvMongoDB     = "ACCOUNTS_MONGO_DATABASE"
	EnvDBDSN       = "ACCOUNTS_DB_DSN"
	EnvRedisURL    = "ACCOUNTS_REDIS_URL"
	EnvJWTSecret   = "ACCOUNTS_JWT_SECRET"
	EnvJWTIssuer   = "ACCOUNTS_JWT_ISSUER"
	EnvJWTExpMins  = "ACCOUNTS_JWT_EXPIRATION_MINUTES"
	EnvSelfOnly    = "ACCOUNTS_PROFILE_SELF_ONLY"

	// Unprefixed names used by earlier deployments of the service.
	EnvLegacyPort      = "PORT"
	EnvLegacyMongoURL  = "MONGO_URL"
	EnvLegacyJWTSecret = "JWT_SECRET"
)
