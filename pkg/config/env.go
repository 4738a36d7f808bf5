package config

const (
	// EnvPrefix is passed to envconfig; individual fields carry the full
	// BANGLAHAT_ names so the prefix stays empty.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "BANGLAHAT_DB_DSN"
	EnvDBHost = "BANGLAHAT_DB_HOST"
	EnvDBUser = "BANGLAHAT_DB_USER"
	EnvDBName = "BANGLAHAT_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
