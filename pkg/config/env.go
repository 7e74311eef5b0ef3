package config

const (
	EnvPrefix = "HERBAL"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "HERBAL_APP_ENV"
	EnvPort     = "HERBAL_APP_PORT"
	EnvLogLvl   = "HERBAL_LOG_LEVEL"
	EnvDBDSN    = "HERBAL_DB_DSN"
	EnvDBHost   = "HERBAL_DB_HOST"
	EnvDBUser   = "HERBAL_DB_USER"
	EnvDBName   = "HERBAL_DB_NAME"
	EnvDBPass   = "HERBAL_DB_PASSWORD"
	EnvDBPort   = "HERBAL_DB_PORT"
	EnvRedisURL = "HERBAL_REDIS_URL"

	EnvCartSessionTTL          = "HERBAL_CART_SESSION_TTL"
	EnvTiersCacheTTL           = "HERBAL_TIERS_CACHE_TTL"
	EnvCheckoutShipping        = "HERBAL_CHECKOUT_SHIPPING_BAHT"
	EnvCheckoutFreeShippingMin = "HERBAL_CHECKOUT_FREE_SHIPPING_MIN_BAHT"
	EnvCheckoutPromptPayID     = "HERBAL_CHECKOUT_PROMPTPAY_ID"
	EnvNotifyWebhookURL        = "HERBAL_NOTIFY_WEBHOOK_URL"
	EnvPubSubOrdersTopic       = "HERBAL_PUBSUB_ORDERS_TOPIC"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
