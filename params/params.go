package params

import "time"

const (
	ServerBodyLimit         = 1048576 // 1 MiB
	ServerIdleTimeout       = 30 * time.Second
	ServerReadTimeout       = 10 * time.Second
	ServerWriteTimeout      = 10 * time.Second
	APIVersion              = "1.0"
	SessionKeyPrefix        = "s:"
	LimiterKeyPrefix        = "l:"
	SessionTokenIssuer      = "kontest"
	CSRFHeader              = "X-CSRF-Token"
	MinPasswordLength       = 6                      // minimum password length for accounts and password changes
	LoginLogBatchSize       = 100                    // maximum number of login log rows enriched per report
	EnrichConcurrency       = 8                      // maximum number of rows enriched at the same time
	GeoLookupTimeout        = 3 * time.Second        // hard timeout for a single remote geo lookup
	GeoLookupRateLimit      = 1.0                    // remote geo lookups per second
	GeoLookupBurst          = 5                      // remote geo lookup burst
	DefaultGeoProviderURL   = "https://ipapi.co"     // default remote geo lookup service
	LoginRateLimitMax       = 10                     // login attempts allowed per window per client ip
	LoginRateLimitWindow    = 1 * time.Minute        // login rate limit window
	HealthCheckServerAddr   = ":3001"                // health check server address
	SnowflakeNodeID         = 1                      // snowflake node id used for primary keys
	ReportDateLayout        = "2006-01-02"           // date-only layout accepted by report filters
	MailWelcomeSubject      = "Welcome to %s"        // subject of the participant welcome mail
	DefaultSessionMaxAge    = 7 * 24 * time.Hour     // session token lifetime
	DefaultSessionCookieKey = "kontest_session"      // session cookie name
)
