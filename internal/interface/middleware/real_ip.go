package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const ctxRealIPKey = "real_ip"

// TrustProxies sets which peers gin believes when they send X-Forwarded-For or X-Real-IP.
// With no proxies the socket address is always used. platform names a CDN header read
// instead: "cloudflare", "appengine", or any header name.
func TrustProxies(engine *gin.Engine, proxies []string, platform string) error {
	switch strings.ToLower(strings.TrimSpace(platform)) {
	case "":
	case "cloudflare":
		engine.TrustedPlatform = gin.PlatformCloudflare
	case "appengine", "google":
		engine.TrustedPlatform = gin.PlatformGoogleAppEngine
	default:
		engine.TrustedPlatform = platform
	}
	if len(proxies) == 0 {
		proxies = nil
	}
	return engine.SetTrustedProxies(proxies)
}

// RealIP stores gin's ClientIP under "real_ip" for the rate limiter and logs.
// Forwarding headers only count when TrustProxies allowed the sender.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxRealIPKey, c.ClientIP())
		c.Next()
	}
}
