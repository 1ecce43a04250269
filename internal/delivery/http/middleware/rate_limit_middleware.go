package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"healthcare-backend/config"
	"healthcare-backend/pkg/response"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// incrWindowScript counts a hit and starts the window on the first one.
// Returns {count, remaining window in ms}.
var incrWindowScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return {count, redis.call('PTTL', KEYS[1])}
`)

type RateLimitMiddleware struct {
	redisClient *redis.Client
	log         *logrus.Logger
	limit       int
	window      time.Duration
	proxies     trustedProxies
}

func NewRateLimitMiddleware(redisClient *redis.Client, log *logrus.Logger, cfg config.RateLimitConfig) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		redisClient: redisClient,
		log:         log,
		limit:       cfg.Limit,
		window:      cfg.Window,
		proxies:     parseTrustedProxies(log, cfg.TrustedProxies),
	}
}

// Limit caps requests per client IP and path within the window. Redis failures
// let the request through.
func (m *RateLimitMiddleware) Limit(next http.Handler) http.Handler {
	if m.limit <= 0 || m.redisClient == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := fmt.Sprintf("ratelimit:%s:%s", r.URL.Path, m.proxies.clientIP(r))

		result, err := incrWindowScript.Run(r.Context(), m.redisClient, []string{key}, m.window.Milliseconds()).Int64Slice()
		if err != nil || len(result) != 2 {
			m.log.Warnf("Failed to check rate limit for %s: %+v", key, err)
			next.ServeHTTP(w, r)
			return
		}

		if result[0] > int64(m.limit) {
			retryAfter := (result[1] + 999) / 1000
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.FormatInt(retryAfter, 10))
			response.TooManyRequests(w, "")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// trustedProxies are the peers allowed to report the client address through
// X-Forwarded-For or X-Real-IP.
type trustedProxies []*net.IPNet

func parseTrustedProxies(log *logrus.Logger, entries []string) trustedProxies {
	var proxies trustedProxies
	for _, entry := range entries {
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				log.Warnf("Ignoring invalid trusted proxy %q", entry)
				continue
			}
			bits := 8 * net.IPv6len
			if ip.To4() != nil {
				ip, bits = ip.To4(), 8*net.IPv4len
			}
			proxies = append(proxies, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}

		_, network, err := net.ParseCIDR(entry)
		if err != nil {
			log.Warnf("Ignoring invalid trusted proxy %q: %v", entry, err)
			continue
		}
		proxies = append(proxies, network)
	}
	return proxies
}

func (p trustedProxies) contains(addr string) bool {
	ip := net.ParseIP(strings.TrimSpace(addr))
	if ip == nil {
		return false
	}
	for _, network := range p {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// clientIP is the peer address unless the peer is a trusted proxy. Then the
// X-Forwarded-For chain is walked from the right and the first hop that is not
// a trusted proxy wins, so a client cannot pick its own key by prepending.
func (p trustedProxies) clientIP(r *http.Request) string {
	peer := remoteHost(r)
	if !p.contains(peer) {
		return peer
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		hops := strings.Split(forwarded, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop != "" && !p.contains(hop) {
				return hop
			}
		}
		if first := strings.TrimSpace(hops[0]); first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	return peer
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
