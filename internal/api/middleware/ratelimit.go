package middleware

import (
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"

	"arena/pkg/ratelimit"
)

// RateLimit - ограничение частоты запросов по адресу клиента.
//
// Ключ корзины - адрес TCP-пира. X-Forwarded-For учитывается только
// когда пир входит в trustedProxies (IP или CIDR): тогда ключом становится
// самый правый адрес цепочки, не принадлежащий доверенным прокси.
//
// Превышение лимита дает 429 с заголовком Retry-After (в секундах)
// и телом в формате ErrorResponse. Preflight OPTIONS не лимитируется.
func RateLimit(limiter *ratelimit.KeyedLimiter, trustedProxies []string) func(http.Handler) http.Handler {
	trusted := parseTrusted(trustedProxies)

	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			bucket := limiter.Get(clientIP(r, trusted))
			if !bucket.Allow() {
				retry := int(math.Ceil(bucket.RetryAfter().Seconds()))
				if retry < 1 {
					retry = 1
				}

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "Too many requests",
					"code":  "RATE_LIMITED",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// proxySet - список доверенных сетей
type proxySet []*net.IPNet

func (p proxySet) contains(ip net.IP) bool {
	for _, n := range p {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// parseTrusted принимает адреса и CIDR; нераспознанные записи пропускаются
func parseTrusted(entries []string) proxySet {
	var set proxySet
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if _, n, err := net.ParseCIDR(e); err == nil {
			set = append(set, n)
			continue
		}
		if ip := net.ParseIP(e); ip != nil {
			bits := 8 * net.IPv6len
			if v4 := ip.To4(); v4 != nil {
				ip, bits = v4, 8*net.IPv4len
			}
			set = append(set, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
		}
	}
	return set
}

// clientIP - адрес пира без порта; за доверенным прокси - самый правый
// недоверенный адрес из X-Forwarded-For
func clientIP(r *http.Request, trusted proxySet) string {
	peer := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		peer = host
	}

	peerIP := net.ParseIP(peer)
	if peerIP == nil || !trusted.contains(peerIP) {
		return peer
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		ip := net.ParseIP(hop)
		if ip == nil {
			break
		}
		if !trusted.contains(ip) {
			return ip.String()
		}
	}
	return peer
}
