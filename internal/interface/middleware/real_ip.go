package middleware

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/gin-gonic/gin"
)

// proxyHeaders are consulted in order once the peer is a trusted proxy.
// The first parseable address wins.
var proxyHeaders = []string{"CF-Connecting-IP", "True-Client-IP", "X-Real-IP"}

// TrustedProxies is the set of peers allowed to report the client address.
type TrustedProxies []netip.Prefix

// ParseTrustedProxies accepts bare addresses and CIDR ranges.
func ParseTrustedProxies(entries []string) (TrustedProxies, error) {
	out := make(TrustedProxies, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if strings.Contains(e, "/") {
			p, err := netip.ParsePrefix(e)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", e, err)
			}
			out = append(out, p.Masked())
			continue
		}
		a, err := netip.ParseAddr(e)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", e, err)
		}
		a = a.Unmap()
		out = append(out, netip.PrefixFrom(a, a.BitLen()))
	}
	return out, nil
}

func (t TrustedProxies) contains(a netip.Addr) bool {
	a = a.Unmap()
	for _, p := range t {
		if p.Contains(a) {
			return true
		}
	}
	return false
}

// RealIP stores the client address under "real_ip" for rate limiting and
// logging. Forwarding headers are honored only when the TCP peer is in
// trusted; any other peer is charged as itself.
func RealIP(trusted TrustedProxies) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("real_ip", clientAddr(c, trusted))
		c.Next()
	}
}

func clientAddr(c *gin.Context, trusted TrustedProxies) string {
	peer, err := netip.ParseAddr(c.RemoteIP())
	if err != nil {
		return "unknown"
	}
	peer = peer.Unmap()
	if !trusted.contains(peer) {
		return peer.String()
	}
	for _, h := range proxyHeaders {
		if a, err := netip.ParseAddr(strings.TrimSpace(c.GetHeader(h))); err == nil {
			return a.Unmap().String()
		}
	}
	if a, ok := forwardedFor(c.Request.Header.Values("X-Forwarded-For"), trusted); ok {
		return a.String()
	}
	return peer.String()
}

// forwardedFor walks X-Forwarded-For from the right and returns the first
// hop not in trusted. Entries left of an unparseable hop are ignored.
func forwardedFor(values []string, trusted TrustedProxies) (netip.Addr, bool) {
	hops := strings.Split(strings.Join(values, ","), ",")
	var last netip.Addr
	for i := len(hops) - 1; i >= 0; i-- {
		a, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			break
		}
		a = a.Unmap()
		last = a
		if !trusted.contains(a) {
			return a, true
		}
	}
	return last, last.IsValid()
}
