package validate

import (
	"context"
	"net"
	"net/netip"
	"net/url"
	"strconv"
	"strings"
)

// reservedPrefixes are non-public ranges not covered by the netip.Addr
// predicates.
var reservedPrefixes = []netip.Prefix{
	netip.MustParsePrefix("0.0.0.0/8"),
	netip.MustParsePrefix("100.64.0.0/10"),
	netip.MustParsePrefix("192.0.0.0/24"),
	netip.MustParsePrefix("198.18.0.0/15"),
	netip.MustParsePrefix("240.0.0.0/4"),
	netip.MustParsePrefix("64:ff9b::/96"),
}

// IsSafeExternalURL reports whether s passes URL and, for http and https,
// does not point at localhost or a loopback, private, link-local or
// otherwise non-public address. Hostnames are not resolved; use a
// HostChecker for that.
func IsSafeExternalURL(s string) bool {
	if !URL(s) {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if !isWebScheme(u.Scheme) {
		return true
	}
	host := normalizeHost(u.Hostname())
	if isLocalName(host) {
		return false
	}
	if addr, ok := parseHostIP(host); ok {
		return IsPublicAddr(addr)
	}
	return true
}

// IsPublicAddr reports whether addr is routable on the public internet.
func IsPublicAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	if !addr.IsValid() ||
		addr.IsLoopback() ||
		addr.IsPrivate() ||
		addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() ||
		addr.IsInterfaceLocalMulticast() ||
		addr.IsMulticast() ||
		addr.IsUnspecified() {
		return false
	}
	for _, p := range reservedPrefixes {
		if p.Contains(addr) {
			return false
		}
	}
	return true
}

// Resolver looks up the addresses of a host. *net.Resolver implements it.
type Resolver interface {
	LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error)
}

// HostChecker extends IsSafeExternalURL by resolving hostnames and
// requiring every resolved address to be public.
type HostChecker struct {
	resolver Resolver
}

// NewHostChecker returns a HostChecker using r, or net.DefaultResolver when
// r is nil.
func NewHostChecker(r Resolver) *HostChecker {
	if r == nil {
		r = net.DefaultResolver
	}
	return &HostChecker{resolver: r}
}

// IsSafeExternalURL reports whether s is safe to fetch. Resolution failures
// count as unsafe.
func (h *HostChecker) IsSafeExternalURL(ctx context.Context, s string) bool {
	if !IsSafeExternalURL(s) {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if !isWebScheme(u.Scheme) {
		return true
	}
	host := normalizeHost(u.Hostname())
	if _, ok := parseHostIP(host); ok {
		return true
	}
	addrs, err := h.resolver.LookupNetIP(ctx, "ip", host)
	if err != nil || len(addrs) == 0 {
		return false
	}
	for _, a := range addrs {
		if !IsPublicAddr(a) {
			return false
		}
	}
	return true
}

func isWebScheme(scheme string) bool {
	scheme = strings.ToLower(scheme)
	return scheme == "http" || scheme == "https"
}

func normalizeHost(host string) string {
	return strings.TrimSuffix(strings.ToLower(host), ".")
}

func isLocalName(host string) bool {
	return host == "localhost" || strings.HasSuffix(host, ".localhost")
}

// parseHostIP parses host as an IP literal, including the legacy IPv4
// spellings browsers still accept ("2130706433", "0x7f.1", "0177.0.0.1").
func parseHostIP(host string) (netip.Addr, bool) {
	if addr, err := netip.ParseAddr(host); err == nil {
		return addr, true
	}
	return parseLegacyIPv4(host)
}

func parseLegacyIPv4(host string) (netip.Addr, bool) {
	parts := strings.Split(host, ".")
	if len(parts) == 0 || len(parts) > 4 {
		return netip.Addr{}, false
	}
	nums := make([]uint64, len(parts))
	for i, p := range parts {
		if p == "" {
			return netip.Addr{}, false
		}
		n, ok := parseIPv4Part(p)
		if !ok {
			return netip.Addr{}, false
		}
		nums[i] = n
	}

	// Leading parts are single bytes; the last part fills the rest.
	var v uint64
	for _, n := range nums[:len(nums)-1] {
		if n > 0xff {
			return netip.Addr{}, false
		}
		v = v<<8 | n
	}
	rest := 4 - (len(nums) - 1)
	last := nums[len(nums)-1]
	if last >= 1<<(8*rest) {
		return netip.Addr{}, false
	}
	v = v<<(8*rest) | last

	return netip.AddrFrom4([4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}), true
}

// parseIPv4Part parses one dotted part the way browsers do: "0x" hex, a
// leading "0" octal, otherwise decimal. Other prefixes and digit separators
// are not numbers here.
func parseIPv4Part(p string) (uint64, bool) {
	base := 10
	switch {
	case len(p) > 1 && (p[:2] == "0x" || p[:2] == "0X"):
		base, p = 16, p[2:]
		if p == "" {
			// "0x" alone is zero.
			return 0, true
		}
	case len(p) > 1 && p[0] == '0':
		base, p = 8, p[1:]
	}
	for _, r := range p {
		if !isDigitIn(r, base) {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(p, base, 32)
	if err != nil {
		return 0, false
	}
	return n, true
}

func isDigitIn(r rune, base int) bool {
	switch base {
	case 8:
		return r >= '0' && r <= '7'
	case 16:
		return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
	default:
		return r >= '0' && r <= '9'
	}
}
