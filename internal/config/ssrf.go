package config

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
)

// checkSSRF enforces §4.B's blocklist against the interpolated URL, before any
// network call is made. It resolves the host to IP addresses and rejects the URL
// if the scheme is disallowed or any resolved address falls in a blocked range.
func checkSSRF(rawURL string, policy SecurityPolicy, resolve func(host string) ([]net.IP, error)) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}

	if policy.EnforceHTTPS {
		if u.Scheme != "https" {
			return fmt.Errorf("HTTPS is required for %q", rawURL)
		}
	} else if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q in %q", u.Scheme, rawURL)
	}

	if policy.AllowPrivateIPs {
		return nil
	}

	host := u.Hostname()
	if isBlockedLiteralHost(host) {
		return fmt.Errorf("host %q is not allowed", host)
	}

	ips, err := resolve(host)
	if err != nil {
		return fmt.Errorf("resolving host %q: %w", host, err)
	}
	for _, ip := range ips {
		if isBlockedIP(ip) {
			return fmt.Errorf("host %q resolves to blocked address %s", host, ip)
		}
	}
	return nil
}

// defaultResolve resolves a hostname via the system resolver, or parses it directly
// if it is already a literal IP address.
func defaultResolve(host string) ([]net.IP, error) {
	if ip := net.ParseIP(host); ip != nil {
		return []net.IP{ip}, nil
	}
	return net.LookupIP(host)
}

var localhostSuffix = regexp.MustCompile(`(?i)^(.*\.)?localhost$`)

func isBlockedLiteralHost(host string) bool {
	return localhostSuffix.MatchString(host)
}

// blockedIPv4Nets are the ranges named in §4.B: loopback, the three private RFC1918
// blocks, link-local, the "this network" block, multicast, and reserved space.
var blockedIPv4Nets = mustParseCIDRs(
	"127.0.0.0/8",
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"169.254.0.0/16",
	"0.0.0.0/8",
	"224.0.0.0/4",
	"240.0.0.0/4",
)

// blockedIPv6Nets covers the unspecified/loopback addresses, link-local, and the
// unique-local space: the single fc00::/7 entry covers both fc00::/8 and
// fd00::/8.
var blockedIPv6Nets = mustParseCIDRs(
	"::1/128",
	"::/128",
	"fe80::/10",
	"fc00::/7",
)

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(cidrs))
	for _, c := range cidrs {
		_, n, err := net.ParseCIDR(c)
		if err != nil {
			panic(fmt.Sprintf("invalid built-in CIDR %q: %v", c, err))
		}
		nets = append(nets, n)
	}
	return nets
}

// isBlockedIP reports whether ip falls in any range named by §4.B, including the
// IPv4-mapped (::ffff:a.b.c.d) and IPv4-compatible (::a.b.c.d) encodings of a
// blocked IPv4 address.
func isBlockedIP(ip net.IP) bool {
	if v4 := ip.To4(); v4 != nil {
		for _, n := range blockedIPv4Nets {
			if n.Contains(v4) {
				return true
			}
		}
		return false
	}

	for _, n := range blockedIPv6Nets {
		if n.Contains(ip) {
			return true
		}
	}

	// IPv4-mapped (::ffff:0:0/96) and IPv4-compatible (::0.0.0.0/96, excluding ::/128
	// and ::1/128 already covered above) forms carry a real IPv4 address in the low
	// 32 bits; unwrap and re-check against the IPv4 blocklist.
	if v4 := ip.To4(); v4 == nil {
		raw := []byte(ip.To16())
		if raw != nil {
			if isIPv4Mapped(raw) || isIPv4Compatible(raw) {
				embedded := net.IPv4(raw[12], raw[13], raw[14], raw[15])
				for _, n := range blockedIPv4Nets {
					if n.Contains(embedded) {
						return true
					}
				}
			}
		}
	}

	return false
}

func isIPv4Mapped(raw []byte) bool {
	for i := 0; i < 10; i++ {
		if raw[i] != 0 {
			return false
		}
	}
	return raw[10] == 0xff && raw[11] == 0xff
}

func isIPv4Compatible(raw []byte) bool {
	for i := 0; i < 12; i++ {
		if raw[i] != 0 {
			return false
		}
	}
	// ::0.0.0.0 and ::0.0.0.1 are the unspecified/loopback forms, already covered;
	// still treat them consistently rather than special-casing them out here.
	return true
}

// validateURLPattern and validateHeaders apply §4.B's optional regex validation,
// after SSRF and interpolation. A missing required header is itself a failure.
func validateURLPattern(rawURL string, pattern string) error {
	if pattern == "" {
		return nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid url_pattern %q: %w", pattern, err)
	}
	if !re.MatchString(rawURL) {
		return fmt.Errorf("URL %q does not match required pattern %q", rawURL, pattern)
	}
	return nil
}

func validateHeaders(headers map[string]string, patterns map[string]string) error {
	for name, pattern := range patterns {
		value, ok := headers[name]
		if !ok {
			return fmt.Errorf("missing required header %q", name)
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern for header %q: %w", name, err)
		}
		if !re.MatchString(value) {
			return fmt.Errorf("header %q value does not match required pattern", name)
		}
	}
	return nil
}
