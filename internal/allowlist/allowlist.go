// Package allowlist holds the exact-match set of client IPs that may reach the API.
package allowlist

import (
	"sort"
	"strings"
)

// MappedPrefix is the textual prefix of an IPv4-mapped IPv6 address.
const MappedPrefix = "::ffff:"

// DefaultEntries are the loopback variants allowed when nothing is configured.
var DefaultEntries = []string{"127.0.0.1", "::1", "::ffff:127.0.0.1"}

// Normalize strips the IPv4-mapped prefix so "::ffff:203.0.113.42" and
// "203.0.113.42" compare equal. Anything else is returned untouched.
func Normalize(ip string) string {
	if ip == "" {
		return ""
	}
	return strings.TrimPrefix(ip, MappedPrefix)
}

// List is immutable after New and safe for concurrent reads.
type List struct {
	set map[string]struct{}
}

func New(ips ...string) *List {
	l := &List{set: make(map[string]struct{}, len(ips))}
	for _, ip := range ips {
		ip = Normalize(strings.TrimSpace(ip))
		if ip == "" {
			continue
		}
		l.set[ip] = struct{}{}
	}
	return l
}

// Contains reports whether the normalized ip is an exact member.
func (l *List) Contains(ip string) bool {
	ip = Normalize(ip)
	if ip == "" || l == nil {
		return false
	}
	_, ok := l.set[ip]
	return ok
}

func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.set)
}

// Entries returns a sorted copy of the members.
func (l *List) Entries() []string {
	if l == nil {
		return nil
	}
	out := make([]string, 0, len(l.set))
	for ip := range l.set {
		out = append(out, ip)
	}
	sort.Strings(out)
	return out
}
