// Package denylist provides the static set of IP addresses treated as
// inherently suspicious. The set is built once at startup and never
// mutated, so lookups need no synchronization.
package denylist

import (
	"sort"
	"strings"
)

// Denylist is an immutable set of flagged IP addresses.
type Denylist struct {
	ips map[string]struct{}
}

// New builds a denylist from the given IP addresses. Entries are
// trimmed; empty strings are ignored.
func New(ips ...string) *Denylist {
	set := make(map[string]struct{}, len(ips))
	for _, ip := range ips {
		ip = strings.TrimSpace(ip)
		if ip == "" {
			continue
		}
		set[ip] = struct{}{}
	}
	return &Denylist{ips: set}
}

// Contains reports whether the IP address is denylisted.
func (d *Denylist) Contains(ip string) bool {
	_, ok := d.ips[ip]
	return ok
}

// Len returns the number of denylisted addresses.
func (d *Denylist) Len() int {
	return len(d.ips)
}

// IPs returns the denylisted addresses in sorted order.
func (d *Denylist) IPs() []string {
	out := make([]string, 0, len(d.ips))
	for ip := range d.ips {
		out = append(out, ip)
	}
	sort.Strings(out)
	return out
}
