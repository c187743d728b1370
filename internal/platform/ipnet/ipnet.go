// Copyright (c) 2026 ContactFlow. All rights reserved.

/*
Package ipnet provides the pure IPv4/CIDR classification functions behind
the IP-based access restriction feature.

It deliberately implements its own dotted-quad parser instead of net.ParseIP:
the allow-list grammar is exactly "a.b.c.d" or "a.b.c.d/prefix" with prefix
in [0,32], and nothing else (no IPv6, no zones, no shorthand octets).

All functions are deterministic, side-effect free, and safe for concurrent use.
*/
package ipnet

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrFormat is returned when a value is not a well-formed dotted-quad address.
var ErrFormat = errors.New("malformed IPv4 address")

// ParseIPv4 converts dotted-quad text into a 32-bit unsigned integer.
//
// The text must be exactly four dot-separated decimal octets, each in
// [0,255]. Anything else fails with an error wrapping [ErrFormat].
func ParseIPv4(text string) (uint32, error) {
	parts := strings.Split(text, ".")
	if len(parts) != 4 {
		return 0, fmt.Errorf("ipnet: %w: %q", ErrFormat, text)
	}

	var value uint32
	for _, part := range parts {
		if part == "" || len(part) > 3 {
			return 0, fmt.Errorf("ipnet: %w: %q", ErrFormat, text)
		}

		octet, err := strconv.Atoi(part)
		if err != nil || octet < 0 || octet > 255 {
			return 0, fmt.Errorf("ipnet: %w: %q", ErrFormat, text)
		}

		value = value<<8 | uint32(octet)
	}

	return value, nil
}

// IsValidIPv4 reports whether text parses as a dotted-quad IPv4 address.
func IsValidIPv4(text string) bool {
	_, err := ParseIPv4(text)
	return err == nil
}

// IsValidRangeSpec reports whether text is a bare IPv4 address or a CIDR
// block "<ipv4>/<prefix>" with prefix in [0,32].
func IsValidRangeSpec(text string) bool {
	address, prefix, hasPrefix := strings.Cut(text, "/")
	if !hasPrefix {
		return IsValidIPv4(text)
	}

	prefixLength, err := strconv.Atoi(prefix)
	if err != nil || prefixLength < 0 || prefixLength > 32 {
		return false
	}

	return IsValidIPv4(address)
}

// Matches reports whether ip falls inside rangeSpec.
//
// A spec without "/" matches by string equality. A CIDR spec compares the
// masked network bits using unsigned 32-bit arithmetic. Prefix 0 matches
// everything and prefix 32 requires an exact address match; both are handled
// explicitly rather than through shift semantics.
func Matches(ip, rangeSpec string) bool {
	if ip == "" || rangeSpec == "" {
		return false
	}

	network, prefix, hasPrefix := strings.Cut(rangeSpec, "/")
	if !hasPrefix {
		return ip == rangeSpec
	}

	prefixLength, err := strconv.Atoi(prefix)
	if err != nil || prefixLength < 0 || prefixLength > 32 {
		return false
	}

	ipValue, err := ParseIPv4(ip)
	if err != nil {
		return false
	}

	networkValue, err := ParseIPv4(network)
	if err != nil {
		return false
	}

	switch prefixLength {
	case 0:
		return true
	case 32:
		return ipValue == networkValue
	}

	mask := uint32(0xFFFFFFFF) << (32 - uint(prefixLength))
	return ipValue&mask == networkValue&mask
}

// IsAllowed reports whether ip matches at least one entry of the allow-list.
//
// An empty ip or an empty range list always yields false: the allow-list
// fails closed, never open. Entries are trimmed and blank entries skipped.
func IsAllowed(ip string, ranges []string) bool {
	if ip == "" || len(ranges) == 0 {
		return false
	}

	for _, entry := range ranges {
		trimmed := strings.TrimSpace(entry)
		if trimmed == "" {
			continue
		}
		if Matches(ip, trimmed) {
			return true
		}
	}

	return false
}

// ParseRangeList extracts the valid allow-list entries from multi-line text.
//
// Lines are trimmed; blank lines and '#' comments are skipped. Lines that
// are not a valid range spec are silently discarded, so only syntactically
// valid entries ever reach the allow-list.
func ParseRangeList(text string) []string {
	lines := strings.Split(text, "\n")
	ranges := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if !IsValidRangeSpec(trimmed) {
			continue
		}
		ranges = append(ranges, trimmed)
	}

	return ranges
}
