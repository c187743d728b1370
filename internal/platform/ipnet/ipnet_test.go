// Copyright (c) 2026 ContactFlow. All rights reserved.

package ipnet_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vogit1234/contact-flow-v2/internal/platform/ipnet"
)

/*
TestParseIPv4 tests the strict dotted-quad parser.
*/
func TestParseIPv4(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    uint32
		wantErr bool
	}{
		{"loopback", "127.0.0.1", 0x7F000001, false},
		{"zero", "0.0.0.0", 0, false},
		{"broadcast", "255.255.255.255", 0xFFFFFFFF, false},
		{"private", "10.1.2.3", 0x0A010203, false},
		{"octet_overflow", "10.0.0.256", 0, true},
		{"three_octets", "10.0.0", 0, true},
		{"five_octets", "10.0.0.1.2", 0, true},
		{"empty_octet", "10..0.1", 0, true},
		{"alpha", "a.b.c.d", 0, true},
		{"negative", "10.0.0.-1", 0, true},
		{"empty", "", 0, true},
		{"cidr_is_not_an_address", "10.0.0.0/8", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ipnet.ParseIPv4(tt.text)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ipnet.ErrFormat)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

/*
TestIsValidRangeSpec tests acceptance of bare addresses and CIDR blocks.
*/
func TestIsValidRangeSpec(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want bool
	}{
		{"bare_address", "192.168.1.1", true},
		{"cidr", "192.168.1.0/24", true},
		{"zero_prefix", "0.0.0.0/0", true},
		{"full_prefix", "192.168.1.1/32", true},
		{"prefix_out_of_range", "192.168.1.0/33", false},
		{"negative_prefix", "192.168.1.0/-1", false},
		{"missing_prefix", "192.168.1.0/", false},
		{"bad_address_part", "192.168.1/24", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ipnet.IsValidRangeSpec(tt.spec))
		})
	}
}

/*
TestMatches tests CIDR membership with explicit edge prefixes.
*/
func TestMatches(t *testing.T) {
	tests := []struct {
		name string
		ip   string
		spec string
		want bool
	}{
		{"exact_string_match", "10.1.2.3", "10.1.2.3", true},
		{"exact_string_mismatch", "10.1.2.3", "10.1.2.4", false},
		{"inside_slash8", "10.1.2.3", "10.0.0.0/8", true},
		{"outside_slash8", "11.1.2.3", "10.0.0.0/8", false},
		{"inside_slash16", "192.168.7.9", "192.168.0.0/16", true},
		{"outside_slash16", "192.169.7.9", "192.168.0.0/16", false},
		{"inside_slash24_boundary", "192.168.1.255", "192.168.1.0/24", true},
		{"match_all_prefix_zero", "8.8.8.8", "0.0.0.0/0", true},
		{"prefix_32_equal", "192.168.1.1", "192.168.1.1/32", true},
		{"prefix_32_not_equal", "192.168.1.2", "192.168.1.1/32", false},
		{"invalid_prefix", "10.0.0.1", "10.0.0.0/40", false},
		{"invalid_ip", "banana", "10.0.0.0/8", false},
		{"empty_ip", "", "10.0.0.0/8", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ipnet.Matches(tt.ip, tt.spec))
		})
	}
}

/*
TestMatches_Slash32EquivalentToEquality verifies that for valid addresses a
/32 spec behaves exactly like address equality.
*/
func TestMatches_Slash32EquivalentToEquality(t *testing.T) {
	addresses := []string{"0.0.0.0", "10.0.0.1", "172.16.5.4", "255.255.255.255"}

	for _, ip := range addresses {
		for _, network := range addresses {
			got := ipnet.Matches(ip, network+"/32")
			assert.Equal(t, ip == network, got, "ip=%s network=%s", ip, network)
		}
	}
}

/*
TestIsAllowed tests the fail-closed allow-list semantics.
*/
func TestIsAllowed(t *testing.T) {
	tests := []struct {
		name   string
		ip     string
		ranges []string
		want   bool
	}{
		{"empty_list_fails_closed", "10.0.0.1", nil, false},
		{"empty_ip_fails_closed", "", []string{"0.0.0.0/0"}, false},
		{"single_match", "10.1.2.3", []string{"10.0.0.0/8"}, true},
		{"no_match", "8.8.8.8", []string{"10.0.0.0/8", "192.168.0.0/16"}, false},
		{"second_entry_matches", "192.168.4.4", []string{"10.0.0.0/8", "192.168.0.0/16"}, true},
		{"entries_are_trimmed", "10.1.2.3", []string{"  10.0.0.0/8  "}, true},
		{"blank_entries_skipped", "10.1.2.3", []string{"", "   ", "10.0.0.0/8"}, true},
		{"only_blank_entries", "10.1.2.3", []string{"", "   "}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ipnet.IsAllowed(tt.ip, tt.ranges))
		})
	}
}

/*
TestParseRangeList tests comment and garbage filtering.
*/
func TestParseRangeList(t *testing.T) {
	text := "127.0.0.1\n" +
		"# office network\n" +
		"  192.168.0.0/16  \n" +
		"\n" +
		"not-an-ip\n" +
		"192.168.1.0/33\n" +
		"10.0.0.0/8"

	got := ipnet.ParseRangeList(text)
	assert.Equal(t, []string{"127.0.0.1", "192.168.0.0/16", "10.0.0.0/8"}, got)
}

/*
TestParseRangeList_RoundTrip verifies an accepted list survives a rejoin
and reparse unchanged.
*/
func TestParseRangeList_RoundTrip(t *testing.T) {
	accepted := ipnet.ParseRangeList("127.0.0.1\n192.168.0.0/16\n10.0.0.0/8")
	require.NotEmpty(t, accepted)

	again := ipnet.ParseRangeList(strings.Join(accepted, "\n"))
	assert.Equal(t, accepted, again)
}
