package clientaddr

import (
	"fmt"
	"net/netip"
)

// ParseCIDRs parses CIDR strings into prefixes.
func ParseCIDRs(cidrs ...string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(cidrs))
	for _, cidr := range cidrs {
		prefix, err := netip.ParsePrefix(cidr)
		if err != nil {
			return nil, fmt.Errorf("invalid CIDR %q: %w", cidr, err)
		}
		prefixes = append(prefixes, prefix.Masked())
	}
	return prefixes, nil
}

// prefixMatcher answers membership queries against a fixed set of prefixes
// using one binary trie per address family.
type prefixMatcher struct {
	ipv4Root *prefixTrieNode
	ipv6Root *prefixTrieNode
}

type prefixTrieNode struct {
	children [2]*prefixTrieNode
	terminal bool
}

func newPrefixMatcher(prefixes []netip.Prefix) prefixMatcher {
	var m prefixMatcher

	for _, prefix := range prefixes {
		if !prefix.IsValid() {
			continue
		}

		addr := prefix.Addr()
		bits := min(prefix.Bits(), addr.BitLen())

		if addr.Is4() {
			if m.ipv4Root == nil {
				m.ipv4Root = &prefixTrieNode{}
			}
			b := addr.As4()
			insertPrefix(m.ipv4Root, b[:], bits)
			continue
		}

		if m.ipv6Root == nil {
			m.ipv6Root = &prefixTrieNode{}
		}
		b := addr.As16()
		insertPrefix(m.ipv6Root, b[:], bits)
	}

	return m
}

func insertPrefix(root *prefixTrieNode, addr []byte, bits int) {
	node := root
	for bitIndex := range bits {
		bit := addrBit(addr, bitIndex)
		if node.children[bit] == nil {
			node.children[bit] = &prefixTrieNode{}
		}
		node = node.children[bit]
	}

	node.terminal = true
}

func (m prefixMatcher) empty() bool {
	return m.ipv4Root == nil && m.ipv6Root == nil
}

func (m prefixMatcher) contains(ip netip.Addr) bool {
	if !ip.IsValid() {
		return false
	}

	ip = ip.Unmap()
	if ip.Is4() {
		b := ip.As4()
		return trieContains(m.ipv4Root, b[:])
	}

	b := ip.As16()
	return trieContains(m.ipv6Root, b[:])
}

func trieContains(root *prefixTrieNode, addr []byte) bool {
	node := root
	if node == nil {
		return false
	}

	if node.terminal {
		return true
	}

	for bitIndex := range len(addr) * 8 {
		node = node.children[addrBit(addr, bitIndex)]
		if node == nil {
			return false
		}
		if node.terminal {
			return true
		}
	}

	return false
}

func addrBit(addr []byte, bitIndex int) int {
	byteIndex := bitIndex / 8
	shift := uint(7 - (bitIndex % 8))
	return int((addr[byteIndex] >> shift) & 1)
}
