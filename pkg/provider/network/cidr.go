package network

import (
	"fmt"
	"math/big"
	"net/netip"
)

// splitCidr returns the first `count` consecutive subnets of size `bits` inside `cidr`.
func splitCidr(cidr string, bits int, count int) ([]netip.Prefix, error) {
	parent, err := netip.ParsePrefix(cidr)
	if err != nil {
		return nil, fmt.Errorf("invalid vpc cidr: %w", err)
	}
	parent = parent.Masked()
	if bits < parent.Bits() || bits > parent.Addr().BitLen() {
		return nil, fmt.Errorf("subnet mask /%d does not fit in %s", bits, parent)
	}
	available := new(big.Int).Lsh(big.NewInt(1), uint(bits-parent.Bits()))
	if big.NewInt(int64(count)).Cmp(available) > 0 {
		return nil, fmt.Errorf("%s only has room for %s /%d subnets, need %d", parent, available, bits, count)
	}

	step := new(big.Int).Lsh(big.NewInt(1), uint(parent.Addr().BitLen()-bits))
	base := new(big.Int).SetBytes(parent.Addr().AsSlice())
	size := len(parent.Addr().AsSlice())

	subnets := make([]netip.Prefix, count)
	for i := range subnets {
		n := new(big.Int).Add(base, new(big.Int).Mul(step, big.NewInt(int64(i))))
		buf := make([]byte, size)
		n.FillBytes(buf)
		addr, ok := netip.AddrFromSlice(buf)
		if !ok {
			return nil, fmt.Errorf("could not compute subnet %d of %s", i, parent)
		}
		subnets[i] = netip.PrefixFrom(addr, bits)
	}
	return subnets, nil
}
