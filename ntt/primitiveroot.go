package ntt

// primitiveRoot finds a primitive root of the prime m, by factoring m-1
// into its distinct prime factors and testing candidate generators against
// each factor. Grounded on the same factor-then-search approach as the
// reference implementation's primitive_root(modulo) helper; m is assumed
// prime (a construction-time contract, not checked here).
func primitiveRoot(m uint32) uint32 {
	factors := distinctPrimeFactors(uint64(m - 1))
	for g := uint32(2); ; g++ {
		if isPrimitiveRoot(g, m, factors) {
			return g
		}
	}
}

func isPrimitiveRoot(g, m uint32, factors []uint64) bool {
	for _, p := range factors {
		if modPow(uint64(g), uint64(m-1)/p, uint64(m)) == 1 {
			return false
		}
	}
	return true
}

func distinctPrimeFactors(n uint64) []uint64 {
	var factors []uint64
	for p := uint64(2); p*p <= n; p++ {
		if n%p == 0 {
			factors = append(factors, p)
			for n%p == 0 {
				n /= p
			}
		}
	}
	if n > 1 {
		factors = append(factors, n)
	}
	return factors
}

func modPow(base, exp, m uint64) uint64 {
	base %= m
	result := uint64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result = result * base % m
		}
		base = base * base % m
		exp >>= 1
	}
	return result
}
