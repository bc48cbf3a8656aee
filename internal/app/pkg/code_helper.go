package pkg

import (
	"math/rand"
	"strings"
)

// 36-symbol alphabet, 8 characters => ~2.8e12 combinations. Collisions are
// unlikely but real; the voucher store's unique index is the final arbiter
// and the issuance guard retries with fresh codes on a code conflict.
const voucherCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewVoucherCode returns a code in the form XXXX-XXXX.
func NewVoucherCode() string {
	var b strings.Builder
	b.Grow(9)
	for i := 0; i < 8; i++ {
		if i == 4 {
			b.WriteByte('-')
		}
		b.WriteByte(voucherCodeAlphabet[rand.Intn(len(voucherCodeAlphabet))])
	}
	return b.String()
}

// UniqueVoucherCodes generates n codes that are distinct from each other and
// from every code in taken. Uniqueness within the batch matters because a
// single order can fan out to many vouchers in one insert.
func UniqueVoucherCodes(n int, taken map[string]struct{}) []string {
	seen := make(map[string]struct{}, len(taken)+n)
	for code := range taken {
		seen[code] = struct{}{}
	}

	codes := make([]string, 0, n)
	for len(codes) < n {
		code := NewVoucherCode()
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes
}
