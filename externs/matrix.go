package externs

import (
	"github.com/wippyai/zksc-ffi/domain"
	"github.com/wippyai/zksc-ffi/numcodec"
	"github.com/wippyai/zksc-ffi/value"
)

// uintNPreMatrixToI128 decodes a matrix of field elements of modulus m.
func uintNPreMatrixToI128(c *ctx, _ *stack, m *domain.Modulus, d domain.Domain, xss []value.Value) []value.Value {
	return numcodec.Decode(c.Current, d, m, xss)
}

// i128PreMatrixToUintN encodes a matrix of i128 into field elements of modulus m.
func i128PreMatrixToUintN(c *ctx, _ *stack, m *domain.Modulus, d domain.Domain, xss []value.Value) []value.Value {
	return numcodec.Encode(c.Current, d, m, c.Unknown, xss)
}
