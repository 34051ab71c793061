// Package hashfield implements RFC 9380 §5.3/§5.4.1 hash_to_field and
// expand_message_xmd over SHA-256, specialised to the BN254 scalar field
// Fr. It is the Fiat-Shamir primitive the Pedersen commitment check
// (pkg/pedersen) builds its challenges on.
//
// Grounded on the expand_message_xmd implementation in
// wyf-ACCEPT-eth2030/pkg/crypto/hash_to_curve.go, adapted from BLS12-381's
// 48-byte extension degree to the single-extension BN254 scalar field.
package hashfield

import (
	"crypto/sha256"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/certen/shroud/pkg/verifyerr"
)

const (
	// sInBytes is SHA-256's input block size.
	sInBytes = 64
	// bInBytes is SHA-256's output digest size.
	bInBytes = 32
	// lBytes is L from RFC 9380 §5.1 for BN254 Fr: ceil((ceil(log2(r))+128)/8).
	lBytes = 48
	maxDSTLength = 255
	maxEll       = 255
)

// ExpandMessageXMD implements RFC 9380 §5.4.1 over SHA-256.
func ExpandMessageXMD(msg, dst []byte, lenInBytes int) ([]byte, error) {
	if len(dst) > maxDSTLength {
		return nil, verifyerr.New(verifyerr.HashError, "DST too long")
	}
	ell := (lenInBytes + bInBytes - 1) / bInBytes
	if ell > maxEll || lenInBytes > 65535 {
		return nil, verifyerr.New(verifyerr.HashError, "requested length too long")
	}

	dstPrime := append(append([]byte{}, dst...), byte(len(dst)))

	zPad := make([]byte, sInBytes)
	libStr := []byte{byte(lenInBytes >> 8), byte(lenInBytes)}

	msgPrime := make([]byte, 0, len(zPad)+len(msg)+len(libStr)+1+len(dstPrime))
	msgPrime = append(msgPrime, zPad...)
	msgPrime = append(msgPrime, msg...)
	msgPrime = append(msgPrime, libStr...)
	msgPrime = append(msgPrime, 0x00)
	msgPrime = append(msgPrime, dstPrime...)

	b0 := sha256.Sum256(msgPrime)

	b1in := append(append([]byte{}, b0[:]...), 0x01)
	b1in = append(b1in, dstPrime...)
	b := sha256.Sum256(b1in)

	uniform := make([]byte, 0, ell*bInBytes)
	uniform = append(uniform, b[:]...)

	prev := b
	for i := 2; i <= ell; i++ {
		xored := make([]byte, bInBytes)
		for j := range xored {
			xored[j] = b0[j] ^ prev[j]
		}
		in := append(xored, byte(i))
		in = append(in, dstPrime...)
		prev = sha256.Sum256(in)
		uniform = append(uniform, prev[:]...)
	}

	return uniform[:lenInBytes], nil
}

// HashToField implements RFC 9380 §5.3's hash_to_field, reducing each
// L-byte block into an element of the BN254 scalar field Fr.
func HashToField(msg, dst []byte, count int) ([]fr.Element, error) {
	lenInBytes := count * lBytes
	uniform, err := ExpandMessageXMD(msg, dst, lenInBytes)
	if err != nil {
		return nil, err
	}

	out := make([]fr.Element, count)
	for i := 0; i < count; i++ {
		block := uniform[i*lBytes : (i+1)*lBytes]
		v := new(big.Int).SetBytes(block)
		v.Mod(v, fr.Modulus())
		out[i].SetBigInt(v)
	}
	return out, nil
}
