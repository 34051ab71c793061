package proof

import (
	"encoding/binary"
	"math/big"
	"testing"

	bn254ecc "github.com/consensys/gnark-crypto/ecc/bn254"

	"github.com/certen/shroud/pkg/bn254"
)

func buildProofBytes(t *testing.T, nCommitments int) []byte {
	t.Helper()
	g1Gen, g2Gen, _, _ := bn254ecc.Generators()
	var a, c, pok bn254ecc.G1Affine
	a.ScalarMultiplication(&g1Gen, big.NewInt(11))
	c.ScalarMultiplication(&g1Gen, big.NewInt(13))
	pok.ScalarMultiplication(&g1Gen, big.NewInt(17))
	var b bn254ecc.G2Affine
	b.ScalarMultiplication(&g2Gen, big.NewInt(19))

	var out []byte
	out = bn254.WriteG1(out, &a)
	out = bn254.WriteG2(out, &b)
	out = bn254.WriteG1(out, &c)

	var nBytes [4]byte
	binary.BigEndian.PutUint32(nBytes[:], uint32(nCommitments))
	out = append(out, nBytes[:]...)

	for i := 0; i < nCommitments; i++ {
		var commit bn254ecc.G1Affine
		commit.ScalarMultiplication(&g1Gen, big.NewInt(int64(23+i)))
		out = bn254.WriteG1(out, &commit)
	}
	out = bn254.WriteG1(out, &pok)
	return out
}

func TestParseProofNoCommitments(t *testing.T) {
	data := buildProofBytes(t, 0)
	p, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(p.Commitments) != 0 {
		t.Fatalf("expected no commitments, got %d", len(p.Commitments))
	}
}

func TestParseProofWithCommitments(t *testing.T) {
	data := buildProofBytes(t, 2)
	p, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(p.Commitments) != 2 {
		t.Fatalf("expected 2 commitments, got %d", len(p.Commitments))
	}
}

func TestParseProofRejectsLengthMismatch(t *testing.T) {
	data := buildProofBytes(t, 1)
	// Truncate by 8 bytes: a malformed-length proof, per spec.md §8
	// scenario 6.
	data = data[:len(data)-8]
	if _, err := Parse(data); err == nil {
		t.Fatal("expected ProofConversionError for truncated proof")
	}
}

func TestParseProofRejectsShortFixedPrefix(t *testing.T) {
	if _, err := Parse(make([]byte, 8)); err == nil {
		t.Fatal("expected error for data shorter than fixed prefix")
	}
}
