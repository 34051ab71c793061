package witness

import (
	"encoding/binary"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

func TestEncodeParseRoundTrip(t *testing.T) {
	values := make([]fr.Element, 4)
	for i := range values {
		values[i].SetUint64(uint64(i + 1))
	}
	data := Encode(values)

	pw, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(pw.Values) != len(values) {
		t.Fatalf("expected %d values, got %d", len(values), len(pw.Values))
	}
	for i := range values {
		if !pw.Values[i].Equal(&values[i]) {
			t.Fatalf("value %d mismatch", i)
		}
	}
}

func TestEncodeParseEmptyWitness(t *testing.T) {
	data := Encode(nil)
	pw, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(pw.Values) != 0 {
		t.Fatalf("expected no values, got %d", len(pw.Values))
	}
}

func TestParseRejectsHeaderMismatch(t *testing.T) {
	var values [1]fr.Element
	values[0].SetUint64(5000)
	data := Encode(values[:])
	binary.BigEndian.PutUint32(data[8:12], 2) // count != count2
	if _, err := Parse(data); err == nil {
		t.Fatal("expected error for mismatched header counts")
	}
}

func TestParseRejectsLengthMismatch(t *testing.T) {
	var values [1]fr.Element
	values[0].SetUint64(5000)
	data := Encode(values[:])
	data = append(data, 0) // trailing byte not accounted for by the header
	if _, err := Parse(data); err == nil {
		t.Fatal("expected error for length not matching declared count")
	}
}

func TestParseRejectsNonCanonicalSlot(t *testing.T) {
	rb := fr.Modulus().Bytes()
	var slot [32]byte
	copy(slot[32-len(rb):], rb) // exactly r: not canonical

	var hdr [HeaderSize]byte
	binary.BigEndian.PutUint32(hdr[0:4], 1)
	binary.BigEndian.PutUint32(hdr[8:12], 1)
	data := append(hdr[:], slot[:]...)

	if _, err := Parse(data); err == nil {
		t.Fatal("expected error for non-canonical field element")
	}
}
