// Command shroud-verify is the host-side verifier entry point described in
// spec.md §6: it consumes a verifying key file and a single blob that is
// proof_bytes || public_witness_bytes, verifies the proof, recomputes and
// checks the action binding, and records the nullifier as spent on
// success.
//
// Grounded on the teacher's root main.go for the flag-based CLI wiring
// idiom (package main, flag.String/flag.Parse, a log.Logger wired through
// to the subsystems it drives) - the validator-specific service wiring
// itself (Ethereum settlement, Accumulate anchoring, CometBFT consensus)
// has no counterpart in this spec and is not carried over.
package main

import (
	"encoding/binary"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/certen/shroud/pkg/action"
	"github.com/certen/shroud/pkg/nullifier"
	"github.com/certen/shroud/pkg/proof"
	"github.com/certen/shroud/pkg/verifier"
	"github.com/certen/shroud/pkg/vk"
	"github.com/certen/shroud/pkg/witness"
)

func main() {
	vkPath := flag.String("vk", "", "path to the verifying key file")
	instructionPath := flag.String("instruction", "", "path to proof_bytes||public_witness_bytes")
	programIDHex := flag.String("program-id", "", "expected 32-byte program id, hex-encoded")
	resourceIDHex := flag.String("resource-id", "", "expected 32-byte resource address, hex-encoded")
	discriminatorStr := flag.String("discriminator", "", "8-byte action discriminator, as a string")
	nonce := flag.Uint64("nonce", 0, "action nonce")
	value := flag.Uint64("value", 0, "u64 action parameter, little-endian encoded")
	flag.Parse()

	logger := log.New(os.Stderr, "[shroud-verify] ", log.LstdFlags)

	if *vkPath == "" || *instructionPath == "" || *programIDHex == "" || *resourceIDHex == "" {
		logger.Fatal("usage: shroud-verify -vk <path> -instruction <path> -program-id <hex> -resource-id <hex> [-discriminator NAME -nonce N -value N]")
	}

	if err := run(logger, *vkPath, *instructionPath, *programIDHex, *resourceIDHex, *discriminatorStr, *nonce, *value); err != nil {
		logger.Fatalf("verification failed: %v", err)
	}
	logger.Println("verification succeeded")
}

func run(logger *log.Logger, vkPath, instructionPath, programIDHex, resourceIDHex, discriminatorStr string, nonce, value uint64) error {
	vkBytes, err := os.ReadFile(vkPath)
	if err != nil {
		return fmt.Errorf("reading verifying key: %w", err)
	}
	vkey, err := vk.Parse(vkBytes)
	if err != nil {
		return fmt.Errorf("parsing verifying key: %w", err)
	}

	instruction, err := os.ReadFile(instructionPath)
	if err != nil {
		return fmt.Errorf("reading instruction data: %w", err)
	}

	publicWitnessLen := witness.HeaderSize + action.RawSize*32
	if len(instruction) < publicWitnessLen {
		return fmt.Errorf("instruction data shorter than a public witness")
	}
	proofLen := len(instruction) - publicWitnessLen
	proofBytes := instruction[:proofLen]
	witnessBytes := instruction[proofLen:]

	v := verifier.New(vkey, logger)
	p, err := proof.Parse(proofBytes)
	if err != nil {
		return fmt.Errorf("parsing proof: %w", err)
	}
	pw, err := witness.Parse(witnessBytes)
	if err != nil {
		return fmt.Errorf("parsing public witness: %w", err)
	}
	if err := v.VerifyParsed(p, pw); err != nil {
		return fmt.Errorf("proof did not verify: %w", err)
	}

	rawBytes, err := action.FromWitness(pw)
	if err != nil {
		return fmt.Errorf("extracting action-binding payload: %w", err)
	}
	raw := action.Unpack(rawBytes)

	programID, err := decodeHex32(programIDHex)
	if err != nil {
		return fmt.Errorf("parsing -program-id: %w", err)
	}
	resourceID, err := decodeHex32(resourceIDHex)
	if err != nil {
		return fmt.Errorf("parsing -resource-id: %w", err)
	}

	var discriminator [8]byte
	copy(discriminator[:], discriminatorStr)

	var params [8]byte
	binary.LittleEndian.PutUint64(params[:], value)

	if err := action.CheckBinding(raw, programID, resourceID, discriminator, params[:], nonce); err != nil {
		return err
	}

	store := nullifier.NewMemoryStore()
	if err := store.TrySpend(raw.Nullifier, nonce); err != nil {
		return fmt.Errorf("nullifier: %w", err)
	}

	logger.Printf("action bound: resource_id=%x nullifier=%x", raw.ResourceID, raw.Nullifier)
	return nil
}

func decodeHex32(s string) ([32]byte, error) {
	var out [32]byte
	b, err := hex.DecodeString(s)
	if err != nil {
		return out, err
	}
	if len(b) != 32 {
		return out, fmt.Errorf("expected 32 bytes, got %d", len(b))
	}
	copy(out[:], b)
	return out, nil
}
