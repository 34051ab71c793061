package prover

import (
	"fmt"
	"os"
)

// proverTOMLGuard backs up an existing Prover.toml (if any) on
// construction and restores it - or deletes the file entirely if there was
// nothing to restore - on Close, regardless of whether proof generation
// succeeded. Adapted from zaffre-prover's ProverTomlGuard/TempFileGuard:
// Go has no destructors, so the RAII behaviour becomes an explicit Close()
// paired with defer at the call site.
type proverTOMLGuard struct {
	path        string
	backup      []byte
	hadOriginal bool
}

func newProverTOMLGuard(path string) (*proverTOMLGuard, error) {
	g := &proverTOMLGuard{path: path}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		g.backup = data
		g.hadOriginal = true
	case os.IsNotExist(err):
		// no existing file to back up
	default:
		return nil, fmt.Errorf("prover: backing up %s: %w", path, err)
	}

	return g, nil
}

// Close restores the original Prover.toml content, or removes the file if
// there was none, so the scoped resource never leaks into the circuit
// directory's normal state.
func (g *proverTOMLGuard) Close() error {
	if g.hadOriginal {
		if err := os.WriteFile(g.path, g.backup, 0o600); err != nil {
			return fmt.Errorf("prover: restoring %s: %w", g.path, err)
		}
		return nil
	}
	if err := os.Remove(g.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("prover: removing %s: %w", g.path, err)
	}
	return nil
}
