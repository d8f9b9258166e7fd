// Package tokenkey generates the signing key used for player tokens.
package tokenkey

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// Run generates a token signing key and writes an export line for it. The
// public half derives from the private key at load time, so only the
// private key is emitted.
func Run(out io.Writer, reader io.Reader) error {
	if out == nil {
		return errors.New("output is required")
	}
	if reader == nil {
		reader = rand.Reader
	}
	_, privateKey, err := ed25519.GenerateKey(reader)
	if err != nil {
		return fmt.Errorf("generate token key: %w", err)
	}
	if _, err := fmt.Fprintf(out, "export LIARSDICE_TOKEN_PRIVATE_KEY=%s\n", base64.RawStdEncoding.EncodeToString(privateKey)); err != nil {
		return err
	}
	return nil
}
