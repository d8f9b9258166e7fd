package tokenkey

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"strings"
	"testing"
)

func TestRunEmitsUsableKey(t *testing.T) {
	var out bytes.Buffer
	if err := Run(&out, nil); err != nil {
		t.Fatalf("run: %v", err)
	}

	line := strings.TrimSpace(out.String())
	const prefix = "export LIARSDICE_TOKEN_PRIVATE_KEY="
	if !strings.HasPrefix(line, prefix) {
		t.Fatalf("output = %q, want %q prefix", line, prefix)
	}
	key, err := base64.RawStdEncoding.DecodeString(strings.TrimPrefix(line, prefix))
	if err != nil {
		t.Fatalf("decode key: %v", err)
	}
	if len(key) != ed25519.PrivateKeySize {
		t.Fatalf("key length = %d, want %d", len(key), ed25519.PrivateKeySize)
	}
}

func TestRunRequiresOutput(t *testing.T) {
	if err := Run(nil, nil); err == nil {
		t.Fatal("expected error for nil output")
	}
}
