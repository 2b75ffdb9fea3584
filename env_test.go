package winjector

import (
	"testing"
	"unicode/utf16"
)

func decodeBlock(t *testing.T, u []uint16) []string {
	t.Helper()
	var lines []string
	var cur []uint16
	for _, v := range u {
		if v == 0 {
			lines = append(lines, string(utf16.Decode(cur)))
			cur = nil
			continue
		}
		cur = append(cur, v)
	}
	// Drop the trailing empty "line" produced by the block's final terminator.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func TestEnv_UppercaseDedupLastWriteWins(t *testing.T) {
	e := NewEnv()
	e.Set("path", "/usr/bin")
	e.Set("PATH", "/usr/local/bin")

	if got, want := e.Len(), 1; got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}

	lines := decodeBlock(t, e.encode())
	if len(lines) != 1 || lines[0] != "PATH=/usr/local/bin" {
		t.Fatalf("lines = %v, want [PATH=/usr/local/bin]", lines)
	}
}

func TestEnv_DoubleNullTerminated(t *testing.T) {
	e := NewEnv().Set("A", "1")
	b := e.encode()
	if len(b) < 2 || b[len(b)-1] != 0 {
		t.Fatalf("encode() must end with a zero code unit, got %v", b)
	}
	// "A=1" (3 units) + terminator (1) + block terminator (1) = 5.
	if len(b) != 5 {
		t.Fatalf("len(encode()) = %d, want 5", len(b))
	}
}

func TestEnv_EmptyEncodesDoubleNull(t *testing.T) {
	e := NewEnv()
	b := e.encode()
	if len(b) != 2 || b[0] != 0 || b[1] != 0 {
		t.Fatalf("encode() of empty Env = %v, want [0 0]", b)
	}
}

func TestEnv_Inherit(t *testing.T) {
	e := NewEnv().Inherit([]string{"FOO=bar", "BAZ=qux"})
	if e.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", e.Len())
	}
}
