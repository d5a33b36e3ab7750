package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

/* general testing helpers */

func tcheck(tb testing.TB, err error) {
	if err == nil {
		return
	}

	tb.Helper()
	tb.Fatalf("fatal error:\n\n%s\n", err)
}

func tcheckf(tb testing.TB, err error, format string, args ...any) {
	if err == nil {
		return
	}

	tb.Helper()
	tb.Fatalf("fatal error:\n\n%s: %s\n", fmt.Sprintf(format, args...), err)
}

// writeTestRom writes an NROM image whose reset handler enables NMI and loops
// forever at $C005.
func writeTestRom(tb testing.TB, dir string) string {
	tb.Helper()

	prg := make([]byte, 0x4000)
	copy(prg, []byte{
		0xA9, 0x80, // LDA #$80
		0x8D, 0x00, 0x20, // STA $2000
		0x4C, 0x05, 0xC0, // JMP $C005
	})
	prg[0x3FFC], prg[0x3FFD] = 0x00, 0xC0
	prg[0x3FFA], prg[0x3FFB] = 0x05, 0xC0

	hdr := []byte{'N', 'E', 'S', 0x1A, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	buf := bytes.NewBuffer(hdr)
	buf.Write(prg)
	buf.Write(make([]byte, 0x2000))

	path := filepath.Join(dir, "test.nes")
	tcheck(tb, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}
