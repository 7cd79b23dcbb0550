package dataset

import (
	"bytes"
	"io"
	"testing"
	"testing/iotest"
)

func TestTextReader(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{"plain ascii", []byte("a,b\n1,2\n"), "a,b\n1,2\n"},
		{"leading bom", []byte("\xEF\xBB\xBFa,b\n"), "a,b\n"},
		{"bom only", []byte("\xEF\xBB\xBF"), ""},
		{"bom not at start", []byte("a\xEF\xBB\xBFb"), "a\uFEFFb"},
		{"multibyte kept", []byte("café,naïve\n"), "café,naïve\n"},
		{"latin1 byte replaced", []byte("caf\xE9\n"), "caf?\n"},
		{"truncated sequence", []byte("x\xE2\x82"), "x??"},
		{"short input", []byte("ab"), "ab"},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(newTextReader(bytes.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("ReadAll() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTextReader_OneByteSource(t *testing.T) {
	src := []byte("\xEF\xBB\xBFnaïve,\xFF\n")
	got, err := io.ReadAll(newTextReader(iotest.OneByteReader(bytes.NewReader(src))))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if want := "naïve,?\n"; string(got) != want {
		t.Errorf("ReadAll() = %q, want %q", got, want)
	}
}

func TestTextReader_SmallBuffer(t *testing.T) {
	r := newTextReader(bytes.NewReader([]byte("aé")))
	buf := make([]byte, 2)

	n, err := r.Read(buf)
	if err != nil || n != 1 || buf[0] != 'a' {
		t.Fatalf("first Read() = %d, %v (%q), want 1 byte 'a'", n, err, buf[:n])
	}
	n, err = r.Read(buf)
	if err != nil || string(buf[:n]) != "é" {
		t.Fatalf("second Read() = %q, %v, want %q", buf[:n], err, "é")
	}
}
