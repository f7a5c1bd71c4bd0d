package textutil

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestEnsureUTF8_AlreadyValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"ASCII", "Hello, World!"},
		{"Chinese", "你好世界"},
		{"Cyrillic", "Привет мир"},
		{"emoji", "Hello 👋"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EnsureUTF8(tt.input); got != tt.input {
				t.Errorf("EnsureUTF8(%q) = %q, want unchanged", tt.input, got)
			}
		})
	}
}

func TestEnsureUTF8_SingleByteEncodings(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{"windows-1252 smart quote", []byte("Rand\x92s Opponent"), "Rand’s Opponent"},
		{"windows-1252 en dash", []byte("2020 \x96 2024"), "2020 – 2024"},
		{"latin-1 umlaut", []byte("M\xfcnchen"), "München"},
		{"latin-1 cedilla", []byte("Gar\xe7on"), "Garçon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnsureUTF8(string(tt.input))
			if got != tt.want {
				t.Errorf("EnsureUTF8() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnsureUTF8_AlwaysValid(t *testing.T) {
	inputs := [][]byte{
		{0xff, 0xfe, 0xfd},
		{0x82, 0xb1, 0x82, 0xf1},
		[]byte("ok \xc3"),
	}
	for _, in := range inputs {
		got := EnsureUTF8(string(in))
		if !utf8.ValidString(got) {
			t.Errorf("EnsureUTF8(%x) = %q, not valid UTF-8", in, got)
		}
	}
}

func TestSanitizeUTF8(t *testing.T) {
	got := SanitizeUTF8("a\xffb")
	if got != "a�b" {
		t.Errorf("SanitizeUTF8() = %q, want %q", got, "a�b")
	}
	if strings.ContainsRune(SanitizeUTF8("clean"), '�') {
		t.Error("valid input should not gain replacement characters")
	}
}
