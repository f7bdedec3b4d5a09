package types

import "testing"

func TestFormatOffset(t *testing.T) {
	tests := []struct {
		name string
		off  int64
		want string
	}{
		{"zero", 0, "0x00000000"},
		{"small", 0x1F, "0x0000001F"},
		{"page aligned", 0x1000, "0x00001000"},
		{"wide", 0x1_0000_0000, "0x100000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatOffset(tt.off); got != tt.want {
				t.Errorf("FormatOffset(%d) = %v, want %v", tt.off, got, tt.want)
			}
		})
	}
}

func TestPrintableASCII(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"empty", []byte{}, ""},
		{"plain text", []byte("ELF header"), "ELF header"},
		{"control bytes", []byte{0x7F, 'E', 'L', 'F', 0x00, 0x01}, ".ELF.."},
		{"high bytes", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A}, ".PNG.."},
		{"boundaries", []byte{0x1F, 0x20, 0x7E, 0x7F}, ". ~."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PrintableASCII(tt.data); got != tt.want {
				t.Errorf("PrintableASCII(%v) = %q, want %q", tt.data, got, tt.want)
			}
		})
	}
}
