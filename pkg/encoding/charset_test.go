package encoding

import (
	"testing"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		label   string
		wantNil bool
		wantErr bool
	}{
		{"", true, false},
		{"UTF-8", true, false},
		{"windows-1252", false, false},
		{"cp1251", false, false},
		{"euc-kr", false, false},
		{"CP949", false, false},
		{"shift_jis", false, false},
		{"klingon", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			enc, err := Lookup(tt.label)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Lookup(%q) error = %v, wantErr %v", tt.label, err, tt.wantErr)
			}
			if (enc == nil) != tt.wantNil {
				t.Errorf("Lookup(%q) = %v, wantNil %v", tt.label, enc, tt.wantNil)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"ascii", []byte("Box01"), "Box01"},
		{"latin", []byte{'C', 'a', 'f', 0xE9}, "Café"},
		{"euro sign", []byte{0x80, '5'}, "€5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decode(charmap.Windows1252, tt.data); got != tt.want {
				t.Errorf("Decode = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeKorean(t *testing.T) {
	name := "나무상자"
	raw, err := korean.EUCKR.NewEncoder().Bytes([]byte(name))
	if err != nil {
		t.Fatalf("encoding %q: %v", name, err)
	}
	if got := Decode(korean.EUCKR, raw); got != name {
		t.Errorf("Decode = %q, want %q", got, name)
	}
}

func TestNameDecoder(t *testing.T) {
	dec, err := NameDecoder("utf-8")
	if err != nil || dec != nil {
		t.Errorf("NameDecoder(utf-8) = %v, %v; want nil, nil", dec != nil, err)
	}

	dec, err = NameDecoder("windows-1252")
	if err != nil {
		t.Fatalf("NameDecoder failed: %v", err)
	}
	if got := dec("Caf\xe9"); got != "Café" {
		t.Errorf("decoded %q, want %q", got, "Café")
	}

	if _, err := NameDecoder("nope"); err == nil {
		t.Error("expected error for unknown charset")
	}
}
