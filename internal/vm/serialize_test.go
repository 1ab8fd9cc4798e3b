package vm

import (
	"strings"
	"testing"
)

func TestChunkSerializeRoundtrip(t *testing.T) {
	src := `
		fun classify(n) {
			match n {
				0 => "zero",
				1 | 2 => "few",
				_ => "many"
			}
		}
		fun double(x) { x * 2 }
		classify(double(1))
	`
	chunk := compileSource(t, src)
	data, err := chunk.Serialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}

	restored, err := Deserialize(data)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	wantStr(t, NewVM().Run(restored), "few")
}

func TestSerializedBooleansKeepIdentity(t *testing.T) {
	chunk := compileSource(t, "true")
	data, err := chunk.Serialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	restored, err := Deserialize(data)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if got := NewVM().Run(restored); got.Inspect() != "true" {
		t.Fatalf("got %s", got.Inspect())
	}
}

func TestDeserializeRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want string
	}{
		{"too short", []byte{'R', 'V'}, "too short"},
		{"bad magic", []byte{'X', 'X', 'X', 'X', 0x01, 0x00}, "magic"},
		{"bad version", []byte{'R', 'V', 'B', 'C', 0xFF, 0x00}, "version"},
		{"truncated payload", []byte{'R', 'V', 'B', 'C', 0x01}, "decoding"},
	}
	for _, tt := range cases {
		if _, err := Deserialize(tt.data); err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: got %v, want %q", tt.name, err, tt.want)
		}
	}
}
