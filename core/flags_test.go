package core_test

import (
	"testing"

	"github.com/lookbusy1344/arm710emu/core"
)

func TestUpdateNZ(t *testing.T) {
	var p core.PSR
	core.UpdateNZ(&p, 0)
	if !p.Z || p.N {
		t.Errorf("UpdateNZ(0): Z=%v N=%v, want Z=true N=false", p.Z, p.N)
	}
	core.UpdateNZ(&p, 0x80000000)
	if p.Z || !p.N {
		t.Errorf("UpdateNZ(0x80000000): Z=%v N=%v, want Z=false N=true", p.Z, p.N)
	}
}

func TestAddOverflow(t *testing.T) {
	tests := []struct {
		name         string
		a, b, result uint32
		wantOverflow bool
	}{
		{"no overflow", 1, 1, 2, false},
		{"unsigned carry, no signed overflow", 0xFFFFFFFF, 2, 1, false},
		{"signed overflow, positive+positive", 0x7FFFFFFF, 1, 0x80000000, true},
		{"signed overflow, negative+negative", 0x80000000, 0x80000000, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := core.AddOverflow(tt.a, tt.b, tt.result); got != tt.wantOverflow {
				t.Errorf("AddOverflow(%#x,%#x,%#x) = %v, want %v", tt.a, tt.b, tt.result, got, tt.wantOverflow)
			}
		})
	}
}
