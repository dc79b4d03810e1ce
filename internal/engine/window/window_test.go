package window

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/meshpart/internal/config"
)

func TestWindowFlags(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.WindowConfig
		want    uint32
		without uint32
	}{
		{"hidden", config.WindowConfig{Hidden: true}, sdl.WINDOW_OPENGL | sdl.WINDOW_HIDDEN, sdl.WINDOW_SHOWN},
		{"shown", config.WindowConfig{}, sdl.WINDOW_OPENGL | sdl.WINDOW_SHOWN | sdl.WINDOW_RESIZABLE, sdl.WINDOW_HIDDEN},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := windowFlags(tt.cfg)
			if flags&tt.want != tt.want {
				t.Errorf("flags %#x missing %#x", flags, tt.want)
			}
			if flags&tt.without != 0 {
				t.Errorf("flags %#x should not include %#x", flags, tt.without)
			}
		})
	}
}
