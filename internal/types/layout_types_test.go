package types

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseResolution(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Resolution
		wantErr bool
	}{
		{"full hd", "1920x1080", Resolution{1920, 1080}, false},
		{"uppercase separator", "2560X1440", Resolution{2560, 1440}, false},
		{"surrounding space", " 800x600 ", Resolution{800, 600}, false},
		{"missing separator", "1920", Resolution{}, true},
		{"non numeric", "widex1080", Resolution{}, true},
		{"zero height", "1920x0", Resolution{}, true},
		{"negative width", "-1x100", Resolution{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResolution(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseResolution(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseResolution(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolutionText(t *testing.T) {
	type holder struct {
		Screen Resolution `yaml:"screen" json:"screen"`
	}

	var fromYAML holder
	if err := yaml.Unmarshal([]byte("screen: 1280x720\n"), &fromYAML); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}
	if fromYAML.Screen != (Resolution{1280, 720}) {
		t.Errorf("yaml screen = %v, want 1280x720", fromYAML.Screen)
	}

	data, err := json.Marshal(holder{Screen: Resolution{1920, 1080}})
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	if string(data) != `{"screen":"1920x1080"}` {
		t.Errorf("json = %s, want {\"screen\":\"1920x1080\"}", data)
	}
}

func TestParseLayoutMode(t *testing.T) {
	tests := []struct {
		input  string
		want   LayoutMode
		wantOK bool
	}{
		{"fixed-quadrant", LayoutFixedQuadrant, true},
		{"grid", LayoutGrid, true},
		{"GRID", LayoutGrid, true},
		{"manual", LayoutManual, true},
		{"tiled", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseLayoutMode(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseLayoutMode(%q) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseGridPolicy(t *testing.T) {
	if p, ok := ParseGridPolicy("square"); !ok || p != GridSquare {
		t.Errorf("ParseGridPolicy(square) = (%v, %v)", p, ok)
	}
	if p, ok := ParseGridPolicy("aspect"); !ok || p != GridAspect {
		t.Errorf("ParseGridPolicy(aspect) = (%v, %v)", p, ok)
	}
	if _, ok := ParseGridPolicy("hex"); ok {
		t.Error("ParseGridPolicy(hex) should fail")
	}
}

func TestDeviceIsKBM(t *testing.T) {
	tests := []struct {
		typ  DeviceType
		want bool
	}{
		{DeviceKeyboard, true},
		{DeviceMouse, true},
		{DeviceGamepad, false},
	}
	for _, tt := range tests {
		if got := (Device{Type: tt.typ}).IsKBM(); got != tt.want {
			t.Errorf("Device{%s}.IsKBM() = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestGridCellResolution(t *testing.T) {
	tests := []struct {
		name string
		grid Grid
		want Resolution
	}{
		{"three columns", Grid{Rows: 1, Cols: 3, Screen: Resolution{1920, 1080}}, Resolution{640, 1080}},
		{"floors remainder", Grid{Rows: 3, Cols: 7, Screen: Resolution{1920, 1080}}, Resolution{274, 360}},
		{"empty grid", Grid{Screen: Resolution{1920, 1080}}, Resolution{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.grid.CellResolution(); got != tt.want {
				t.Errorf("CellResolution() = %v, want %v", got, tt.want)
			}
		})
	}
}
