package lamp

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseName(t *testing.T) {
	tests := []struct {
		input   string
		want    Name
		wantErr bool
	}{
		{"lamp1", Lamp1, false},
		{"lamp4", Lamp4, false},
		{"lamp5", "", true},
		{"Lamp1", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrUnknownLamp) {
				t.Errorf("ParseName(%q) error = %v, want ErrUnknownLamp", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    Status
		wantErr bool
	}{
		{"on", StatusOn, false},
		{"off", StatusOff, false},
		{"ON", "", true},
		{"maybe", "", true},
		{"", "", true},
		{" on", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStatus(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidStatus) {
				t.Errorf("ParseStatus(%q) error = %v, want ErrInvalidStatus", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestName_KeyAndNumber(t *testing.T) {
	if got := Lamp2.Key(); got != "lamps:lamp2" {
		t.Errorf("Key() = %q, want lamps:lamp2", got)
	}
	if got := Lamp3.Number(); got != "3" {
		t.Errorf("Number() = %q, want 3", got)
	}
}

func TestLamp_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    Lamp
		wantErr error
	}{
		{name: "valid", body: `{"name":"lamp2","status":"on"}`, want: Lamp{Lamp2, StatusOn}},
		{name: "unknown lamp", body: `{"name":"lamp5","status":"on"}`, wantErr: ErrUnknownLamp},
		{name: "invalid status", body: `{"name":"lamp1","status":"maybe"}`, wantErr: ErrInvalidStatus},
		{name: "numeric status", body: `{"name":"lamp1","status":1}`, wantErr: ErrInvalidStatus},
		{name: "numeric name", body: `{"name":7,"status":"on"}`, wantErr: ErrUnknownLamp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Lamp
			err := json.Unmarshal([]byte(tt.body), &got)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Unmarshal() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Unmarshal() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLamp_Validate(t *testing.T) {
	if err := (Lamp{Name: Lamp1, Status: StatusOff}).Validate(); err != nil {
		t.Errorf("Validate() valid lamp error = %v", err)
	}
	if err := (Lamp{Status: StatusOn}).Validate(); !errors.Is(err, ErrUnknownLamp) {
		t.Errorf("Validate() missing name error = %v, want ErrUnknownLamp", err)
	}
	if err := (Lamp{Name: Lamp1}).Validate(); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("Validate() missing status error = %v, want ErrInvalidStatus", err)
	}
}

func TestHardware(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"on", "1"},
		{"off", "0"},
		{"ON", "0"},
		{"garbage", "0"},
		{"", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := hardware(Lamp3, tt.raw)
			if got.D != "3" || got.S != tt.want {
				t.Errorf("hardware(lamp3, %q) = %+v, want {D:3 S:%s}", tt.raw, got, tt.want)
			}
		})
	}
}

func TestAll_RegistryOrder(t *testing.T) {
	got := All()
	want := []Name{Lamp1, Lamp2, Lamp3, Lamp4}
	if len(got) != len(want) {
		t.Fatalf("All() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("All()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// Mutating the result must not affect the registry
	got[0] = "lamp9"
	if All()[0] != Lamp1 {
		t.Error("All() returned the registry backing array")
	}
}
