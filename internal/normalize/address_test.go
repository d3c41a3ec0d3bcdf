package normalize

import (
	"testing"
)

func TestAddress(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "simple address",
			input: "123 Main St",
			want:  "123 MAIN ST",
		},
		{
			name:  "trailing comma variation",
			input: "123 MAIN ST,",
			want:  "123 MAIN ST",
		},
		{
			name:  "punctuation and extra spaces",
			input: "  1210  Patterson Ave., S.W. ",
			want:  "1210 PATTERSON AVE S W",
		},
		{
			name:  "mixed case with unit",
			input: "12b Church Ave Apt 3",
			want:  "12B CHURCH AVE APT 3",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "whitespace only",
			input: "   ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Address(tt.input); got != tt.want {
				t.Errorf("Address(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// Both sides of a comparison normalize through the same function, so
// variations of the same street line must collapse to one key.
func TestAddressVariantsCollapse(t *testing.T) {
	variants := []string{
		"902 Penmar Ave SE",
		"902 PENMAR AVE SE",
		"902 Penmar Ave, SE",
		" 902  Penmar Ave SE ",
	}
	want := Address(variants[0])
	for _, v := range variants[1:] {
		if got := Address(v); got != want {
			t.Errorf("Address(%q) = %q, want %q", v, got, want)
		}
	}
}

func TestCity(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Roanoke", "ROANOKE"},
		{"roanoke ", "ROANOKE"},
		{"St. Petersburg", "ST PETERSBURG"},
		{"  VIRGINIA   BEACH ", "VIRGINIA BEACH"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := City(tt.input); got != tt.want {
				t.Errorf("City(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAddressCityKey(t *testing.T) {
	tests := []struct {
		name    string
		address string
		city    string
		want    string
	}{
		{"both present", "123 Main St", "Roanoke", "123 MAIN ST|ROANOKE"},
		{"address only falls back", "123 Main St", "", "123 MAIN ST"},
		{"no address means no key", "", "Roanoke", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AddressCityKey(tt.address, tt.city); got != tt.want {
				t.Errorf("AddressCityKey(%q, %q) = %q, want %q", tt.address, tt.city, got, tt.want)
			}
		})
	}
}

func TestUsable(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"123 Main St", true},
		{"0 RAILROAD AVE", true},
		{"LOT 4 BLOCK C", false},
		{"REAR OF PARCEL", false},
		{"", false},
		{"   ", false},
		{"- unknown -", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Usable(tt.input); got != tt.want {
				t.Errorf("Usable(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFirstToken(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Smith John", "smith"},
		{"  SMITH  JOHN ", "smith"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := FirstToken(tt.input); got != tt.want {
				t.Errorf("FirstToken(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
