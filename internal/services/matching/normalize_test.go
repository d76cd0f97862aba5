package matching

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"GitHub, Inc.", "github"},
		{"GITHUB INC", "github"},
		{"Notion Labs Inc", "notion labs"},
		{"Acme Corporation", "acme"},
		{"Foo Co Ltd", "foo"},
		{"Incredible Tools", "incredible tools"},
		{"Costco", "costco"},
		{"Co", "co"},
		{"Acme-Inc", "acmeinc"},
		{"AWS*EC2 Usage", "awsec2 usage"},
		{"  Figma   Design\t", "figma design"},
		{"Tab\tSeparated\nName", "tab separated name"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"GitHub, Inc.", "Foo (Inc)", "foo inc inc", "Acme, Co. Ltd.", "Zoom.us",
		"  spaced   out  ", "LLC", "a", "Café Corp", "x-ray llc.", "",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestSimilar(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Notion Labs", "Notion Labs Inc", true},
		{"GITHUB", "github, inc.", true},
		{"Zoom", "Zoom Video Communications", true},
		{"a", "amazon", true},
		{"", "amazon", false},
		{"!!!", "", true},
		{"Figma", "Slack", false},
	}
	for _, tt := range tests {
		if got := Similar(tt.a, tt.b); got != tt.want {
			t.Errorf("Similar(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
		if got, rev := Similar(tt.a, tt.b), Similar(tt.b, tt.a); got != rev {
			t.Errorf("Similar not symmetric for %q / %q", tt.a, tt.b)
		}
	}
}
