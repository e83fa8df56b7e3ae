package code

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Code
	}{
		{"", None},
		{"none", None},
		{"botanical", Botanical},
		{"ICN", Botanical},
		{"Zoological", Zoological},
		{"iczn", Zoological},
		{"bacteriological", Bacterial},
		{"ICNP", Bacterial},
		{"cultivars", Cultivars},
		{" ictv ", Virus},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseUnknown(t *testing.T) {
	if _, err := Parse("martian"); err == nil {
		t.Error("Parse should reject unknown codes")
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, c := range All() {
		got, err := Parse(c.String())
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", c.String(), err)
		}
		if got != c {
			t.Errorf("round trip of %v gave %v", c, got)
		}
		if c.Abbr() == "" {
			t.Errorf("%v has no abbreviation", c)
		}
	}
}

func TestIsBotanicalLike(t *testing.T) {
	if !Botanical.IsBotanicalLike() || !Cultivars.IsBotanicalLike() {
		t.Error("botanical and cultivars should be botanical-like")
	}
	if Zoological.IsBotanicalLike() || None.IsBotanicalLike() {
		t.Error("zoological and none should not be botanical-like")
	}
}

func TestUnmarshalText(t *testing.T) {
	var c Code
	if err := c.UnmarshalText([]byte("ICZN")); err != nil {
		t.Fatalf("UnmarshalText error: %v", err)
	}
	if c != Zoological {
		t.Errorf("got %v, want zoological", c)
	}
	if err := c.UnmarshalText([]byte("bogus")); err == nil {
		t.Error("UnmarshalText should fail on unknown code")
	}
}
