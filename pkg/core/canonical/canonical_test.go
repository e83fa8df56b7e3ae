package canonical

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/gnparser/pkg/core/code"
	"github.com/matzehuels/gnparser/pkg/core/grammar"
	"github.com/matzehuels/gnparser/pkg/core/token"
	"github.com/matzehuels/gnparser/pkg/core/tree"
)

func parseTree(t *testing.T, name string) *tree.Node {
	t.Helper()
	tables, err := grammar.Default()
	if err != nil {
		t.Fatal(err)
	}
	n := token.Normalize(name, false)
	p := grammar.New(tables).Parse(n, token.Tokenize(n), code.None)
	if p.Root == nil {
		t.Fatalf("%q did not parse: %v", name, p.Failure)
	}
	return p.Root
}

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name string
		want Set
	}{
		{"Homo sapiens Linnaeus, 1758", Set{
			Full: "Homo sapiens", Simple: "Homo sapiens", Stripped: "Homo sapiens", Stemmed: "Homo sapiens",
		}},
		{"Abies alba Mill. var. alpina", Set{
			Full: "Abies alba var. alpina", Simple: "Abies alba alpina", Stripped: "Abies alba var. alpina", Stemmed: "Abies alb alpin",
		}},
		{"×Agropogon", Set{
			Full: "×Agropogon", Simple: "Agropogon", Stripped: "×Agropogon", Stemmed: "Agropogon",
		}},
		{"Salix ×rubens", Set{
			Full: "Salix ×rubens", Simple: "Salix rubens", Stripped: "Salix ×rubens", Stemmed: "Salix rubens",
		}},
		{"Aus bus × Cus dus", Set{
			Full: "Aus bus × Cus dus", Simple: "Aus bus × Cus dus", Stripped: "Aus bus × Cus dus", Stemmed: "Aus bus × Cus dus",
		}},
		{"Aus cf. bus", Set{
			Full: "Aus cf. bus", Simple: "Aus bus", Stripped: "Aus bus", Stemmed: "Aus bus",
		}},
		{"Aus sp.", Set{
			Full: "Aus sp.", Simple: "Aus", Stripped: "Aus", Stemmed: "Aus",
		}},
		{"Candidatus Liberibacter asiaticus", Set{
			Full: "Candidatus Liberibacter asiaticus", Simple: "Liberibacter asiaticus",
			Stripped: "Liberibacter asiaticus", Stemmed: "Liberibacter asiatic",
		}},
		{"Aus (Bus) cus Smith", Set{
			Full: "Aus (Bus) cus", Simple: "Aus cus", Stripped: "Aus cus", Stemmed: "Aus cus",
		}},
		{"Aus subgen. Bus", Set{
			Full: "Aus subgen. Bus", Simple: "Bus", Stripped: "Aus subgen. Bus", Stemmed: "Bus",
		}},
		{"Aus bus s.l.", Set{
			Full: "Aus bus s.l.", Simple: "Aus bus", Stripped: "Aus bus", Stemmed: "Aus bus",
		}},
		{"Aus bélla", Set{
			Full: "Aus bella", Simple: "Aus bella", Stripped: "Aus bella", Stemmed: "Aus bell",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Canonicalize(parseTree(t, tt.name))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("canonical mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCanonicalizeNil(t *testing.T) {
	if got := Canonicalize(nil); got != (Set{}) {
		t.Errorf("Canonicalize(nil) = %+v", got)
	}
	if got := Normalized(nil); got != "" {
		t.Errorf("Normalized(nil) = %q", got)
	}
}

func TestNormalized(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Homo sapiens Linnaeus, 1758", "Homo sapiens Linnaeus 1758"},
		{"Aus bus (L.) Mill.", "Aus bus (L.) Mill."},
		{"Aus bus Smith, Jones & Brown, 1900", "Aus bus Smith, Jones & Brown 1900"},
		{"Aus bus Smith and Jones", "Aus bus Smith & Jones"},
		{"Aus bus Mill. ex DC.", "Aus bus Mill. ex DC."},
		{"Aus bus Smith et al., 1900", "Aus bus Smith et al. 1900"},
		{"Abies alba Mill. ssp. alpina Smith", "Abies alba Mill. subsp. alpina Smith"},
		{"Aus bus Smith emend. Jones", "Aus bus Smith emend. Jones"},
		{"Aus bus  (Linnaeus,1758)", "Aus bus (Linnaeus 1758)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalized(parseTree(t, tt.name)); got != tt.want {
				t.Errorf("Normalized = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSimpleIsIdempotent(t *testing.T) {
	names := []string{
		"Homo sapiens Linnaeus, 1758",
		"Abies alba Mill. var. alpina",
		"Abies alba alpina",
		"×Agropogon",
		"Aus bus × Cus dus",
		"Aus subgen. Bus",
		"Candidatus Liberibacter asiaticus",
		"Aus bus spp.",
		"H. sapiens",
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			first := Canonicalize(parseTree(t, name)).Simple
			second := Canonicalize(parseTree(t, first)).Simple
			if first != second {
				t.Errorf("Simple not idempotent: %q -> %q", first, second)
			}
		})
	}
}

func TestStem(t *testing.T) {
	tests := map[string]string{
		"alba":           "alb",
		"albus":          "alb",
		"album":          "alb",
		"vulgaris":       "vulgar",
		"majus":          "maj",
		"silvestris":     "silvestr",
		"javanica":       "javanic",
		"officinalis":    "officinal",
		"sapiens":        "sapiens",
		"bus":            "bus",
		"itaque":         "itaque",
		"alboque":        "alb",
		"nova-zelandiae": "nova-zelandi",
		"hispaniae":      "hispani",
	}
	for in, want := range tests {
		if got := Stem(in); got != want {
			t.Errorf("Stem(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestJoinAuthors(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"L."}, "L."},
		{[]string{"Smith", "Jones"}, "Smith & Jones"},
		{[]string{"A", "B", "C"}, "A, B & C"},
	}
	for _, tt := range tests {
		if got := JoinAuthors(tt.in); got != tt.want {
			t.Errorf("JoinAuthors(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
