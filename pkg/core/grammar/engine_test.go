package grammar

import (
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/gnparser/pkg/core/code"
	"github.com/matzehuels/gnparser/pkg/core/token"
	"github.com/matzehuels/gnparser/pkg/core/tree"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	tables, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	return New(tables)
}

func parse(t *testing.T, e *Engine, name string, c code.Code) Parse {
	t.Helper()
	n := token.Normalize(name, false)
	return e.Parse(n, token.Tokenize(n), c)
}

func hasWarning(ws []tree.Warning, w tree.Warning) bool {
	return slices.Contains(ws, w)
}

func TestProductionSelection(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name       string
		production string
		tail       string
	}{
		{"Homo sapiens Linnaeus, 1758", "binomial", ""},
		{"Homo sapiens", "binomial", ""},
		{"Homo", "uninomial", ""},
		{"Abies alba Mill. var. alpina", "trinomial", ""},
		{"Abies alba alpina", "trinomial", ""},
		{"Aus bus L. f. alba", "trinomial", ""},
		{"×Agropogon", "uninomial", ""},
		{"x Agropogon", "uninomial", ""},
		{"Salix × rubens", "binomial", ""},
		{"Salix ×rubens", "binomial", ""},
		{"Aus bus × Cus dus", "hybridFormula", ""},
		{"Aus bus × cus", "hybridFormula", ""},
		{"Aus × Bus", "hybridFormula", ""},
		{"Aus bus ×", "hybridFormula", ""},
		{"Aus sp.", "approximation", ""},
		{"Aus bus spp.", "approximation", ""},
		{"Aus sp. 1 BOLD:AAA", "approximation", ""},
		{"Aus cf. bus", "binomial", ""},
		{"Aus sp. nov.", "uninomial", ""},
		{"Aus bus s.l.", "binomial", ""},
		{"Aus (Bus)", "uninomial", ""},
		{"Aus (Bus) cus", "binomial", ""},
		{"Aus subgen. Bus", "uninomial", ""},
		{"Candidatus Liberibacter asiaticus", "binomial", ""},
		{"H. sapiens", "binomial", ""},
		{"Homo sapiens ###", "binomial", "###"},
		{"Aus bus Smith, 1700", "binomial", ", 1700"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parse(t, e, tt.name, code.None)
			if p.Root == nil {
				t.Fatalf("not parsed: %v", p.Failure)
			}
			if p.Production != tt.production {
				t.Errorf("production = %q, want %q (tree %s)", p.Production, tt.production, p.Root)
			}
			if p.Tail != tt.tail {
				t.Errorf("tail = %q, want %q", p.Tail, tt.tail)
			}
			if (tt.tail != "") != hasWarning(p.Warnings, tree.WarnTail) {
				t.Errorf("tail warning mismatch: %v", p.Warnings)
			}
		})
	}
}

func TestParseTree(t *testing.T) {
	e := newTestEngine(t)
	p := parse(t, e, "Homo sapiens Linnaeus, 1758", code.None)

	want := `(binomial "Homo sapiens Linnaeus, 1758" (genus Homo) (species sapiens ` +
		`(authorship "Linnaeus, 1758" (team "Linnaeus, 1758" :combination (author Linnaeus) (year 1758)))))`
	if got := p.Root.String(); got != want {
		t.Errorf("tree mismatch\n got: %s\nwant: %s", got, want)
	}
	if len(p.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", p.Warnings)
	}
}

func TestFailures(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name   string
		code   code.Code
		reason string
		virus  bool
	}{
		{"", code.None, "empty name", false},
		{"   ", code.None, "empty name", false},
		{"!!!not a name###", code.None, "name must start with a capitalized word", false},
		{"homo sapiens", code.None, "name must start with a capitalized word", false},
		{"#Homo", code.None, `unexpected character "#"`, false},
		{"Tobacco mosaic virus", code.None, "virus names are not parsed", true},
		{"Influenza A virus", code.None, "virus names are not parsed", true},
		{"Homo sapiens", code.Virus, "virus names are not parsed", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parse(t, e, tt.name, tt.code)
			if p.Root != nil {
				t.Fatalf("expected failure, got %s", p.Root)
			}
			if p.Failure == nil || p.Failure.Reason != tt.reason {
				t.Errorf("failure = %v, want reason %q", p.Failure, tt.reason)
			}
			if p.Virus != tt.virus {
				t.Errorf("virus = %v, want %v", p.Virus, tt.virus)
			}
		})
	}
}

func TestAuthorship(t *testing.T) {
	e := newTestEngine(t)

	authors := func(n *tree.Node) []string {
		var out []string
		for _, a := range n.FindAll(tree.KindAuthor) {
			out = append(out, a.Value)
		}
		return out
	}

	tests := []struct {
		name    string
		authors []string
		year    string
	}{
		{"Aus bus (L.) Mill.", []string{"L.", "Mill."}, ""},
		{"Aus bus Hook. f.", []string{"Hook. f."}, ""},
		{"Aus bus Smith & Jones, 1900", []string{"Smith", "Jones"}, "1900"},
		{"Aus bus Smith et Jones 1900", []string{"Smith", "Jones"}, "1900"},
		{"Aus bus Smith et al., 1900", []string{"Smith", "et al."}, "1900"},
		{"Aus bus van der Waals, 1910", []string{"van der Waals"}, "1910"},
		{"Aus bus d'Urv.", []string{"d'Urv."}, ""},
		{"Aus bus J. E. Smith", []string{"J. E. Smith"}, ""},
		{"Aus bus (Linnaeus, 1758)", []string{"Linnaeus"}, "1758"},
		{"Aus bus Smith, 1900a", []string{"Smith"}, "1900"},
		{"Aus bus 1758", nil, "1758"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parse(t, e, tt.name, code.None)
			if p.Root == nil || p.Tail != "" {
				t.Fatalf("parse failed: root=%v tail=%q failure=%v", p.Root, p.Tail, p.Failure)
			}
			auth := p.Root.Find(tree.KindAuthorship)
			if auth == nil {
				t.Fatalf("no authorship in %s", p.Root)
			}
			if got := authors(auth); !slices.Equal(got, tt.authors) {
				t.Errorf("authors = %q, want %q", got, tt.authors)
			}
			var year string
			if y := auth.Find(tree.KindYear); y != nil {
				year = y.Norm
			}
			if year != tt.year {
				t.Errorf("year = %q, want %q", year, tt.year)
			}
		})
	}
}

func TestExAndEmendTeams(t *testing.T) {
	e := newTestEngine(t)

	p := parse(t, e, "Aus bus Mill. ex DC.", code.None)
	var ex *tree.Node
	for _, tm := range p.Root.FindAll(tree.KindTeam) {
		if tm.Interpretation == tree.TeamEx {
			ex = tm
		}
	}
	if ex == nil {
		t.Fatalf("no ex team in %s", p.Root)
	}
	if !ex.Ambiguous || ex.Value != "DC." {
		t.Errorf("ex team = %+v", ex)
	}

	p = parse(t, e, "Aus bus Smith emend. Jones", code.None)
	teams := p.Root.FindAll(tree.KindTeam)
	if len(teams) != 2 || teams[1].Interpretation != tree.TeamEmend {
		t.Errorf("teams = %v", teams)
	}
}

func TestYearWarnings(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name string
		warn tree.Warning
	}{
		{"Aus bus Smith, [1900]", tree.WarnYearBrackets},
		{"Aus bus Smith (1900)", tree.WarnYearParens},
		{"Aus bus Smith, 1900?", tree.WarnYearQuestion},
		{"Aus bus Smith, 1900a", tree.WarnYearLetter},
		{"Aus bus Smith, 1900-1901", tree.WarnYearRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parse(t, e, tt.name, code.None)
			if p.Tail != "" {
				t.Fatalf("unexpected tail %q", p.Tail)
			}
			if !hasWarning(p.Warnings, tt.warn) {
				t.Errorf("warnings %v missing %v", p.Warnings, tt.warn)
			}
		})
	}
}

func TestRanksAndAmbiguity(t *testing.T) {
	e := newTestEngine(t)

	p := parse(t, e, "Abies alba ssp. alpina", code.None)
	rank := p.Root.Find(tree.KindRank)
	if rank == nil || rank.Norm != "subsp." {
		t.Fatalf("rank = %v", rank)
	}
	if ip := p.Root.Find(tree.KindInfraspecies); ip.Ambiguous {
		t.Error("ranked infraspecies should not be ambiguous")
	}

	p = parse(t, e, "Abies alba alpina", code.None)
	if ip := p.Root.Find(tree.KindInfraspecies); !ip.Ambiguous {
		t.Error("unranked infraspecies should be ambiguous")
	}

	p = parse(t, e, "Aus (Bus)", code.None)
	if sg := p.Root.Find(tree.KindSubgenus); sg == nil || !sg.Ambiguous {
		t.Errorf("subgenus = %v", sg)
	}

	p = parse(t, e, "Aus (Bus) cus", code.None)
	if sg := p.Root.Find(tree.KindSubgenus); sg == nil || sg.Ambiguous {
		t.Errorf("subgenus in binomial = %v", sg)
	}
}

func TestCultivars(t *testing.T) {
	e := newTestEngine(t)

	p := parse(t, e, "Sarracenia flava 'Maxima'", code.Cultivars)
	cv := p.Root.Find(tree.KindCultivar)
	if cv == nil || cv.Norm != "'Maxima'" || p.Tail != "" {
		t.Errorf("cultivar = %v, tail %q", cv, p.Tail)
	}

	p = parse(t, e, "Sarracenia flava cv. Maxima", code.Cultivars)
	if cv := p.Root.Find(tree.KindCultivar); cv == nil || cv.Norm != "'Maxima'" {
		t.Errorf("cultivar = %v", cv)
	}

	p = parse(t, e, "Sarracenia flava 'Maxima'", code.None)
	if p.Tail != "'Maxima'" {
		t.Errorf("tail = %q", p.Tail)
	}
	if !hasWarning(p.Warnings, tree.WarnCultivar) {
		t.Errorf("warnings %v missing cultivar warning", p.Warnings)
	}
}

func TestHybrids(t *testing.T) {
	e := newTestEngine(t)

	p := parse(t, e, "×Agropogon", code.None)
	if p.Root.Find(tree.KindHybridMarker) == nil {
		t.Errorf("no hybrid marker in %s", p.Root)
	}
	if !hasWarning(p.Warnings, tree.WarnNamedHybrid) {
		t.Errorf("warnings = %v", p.Warnings)
	}

	p = parse(t, e, "Aus bus ×", code.None)
	if !hasWarning(p.Warnings, tree.WarnHybridIncomplete) {
		t.Errorf("warnings = %v", p.Warnings)
	}

	p = parse(t, e, "Aus bus × cus", code.None)
	if got := len(p.Root.Children); got != 3 {
		t.Errorf("formula children = %d, want 3: %s", got, p.Root)
	}
	if p.Root.Children[2].Kind != tree.KindSpecies {
		t.Errorf("last element = %v, want species", p.Root.Children[2].Kind)
	}
}

func TestTransliterationWarning(t *testing.T) {
	e := newTestEngine(t)
	p := parse(t, e, "Aus bélla", code.None)
	if !hasWarning(p.Warnings, tree.WarnTransliterated) {
		t.Errorf("warnings = %v", p.Warnings)
	}
	if sp := p.Root.Find(tree.KindSpecies); sp.Norm != "bella" {
		t.Errorf("species norm = %q", sp.Norm)
	}
}

func TestDeterminism(t *testing.T) {
	e := newTestEngine(t)
	names := []string{
		"Abies alba Mill. var. alpina",
		"Aus bus Mill. ex DC.",
		"Homo sapiens ###",
	}
	for _, name := range names {
		a := parse(t, e, name, code.None)
		b := parse(t, e, name, code.None)
		if a.Root.String() != b.Root.String() || a.Tail != b.Tail {
			t.Errorf("%q parsed differently on repeat", name)
		}
	}
}

func TestLoad(t *testing.T) {
	if _, err := Load([]byte("not = [toml")); err == nil {
		t.Error("expected decode error")
	}
	if _, err := Load([]byte("[years]\nmax_ahead = 1\n")); err == nil || !strings.Contains(err.Error(), "years.min") {
		t.Errorf("expected years.min error, got %v", err)
	}

	tables, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	if r, ok := tables.InfraspecificRank("SSP."); !ok || r != "subsp." {
		t.Errorf("InfraspecificRank(SSP.) = %q, %v", r, ok)
	}
	for _, w := range []string{"virus", "Viruses", "Enterobacteriophage", "phage", "Retroviridae", "viroid", "AcMNPV"} {
		if !tables.IsVirusWord(w) {
			t.Errorf("IsVirusWord(%q) = false", w)
		}
	}
	for _, w := range []string{"Homo", "viruse", "virusa", "sapiens"} {
		if tables.IsVirusWord(w) {
			t.Errorf("IsVirusWord(%q) = true", w)
		}
	}
	if tables.MinYear != 1753 || tables.MaxYear <= tables.MinYear {
		t.Errorf("year bounds = %d..%d", tables.MinYear, tables.MaxYear)
	}
}
