package grammar

import (
	_ "embed"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/gnparser/pkg/core/token"
)

//go:embed data/rules.toml
var rulesTOML []byte

// rulesFile mirrors the layout of data/rules.toml.
type rulesFile struct {
	Years struct {
		Min      int `toml:"min"`
		MaxAhead int `toml:"max_ahead"`
	} `toml:"years"`
	Ranks struct {
		Infrasubspecific []string          `toml:"infrasubspecific"`
		Infraspecific    map[string]string `toml:"infraspecific"`
		Infrageneric     map[string]string `toml:"infrageneric"`
		Suprageneric     map[string]string `toml:"suprageneric"`
	} `toml:"ranks"`
	Authors struct {
		Prefixes   []string `toml:"prefixes"`
		Separators []string `toml:"separators"`
		EtAl       []string `toml:"et_al"`
		Filius     []string `toml:"filius"`
		Ex         []string `toml:"ex"`
		In         []string `toml:"in"`
		Emend      []string `toml:"emend"`
	} `toml:"authors"`
	Annotations struct {
		Approximation []string `toml:"approximation"`
		Uncertainty   []string `toml:"uncertainty"`
		Nomenclatural []string `toml:"nomenclatural"`
	} `toml:"annotations"`
	Cultivars struct {
		Markers []string `toml:"markers"`
	} `toml:"cultivars"`
	Bacteria struct {
		Candidatus []string `toml:"candidatus"`
	} `toml:"bacteria"`
	Viruses struct {
		Patterns []string `toml:"patterns"`
	} `toml:"viruses"`
}

// Tables holds the compiled rule tables. A Tables value is read-only after
// [Load] returns and is safe for concurrent use.
type Tables struct {
	MinYear int
	MaxYear int

	infraspecific    map[string]string
	infrasubspecific map[string]bool
	infrageneric     map[string]string
	suprageneric     map[string]string

	authorPrefixes map[string]bool
	separators     map[string]bool
	filius         map[string]bool
	ex             map[string]bool
	in             map[string]bool
	emend          map[string]bool
	etAl           []marker

	approximation []marker
	uncertainty   []marker
	nomenclatural []marker

	cultivarMarkers map[string]bool
	candidatus      map[string]bool
	viruses         []*regexp.Regexp
}

// marker is a multi-token annotation such as "sp. nov.", stored as the
// lowercased texts of its tokens.
type marker struct {
	text  string
	parts []string
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
	defaultErr    error
)

// Default returns the tables embedded in the binary. They are decoded once;
// a decoding error is returned on every call.
func Default() (*Tables, error) {
	defaultOnce.Do(func() {
		defaultTables, defaultErr = Load(rulesTOML)
	})
	return defaultTables, defaultErr
}

// Load decodes and compiles rule tables from TOML.
func Load(data []byte) (*Tables, error) {
	var rf rulesFile
	if _, err := toml.Decode(string(data), &rf); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	if rf.Years.Min == 0 {
		return nil, fmt.Errorf("rules: years.min is required")
	}
	if len(rf.Ranks.Infraspecific) == 0 {
		return nil, fmt.Errorf("rules: ranks.infraspecific is empty")
	}

	t := &Tables{
		MinYear:          rf.Years.Min,
		MaxYear:          time.Now().Year() + rf.Years.MaxAhead,
		infraspecific:    lowerKeys(rf.Ranks.Infraspecific),
		infrasubspecific: set(rf.Ranks.Infrasubspecific),
		infrageneric:     lowerKeys(rf.Ranks.Infrageneric),
		suprageneric:     lowerKeys(rf.Ranks.Suprageneric),
		authorPrefixes:   set(rf.Authors.Prefixes),
		separators:       set(rf.Authors.Separators),
		filius:           set(rf.Authors.Filius),
		ex:               set(rf.Authors.Ex),
		in:               set(rf.Authors.In),
		emend:            set(rf.Authors.Emend),
		etAl:             markers(rf.Authors.EtAl),
		approximation:    markers(rf.Annotations.Approximation),
		uncertainty:      markers(rf.Annotations.Uncertainty),
		nomenclatural:    markers(rf.Annotations.Nomenclatural),
		cultivarMarkers:  set(rf.Cultivars.Markers),
		candidatus:       make(map[string]bool),
	}
	for _, c := range rf.Bacteria.Candidatus {
		t.candidatus[c] = true
	}
	for _, p := range rf.Viruses.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("rules: virus pattern %q: %w", p, err)
		}
		t.viruses = append(t.viruses, re)
	}
	return t, nil
}

// InfraspecificRank returns the normalized spelling of an infraspecific rank
// marker.
func (t *Tables) InfraspecificRank(s string) (string, bool) {
	r, ok := t.infraspecific[strings.ToLower(s)]
	return r, ok
}

// IsInfrasubspecific reports whether a normalized rank sits below subspecies.
func (t *Tables) IsInfrasubspecific(rank string) bool {
	return t.infrasubspecific[rank]
}

// IsVirusWord reports whether a word matches one of the virus patterns.
func (t *Tables) IsVirusWord(w string) bool {
	w = strings.ToLower(w)
	for _, re := range t.viruses {
		if re.MatchString(w) {
			return true
		}
	}
	return false
}

func set(items []string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, s := range items {
		m[strings.ToLower(s)] = true
	}
	return m
}

func lowerKeys(in map[string]string) map[string]string {
	m := make(map[string]string, len(in))
	for k, v := range in {
		m[strings.ToLower(k)] = v
	}
	return m
}

// markers tokenizes marker strings so that spacing differences ("s.l." vs
// "s. l.") do not matter. Longer markers come first so matching is greedy.
func markers(items []string) []marker {
	out := make([]marker, 0, len(items))
	for _, s := range items {
		toks := token.Tokenize(token.Normalize(strings.ToLower(s), true))
		out = append(out, marker{text: s, parts: token.Texts(toks)})
	}
	slices.SortStableFunc(out, func(a, b marker) int {
		return len(b.parts) - len(a.parts)
	})
	return out
}
