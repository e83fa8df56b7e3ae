package canonical

import (
	"strings"

	"github.com/matzehuels/gnparser/pkg/core/tree"
)

// Authorship renders an authorship node in normalized form, for example
// "(Linnaeus 1758)" or "Mill. ex DC.".
func Authorship(a *tree.Node) string {
	if a == nil {
		return ""
	}
	var parts []string
	for _, tm := range a.ChildrenOf(tree.KindTeam) {
		s := Team(tm)
		switch tm.Interpretation {
		case tree.TeamOriginal:
			s = "(" + s + ")"
		case tree.TeamEmend:
			s = "emend. " + s
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

// Team renders one team: authors, sub-teams and year.
func Team(tm *tree.Node) string {
	var (
		authors []string
		etAl    bool
		subs    []string
		year    string
	)
	for _, c := range tm.Children {
		switch c.Kind {
		case tree.KindAuthor:
			if c.Norm == "et al." {
				etAl = true
				continue
			}
			authors = append(authors, c.Norm)
		case tree.KindTeam:
			subs = append(subs, c.Interpretation+" "+Team(c))
		case tree.KindYear:
			year = c.Norm
		}
	}

	var b strings.Builder
	b.WriteString(JoinAuthors(authors))
	if etAl {
		b.WriteString(" et al.")
	}
	for _, s := range subs {
		b.WriteString(" ")
		b.WriteString(s)
	}
	if year != "" {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(year)
	}
	return b.String()
}

// JoinAuthors joins names as "A", "A & B" or "A, B & C".
func JoinAuthors(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " & " + names[len(names)-1]
}
