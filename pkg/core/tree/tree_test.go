package tree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sample() *Node {
	sp := New(KindSpecies, "sapiens", "sapiens", 5, 12)
	sp.Add(New(KindAuthorship, "Linnaeus, 1758", "", 13, 27))
	return New(KindBinomial, "", "", 0, 27).Add(
		New(KindGenus, "Homo", "Homo", 0, 4),
		sp,
	)
}

func TestFindAndChild(t *testing.T) {
	root := sample()

	if g := root.Child(KindGenus); g == nil || g.Value != "Homo" {
		t.Fatalf("Child(KindGenus) = %v", g)
	}
	if root.Child(KindAuthorship) != nil {
		t.Error("authorship should not be a direct child of the root")
	}
	if a := root.Find(KindAuthorship); a == nil {
		t.Error("Find should locate nested authorship")
	}
	if got := len(root.FindAll(KindGenus)); got != 1 {
		t.Errorf("FindAll(KindGenus) = %d nodes, want 1", got)
	}
}

func TestCardinality(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want int
	}{
		{"uninomial", New(KindUninomial, "Aus", "Aus", 0, 3), 1},
		{"binomial", sample(), 2},
		{"trinomial", New(KindTrinomial, "", "", 0, 0).Add(
			New(KindGenus, "Aus", "Aus", 0, 3),
			New(KindSpecies, "bus", "bus", 4, 7),
			New(KindInfraspecies, "cus", "cus", 8, 11),
			New(KindInfraspecies, "dus", "dus", 12, 15),
		), 4},
		{"approximation", New(KindApproximation, "", "", 0, 0), 0},
		{"formula", New(KindHybridFormula, "", "", 0, 0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.Cardinality(); got != tt.want {
				t.Errorf("Cardinality() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	root := sample()
	clone := root.Clone()

	if diff := cmp.Diff(root.String(), clone.String()); diff != "" {
		t.Fatalf("clone differs (-orig +clone):\n%s", diff)
	}

	clone.Child(KindGenus).Value = "Pan"
	clone.Child(KindSpecies).Children = nil

	if root.Child(KindGenus).Value != "Homo" {
		t.Error("mutating the clone changed the original genus")
	}
	if root.Find(KindAuthorship) == nil {
		t.Error("mutating the clone removed the original authorship")
	}
}

func TestRemove(t *testing.T) {
	root := sample()
	g := root.Child(KindGenus)
	if !root.Remove(g) {
		t.Fatal("Remove should report success")
	}
	if root.Child(KindGenus) != nil {
		t.Error("genus still present after Remove")
	}
	if root.Remove(g) {
		t.Error("second Remove should report failure")
	}
}

func TestString(t *testing.T) {
	want := `(binomial (genus Homo) (species sapiens (authorship "Linnaeus, 1758")))`
	if got := sample().String(); got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}

func TestQuality(t *testing.T) {
	if got := Quality(nil); got != 1 {
		t.Errorf("Quality(nil) = %d, want 1", got)
	}
	if got := Quality([]Warning{WarnYearBrackets, WarnTail}); got != 4 {
		t.Errorf("Quality = %d, want 4", got)
	}
}

func TestSortWarnings(t *testing.T) {
	got := SortWarnings([]Warning{WarnYearBrackets, WarnTail, WarnYearBrackets, WarnAmbiguous})
	want := []Warning{WarnTail, WarnAmbiguous, WarnYearBrackets}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SortWarnings mismatch (-want +got):\n%s", diff)
	}
}
