package batch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/matzehuels/gnparser/pkg/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func upper(_ context.Context, name string) (string, error) {
	return strings.ToUpper(name), nil
}

func TestRunPositional(t *testing.T) {
	entries := []Entry{{Value: "a"}, {Value: "b"}, {Value: "c"}, {Value: "d"}, {Value: "e"}}

	for _, jobs := range []int{0, 1, 2, 8} {
		t.Run(fmt.Sprintf("jobs=%d", jobs), func(t *testing.T) {
			outs, err := Run(context.Background(), entries, jobs, upper)
			if err != nil {
				t.Fatal(err)
			}
			want := []Output{{Value: "A"}, {Value: "B"}, {Value: "C"}, {Value: "D"}, {Value: "E"}}
			if diff := cmp.Diff(want, outs); diff != "" {
				t.Errorf("outputs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRunMissingMiddle(t *testing.T) {
	var calls atomic.Int32
	var seen sync.Map
	fn := func(ctx context.Context, name string) (string, error) {
		calls.Add(1)
		seen.Store(name, true)
		return upper(ctx, name)
	}

	entries := []Entry{{Value: "Aus bus"}, {Missing: true}, {Value: "Cus dus"}}
	outs, err := Run(context.Background(), entries, 4, fn)
	if err != nil {
		t.Fatal(err)
	}

	if len(outs) != 3 {
		t.Fatalf("len = %d, want 3", len(outs))
	}
	if !outs[1].Missing {
		t.Errorf("slot 2 = %+v, want missing", outs[1])
	}
	if outs[0].Value != "AUS BUS" || outs[2].Value != "CUS DUS" {
		t.Errorf("present slots = %+v, %+v", outs[0], outs[2])
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("parser called %d times, want 2", n)
	}
	if _, ok := seen.Load(""); ok {
		t.Error("parser was called for the missing entry")
	}
}

func TestRunEmptyStringIsNotMissing(t *testing.T) {
	outs, err := Run(context.Background(), []Entry{{Value: ""}}, 1, func(context.Context, string) (string, error) {
		return "parsed", nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if outs[0].Missing || outs[0].Value != "parsed" {
		t.Errorf("out = %+v", outs[0])
	}
}

func TestRunEmptyBatch(t *testing.T) {
	outs, err := Run(context.Background(), nil, 4, upper)
	if err != nil {
		t.Fatal(err)
	}
	if len(outs) != 0 {
		t.Errorf("len = %d, want 0", len(outs))
	}
}

func TestRunRecoversPanic(t *testing.T) {
	fn := func(ctx context.Context, name string) (string, error) {
		if name == "boom" {
			panic("grammar exploded")
		}
		return upper(ctx, name)
	}

	outs, err := Run(context.Background(), FromStrings([]string{"a", "boom", "c"}), 2, fn)
	if err != nil {
		t.Fatal(err)
	}
	if !errors.IsFault(outs[1].Fault) {
		t.Errorf("slot 2 fault = %v, want recovered fault", outs[1].Fault)
	}
	if outs[1].Missing {
		t.Error("faulted slot reported as missing")
	}
	if outs[0].Value != "A" || outs[2].Value != "C" {
		t.Errorf("neighbours affected: %+v %+v", outs[0], outs[2])
	}

	want := Stats{Parsed: 2, Faults: 1}
	if got := Summarize(outs); got != want {
		t.Errorf("Summarize = %+v, want %+v", got, want)
	}
}

func TestRunFuncError(t *testing.T) {
	fn := func(context.Context, string) (string, error) {
		return "", fmt.Errorf("encode failed")
	}
	outs, err := Run(context.Background(), FromStrings([]string{"a"}), 1, fn)
	if err != nil {
		t.Fatal(err)
	}
	if outs[0].Fault == nil || errors.IsFault(outs[0].Fault) {
		t.Errorf("fault = %v, want a plain wrapped error", outs[0].Fault)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	outs, err := Run(ctx, FromStrings([]string{"a", "b", "c"}), 1, func(ctx context.Context, s string) (string, error) {
		calls.Add(1)
		return upper(ctx, s)
	})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if len(outs) != 3 {
		t.Errorf("len = %d, want 3", len(outs))
	}
	if calls.Load() != 0 {
		t.Errorf("parser called %d times after cancellation", calls.Load())
	}
}

func TestRunCancelledKeepsMissing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a, b := "Aus", "Bus"
	outs, err := Run(ctx, FromValues([]*string{&a, nil, &b, nil}), 2, upper)
	if err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	for _, i := range []int{1, 3} {
		if !outs[i].Missing {
			t.Errorf("outs[%d] = %+v, want missing", i, outs[i])
		}
	}
	for _, i := range []int{0, 2} {
		if outs[i].Fault != context.Canceled || outs[i].Value != "" {
			t.Errorf("outs[%d] = %+v, want fault context.Canceled", i, outs[i])
		}
	}
	if got, want := Summarize(outs), (Stats{Missing: 2, Faults: 2}); got != want {
		t.Errorf("Summarize = %+v, want %+v", got, want)
	}
}

func TestFromValuesAndValues(t *testing.T) {
	a, c := "Aus", "Cus"
	entries := FromValues([]*string{&a, nil, &c})
	want := []Entry{{Value: "Aus"}, {Missing: true}, {Value: "Cus"}}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("FromValues mismatch (-want +got):\n%s", diff)
	}

	outs := []Output{{Value: "x"}, {Missing: true}, {Fault: fmt.Errorf("bad")}}
	vals := Values(outs)
	if len(vals) != 3 || vals[0] == nil || *vals[0] != "x" || vals[1] != nil || vals[2] != nil {
		t.Errorf("Values = %v", vals)
	}
}
