package coverage

import (
	"bytes"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/yurifrl/kontocsv/pkg/keywords"
)

func TestSet(t *testing.T) {
	s := NewSet()
	s.Observe("Lastschrift")
	s.Observe("Gutschrift")
	s.Observe("Lastschrift")
	if got := s.Labels(); !reflect.DeepEqual(got, []string{"Gutschrift", "Lastschrift"}) {
		t.Errorf("Unexpected labels %v", got)
	}

	other := NewSet()
	other.Observe("undefined")
	s.Merge(other)
	s.Merge(s)
	s.Merge(nil)
	if s.Len() != 3 {
		t.Errorf("Expected 3 labels, got %d", s.Len())
	}

	s.Reset()
	if s.Len() != 0 {
		t.Errorf("Expected an empty set after Reset, got %d", s.Len())
	}

	var zero Set
	zero.Observe("Entgelt")
	if got := zero.Labels(); !reflect.DeepEqual(got, []string{"Entgelt"}) {
		t.Errorf("Zero set labels %v", got)
	}
}

func TestNilSet(t *testing.T) {
	var s *Set
	s.Observe("Lastschrift")
	s.Merge(NewSet())
	if s.Len() != 0 || s.Labels() != nil {
		t.Errorf("A nil set should stay empty")
	}

	// merging from many goroutines into a nil set must not panic
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc := NewSet()
			doc.Observe("Gutschrift")
			s.Merge(doc)
		}()
	}
	wg.Wait()
}

func TestSetConcurrentMerge(t *testing.T) {
	total := NewSet()
	labels := keywords.Default().Labels()

	var wg sync.WaitGroup
	for _, label := range labels {
		wg.Add(1)
		go func(label string) {
			defer wg.Done()
			doc := NewSet()
			doc.Observe(label)
			total.Merge(doc)
		}(label)
	}
	wg.Wait()

	if total.Len() != len(labels) {
		t.Errorf("Expected %d labels, got %d", len(labels), total.Len())
	}
}

func TestBuild(t *testing.T) {
	observed := NewSet()
	observed.Observe("Lastschrift")
	observed.Observe("Gutschrift")
	observed.Observe("undefined")

	report := Build(observed, keywords.Default())

	if len(report.Items) != 6 {
		t.Fatalf("Expected 6 entries, got %d", len(report.Items))
	}
	if report.Items[0] != (Entry{Label: "Lastschrift", Status: Seen}) {
		t.Errorf("Unexpected first entry %+v", report.Items[0])
	}
	if got := report.Missing(); !reflect.DeepEqual(got, []string{"undefined"}) {
		t.Errorf("Missing = %v", got)
	}
	if got := report.Extra(); !reflect.DeepEqual(got, []string{"Ueberweisung", "Entgelt", "Gehalt/Rente"}) {
		t.Errorf("Extra = %v", got)
	}

	var buf bytes.Buffer
	report.Print(&buf)
	for _, want := range []string{
		"undefined (missing from keyword table)",
		"Entgelt (never seen)",
		"Coverage: 1 missing, 3 extra",
	} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("Report lacks %q:\n%s", want, buf.String())
		}
	}
}

func TestBuildFullCoverage(t *testing.T) {
	table := keywords.Default()
	observed := NewSet()
	for _, label := range table.Labels() {
		observed.Observe(label)
	}

	report := Build(observed, table)
	if len(report.Missing()) != 0 || len(report.Extra()) != 0 {
		t.Errorf("Expected full coverage, got missing=%v extra=%v", report.Missing(), report.Extra())
	}

	var buf bytes.Buffer
	report.Print(&buf)
	if !strings.Contains(buf.String(), "Coverage: all 5 keyword(s) seen") {
		t.Errorf("Unexpected summary:\n%s", buf.String())
	}
}
