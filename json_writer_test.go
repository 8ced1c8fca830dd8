package reconcile

import (
	"encoding/json"
	"math"
	"testing"
)

func TestJsonObjectWriter(t *testing.T) {
	t.Run("empty object", func(t *testing.T) {
		var w jsonObjectWriter
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := "{}"; string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("keeps insertion order", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("z", 1).Append("a", "hello")
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"z":1,"a":"hello"}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("optional fields", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("a", 0) // a zero value is still added by Append.
		w.Optional("b", "")
		w.Optional("c", 0.0)
		w.Optional("d", "hello")
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"a":0,"d":"hello"}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("error is sticky", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("a", math.NaN()).Append("b", 1)
		if _, err := w.MarshalJSON(); err == nil {
			t.Errorf("MarshalJSON() after a failed Append should fail")
		}
	})
}

func TestReport_MarshalJSON(t *testing.T) {
	account := mustDecode(t, canonicalInput)
	r, err := account.Report(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	got, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"start":0,"end":1,"transactions":6,"snapshot":true,` +
		`"replayed":{"AAPL":0,"Cash":12000,"GOOG":210,"SP500":175.75,"TD":100},` +
		`"recorded":{"Cash":20000,"GOOG":220,"MSFT":10,"SP500":175.75},` +
		`"diff":{"Cash":8000,"GOOG":10,"MSFT":10,"TD":-100}}`
	if string(got) != want {
		t.Errorf("json.Marshal(report) =\n%s\nwant\n%s", got, want)
	}
}
