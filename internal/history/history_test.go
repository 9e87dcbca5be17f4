package history

import (
	"errors"
	"testing"

	"github.com/aidanlsb/magpie/internal/orm"
)

func sampleResult(rows int) *orm.Result {
	r := &orm.Result{
		Fields: []orm.ResultField{
			{Path: "customer.country", Pretty: "customer country", Type: "text"},
			{Path: "total.sum", Pretty: "customer total sum", Type: "number"},
		},
	}
	for i := 0; i < rows; i++ {
		r.Rows = append(r.Rows, []any{"NZ", float64(i)})
	}
	return r
}

func TestWriteAndRead(t *testing.T) {
	dir := t.TempDir()

	in := &Entry{
		Model:   "order",
		Fields:  []string{"customer.country", "total.sum"},
		Filters: []string{"paid=true"},
		Result:  sampleResult(2),
	}
	if err := Write(dir, in); err != nil {
		t.Fatalf("Write: %v", err)
	}

	out, err := Read(dir)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if out.Model != "order" || out.RowCount != 2 || out.Truncated {
		t.Errorf("entry = %+v", out)
	}
	if len(out.Result.Rows) != 2 || len(out.Result.Fields) != 2 {
		t.Errorf("result = %+v", out.Result)
	}
	if out.Timestamp.IsZero() {
		t.Error("timestamp should be set on write")
	}
}

func TestWriteTruncatesLargeResults(t *testing.T) {
	dir := t.TempDir()

	if err := Write(dir, &Entry{Model: "order", Result: sampleResult(MaxRows + 5)}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out, err := Read(dir)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if out.RowCount != MaxRows+5 {
		t.Errorf("RowCount = %d", out.RowCount)
	}
	if len(out.Result.Rows) != MaxRows || !out.Truncated {
		t.Errorf("rows kept = %d, truncated = %v", len(out.Result.Rows), out.Truncated)
	}
}

func TestReadMissing(t *testing.T) {
	if _, err := Read(t.TempDir()); !errors.Is(err, ErrNoHistory) {
		t.Errorf("got %v, want ErrNoHistory", err)
	}
}
