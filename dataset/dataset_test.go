package dataset

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"gopkg.in/guregu/null.v3"

	"github.com/openvariant/ldindex"
)

func TestSchemaValidate(t *testing.T) {
	if err := LDIndexSchema.Validate(ldindex.ResolvedLDEntry{}); err != nil {
		t.Errorf("the LD entry record should satisfy its own schema: %v", err)
	}
}

func TestSchemaValidateMissingField(t *testing.T) {
	type truncated struct {
		VariantIDI string  `csv:"variant_id_i"`
		R          float64 `csv:"r"`
		Population string  `csv:"population"`
	}

	err := LDIndexSchema.Validate(truncated{})

	var serr *SchemaError
	if !errors.As(err, &serr) {
		t.Fatalf("expected a SchemaError, got %v", err)
	}
	if len(serr.Missing) != 1 || serr.Missing[0] != "variant_id_j" {
		t.Errorf("unexpected missing fields: %v", serr.Missing)
	}
}

func TestSchemaValidateTypeMismatch(t *testing.T) {
	type mistyped struct {
		VariantIDI string `csv:"variant_id_i"`
		VariantIDJ string `csv:"variant_id_j"`
		R          string `csv:"r"`
		Population string `csv:"population"`
	}

	err := LDIndexSchema.Validate(mistyped{})

	var serr *SchemaError
	if !errors.As(err, &serr) {
		t.Fatalf("expected a SchemaError, got %v", err)
	}
	if len(serr.Mismatched) != 1 {
		t.Errorf("unexpected mismatches: %v", serr.Mismatched)
	}
}

func TestSchemaValidateUnexpectedAndNullable(t *testing.T) {
	type extended struct {
		VariantIDI string      `csv:"variant_id_i"`
		VariantIDJ string      `csv:"variant_id_j"`
		R          float64     `csv:"r"`
		Population string      `csv:"population"`
		Note       null.String `csv:"note"`
	}

	err := LDIndexSchema.Validate(extended{})

	var serr *SchemaError
	if !errors.As(err, &serr) {
		t.Fatalf("expected a SchemaError, got %v", err)
	}
	if len(serr.Unexpected) != 1 || serr.Unexpected[0] != "note" {
		t.Errorf("unexpected extra fields: %v", serr.Unexpected)
	}

	// A schema that allows the nullable column accepts the record
	wider := Schema{Fields: append(append([]Field{}, LDIndexSchema.Fields...), Field{Name: "note", Type: TypeString, Nullable: true})}
	if err := wider.Validate(extended{}); err != nil {
		t.Errorf("expected the widened schema to accept the record: %v", err)
	}
}

func testEntries() []ldindex.ResolvedLDEntry {
	return []ldindex.ResolvedLDEntry{
		{VariantIDI: "1_100_A_G", VariantIDJ: "1_200_A_T", R: 0.9, Population: "nfe"},
		{VariantIDI: "1_200_A_T", VariantIDJ: "1_100_A_G", R: 0.9, Population: "nfe"},
		{VariantIDI: "2_500_C_T", VariantIDJ: "2_600_G_A", R: 0.95, Population: "afr"},
	}
}

func TestFilterReturnsNewTable(t *testing.T) {
	tbl, err := NewLDIndexTable(testEntries())
	if err != nil {
		t.Fatal(err)
	}

	nfe := tbl.Filter(func(e ldindex.ResolvedLDEntry) bool { return e.Population == "nfe" })

	if nfe.Len() != 2 {
		t.Errorf("expected 2 nfe rows, got %d", nfe.Len())
	}
	if tbl.Len() != 3 {
		t.Errorf("filter mutated the receiver: %d rows", tbl.Len())
	}
}

func TestTSVRoundTrip(t *testing.T) {
	tbl, err := NewLDIndexTable(testEntries())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := tbl.WriteTSV(&buf); err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(buf.String(), "variant_id_i\tvariant_id_j\tr\tpopulation\n") {
		t.Errorf("unexpected header: %q", strings.SplitN(buf.String(), "\n", 2)[0])
	}

	back, err := LoadTSV(&buf)
	if err != nil {
		t.Fatal(err)
	}

	if back.Len() != tbl.Len() {
		t.Fatalf("round trip changed row count: %d != %d", back.Len(), tbl.Len())
	}
	if back.Entries()[2] != tbl.Entries()[2] {
		t.Errorf("round trip changed a row: %+v != %+v", back.Entries()[2], tbl.Entries()[2])
	}
}

func TestPassesQC(t *testing.T) {
	permitted := map[string]bool{"imputed": true}

	if !PassesQC(nil, permitted) {
		t.Error("rows with no flags must pass")
	}
	if !PassesQC([]string{"imputed"}, permitted) {
		t.Error("permitted flags must pass")
	}
	if PassesQC([]string{"imputed", "low_confidence"}, permitted) {
		t.Error("unpermitted flags must fail")
	}

	invalid := InvertQC(func(flags []string) bool { return PassesQC(flags, permitted) })
	if !invalid([]string{"low_confidence"}) {
		t.Error("inverted predicate should select failing rows")
	}
}
