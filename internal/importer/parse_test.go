package importer

import "testing"

func TestParseInputData_CSV(t *testing.T) {
	data := []byte("first_name,last_name,email\nAda,Lovelace,ada@example.org\nAlan,Turing,alan@example.org\n")

	records, err := ParseInputData("csv", data)
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0]["first_name"] != "Ada" {
		t.Fatalf("expected first_name=Ada, got %v", records[0]["first_name"])
	}
	if records[1]["email"] != "alan@example.org" {
		t.Fatalf("expected email=alan@example.org, got %v", records[1]["email"])
	}
}

func TestParseInputData_CSVShortRow(t *testing.T) {
	// Rows shorter than the header keep the missing columns absent
	data := []byte("a,b,c\n1,2\n")

	records, err := ParseInputData("csv", data)
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0]["a"] != "1" || records[0]["b"] != "2" {
		t.Fatalf("unexpected record: %v", records[0])
	}
	if _, ok := records[0]["c"]; ok {
		t.Fatalf("expected c absent, got %v", records[0]["c"])
	}
}

func TestParseInputData_CSVEmpty(t *testing.T) {
	if _, err := ParseInputData("csv", []byte("")); err == nil {
		t.Fatal("expected error for empty csv input")
	}
}

func TestParseInputData_JSON(t *testing.T) {
	data := []byte(`[{"email": "ada@example.org", "party": 1}, {"email": "alan@example.org"}]`)

	records, err := ParseInputData("json", data)
	if err != nil {
		t.Fatalf("parse json: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0]["party"] != float64(1) {
		t.Fatalf("expected party=1, got %v", records[0]["party"])
	}
}

func TestParseInputData_UnknownFormat(t *testing.T) {
	if _, err := ParseInputData("xml", []byte("<x/>")); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
