package table

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

// buildXLSX assembles a minimal workbook on disk: one sheet with a header of
// shared strings and data rows of inline numbers, the shape our spreadsheet
// exports take (dates stored as serial numbers).
func buildXLSX(t *testing.T) string {
	t.Helper()

	workbook := `<?xml version="1.0"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"
          xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <sheets>
    <sheet name="station1" sheetId="1" r:id="rId1"/>
  </sheets>
</workbook>`
	rels := `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/>
</Relationships>`
	shared := `<?xml version="1.0"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" count="3" uniqueCount="3">
  <si><t>FDT_DATE_TIME</t></si>
  <si><t>FDT_DEPTH</t></si>
  <si><t>FDT_FIELD_PH</t></si>
</sst>`
	sheet := `<?xml version="1.0"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
  <sheetData>
    <row r="1">
      <c r="A1" t="s"><v>0</v></c>
      <c r="B1" t="s"><v>1</v></c>
      <c r="C1" t="s"><v>2</v></c>
    </row>
    <row r="2">
      <c r="A2"><v>34515.458</v></c>
      <c r="B2"><v>0.3</v></c>
      <c r="C2"><v>7.2</v></c>
    </row>
    <row r="3">
      <c r="A3"><v>34546.5</v></c>
      <c r="C3"><v>7.4</v></c>
    </row>
  </sheetData>
</worksheet>`

	path := filepath.Join(t.TempDir(), "station1.xlsx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	entries := map[string]string{
		"xl/workbook.xml":            workbook,
		"xl/_rels/workbook.xml.rels": rels,
		"xl/sharedStrings.xml":       shared,
		"xl/worksheets/sheet1.xml":   sheet,
	}
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return path
}

func TestReadXLSX(t *testing.T) {
	path := buildXLSX(t)

	tbl, err := ReadXLSX(path, "", 0)
	if err != nil {
		t.Fatalf("ReadXLSX failed: %v", err)
	}
	if tbl.Name != "station1" {
		t.Errorf("name = %q, want station1", tbl.Name)
	}
	want := []string{"FDT_DATE_TIME", "FDT_DEPTH", "FDT_FIELD_PH"}
	if len(tbl.Columns) != len(want) {
		t.Fatalf("columns = %v, want %v", tbl.Columns, want)
	}
	for i := range want {
		if tbl.Columns[i] != want[i] {
			t.Errorf("column %d = %q, want %q", i, tbl.Columns[i], want[i])
		}
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(tbl.Rows))
	}
	if tbl.Cell(0, 0) != "34515.458" {
		t.Errorf("serial date cell = %q, want raw 34515.458", tbl.Cell(0, 0))
	}
	// Row 3 has no B cell; it must read as empty, not shift columns.
	if tbl.Cell(1, 1) != "" {
		t.Errorf("absent cell = %q, want empty", tbl.Cell(1, 1))
	}
	if tbl.Cell(1, 2) != "7.4" {
		t.Errorf("cell(1,2) = %q, want 7.4", tbl.Cell(1, 2))
	}
}

func TestReadXLSXByName(t *testing.T) {
	path := buildXLSX(t)
	if _, err := ReadXLSX(path, "station1", 0); err != nil {
		t.Errorf("ReadXLSX by sheet name failed: %v", err)
	}
	if _, err := ReadXLSX(path, "nope", 0); err == nil {
		t.Error("expected error for unknown sheet name")
	}
}
