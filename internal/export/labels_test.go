package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/soumyadeepsahu/SVGnest/internal/model"
)

func TestCollectLabelInfos(t *testing.T) {
	result, _, parts := buildTestResult()

	labels := CollectLabelInfos(result, parts)
	if len(labels) != 3 {
		t.Fatalf("expected 3 labels, got %d", len(labels))
	}

	if labels[0].PartLabel != "Side Panel" || labels[0].CopyNumber != 0 {
		t.Errorf("unexpected first label: %+v", labels[0])
	}
	if labels[1].CopyNumber != 1 {
		t.Errorf("second copy should have copy number 1, got %d", labels[1].CopyNumber)
	}
	if labels[2].Rotation != 90 {
		t.Errorf("expected rotation 90, got %v", labels[2].Rotation)
	}
	if labels[0].Width != 100 || labels[0].Height != 60 {
		t.Errorf("unexpected bounding dimensions: %+v", labels[0])
	}
}

func TestCollectLabelInfos_UnknownPartID(t *testing.T) {
	result, _, _ := buildTestResult()

	labels := CollectLabelInfos(result, nil)
	if labels[0].PartLabel != "Part 1" {
		t.Errorf("expected generated label, got %q", labels[0].PartLabel)
	}
}

func TestLabelInfo_QRPayloadRoundTrip(t *testing.T) {
	result, _, parts := buildTestResult()
	labels := CollectLabelInfos(result, parts)

	data, err := json.Marshal(labels[2])
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded LabelInfo
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded != labels[2] {
		t.Errorf("round trip mismatch: %+v vs %+v", decoded, labels[2])
	}
}

func TestExportLabels_CreatesFile(t *testing.T) {
	result, _, parts := buildTestResult()
	path := filepath.Join(t.TempDir(), "labels.pdf")

	if err := ExportLabels(path, result, parts); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportLabels_EmptyResult(t *testing.T) {
	_, _, parts := buildTestResult()
	path := filepath.Join(t.TempDir(), "empty.pdf")

	if err := ExportLabels(path, model.NestResult{}, parts); err == nil {
		t.Fatal("expected error for empty result, got nil")
	}
}

func TestExportLabels_MultiPage(t *testing.T) {
	result, _, parts := buildTestResult()
	base := result.Placements
	for len(result.Placements) < labelsPerPage+5 {
		result.Placements = append(result.Placements, base[len(result.Placements)%len(base)])
	}

	path := filepath.Join(t.TempDir(), "multi.pdf")
	if err := ExportLabels(path, result, parts); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}
}
