package classify

import (
	"context"
	"testing"
)

// TestChestXRay_Deterministic tests that identical content always yields
// the same classification.
func TestChestXRay_Deterministic(t *testing.T) {
	c := NewChestXRay()
	ctx := context.Background()
	image := make([]byte, 2048)
	for i := range image {
		image[i] = byte(i % 251)
	}

	diagnosis1, confidence1, findings1, err := c.Classify(ctx, image)
	if err != nil {
		t.Fatalf("Classify() failed: %v", err)
	}
	diagnosis2, confidence2, findings2, err := c.Classify(ctx, image)
	if err != nil {
		t.Fatalf("Classify() failed: %v", err)
	}

	if diagnosis1 != diagnosis2 || confidence1 != confidence2 {
		t.Errorf("Classification not deterministic: %q/%v vs %q/%v",
			diagnosis1, confidence1, diagnosis2, confidence2)
	}
	if len(findings1) != len(findings2) {
		t.Errorf("Finding counts differ: %d vs %d", len(findings1), len(findings2))
	}
}

// TestChestXRay_ProfileTable tests that every result comes from the fixed
// profile table with matching confidence and findings.
func TestChestXRay_ProfileTable(t *testing.T) {
	c := NewChestXRay()
	ctx := context.Background()

	byDiagnosis := make(map[string]profile, len(profiles))
	for _, p := range profiles {
		byDiagnosis[p.diagnosis] = p
	}

	// Vary the content to hit multiple buckets.
	for seed := 0; seed < 32; seed++ {
		image := make([]byte, 2048)
		for i := range image {
			image[i] = byte(i + seed)
		}

		diagnosis, confidence, findings, err := c.Classify(ctx, image)
		if err != nil {
			t.Fatalf("Classify() failed: %v", err)
		}

		p, ok := byDiagnosis[diagnosis]
		if !ok {
			t.Fatalf("Diagnosis %q is not in the profile table", diagnosis)
		}
		if confidence != p.confidence {
			t.Errorf("Confidence for %q = %v, want %v", diagnosis, confidence, p.confidence)
		}
		if len(findings) != len(p.findings) {
			t.Errorf("Findings for %q = %d, want %d", diagnosis, len(findings), len(p.findings))
		}
		if confidence <= 0 || confidence > 1 {
			t.Errorf("Confidence %v outside (0, 1]", confidence)
		}
	}
}

// TestChestXRay_CallerOwnsFindings tests that mutating a returned findings
// slice does not corrupt the profile table.
func TestChestXRay_CallerOwnsFindings(t *testing.T) {
	c := NewChestXRay()
	ctx := context.Background()
	image := make([]byte, 2048)

	_, _, findings, err := c.Classify(ctx, image)
	if err != nil {
		t.Fatalf("Classify() failed: %v", err)
	}
	if len(findings) == 0 {
		t.Fatal("Classify() returned no findings")
	}
	findings[0].Label = "mutated"

	_, _, again, err := c.Classify(ctx, image)
	if err != nil {
		t.Fatalf("Classify() failed: %v", err)
	}
	if again[0].Label == "mutated" {
		t.Error("Mutation through the returned slice reached the profile table")
	}
}
