package memory

import (
	"context"
	"testing"
)

func TestStaticSeedLoaderReturnsCopies(t *testing.T) {
	loader := NewStaticSeedLoader(DemoSeed())

	first, err := loader.LoadSeed(context.Background())
	if err != nil {
		t.Fatalf("load seed: %v", err)
	}
	if len(first.Students) != 5 || len(first.Quests) != 3 {
		t.Fatalf("expected 5 students and 3 quests, got %d/%d", len(first.Students), len(first.Quests))
	}

	*first.Students[0].FinalGPA = 0
	first.Quests[0].Title = "changed"

	second, _ := loader.LoadSeed(context.Background())
	if *second.Students[0].FinalGPA != 85 {
		t.Fatalf("seed mutated through a previous load: %v", *second.Students[0].FinalGPA)
	}
	if second.Quests[0].Title != "Math Worksheet" {
		t.Fatalf("quest mutated through a previous load: %q", second.Quests[0].Title)
	}
}
