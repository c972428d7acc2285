package words

import "testing"

func TestNextDrawsFromVocabulary(t *testing.T) {
	src := NewSource()
	known := make(map[string]bool, len(vocabulary))
	for _, w := range vocabulary {
		known[w] = true
	}

	for i := 0; i < 200; i++ {
		w := src.Next()
		if !known[w] {
			t.Fatalf("Next() returned %q, not in vocabulary", w)
		}
	}
}

func TestVocabularySize(t *testing.T) {
	if len(vocabulary) < 30 {
		t.Errorf("vocabulary has %d words, want at least 30", len(vocabulary))
	}
}

func TestVocabularyReturnsCopy(t *testing.T) {
	v := Vocabulary()
	v[0] = "mutated"
	if vocabulary[0] == "mutated" {
		t.Error("Vocabulary() exposed the internal slice")
	}
}
