package words

import "math/rand"

// Source supplies the secret word for each round. Implementations must be
// safe for concurrent use; no ordering is guaranteed between calls.
type Source interface {
	Next() string
}

// vocabulary is the built-in word bank. Picks are uniform with replacement.
var vocabulary = []string{
	"apple", "banana", "cat", "dog", "elephant", "fish", "giraffe", "house",
	"island", "jacket", "king", "lion", "mountain", "notebook", "orange",
	"penguin", "queen", "robot", "sun", "tree", "umbrella", "violin",
	"watermelon", "xylophone", "yacht", "zebra", "airplane", "beach",
	"castle", "dolphin", "eagle", "forest", "guitar", "hamburger", "igloo",
}

type randomSource struct {
	list []string
}

// NewSource returns a Source backed by the built-in vocabulary.
func NewSource() Source {
	return &randomSource{list: vocabulary}
}

func (s *randomSource) Next() string {
	return s.list[rand.Intn(len(s.list))]
}

// Vocabulary returns a copy of the built-in word bank.
func Vocabulary() []string {
	out := make([]string, len(vocabulary))
	copy(out, vocabulary)
	return out
}
