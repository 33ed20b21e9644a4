package generator

import (
	"fmt"
	"math/rand"

	"github.com/Lumos-Labs-HQ/datasynth/internal/schema"
)

var (
	firstNames = []string{
		"John", "Jane", "Alice", "Bob", "Charlie", "Diana", "Eve", "Frank", "Grace", "Henry",
		"Ivy", "Jack", "Karen", "Leo", "Mia", "Noah", "Olivia", "Paul", "Quinn", "Rosa",
	}
	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez",
		"Lopez", "Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin", "Lee", "Walker",
	}
	titles = []string{
		"Getting Started with Go",
		"Understanding Databases",
		"Web Development Best Practices",
		"Introduction to APIs",
		"Modern Software Architecture",
		"Cloud Computing Basics",
		"Data Structures and Algorithms",
		"Machine Learning Fundamentals",
	}
	sentences = []string{
		"This is a sample text generated for testing purposes.",
		"Lorem ipsum dolor sit amet, consectetur adipiscing elit.",
		"The quick brown fox jumps over the lazy dog.",
		"Software development requires careful planning and execution.",
		"Database design is crucial for application performance.",
	}
	words   = []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta", "theta"}
	domains = []string{"example.com", "test.com", "demo.com", "mail.com"}
)

var (
	nameHints    = []string{"name", "full_name", "first_name", "last_name"}
	patternHints = []string{"email", "url", "phone", "address", "title", "sentence", "word"}
)

// Name draws person names from first/last name pools.
var Name = NewVariant("name",
	`string fields hinted "name", "full_name", "first_name" or "last_name"`,
	RankHinted,
	func(f schema.Field) bool { return f.Kind == schema.KindString && f.HasHint(nameHints...) },
	newName,
)

type nameGen struct {
	rng  *rand.Rand
	mode string
	len  lengths
}

func newName(f schema.Field, opts Options) (Generator, error) {
	l, err := lengthBounds(f, "name", 3, 40)
	if err != nil {
		return nil, err
	}
	mode, ok := f.FirstHint(nameHints...)
	if !ok {
		mode = "full_name"
	}
	return &nameGen{rng: opts.rng(), mode: mode, len: l}, nil
}

func (g *nameGen) Produce() any {
	first := firstNames[g.rng.Intn(len(firstNames))]
	last := lastNames[g.rng.Intn(len(lastNames))]
	switch g.mode {
	case "first_name":
		return g.len.fit(g.rng, first)
	case "last_name":
		return g.len.fit(g.rng, last)
	default:
		return g.len.fit(g.rng, first+" "+last)
	}
}

func (g *nameGen) Noise() any {
	return stringNoise(g.rng, g.len, true)
}

// Pattern draws strings shaped like emails, urls, phone numbers and the like.
var Pattern = NewVariant("pattern",
	`string fields hinted "email", "url", "phone", "address", "title", "sentence" or "word"`,
	RankHinted,
	func(f schema.Field) bool { return f.Kind == schema.KindString && f.HasHint(patternHints...) },
	newPattern,
)

type patternGen struct {
	rng     *rand.Rand
	pattern string
	len     lengths
	counter int
}

func newPattern(f schema.Field, opts Options) (Generator, error) {
	pattern, ok := f.FirstHint(patternHints...)
	if !ok {
		return nil, configErr(f, "pattern", "requires one of the hints %v", patternHints)
	}
	l, err := lengthBounds(f, "pattern", 0, 255)
	if err != nil {
		return nil, err
	}
	return &patternGen{rng: opts.rng(), pattern: pattern, len: l}, nil
}

func (g *patternGen) Produce() any {
	var s string
	switch g.pattern {
	case "email":
		s = g.email()
	case "url":
		s = fmt.Sprintf("https://example.com/page/%d", g.rng.Intn(1000))
	case "phone":
		s = fmt.Sprintf("+1-%03d-%03d-%04d", g.rng.Intn(1000), g.rng.Intn(1000), g.rng.Intn(10000))
	case "address":
		s = fmt.Sprintf("%d Main Street, City, State %05d", g.rng.Intn(9999)+1, g.rng.Intn(100000))
	case "title":
		s = titles[g.rng.Intn(len(titles))]
	case "sentence":
		s = sentences[g.rng.Intn(len(sentences))]
	default:
		s = words[g.rng.Intn(len(words))]
	}
	return g.len.fit(g.rng, s)
}

func (g *patternGen) email() string {
	g.counter++
	return fmt.Sprintf("user%d_%d@%s", g.counter, g.rng.Intn(100000), domains[g.rng.Intn(len(domains))])
}

func (g *patternGen) Noise() any {
	return stringNoise(g.rng, g.len, true)
}
