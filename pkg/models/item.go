package models

// Item is a single vocabulary entry. The answer string doubles as its identifier.
type Item struct {
	Answer  string `json:"answer" db:"answer"`
	Prompt  string `json:"text" db:"prompt"`
	Meaning string `json:"meaning,omitempty" db:"meaning"` // Optional gloss shown after answering
}

// Range is a named partition of the corpus (e.g. a chapter of a word book)
type Range struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Items []Item `json:"items"`
}
