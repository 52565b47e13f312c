package bible

import "errors"

var ErrUnknownBook = errors.New("unknown book")

// Reference validates book/chapter pairs and reports chapter counts.
// The stats engine only ever talks to this interface; the canonical table
// below is the default implementation.
type Reference interface {
	ValidateBookID(id int) bool
	ChapterCount(id int) (int, error)
}

// Canon is the 66-book Protestant canon, book ids 1 (Genesis) through
// 66 (Revelation).
type Canon struct{}

var chapterCounts = [66]int{
	50, 40, 27, 36, 34, 24, 21, 4, 31, 24, // Genesis..2 Samuel
	22, 25, 29, 36, 10, 13, 10, 42, 150, 31, // 1 Kings..Proverbs
	12, 8, 66, 52, 5, 48, 12, 14, 3, 9, // Ecclesiastes..Amos
	1, 4, 7, 3, 3, 3, 2, 14, 4, 28, // Obadiah..Matthew
	16, 24, 21, 28, 16, 16, 13, 6, 6, 4, // Mark..Philippians
	4, 5, 3, 6, 4, 3, 1, 13, 5, 5, // Colossians..1 Peter
	3, 5, 1, 1, 1, 22, // 2 Peter..Revelation
}

func (Canon) ValidateBookID(id int) bool {
	return id >= 1 && id <= len(chapterCounts)
}

func (c Canon) ChapterCount(id int) (int, error) {
	if !c.ValidateBookID(id) {
		return 0, ErrUnknownBook
	}
	return chapterCounts[id-1], nil
}
