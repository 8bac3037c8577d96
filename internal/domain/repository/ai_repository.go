package repository

import "context"

// Assistant flow'dan tashqaridagi erkin matnga qisqa FAQ javobini beradi.
// Bo'sh javob "javob yo'q" degani; chaqiruvchi jim qoladi.
type Assistant interface {
	Answer(ctx context.Context, userID int64, text string) (string, error)
}
