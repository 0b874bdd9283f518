package fetch

// Progress receives pagination progress after each page.
type Progress interface {
	Update(done, total int)
}

type nopProgress struct{}

func (nopProgress) Update(int, int) {}

// Nop discards progress updates.
var Nop Progress = nopProgress{}
