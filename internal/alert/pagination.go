package alert

// DefaultWindowSize is the number of page buttons shown at once.
const DefaultWindowSize = 5

// Window is the range of page numbers shown by the page control.
type Window struct {
	Start int
	End   int
	Size  int
}

// PageWindow computes the sliding window containing page. End is below Start
// when there are no pages.
func PageWindow(page, totalPages, size int) Window {
	if size < 1 {
		size = DefaultWindowSize
	}
	if page < 1 {
		page = 1
	}
	start := ((page-1)/size)*size + 1
	end := start + size - 1
	if end > totalPages {
		end = totalPages
	}
	return Window{Start: start, End: end, Size: size}
}

// Pages lists the page numbers in the window.
func (w Window) Pages() []int {
	if w.End < w.Start {
		return nil
	}
	pages := make([]int, 0, w.End-w.Start+1)
	for p := w.Start; p <= w.End; p++ {
		pages = append(pages, p)
	}
	return pages
}

// Previous is the page the "previous window" control targets.
func (w Window) Previous() int { return w.Start - w.Size }

// Next is the page the "next window" control targets.
func (w Window) Next() int { return w.End + 1 }

// InRange reports whether page can be navigated to.
func InRange(page, totalPages int) bool {
	return page >= 1 && page <= totalPages
}
