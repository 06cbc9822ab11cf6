package httputil

import "io"

// ProgressReader reports how much of a body has been read as a percentage
// in [0, 100]. It calls fn only when the whole-number percentage changes.
// When the total is unknown no intermediate progress is reported, and 100
// is reported at EOF.
type ProgressReader struct {
	r     io.Reader
	total int64
	read  int64
	last  int
	fn    func(pct int)
}

// NewProgressReader wraps r. total is the expected size, or a value <= 0
// when unknown. A nil fn disables reporting.
func NewProgressReader(r io.Reader, total int64, fn func(pct int)) *ProgressReader {
	return &ProgressReader{r: r, total: total, last: -1, fn: fn}
}

func (p *ProgressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if p.total > 0 {
		p.report(int(min(p.read*100/p.total, 100)))
	}
	if err == io.EOF {
		p.report(100)
	}
	return n, err
}

func (p *ProgressReader) report(pct int) {
	if p.fn == nil || pct == p.last {
		return
	}
	p.last = pct
	p.fn(pct)
}
