package model

// Row is an ordered run of keys, left to right. It owns its keys.
type Row struct {
	keys *List[*Key]

	X, Y int

	height    int
	width     int
	baseWidth int
}

func NewRow() *Row {
	return &Row{keys: NewList[*Key]()}
}

// AppendKey adds a key to the right end of the row and takes ownership of it.
func (r *Row) AppendKey(k *Key) {
	k.row = r
	r.keys.Append(k)
}

func (r *Row) Keys() *List[*Key] {
	return r.keys
}

func (r *Row) Height() int { return r.height }

// Width is the row width after fill keys were expanded.
func (r *Row) Width() int { return r.width }

// BaseWidth is the row width before fill keys were expanded.
func (r *Row) BaseWidth() int { return r.baseWidth }

// SetSize records the computed row dimensions.
func (r *Row) SetSize(width, baseWidth, height int) {
	r.width, r.baseWidth, r.height = width, baseWidth, height
}

// Layout is a complete named arrangement of rows for one locale or variant.
type Layout struct {
	ID   string
	rows *List[*Row]

	width, height int
}

func NewLayout(id string) *Layout {
	return &Layout{ID: id, rows: NewList[*Row]()}
}

func (l *Layout) AppendRow(r *Row) {
	l.rows.Append(r)
}

func (l *Layout) Rows() *List[*Row] {
	return l.rows
}

func (l *Layout) Width() int  { return l.width }
func (l *Layout) Height() int { return l.height }

func (l *Layout) SetSize(width, height int) {
	l.width, l.height = width, height
}

// KeyCount counts every key of every row, blank and extended ones included.
func (l *Layout) KeyCount() int {
	n := 0

	for _, r := range l.rows.All() {
		n += r.Keys().Len()
	}

	return n
}
