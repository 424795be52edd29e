package entity

// Mark is the content of a single board cell.
type Mark string

const (
	EmptyCell Mark = ""
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
)

const BoardSize = 9

// WinCombos - the eight winning lines, checked in this order.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

type Board [BoardSize]Mark

// Opponent returns the mark that plays after m.
func (m Mark) Opponent() Mark {
	if m == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func (m Mark) IsPlayer() bool {
	return m == PlayerX || m == PlayerO
}

func (that *Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

func (that *Board) IsEmpty() bool {
	for _, cell := range that {
		if cell != EmptyCell {
			return false
		}
	}

	return true
}

// Filled returns the number of occupied cells.
func (that *Board) Filled() int {
	n := 0
	for _, cell := range that {
		if cell != EmptyCell {
			n++
		}
	}

	return n
}

// IsValidCell reports whether cell addresses the board.
func IsValidCell(cell int) bool {
	return cell >= 0 && cell < BoardSize
}
