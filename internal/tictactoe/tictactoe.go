package tictactoe

// Marks used on the board. An empty string is a free cell.
const (
	MarkX = "X"
	MarkO = "O"

	EmptyCell = ""
)

// WinCombos are the 8 winning triples: 3 rows, 3 columns, 2 diagonals.
var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// CheckWinner returns the winning mark if any triple is uniformly non-empty,
// otherwise EmptyCell.
func CheckWinner(board [9]string) string {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return a
		}
	}

	return EmptyCell
}

// IsDraw reports whether every cell is occupied. A full board with a winning
// line is a win, not a draw: callers must check CheckWinner first.
func IsDraw(board [9]string) bool {
	for _, cell := range board {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}
