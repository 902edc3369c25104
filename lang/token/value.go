package token

// Value carries the attributes of a scanned token: its source position and,
// for literal tokens, the decoded payload.
type Value struct {
	Pos   Pos
	Raw   string // exact source text of the token
	Int   int64
	Float float64
	// String holds the decoded value for STRING and CHAR tokens (escapes
	// already processed); Raw retains the original quoted spelling.
	String string
}

// Literal returns the raw source text of an IDENT, INT, FLOAT, STRING or
// CHAR token, and the empty string for every other token.
func (tok Token) Literal(val Value) string {
	switch tok {
	case IDENT, INT, FLOAT, STRING, CHAR:
		return val.Raw
	}
	return ""
}
