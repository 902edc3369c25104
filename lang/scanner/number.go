package scanner

import "github.com/mna/zero/lang/token"

// number scans a decimal integer or float literal, with an optional
// fractional part (only consumed when the dot is followed by a digit, so
// that "1..5" tokenizes as INT, DOTDOT, INT) and an optional scientific
// exponent. The classification into INT vs FLOAT mirrors the scientific
// notation analysis described for the language: a literal with no
// fractional part and a non-negative exponent small enough that the
// resulting value still fits an int64 is an INT; anything with a
// fractional part, a negative exponent, or too large an exponent is a
// FLOAT.
func (s *Scanner) number() (tok token.Token, lit string) {
	start := s.off
	tok = token.INT

	s.digits()

	isFloat := false
	if s.cur == '.' && isDecimal(rune(s.peek())) {
		isFloat = true
		s.advance()
		s.digits()
	}

	expNegative := false
	hasExp := false
	expVal := 0
	if s.cur == 'e' || s.cur == 'E' {
		hasExp = true
		expStart := s.roff
		s.advance()
		if s.cur == '+' || s.cur == '-' {
			expNegative = s.cur == '-'
			s.advance()
		}
		if !isDecimal(s.cur) {
			s.error(expStart, "exponent has no digits")
		}
		digitsOff := s.off
		s.digits()
		for _, b := range s.src[digitsOff:s.off] {
			if expVal <= 18 {
				expVal = expVal*10 + int(b-'0')
			}
		}
	}

	lit = string(s.src[start:s.off])
	if isFloat || hasExp && (expNegative || expVal > 18) {
		tok = token.FLOAT
	}
	return tok, lit
}

// digits consumes a run of decimal digits.
func (s *Scanner) digits() {
	for isDecimal(s.cur) {
		s.advance()
	}
}

// digitsCount consumes a run of decimal digits and returns how many were
// consumed.
func (s *Scanner) digitsCount() int {
	n := 0
	for isDecimal(s.cur) {
		n++
		s.advance()
	}
	return n
}

func isDecimal(rn rune) bool {
	return '0' <= rn && rn <= '9'
}

func isHexadecimal(rn rune) bool {
	return isDecimal(rn) || 'a' <= rn && rn <= 'f' || 'A' <= rn && rn <= 'F'
}
