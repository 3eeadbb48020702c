package playback

import "unicode/utf8"

// decoder turns raw stream bytes into runes, tolerating multi-byte UTF-8
// sequences split across fragments: an incomplete trailing sequence is
// carried over until the next fragment completes it.
type decoder struct {
	carry []byte
}

func (d *decoder) decode(p []byte) []rune {
	b := p
	if len(d.carry) > 0 {
		b = append(d.carry, p...)
		d.carry = nil
	}

	var runes []rune
	for len(b) > 0 {
		if !utf8.FullRune(b) {
			// Trailing bytes of a rune whose remainder has not arrived yet.
			d.carry = append(d.carry, b...)
			break
		}
		r, size := utf8.DecodeRune(b)
		runes = append(runes, r)
		b = b[size:]
	}
	return runes
}

// flush drains the carry at end-of-stream. A dangling partial sequence
// means the response was cut mid-character; it surfaces as one
// replacement rune rather than disappearing silently.
func (d *decoder) flush() []rune {
	if len(d.carry) == 0 {
		return nil
	}
	d.carry = nil
	return []rune{utf8.RuneError}
}
