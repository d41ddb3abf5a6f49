package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var roomRe = regexp.MustCompile(`^([A-Za-z]+\d*)?[-\s]?(\d{1,4})$`)

// ParsedRoomNumber holds the structured data parsed from a room number label.
type ParsedRoomNumber struct {
	Block string
	Floor int
	Seq   int
}

// ParseRoomNumber extracts block, floor, and sequence from a room number such
// as "B2-304" (block B2, floor 3, room 04), "A-101", or "207". With three or
// more digits the leading digits are the floor and the last two the sequence;
// with one or two digits the floor is taken as ground (0).
func ParseRoomNumber(raw string) (ParsedRoomNumber, error) {
	s := strings.TrimSpace(raw)
	m := roomRe.FindStringSubmatch(s)
	if m == nil {
		return ParsedRoomNumber{}, fmt.Errorf("unable to parse room number: %q", raw)
	}

	p := ParsedRoomNumber{Block: strings.ToUpper(m[1])}

	digits := m[2]
	if len(digits) > 2 {
		floor, err := strconv.Atoi(digits[:len(digits)-2])
		if err != nil {
			return ParsedRoomNumber{}, fmt.Errorf("unable to parse floor from %q", raw)
		}
		seq, err := strconv.Atoi(digits[len(digits)-2:])
		if err != nil {
			return ParsedRoomNumber{}, fmt.Errorf("unable to parse sequence from %q", raw)
		}
		p.Floor = floor
		p.Seq = seq
		return p, nil
	}

	seq, err := strconv.Atoi(digits)
	if err != nil {
		return ParsedRoomNumber{}, fmt.Errorf("unable to parse sequence from %q", raw)
	}
	p.Seq = seq
	return p, nil
}
