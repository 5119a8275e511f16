/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2022 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

package duration

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// unit is checked longest-prefix-first so "ms" is not swallowed by "m"
// and "µs"/"μs" are not swallowed by "s".
var unitScale = []struct {
	suffix string
	nanos  float64
}{
	{"µs", 1e3},
	{"μs", 1e3},
	{"ns", 1},
	{"us", 1e3},
	{"ms", 1e6},
	{"h", 3600e9},
	{"m", 60e9},
	{"s", 1e9},
	{"d", 86400e9},
}

func parseString(s string) (Duration, error) {
	s = strings.Replace(s, "\"", "", -1)
	s = strings.Replace(s, "'", "", -1)
	s = strings.Replace(s, " ", "", -1)

	if s == "" {
		return 0, errors.New("duration: invalid duration \"\"")
	}

	orig := s
	neg := false

	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		neg = true
		s = s[1:]
	}

	if s == "0" {
		return 0, nil
	}

	if s == "" {
		return 0, errors.New("duration: invalid duration \"" + orig + "\"")
	}

	var total float64

	for s != "" {
		i := 0
		for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
			i++
		}
		if i == 0 {
			return 0, errors.New("duration: invalid duration \"" + orig + "\"")
		}

		v, err := strconv.ParseFloat(s[:i], 64)
		if err != nil {
			return 0, errors.New("duration: invalid duration \"" + orig + "\"")
		}
		s = s[i:]

		var matched bool
		for _, u := range unitScale {
			if strings.HasPrefix(s, u.suffix) {
				total += v * u.nanos
				s = s[len(u.suffix):]
				matched = true
				break
			}
		}
		if !matched {
			return 0, errors.New("duration: unknown unit in duration \"" + orig + "\"")
		}
	}

	if neg {
		total = -total
	}

	if total > math.MaxInt64 || total < -math.MaxInt64 {
		return 0, errors.New("duration: invalid duration \"" + orig + "\" (overflow)")
	}

	return Duration(int64(math.Round(total))), nil
}

func (d *Duration) parseString(s string) error {
	if v, e := parseString(s); e != nil {
		return e
	} else {
		*d = v
		return nil
	}
}

func (d *Duration) unmarshall(val []byte) error {
	if tmp, err := ParseByte(val); err != nil {
		return err
	} else {
		*d = tmp
		return nil
	}
}
