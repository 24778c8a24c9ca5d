package feed

import (
	"bytes"
)

// readField returns the field before the next ';' and the rest of the record.
func readField(data []byte) ([]byte, []byte) {
	i := bytes.IndexByte(data, ';')
	if i < 0 {
		return data, nil
	}
	return data[:i], data[i+1:]
}

// readUint parses unsigned decimal integer.
func readUint(data []byte) (uint64, bool) {
	if len(data) == 0 || len(data) > 20 {
		return 0, false
	}
	var v uint64
	for _, c := range data {
		d := c - '0'
		if d > 9 {
			return 0, false
		}
		if v > (1<<64-1-uint64(d))/10 {
			return 0, false
		}
		v = v*10 + uint64(d)
	}
	return v, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
