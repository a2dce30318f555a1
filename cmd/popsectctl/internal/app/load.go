package app

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/cristaloleg/popsect/bitset"
)

// loadBundle reads one vector per line, each a whitespace-separated list of
// hex-encoded 64-bit words (low word first). All lines must decode to the
// same word count; that count becomes the bundle's WordsPerVector.
func loadBundle(path string) (bitset.Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return bitset.Bundle{}, errors.Wrap(err, "open")
	}
	defer f.Close()

	var words []uint64
	wordsPerVector := -1
	nVectors := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if wordsPerVector == -1 {
			wordsPerVector = len(fields)
		} else if len(fields) != wordsPerVector {
			return bitset.Bundle{}, errors.Errorf("line %d: got %d words, expected %d", nVectors+1, len(fields), wordsPerVector)
		}
		for _, field := range fields {
			w, err := strconv.ParseUint(field, 16, 64)
			if err != nil {
				return bitset.Bundle{}, errors.Wrapf(err, "line %d: parsing word %q", nVectors+1, field)
			}
			words = append(words, w)
		}
		nVectors++
	}
	if err := scanner.Err(); err != nil {
		return bitset.Bundle{}, errors.Wrap(err, "scanning")
	}
	if wordsPerVector == -1 {
		wordsPerVector = 0
	}

	return bitset.NewBundle(words, nVectors, wordsPerVector), nil
}
