package field

import (
	"bytes"
	"errors"
	"io"
	"strings"
)

const (
	DefaultFoldIndent          = " "  // indent placed before folded lines
	DefaultPreferredFoldLength = 80   // we prefer header lines shorter than this
	DefaultForcedFoldLength    = 1000 // we forceably break header lines longer than this

	DoNotFold = -1 // we prefer not to fold at all

	// DefaultSplitChars are the characters a header body prefers to be folded
	// at. A fold at a space happens before the space; a fold at any other
	// split character happens after it.
	DefaultSplitChars = " ;,"
)

var (
	// DefaultFoldEncoding creates a new FoldEncoding using default settings. This
	// is the recommended way to create a FoldEncoding.
	DefaultFoldEncoding = &FoldEncoding{
		DefaultFoldIndent,
		DefaultPreferredFoldLength,
		DefaultForcedFoldLength,
	}

	// DoNotFoldEncoding is a FoldEncoding that doesn't perform folding.
	DoNotFoldEncoding = &FoldEncoding{
		DefaultFoldIndent,
		DoNotFold,
		DoNotFold,
	}
)

var (
	// ErrFoldIndentSpace is returned by NewFoldEncoding when a non-space/non-tab
	// character is put in the foldIndent setting.
	ErrFoldIndentSpace = errors.New("fold indent may only contains spaces and tabs")

	// ErrFoldIndentTooShort is returned by NewFoldEncoding when the foldIndent
	// is empty.
	ErrFoldIndentTooShort = errors.New("fold indent must contain at least one space or tab")

	// ErrFoldIndentTooLong is returned by NewFoldEncoding when the foldIndent
	// setting is equal to or longer than the preferredFoldLength.
	ErrFoldIndentTooLong = errors.New("fold indent must be shorter than the preferred fold length")

	// ErrFoldLengthTooLong is returned by NewFoldEncoding when the
	// preferredFoldLength is longer than the forcedFoldLength.
	ErrFoldLengthTooLong = errors.New("preferred fold length must be no longer than the forced fold length")

	// ErrFoldLengthTooShort is returned by NewFoldEncoding when the
	// forcedFoldLength is shorter than 3 bytes long.
	ErrFoldLengthTooShort = errors.New("preferred fold length and forced fold length cannot be too short")

	// ErrDoNotFold is returned by NewFoldEncoding when the preferredFoldLength
	// or forcedFoldLength are set to DoNotFold (-1), but both are not set that
	// way. You must set both to DoNotFold to prevent folding or neither to
	// DoNotFold.
	ErrDoNotFold = errors.New("preferred fold length and forced fold length must both be -1 if either are -1")
)

// FoldEncoding provides the tooling for folding email message headers.
type FoldEncoding struct {
	foldIndent          string
	preferredFoldLength int
	forcedFoldLength    int
}

// NewFoldEncoding creates a new FoldEncoding with the given settings. The
// foldIndent must be a string, filled with one or more space or tab characters,
// and it must be shorter than the preferredFoldLength. The preferredFoldLength
// must be equal to or less than forcedFoldLength. if any of the given inputs do
// not meet these requirements, an error will be returned.
//
// The fold encoding does not do anything special to ensure that no folding
// occurs before the colon even though that would be incorrect. It relies on the
// assumption that the fold lengths chosen will be wider than the longest field
// name. That should be enough to guarantee that field names never get folded.
func NewFoldEncoding(
	foldIndent string,
	preferredFoldLength,
	forcedFoldLength int,
) (*FoldEncoding, error) {
	if ix := strings.IndexFunc(foldIndent, func(c rune) bool { return !isSpace(c) }); ix >= 0 {
		return nil, ErrFoldIndentSpace
	}

	if len(foldIndent) < 1 {
		return nil, ErrFoldIndentTooShort
	}

	if (preferredFoldLength == DoNotFold && forcedFoldLength != DoNotFold) ||
		(forcedFoldLength == DoNotFold && preferredFoldLength != DoNotFold) {
		return nil, ErrDoNotFold
	}

	if preferredFoldLength != DoNotFold {
		if len(foldIndent) >= preferredFoldLength {
			return nil, ErrFoldIndentTooLong
		}

		if preferredFoldLength > forcedFoldLength {
			return nil, ErrFoldLengthTooLong
		}

		// Anything under 50 or so is silly, but we only stop it where the
		// folding code would choke.
		if preferredFoldLength < 3 || forcedFoldLength < 3 {
			return nil, ErrFoldLengthTooShort
		}
	}

	return &FoldEncoding{foldIndent, preferredFoldLength, forcedFoldLength}, nil
}

// PreferredFoldLength returns the line length the encoding tries to stay under.
func (vf *FoldEncoding) PreferredFoldLength() int {
	return vf.preferredFoldLength
}

// Unfold will take a folded header line from an email and unfold it for
// reading. This gives you the proper header body value.
func (vf *FoldEncoding) Unfold(f []byte) []byte {
	uf := make([]byte, 0, len(f))
	for _, b := range f {
		if !isCRLF(rune(b)) {
			uf = append(uf, b)
		}
	}
	return uf
}

func isCRLF(c rune) bool     { return c == '\r' || c == '\n' }
func isSpace(c rune) bool    { return c == ' ' || c == '\t' }
func isNonSpace(c rune) bool { return c != ' ' && c != '\t' }

// cutAt returns the position at which line may be cut for the split character
// found at ix, or -1 if a cut there would leave nothing useful on either side.
func cutAt(line []byte, start, ix int) int {
	cut := ix + 1
	if isSpace(rune(line[ix])) {
		// fold before the space so the space becomes the folding whitespace
		cut = ix
	}

	if cut <= start || cut >= len(line) {
		return -1
	}

	// a continuation line made only of whitespace is not allowed
	if bytes.IndexFunc(line[cut:], isNonSpace) < 0 {
		return -1
	}

	return cut
}

// lastCut finds the last usable cut in line[start:end].
func lastCut(line []byte, start, end int, splitChars string) int {
	if end > len(line) {
		end = len(line)
	}
	for ix := end - 1; ix >= start; ix-- {
		if strings.IndexByte(splitChars, line[ix]) < 0 {
			continue
		}
		if cut := cutAt(line, start, ix); cut >= 0 && cut <= end {
			return cut
		}
	}
	return -1
}

// firstCut finds the first usable cut at or after start.
func firstCut(line []byte, start int, splitChars string) int {
	for ix := start; ix < len(line); ix++ {
		if strings.IndexByte(splitChars, line[ix]) < 0 {
			continue
		}
		if cut := cutAt(line, start, ix); cut >= 0 {
			return cut
		}
	}
	return -1
}

// Fold will take an unfolded or perhaps partially folded header field line
// ("Name: body") and fold it, breaking only at spaces and tabs. See FoldSplit.
func (vf *FoldEncoding) Fold(out io.Writer, f []byte, lb Break) (int64, error) {
	return vf.FoldSplit(out, f, lb, " \t")
}

// FoldSplit will take an unfolded or perhaps partially folded header field line
// ("Name: body") and fold it. It prefers to break at the last split character
// that keeps the line shorter than the preferred fold length, then at the first
// split character after that, and only forces a break in the middle of text
// when a line would otherwise exceed the forced fold length.
//
// A break before a space keeps the space as folding whitespace, so unfolding
// the output returns the input. A break after any other split character is
// followed by the fold indent.
//
// Writes the folded output, terminated by lb, to the given io.Writer and
// returns the number of bytes written.
func (vf *FoldEncoding) FoldSplit(
	out io.Writer,
	f []byte,
	lb Break,
	splitChars string,
) (int64, error) {
	total := int64(0)
	continuingLine := false
	writeFold := func(f []byte, end int) ([]byte, error) {
		// only indent if there's no space already present at the break
		if continuingLine && !isSpace(rune(f[0])) {
			n, err := io.WriteString(out, vf.foldIndent)
			total += int64(n)
			if err != nil {
				return nil, err
			}
		}
		n, err := out.Write(f[:end])
		total += int64(n)
		if err != nil {
			return nil, err
		}

		n, err = io.WriteString(out, lb.String())
		total += int64(n)
		if err != nil {
			return nil, err
		}

		continuingLine = true
		return f[end:], nil
	}

	if len(f) < vf.preferredFoldLength || vf.preferredFoldLength == DoNotFold {
		_, err := writeFold(f, len(f))
		return total, err
	}

	lines := [][]byte{f}
	if lb != Meh {
		lines = bytes.Split(f, lb.Bytes())
	}

	for _, line := range lines {
		for len(line) > 0 {
			var err error

			// leave room for the indent we may have to add
			limit := vf.preferredFoldLength - 2
			if continuingLine && !isSpace(rune(line[0])) {
				limit -= len(vf.foldIndent)
			}

			if len(line) <= limit {
				line, err = writeFold(line, len(line))
				if err != nil {
					return total, err
				}
				continue
			}

			var firstChar int
			if continuingLine {
				firstChar = bytes.IndexFunc(line, isNonSpace)
			} else {
				// never fold inside the field name
				colon := bytes.IndexByte(line, ':')
				firstChar = bytes.IndexFunc(line[colon+1:], isNonSpace)
				if firstChar >= 0 {
					firstChar += colon + 1
				}
			}

			if firstChar < 0 {
				firstChar = 0
			}

			// best case, we find a split char in the first n-2 chars
			if cut := lastCut(line, firstChar, limit, splitChars); cut >= 0 {
				line, err = writeFold(line, cut)
				if err != nil {
					return total, err
				}
				continue
			}

			// barring that, try to find one after the n-2 char mark
			if cut := firstCut(line, firstChar, splitChars); cut >= 0 && cut < vf.forcedFoldLength-2 {
				line, err = writeFold(line, cut)
				if err != nil {
					return total, err
				}
				continue
			}

			// but if it's really long with no split char, force a break
			if len(line) > vf.forcedFoldLength-2 {
				line, err = writeFold(line, limit)
				if err != nil {
					return total, err
				}
				continue
			}

			// We're not forced to fold this line. Allow it to be longer than we
			// prefer.
			line, err = writeFold(line, len(line))
			if err != nil {
				return total, err
			}
		}
	}

	return total, nil
}
