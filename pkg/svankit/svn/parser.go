package svn

import (
	"fmt"
	"os"
)

const (
	stampSize   = 32     // opaque leading stamp
	trailerWord = 0xFFFF // mandatory closing word

	defaultChannels = 3
	defaultSamples  = 160
	defaultStepMs   = 100
)

// Logger is the subset of logging the decoder needs. Integrity warnings go
// through Warnf; record traversal through Debugf.
type Logger interface {
	Warnf(format string, args ...any)
	Debugf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Debugf(string, ...any) {}

// Parser decodes .svn export streams. A Parser holds no per-file state and
// may be reused; each Decode call returns a fresh DecodedFile.
type Parser struct {
	log      Logger
	channels int
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithChannels sets the channel count assumed during decoding. The stream
// itself never declares one; instruments with a different hardware layout
// need this override. Non-positive values are ignored.
func WithChannels(n int) ParserOption {
	return func(p *Parser) {
		if n > 0 {
			p.channels = n
		}
	}
}

// NewParser returns a Parser. A nil logger disables logging.
func NewParser(log Logger, opts ...ParserOption) *Parser {
	if log == nil {
		log = nopLogger{}
	}
	p := &Parser{log: log, channels: defaultChannels}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DecodeFile reads and decodes one export file.
func (p *Parser) DecodeFile(path string) (*DecodedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading svn file: %w", err)
	}
	return p.Decode(data)
}

// Decode decodes one export stream. On a malformed or missing trailer it
// returns the populated DecodedFile together with a *MalformedTrailerError;
// every other error aborts the decode and returns a nil file.
func (p *Parser) Decode(data []byte) (*DecodedFile, error) {
	c := newCursor(data)
	f := &DecodedFile{
		Channels: p.channels,
		Bands:    len(Frequencies),
		Totals:   TotalCount,
		Buffer:   BufferConfig{StepMs: defaultStepMs, Samples: defaultSamples},
	}

	if err := c.skip(stampSize); err != nil {
		return nil, fmt.Errorf("reading file stamp: %w", err)
	}

	for {
		tag, err := c.uint8()
		if err != nil {
			return nil, fmt.Errorf("reading record tag: %w", err)
		}
		declared, err := c.uint8()
		if err != nil {
			return nil, fmt.Errorf("reading record length: %w", err)
		}
		kind := RecordKind(tag)

		// Container records introduce nested headers that follow
		// immediately; their length field is not honored.
		if kind.isContainer() {
			if err := c.skip(2); err != nil {
				return nil, fmt.Errorf("skipping %s: %w", kind, err)
			}
			continue
		}

		// A zero length escapes to a 16-bit extended length word.
		length := int(declared)
		if length == 0 {
			ext, err := c.uint16()
			if err != nil {
				return nil, fmt.Errorf("reading extended length of %s: %w", kind, err)
			}
			length = int(ext) - 1
		}

		switch kind {
		case KindFileHeader:
			if err := p.decodeFileHeader(c, f); err != nil {
				return nil, err
			}
			continue
		case KindBufferHeader:
			if err := p.decodeBufferHeader(c, f, length); err != nil {
				return nil, err
			}
			continue
		}

		// Generic skip over the declared payload. For terminal records
		// the declared length covers only a sub-header, so their real
		// content starts right after this skip; that ordering is part
		// of the format and must stay.
		if err := c.skip(2 * (length - 1)); err != nil {
			return nil, fmt.Errorf("skipping %s: %w", kind, err)
		}

		if !kind.isTerminal() {
			p.log.Debugf("skipped %s (%d words)", kind, length-1)
			continue
		}

		switch kind {
		case KindStatisticalLevels:
			err = p.decodeMainResults(c, f)
		case KindSpectrumBufferHeader:
			err = p.decodeBufferContents(c, f)
		}
		if err != nil {
			return nil, err
		}
		break
	}

	tr, err := c.uint16()
	if err != nil {
		return f, &MalformedTrailerError{Truncated: true}
	}
	if tr != trailerWord {
		return f, &MalformedTrailerError{Got: tr}
	}
	f.TrailerOK = true
	return f, nil
}

// decodeFileHeader fills FileMetadata from the fixed-shape file header
// payload: name (8 code units), one skipped unit, date word, time word,
// associated name (8 code units).
func (p *Parser) decodeFileHeader(c *cursor, f *DecodedFile) error {
	meta := &FileMetadata{}

	name, err := c.utf16String(8)
	if err != nil {
		return fmt.Errorf("reading file name: %w", err)
	}
	meta.FileName = name

	if err := c.skip(2); err != nil {
		return fmt.Errorf("reading file header: %w", err)
	}

	date, err := c.uint16()
	if err != nil {
		return fmt.Errorf("reading date word: %w", err)
	}
	meta.Day, meta.Month, meta.Year = DecodeDate(date)

	tm, err := c.uint16()
	if err != nil {
		return fmt.Errorf("reading time word: %w", err)
	}
	meta.Hour, meta.Minute, meta.Second = DecodeTime(tm)

	assoc, err := c.utf16String(8)
	if err != nil {
		return fmt.Errorf("reading associated file name: %w", err)
	}
	meta.AssociatedFile = assoc

	f.Metadata = meta
	p.log.Debugf("file header: %q recorded %04d-%02d-%02d %02d:%02d:%02d",
		meta.FileName, meta.Year, meta.Month, meta.Day, meta.Hour, meta.Minute, meta.Second)
	return nil
}

// decodeBufferHeader reads the sample step and count; the rest of the
// record is padding.
func (p *Parser) decodeBufferHeader(c *cursor, f *DecodedFile, length int) error {
	if err := c.skip(4); err != nil {
		return fmt.Errorf("reading buffer header: %w", err)
	}
	step, err := c.int16()
	if err != nil {
		return fmt.Errorf("reading sample step: %w", err)
	}
	if err := c.skip(4); err != nil {
		return fmt.Errorf("reading buffer header: %w", err)
	}
	samples, err := c.int32()
	if err != nil {
		return fmt.Errorf("reading sample count: %w", err)
	}
	if samples < 0 {
		return fmt.Errorf("buffer header: negative sample count %d", samples)
	}
	if err := c.skip(2 * (length - 8)); err != nil {
		return fmt.Errorf("skipping buffer header tail: %w", err)
	}

	f.Buffer = BufferConfig{StepMs: int(step), Samples: int(samples)}
	p.log.Debugf("buffer header: step %dms, %d samples", step, samples)
	return nil
}

// decodeMainResults reads channelCount*2 sub-records of band levels. Two
// consecutive sub-records belong to one physical channel; only octave
// results contribute values, peak sub-records are read and discarded to
// keep the cursor in sync.
func (p *Parser) decodeMainResults(c *cursor, f *DecodedFile) error {
	f.Levels = make([][]float64, f.Channels)
	for i := range f.Levels {
		f.Levels[i] = []float64{}
	}

	for sub := 0; sub < f.Channels*2; sub++ {
		tag, err := c.uint8()
		if err != nil {
			return fmt.Errorf("reading results sub-tag: %w", err)
		}
		if err := c.skip(3); err != nil {
			return fmt.Errorf("reading results sub-header: %w", err)
		}
		bands, err := c.int16()
		if err != nil {
			return fmt.Errorf("reading band count: %w", err)
		}
		totals, err := c.int16()
		if err != nil {
			return fmt.Errorf("reading total count: %w", err)
		}
		if bands < 0 || totals < 0 {
			return fmt.Errorf("main results: invalid band/total counts %d/%d", bands, totals)
		}
		f.Bands, f.Totals = int(bands), int(totals)

		kind := RecordKind(tag)
		for i := 0; i < int(bands)+int(totals); i++ {
			raw, err := c.int16()
			if err != nil {
				return fmt.Errorf("reading %s value: %w", kind, err)
			}
			if kind == KindOctaveResults {
				f.Levels[sub/2] = append(f.Levels[sub/2], float64(raw)/100)
			}
		}
	}
	return nil
}

// decodeBufferContents reads the per-sample measurement matrix. Dimensions
// come from the buffer header (or its defaults) and the band/total counts
// known at this point in the stream.
func (p *Parser) decodeBufferContents(c *cursor, f *DecodedFile) error {
	values := f.Bands + f.Totals
	samples := f.Buffer.Samples

	// The sample count comes from the stream and bounds the matrix
	// allocation below, so verify the stream can actually hold that many
	// samples before trusting it. Each sample carries one leq word plus a
	// guard word and the value vector per channel.
	perSample := 2 * f.Channels * (2 + values)
	if perSample > 0 && samples > c.remaining()/perSample {
		return &TruncationError{Offset: c.off, Need: samples * perSample, Left: c.remaining()}
	}

	f.Sampled = make([][][]float64, f.Channels)
	f.Leq = make([][]float64, f.Channels)
	for ch := 0; ch < f.Channels; ch++ {
		f.Sampled[ch] = make([][]float64, values)
		for v := 0; v < values; v++ {
			f.Sampled[ch][v] = make([]float64, samples)
		}
		f.Leq[ch] = make([]float64, samples)
	}

	for s := 0; s < samples; s++ {
		for ch := 0; ch < f.Channels; ch++ {
			raw, err := c.int16()
			if err != nil {
				return fmt.Errorf("reading leq at sample %d: %w", s, err)
			}
			f.Leq[ch][s] = float64(raw) / 20
		}
		for ch := 0; ch < f.Channels; ch++ {
			guard, err := c.int16()
			if err != nil {
				return fmt.Errorf("reading guard word at sample %d: %w", s, err)
			}
			if guard != 0 {
				w := DataIntegrityWarning{Sample: s, Channel: ch, Got: guard}
				p.log.Warnf("buffer contents: %s", w)
				f.Warnings++
			}
			for v := 0; v < values; v++ {
				raw, err := c.int16()
				if err != nil {
					return fmt.Errorf("reading band value at sample %d: %w", s, err)
				}
				f.Sampled[ch][v][s] = float64(raw) / 10
			}
		}
	}
	return nil
}
