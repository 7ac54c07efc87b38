package svn

import "fmt"

// RecordKind identifies a record by its one-byte tag. The set of known
// values below was recovered from instrument exports; anything else is
// opaque and only has to be skippable.
type RecordKind uint8

const (
	KindFileHeader           RecordKind = 0x01
	KindUnitHeader           RecordKind = 0x02
	KindUserText             RecordKind = 0x03
	KindGlobalSettings       RecordKind = 0x04
	KindHardwareChannels     RecordKind = 0x05
	KindSoftwareChannels     RecordKind = 0x07
	KindProfileSettings      RecordKind = 0x08
	KindOctaveSettings       RecordKind = 0x09
	KindChannelOctaves       RecordKind = 0x0A
	KindMainResults          RecordKind = 0x0D
	KindSLMResults           RecordKind = 0x0E
	KindOctaveResults        RecordKind = 0x10 // sub-record inside statistical levels
	KindBufferHeader         RecordKind = 0x18
	KindStatisticalLevels    RecordKind = 0x19 // terminal
	KindVectorSettings       RecordKind = 0x1E
	KindSpectrumBufferHeader RecordKind = 0x21 // terminal
	KindTriggerEvents        RecordKind = 0x31
	KindCrossSpectrum        RecordKind = 0x34
	KindOctavePeakResults    RecordKind = 0x39 // sub-record, parsed but discarded
)

var kindNames = map[RecordKind]string{
	KindFileHeader:           "file header",
	KindUnitHeader:           "unit header",
	KindUserText:             "user text",
	KindGlobalSettings:       "global settings",
	KindHardwareChannels:     "channel settings (hardware)",
	KindSoftwareChannels:     "channel settings (software)",
	KindProfileSettings:      "profile settings",
	KindOctaveSettings:       "octaves settings",
	KindChannelOctaves:       "octaves settings in channels",
	KindMainResults:          "main results",
	KindSLMResults:           "slm/vlm results",
	KindOctaveResults:        "octave results",
	KindBufferHeader:         "buffer header",
	KindStatisticalLevels:    "statistical levels",
	KindVectorSettings:       "vector settings",
	KindSpectrumBufferHeader: "spectrum buffer header",
	KindTriggerEvents:        "trigger event settings",
	KindCrossSpectrum:        "cross spectrum settings",
	KindOctavePeakResults:    "octave results (peak)",
}

func (k RecordKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("unknown record 0x%02X", uint8(k))
}

// isContainer reports whether the record only introduces nested headers that
// follow immediately. Container records carry no honored length field; the
// loop skips a fixed 2 bytes for them.
func (k RecordKind) isContainer() bool {
	return k == KindSoftwareChannels || k == KindOctaveSettings || k == KindSLMResults
}

// isTerminal reports whether the record ends the per-file decode loop.
func (k RecordKind) isTerminal() bool {
	return k == KindStatisticalLevels || k == KindSpectrumBufferHeader
}
