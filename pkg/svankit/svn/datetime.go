package svn

// DecodeDate unpacks the bit-packed recording date word.
// Layout: bits 0-4 day, bits 5-8 month, bits 9-15 year offset from 2000.
func DecodeDate(v uint16) (day, month, year int) {
	day = int(v & 0x001F)
	month = int((v >> 5) & 0x000F)
	year = int((v>>9)&0x007F) + 2000
	return day, month, year
}

// DecodeTime unpacks the recording time word, a count of 2-second ticks
// from local midnight. No timezone is encoded.
func DecodeTime(v uint16) (hour, minute, second int) {
	second = int(v%30) * 2
	minute = int(v/30) % 60
	hour = int(v / 1800)
	return hour, minute, second
}
