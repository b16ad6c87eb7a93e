package vdisk

func minByte(a, b Byte) Byte {
	if a < b {
		return a
	}
	return b
}

func maxByte(a, b Byte) Byte {
	if a > b {
		return a
	}
	return b
}
