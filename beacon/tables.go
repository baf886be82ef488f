package beacon

// JT4SyncVector and PI4SyncVector are the wire-observable sync sequences
// searched for at end-of-minute.
var JT4SyncVector = [207]uint8{
	0, 0, 0, 0, 1, 1, 0, 0, 0, 1, 1, 0, 1, 1, 0, 0, 1, 0, 1, 0, 0, 0,
	0, 0, 0, 0, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 1, 1,
	0, 1, 1, 0, 1, 0, 1, 1, 1, 1, 1, 0, 1, 0, 0, 0, 1, 0, 0, 1, 0, 0,
	1, 1, 1, 1, 1, 0, 0, 0, 1, 0, 1, 0, 0, 0, 1, 1, 1, 1, 0, 1, 1, 0,
	0, 1, 0, 0, 0, 1, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 1, 1, 1, 1, 0,
	1, 0, 1, 0, 1, 1, 0, 1, 0, 1, 0, 1, 1, 1, 0, 0, 1, 0, 1, 1, 0, 1,
	1, 1, 1, 0, 0, 0, 0, 1, 1, 0, 1, 1, 0, 0, 0, 1, 1, 1, 0, 1, 1, 1,
	0, 1, 1, 1, 0, 0, 1, 0, 0, 0, 1, 1, 0, 1, 1, 0, 0, 1, 0, 0, 0, 1,
	1, 1, 1, 1, 1, 0, 0, 1, 1, 0, 0, 0, 0, 1, 1, 0, 0, 0, 1, 0, 1, 1,
	0, 1, 1, 1, 1, 0, 1, 0, 1,
}

// PI4SyncVector's reference initializer lists only 145 values for a
// 146-entry array; C zero-fills the remainder, so the trailing entry is 0.
var PI4SyncVector = [146]uint8{
	0, 0, 1, 0, 0, 1, 1, 1, 1, 0, 1, 0, 1, 0, 1, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 1, 0, 0, 1, 1, 1, 1, 0, 0, 1, 1, 1, 1, 1, 0, 0, 1, 1, 0, 1, 1, 1, 1, 0, 1, 0, 1, 1, 0, 1, 1, 0, 1, 0,
	0, 0, 0, 0, 1, 1, 1, 1, 1, 0, 1, 0, 1, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 0, 1, 0, 0, 1, 0, 0, 1, 0, 1, 0, 0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 0, 0, 0, 1, 1, 0, 0, 0, 0, 1, 1, 0, 0, 1, 1, 1,
	0, 1, 1, 1, 0, 1, 1, 0, 1, 0, 1, 0, 1, 0, 0, 0, 0, 1, 1, 1, 0, 0, 0, 0, 1,
	0,
}

// jt4DeInterleave and pi4DeInterleave map extracted-bit position i to its
// de-interleaved destination position. Wire-observable; must match the
// reference firmware exactly.
var jt4DeInterleave = [206]uint8{
	0x00, 0x67, 0x34, 0x9B, 0x1A, 0x81, 0x4E, 0xB5, 0x0D, 0x74, 0x41, 0xA8, 0x27, 0x8E, 0x5B, 0xC2,
	0x07, 0x6E, 0x3B, 0xA2, 0x21, 0x88, 0x55, 0xBC, 0x14, 0x7B, 0x48, 0xAF, 0x2E, 0x95, 0x61, 0xC8,
	0x04, 0x6B, 0x38, 0x9F, 0x1E, 0x85, 0x52, 0xB9, 0x11, 0x78, 0x45, 0xAC, 0x2B, 0x92, 0x5E, 0xC5,
	0x0A, 0x71, 0x3E, 0xA5, 0x24, 0x8B, 0x58, 0xBF, 0x17, 0x7E, 0x4B, 0xB2, 0x31, 0x98, 0x64, 0xCB,
	0x02, 0x69, 0x36, 0x9D, 0x1C, 0x83, 0x50, 0xB7, 0x0F, 0x76, 0x43, 0xAA, 0x29, 0x90, 0x5D, 0xC4,
	0x09, 0x70, 0x3D, 0xA4, 0x23, 0x8A, 0x57, 0xBE, 0x16, 0x7D, 0x4A, 0xB1, 0x30, 0x97, 0x63, 0xCA,
	0x06, 0x6D, 0x3A, 0xA1, 0x20, 0x87, 0x54, 0xBB, 0x13, 0x7A, 0x47, 0xAE, 0x2D, 0x94, 0x60, 0xC7,
	0x0C, 0x73, 0x40, 0xA7, 0x26, 0x8D, 0x5A, 0xC1, 0x19, 0x80, 0x4D, 0xB4, 0x33, 0x9A, 0x66, 0xCD,
	0x01, 0x68, 0x35, 0x9C, 0x1B, 0x82, 0x4F, 0xB6, 0x0E, 0x75, 0x42, 0xA9, 0x28, 0x8F, 0x5C, 0xC3,
	0x08, 0x6F, 0x3C, 0xA3, 0x22, 0x89, 0x56, 0xBD, 0x15, 0x7C, 0x49, 0xB0, 0x2F, 0x96, 0x62, 0xC9,
	0x05, 0x6C, 0x39, 0xA0, 0x1F, 0x86, 0x53, 0xBA, 0x12, 0x79, 0x46, 0xAD, 0x2C, 0x93, 0x5F, 0xC6,
	0x0B, 0x72, 0x3F, 0xA6, 0x25, 0x8C, 0x59, 0xC0, 0x18, 0x7F, 0x4C, 0xB3, 0x32, 0x99, 0x65, 0xCC,
	0x03, 0x6A, 0x37, 0x9E, 0x1D, 0x84, 0x51, 0xB8, 0x10, 0x77, 0x44, 0xAB, 0x2A, 0x91,
}

var pi4DeInterleave = [146]uint8{
	0, 73, 37, 110, 19, 92, 55, 128, 10, 83, 46, 119, 28, 101, 64, 137, 5, 78, 42, 115, 24, 97, 60, 133, 15, 88, 51, 124, 33, 106,
	69, 142, 3, 76, 40, 113, 22, 95, 58, 131, 13, 86, 49, 122, 31, 104, 67, 140, 8, 81, 44, 117, 26, 99, 62, 135, 17, 90, 53, 126,
	35, 108, 71, 144, 2, 75, 39, 112, 21, 94, 57, 130, 12, 85, 48, 121, 30, 103, 66, 139, 7, 80, 43, 116, 25, 98, 61, 134, 16, 89,
	52, 125, 34, 107, 70, 143, 4, 77, 41, 114, 23, 96, 59, 132, 14, 87, 50, 123, 32, 105, 68, 141, 9, 82, 45, 118, 27, 100, 63, 136,
	18, 91, 54, 127, 36, 109, 72, 145, 1, 74, 38, 111, 20, 93, 56, 129, 11, 84, 47, 120, 29, 102, 65, 138, 6, 79,
}
