// Package codec decodes the CIV7 save file binary format.
//
// The format has no published grammar; the layout below was reverse
// engineered from sample saves.
//
// File:
//
//	[magic:4 "CIV7"][?:4][count1:4][group1 records]
//	[?:8][count2:4][group2 records]
//	[?:4][count3:4][group3 records]
//	[?:16][count4:4][group4 records]
//	[count5:4][group5 records]
//
// Record:
//
//	[marker:4][type:4][common:4][payload...]
//
// The payload shape depends on the type tag:
//
//	1, 12        12 opaque bytes
//	9            [count:2][?:6][count*4 bytes]
//	10, 11, 17   [count:2][?:2][4+count*8 opaque bytes]
//	8            [?:8][value:4]
//	2            [n:2][?:6][n bytes, last is a terminator]
//	3            [n:2][?:6][n UTF-16LE units, last is a terminator]
//	29           [?:8][count:4][count records]
//	30           [?:8][count:4] count x ([?:16][n:4][n records])
//	32           [?:4][n:4][n bytes]
//
// All integers are little-endian. Any other type tag, or any read past the
// end of the buffer, fails the whole decode.
package codec
