// Package frame implements the wire codec: the 23-byte header shared by
// request and response frames, and the encode/decode pair that turns bytes
// on a TCP stream into Frame values and back, tolerating arbitrary
// fragmentation.
package frame

import (
	"encoding/binary"

	"gofast-cache/internal/domain"
)

// HeaderSize is the fixed header length in bytes, shared by every frame.
const HeaderSize = 23

const (
	offsetOpCode  = 0
	offsetStatus  = 1
	offsetKeyLen  = 2
	offsetTTL     = 3
	offsetTTLEnd  = offsetTTL + 16
	offsetTotalLn = 19
)

// Header is the parsed 23-byte frame header. StatusOrPadding holds the
// status byte on a response frame and is ignored (written as 0) on a
// request frame; the field is kept untyped here because validity depends
// on which frame kind is being decoded.
type Header struct {
	OpCode          domain.OpCode
	StatusOrPadding byte
	KeyLength       uint8
	TTL             domain.TTL
	TotalFrameLen   uint32
}

// putTTL writes a domain.TTL as a 16-byte big-endian unsigned integer. TTL
// values are milliseconds since the Unix epoch and fit in the low 8 bytes
// for roughly 584 million years after 1970, so the high 8 bytes are always
// zero on the wire.
func putTTL(dst []byte, t domain.TTL) {
	binary.BigEndian.PutUint64(dst[0:8], 0)
	binary.BigEndian.PutUint64(dst[8:16], uint64(t))
}

func getTTL(src []byte) domain.TTL {
	return domain.TTL(binary.BigEndian.Uint64(src[8:16]))
}

// encodeHeader writes a header in place at the start of dst. dst must be at
// least HeaderSize bytes.
func encodeHeader(dst []byte, h Header) {
	dst[offsetOpCode] = byte(h.OpCode)
	dst[offsetStatus] = h.StatusOrPadding
	dst[offsetKeyLen] = h.KeyLength
	putTTL(dst[offsetTTL:offsetTTLEnd], h.TTL)
	binary.BigEndian.PutUint32(dst[offsetTotalLn:offsetTotalLn+4], h.TotalFrameLen)
}

// peekTotalFrameLen reads the total_frame_length field without validating
// the rest of the header, so Decode can check the frame is fully buffered
// before it has any business rejecting an op-code or status byte that
// might belong to a frame still in flight.
func peekTotalFrameLen(src []byte) uint32 {
	return binary.BigEndian.Uint32(src[offsetTotalLn : offsetTotalLn+4])
}

// decodeHeader parses a header from the first HeaderSize bytes of src.
// Callers must ensure len(src) >= HeaderSize.
func decodeHeader(src []byte) (Header, error) {
	op, err := domain.ParseOpCode(src[offsetOpCode])
	if err != nil {
		return Header{}, err
	}
	return Header{
		OpCode:          op,
		StatusOrPadding: src[offsetStatus],
		KeyLength:       src[offsetKeyLen],
		TTL:             getTTL(src[offsetTTL:offsetTTLEnd]),
		TotalFrameLen:   binary.BigEndian.Uint32(src[offsetTotalLn : offsetTotalLn+4]),
	}, nil
}
