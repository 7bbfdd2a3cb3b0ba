package frame

import (
	"gofast-cache/internal/domain"
)

// Frame is the raw, structurally-valid wire unit: a header plus optional
// key and value payloads. It carries no opinion about which op code
// requires which payload — that semantic validation happens one layer up,
// in ToRequest/FromRequest and ToResponse/FromResponse.
type Frame struct {
	Header Header
	Key    []byte
	Value  []byte
}

// Encode serializes f. The returned slice's length always equals
// f.Header.TotalFrameLen.
func Encode(f Frame) []byte {
	buf := make([]byte, HeaderSize+len(f.Key)+len(f.Value))
	encodeHeader(buf, f.Header)
	n := copy(buf[HeaderSize:], f.Key)
	copy(buf[HeaderSize+n:], f.Value)
	return buf
}

// Decode attempts to parse one frame from the head of buf. isResponse
// selects whether byte 1 of the header is validated as a status code
// (response) or ignored as padding (request).
//
// Three outcomes: a complete Frame and the number of bytes it consumed; a
// domain.ErrIncomplete error when buf does not yet hold a full frame (the
// caller should read more and retry); or a hard structural error, in which
// case the connection must be closed.
func Decode(buf []byte, isResponse bool) (Frame, int, error) {
	if len(buf) < HeaderSize {
		return Frame{}, 0, domain.ErrIncomplete
	}

	// Buffer-sufficiency is checked before any field is given semantic
	// validation: a frame whose header happens to carry a bad op-code or
	// status byte but whose payload hasn't fully arrived yet must still
	// wait for more bytes rather than fail early.
	total := int(peekTotalFrameLen(buf))
	if total < HeaderSize {
		return Frame{}, 0, domain.ErrInvalidOpCode
	}
	if len(buf) < total {
		return Frame{}, 0, domain.ErrIncomplete
	}

	h, err := decodeHeader(buf)
	if err != nil {
		return Frame{}, 0, err
	}
	if isResponse {
		if _, err := domain.ParseStatusCode(h.StatusOrPadding); err != nil {
			return Frame{}, 0, err
		}
	}

	keyLen := int(h.KeyLength)
	valueLen := total - HeaderSize - keyLen
	if valueLen < 0 {
		return Frame{}, 0, domain.ErrValueTooLong
	}
	if keyLen > domain.MaxKeyLength {
		return Frame{}, 0, domain.ErrKeyTooLong
	}
	if valueLen > domain.MaxValueLength {
		return Frame{}, 0, domain.ErrValueTooLong
	}

	key := buf[HeaderSize : HeaderSize+keyLen]
	value := buf[HeaderSize+keyLen : total]

	return Frame{
		Header: h,
		Key:    append([]byte(nil), key...),
		Value:  append([]byte(nil), value...),
	}, total, nil
}
