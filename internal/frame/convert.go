package frame

import (
	"strings"

	"gofast-cache/internal/domain"
)

// lossyString mirrors Rust's String::from_utf8_lossy: invalid byte
// sequences are replaced with U+FFFD rather than rejected. Client input is
// untrusted, so the codec favors robustness over faithfully round-tripping
// non-UTF-8 payloads.
func lossyString(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}

// ToRequest validates a structurally-parsed Frame against the semantic
// rules for its op code and produces a domain.Request.
func ToRequest(f Frame) (domain.Request, error) {
	switch f.Header.OpCode {
	case domain.OpSet:
		if len(f.Key) == 0 {
			return domain.Request{}, domain.ErrKeyMissing
		}
		if len(f.Value) == 0 {
			return domain.Request{}, domain.ErrValueMissing
		}
		key, err := domain.ParseKey(lossyString(f.Key))
		if err != nil {
			return domain.Request{}, err
		}
		value, err := domain.ParseValue(lossyString(f.Value))
		if err != nil {
			return domain.Request{}, err
		}
		return domain.NewSetRequest(key, value, f.Header.TTL), nil

	case domain.OpGet:
		if len(f.Key) == 0 {
			return domain.Request{}, domain.ErrKeyMissing
		}
		if len(f.Value) != 0 {
			return domain.Request{}, domain.ErrUnexpectedValue
		}
		key, err := domain.ParseKey(lossyString(f.Key))
		if err != nil {
			return domain.Request{}, err
		}
		return domain.NewGetRequest(key), nil

	case domain.OpDelete:
		if len(f.Key) == 0 {
			return domain.Request{}, domain.ErrKeyMissing
		}
		if len(f.Value) != 0 {
			return domain.Request{}, domain.ErrUnexpectedValue
		}
		key, err := domain.ParseKey(lossyString(f.Key))
		if err != nil {
			return domain.Request{}, err
		}
		return domain.NewDeleteRequest(key), nil

	case domain.OpFlush:
		if len(f.Key) != 0 {
			return domain.Request{}, domain.ErrUnexpectedKey
		}
		if len(f.Value) != 0 {
			return domain.Request{}, domain.ErrUnexpectedValue
		}
		return domain.NewFlushRequest(), nil

	default:
		return domain.Request{}, domain.ErrInvalidOpCode
	}
}

// FromRequest serializes a domain.Request into a request Frame (status
// byte left as padding 0).
func FromRequest(r domain.Request) Frame {
	var key, value []byte
	if r.Op == domain.OpSet || r.Op == domain.OpGet || r.Op == domain.OpDelete {
		key = []byte(r.Key.String())
	}
	if r.Op == domain.OpSet {
		value = []byte(r.Value.String())
	}
	total := HeaderSize + len(key) + len(value)
	h := Header{
		OpCode:        r.Op,
		KeyLength:     uint8(len(key)),
		TTL:           r.TTL,
		TotalFrameLen: uint32(total),
	}
	return Frame{Header: h, Key: key, Value: value}
}

// ToResponse validates a structurally-parsed response Frame against the
// per-op-code shape and produces a domain.Response. A Get frame with
// status Ok requires both key and value; any other status permits an empty
// body (the entry was not found).
func ToResponse(f Frame) (domain.Response, error) {
	status, err := domain.ParseStatusCode(f.Header.StatusOrPadding)
	if err != nil {
		return domain.Response{}, err
	}

	switch f.Header.OpCode {
	case domain.OpGet:
		hasKey := len(f.Key) != 0
		hasValue := len(f.Value) != 0
		if hasKey && hasValue {
			key, err := domain.ParseKey(lossyString(f.Key))
			if err != nil {
				return domain.Response{}, err
			}
			value, err := domain.ParseValue(lossyString(f.Value))
			if err != nil {
				return domain.Response{}, err
			}
			return domain.Response{
				Status: status,
				Body:   domain.GetBody{Found: true, Key: key, Value: value, TTL: f.Header.TTL},
			}, nil
		}
		if hasKey || hasValue {
			if hasKey {
				return domain.Response{}, domain.ErrValueMissing
			}
			return domain.Response{}, domain.ErrKeyMissing
		}
		if status == domain.StatusOk {
			return domain.Response{}, domain.ErrValueMissing
		}
		return domain.Response{Status: status, Body: domain.GetBody{Found: false}}, nil

	case domain.OpSet:
		if len(f.Key) != 0 {
			return domain.Response{}, domain.ErrUnexpectedKey
		}
		if len(f.Value) != 0 {
			return domain.Response{}, domain.ErrUnexpectedValue
		}
		return domain.Response{Status: status, Body: domain.SetBody{}}, nil

	case domain.OpDelete:
		if len(f.Key) != 0 {
			return domain.Response{}, domain.ErrUnexpectedKey
		}
		if len(f.Value) != 0 {
			return domain.Response{}, domain.ErrUnexpectedValue
		}
		return domain.Response{Status: status, Body: domain.DeleteBody{}}, nil

	case domain.OpFlush:
		if len(f.Key) != 0 {
			return domain.Response{}, domain.ErrUnexpectedKey
		}
		if len(f.Value) != 0 {
			return domain.Response{}, domain.ErrUnexpectedValue
		}
		return domain.Response{Status: status, Body: domain.FlushBody{}}, nil

	default:
		return domain.Response{}, domain.ErrInvalidOpCode
	}
}

// FromResponse serializes a domain.Response into a response Frame.
func FromResponse(r domain.Response) Frame {
	op := r.Op()
	var key, value []byte
	var ttl domain.TTL
	if body, ok := r.Body.(domain.GetBody); ok && body.Found {
		key = []byte(body.Key.String())
		value = []byte(body.Value.String())
		ttl = body.TTL
	}
	total := HeaderSize + len(key) + len(value)
	h := Header{
		OpCode:          op,
		StatusOrPadding: byte(r.Status),
		KeyLength:       uint8(len(key)),
		TTL:             ttl,
		TotalFrameLen:   uint32(total),
	}
	return Frame{Header: h, Key: key, Value: value}
}
