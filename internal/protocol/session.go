package protocol

import "github.com/screenworks/matcat/internal/codec"

// RepeatToken is the REPEAT_TOKEN_REQUEST envelope: the opaque session-repeat
// token issued at handshake so a client can reconnect without a fresh JWT
// exchange (spec §4.5, §6 AuthMode::REPEAT_TOKEN). A request omits Value; the
// server response sets it.
type RepeatToken struct {
	Value *string
}

func (r *RepeatToken) Tag() RequestType { return RepeatTokenRequest }

func (r *RepeatToken) SerializedSize() uint32 {
	n := uint32(TagSize + 1)
	if r.Value != nil {
		n += 1 + uint32(len(*r.Value))
	}

	return n
}

func (r *RepeatToken) Serialize(buf []byte) {
	w := codec.NewWriter(buf)
	writeTag(w, r.Tag())
	w.WriteBool(r.Value != nil)

	if r.Value != nil {
		w.WriteString(*r.Value)
	}
}

// DeserializeRepeatToken reads a RepeatToken body (tag already consumed).
func DeserializeRepeatToken(r *codec.Reader) (*RepeatToken, error) {
	hasValue, err := r.ReadBool()
	if err != nil {
		return nil, err
	}

	req := &RepeatToken{}

	if hasValue {
		s, err := r.ReadString()
		if err != nil {
			return nil, err
		}

		req.Value = &s
	}

	return req, nil
}

// UserEmail is the USER_EMAIL_REQUEST envelope: asks the server for the
// authenticated user's email (spec §4.5). A request omits Value; the server
// response sets it.
type UserEmail struct {
	Value *string
}

func (r *UserEmail) Tag() RequestType { return UserEmailRequest }

func (r *UserEmail) SerializedSize() uint32 {
	n := uint32(TagSize + 1)
	if r.Value != nil {
		n += 1 + uint32(len(*r.Value))
	}

	return n
}

func (r *UserEmail) Serialize(buf []byte) {
	w := codec.NewWriter(buf)
	writeTag(w, r.Tag())
	w.WriteBool(r.Value != nil)

	if r.Value != nil {
		w.WriteString(*r.Value)
	}
}

// DeserializeUserEmail reads a UserEmail body (tag already consumed).
func DeserializeUserEmail(r *codec.Reader) (*UserEmail, error) {
	hasValue, err := r.ReadBool()
	if err != nil {
		return nil, err
	}

	req := &UserEmail{}

	if hasValue {
		s, err := r.ReadString()
		if err != nil {
			return nil, err
		}

		req.Value = &s
	}

	return req, nil
}
