package protocol

import "github.com/screenworks/matcat/internal/codec"

// DatabaseBackup is the CREATE_DATABASE_BACKUP envelope (spec §4.5).
// ResponseCode is 0 on a request; Name is populated by the server response.
type DatabaseBackup struct {
	ResponseCode uint8
	Name         string
}

func (b *DatabaseBackup) Tag() RequestType { return CreateDatabaseBackup }

func (b *DatabaseBackup) SerializedSize() uint32 {
	return TagSize + 1 + 1 + uint32(len(b.Name))
}

func (b *DatabaseBackup) Serialize(buf []byte) {
	w := codec.NewWriter(buf)
	writeTag(w, b.Tag())
	w.WriteU8(b.ResponseCode)
	w.WriteString(b.Name)
}

// DeserializeDatabaseBackup reads a DatabaseBackup body (tag already
// consumed).
func DeserializeDatabaseBackup(r *codec.Reader) (*DatabaseBackup, error) {
	code, err := r.ReadU8()
	if err != nil {
		return nil, err
	}

	name, err := r.ReadString()
	if err != nil {
		return nil, err
	}

	return &DatabaseBackup{ResponseCode: code, Name: name}, nil
}
