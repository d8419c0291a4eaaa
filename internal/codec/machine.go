package codec

import "github.com/screenworks/matcat/internal/domain"

// Date: year:u16 | month:u8 | day:u8 (4 bytes, spec §4.3 step 2).
const DateSize = 2 + 1 + 1

func SerializeDate(d domain.Date, w *Writer) {
	w.WriteU16(d.Year)
	w.WriteU8(d.Month)
	w.WriteU8(d.Day)
}

func DeserializeDate(r *Reader) (domain.Date, error) {
	var d domain.Date

	var err error
	if d.Year, err = r.ReadU16(); err != nil {
		return d, err
	}

	if d.Month, err = r.ReadU8(); err != nil {
		return d, err
	}

	if d.Day, err = r.ReadU8(); err != nil {
		return d, err
	}

	return d, nil
}

// MachineTemplate: machine_handle:u32 | quantity_on_deck:u32 |
// position:string | deck_handle:u32 (spec §4.2).
func MachineTemplateSerializedSize(m domain.MachineTemplate) uint32 {
	return 4 + 4 + 1 + uint32(len(m.Position)) + 4
}

func SerializeMachineTemplate(m domain.MachineTemplate, w *Writer) {
	w.WriteHandle(m.MachineHandle)
	w.WriteU32(m.QuantityOnDeck)
	w.WriteString(m.Position)
	w.WriteHandle(m.DeckHandle)
}

func DeserializeMachineTemplate(r *Reader) (domain.MachineTemplate, error) {
	var m domain.MachineTemplate

	var err error
	if m.MachineHandle, err = r.ReadHandle(); err != nil {
		return m, err
	}

	if m.QuantityOnDeck, err = r.ReadU32(); err != nil {
		return m, err
	}

	if m.Position, err = r.ReadString(); err != nil {
		return m, err
	}

	if m.DeckHandle, err = r.ReadHandle(); err != nil {
		return m, err
	}

	return m, nil
}

// SideIronInstance: handle:u32 | inverted:u8 | cut_down:u8 (spec §4.3 step 12).
const SideIronInstanceSize = 4 + 1 + 1

func SerializeSideIronInstance(s domain.SideIronInstance, w *Writer) {
	w.WriteHandle(s.Handle)
	w.WriteBool(s.Inverted)
	w.WriteBool(s.CutDown)
}

func DeserializeSideIronInstance(r *Reader) (domain.SideIronInstance, error) {
	var s domain.SideIronInstance

	var err error
	if s.Handle, err = r.ReadHandle(); err != nil {
		return s, err
	}

	if s.Inverted, err = r.ReadBool(); err != nil {
		return s, err
	}

	if s.CutDown, err = r.ReadBool(); err != nil {
		return s, err
	}

	return s, nil
}
