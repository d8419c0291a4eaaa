package protocol

import (
	"sync"

	"github.com/screenworks/matcat/internal/codec"
	"github.com/screenworks/matcat/internal/registry"
	"github.com/screenworks/matcat/pkg/merrors"
	"github.com/screenworks/matcat/pkg/mlog"
)

// Dispatcher implements the single `on_message` response handler of spec
// §4.6: it reads the leading RequestType tag off a decrypted body, decodes
// the rest against that tag's schema, and routes the result to whichever
// caller is waiting for it. SOURCE_*_TABLE bodies go straight to the
// matching component registry's bulk Source call, which fires its own
// registered refresh callbacks; every other kind is delivered through a
// single-shot registration consulted by echo code (DrawingDetails,
// DrawingInsert) or, for the handful of kinds with no echo code on the
// wire, by tag alone.
type Dispatcher struct {
	mu         sync.Mutex
	registries *registry.Set
	logger     mlog.Logger

	drawingCallbacks map[uint32]func(*DrawingRequest)
	insertCallbacks  map[uint32]func(*DrawingInsertRequest)

	onSearchResults     func(*SearchResults)
	onRepeatToken       func(*RepeatToken)
	onUserEmail         func(*UserEmail)
	onBackup            func(*DatabaseBackup)
	onComponentInsert   func(*ComponentInsert)
	onNextDrawingNumber func(*NextDrawingNumber)
}

// NewDispatcher builds a Dispatcher over reg. logger may be nil, in which
// case a no-op logger is used.
func NewDispatcher(reg *registry.Set, logger mlog.Logger) *Dispatcher {
	if logger == nil {
		logger = mlog.NoopLogger{}
	}

	return &Dispatcher{
		registries:       reg,
		logger:           logger,
		drawingCallbacks: make(map[uint32]func(*DrawingRequest)),
		insertCallbacks:  make(map[uint32]func(*DrawingInsertRequest)),
	}
}

// AwaitDrawing registers a single-shot callback for the DRAWING_DETAILS
// response matching echoCode.
func (d *Dispatcher) AwaitDrawing(echoCode uint32, cb func(*DrawingRequest)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.drawingCallbacks[echoCode] = cb
}

// AwaitInsert registers a single-shot callback for the DRAWING_INSERT
// response matching echoCode.
func (d *Dispatcher) AwaitInsert(echoCode uint32, cb func(*DrawingInsertRequest)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.insertCallbacks[echoCode] = cb
}

// OnSearchResults registers the single-shot callback for the next
// DRAWING_SEARCH_QUERY response. There is no echo code on this kind's wire
// form, so only one query may be outstanding at a time.
func (d *Dispatcher) OnSearchResults(cb func(*SearchResults)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.onSearchResults = cb
}

// OnRepeatToken registers the single-shot REPEAT_TOKEN_REQUEST callback.
func (d *Dispatcher) OnRepeatToken(cb func(*RepeatToken)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.onRepeatToken = cb
}

// OnUserEmail registers the single-shot USER_EMAIL_REQUEST callback.
func (d *Dispatcher) OnUserEmail(cb func(*UserEmail)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.onUserEmail = cb
}

// OnBackup registers the single-shot CREATE_DATABASE_BACKUP callback.
func (d *Dispatcher) OnBackup(cb func(*DatabaseBackup)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.onBackup = cb
}

// OnComponentInsert registers the single-shot ADD_NEW_COMPONENT callback.
func (d *Dispatcher) OnComponentInsert(cb func(*ComponentInsert)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.onComponentInsert = cb
}

// OnNextDrawingNumber registers the single-shot GET_NEXT_DRAWING_NUMBER
// callback.
func (d *Dispatcher) OnNextDrawingNumber(cb func(*NextDrawingNumber)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.onNextDrawingNumber = cb
}

// Dispatch is `on_message`: it reads the tag from body and routes the
// remainder to the matching decode+deliver path. Unknown tags, and any
// decode error, are logged and dropped — never propagated as a panic or a
// fatal error (spec §7).
func (d *Dispatcher) Dispatch(body []byte) {
	r := codec.NewReader(body)

	tag, err := readTag(r)
	if err != nil {
		d.logger.Warnf("dispatch: %s", err)
		return
	}

	if err := d.route(tag, r); err != nil {
		d.logger.Warnf("dispatch: tag %d: %s", tag, err)
	}
}

func (d *Dispatcher) route(tag RequestType, r *codec.Reader) error {
	switch tag {
	case SourceMaterialsTable:
		return dispatchSource(r, d.registries.Materials, DeserializeSourceMaterialsTable)
	case SourceAperturesTable:
		return dispatchSource(r, d.registries.Apertures, DeserializeSourceAperturesTable)
	case SourceProductsTable:
		return dispatchSource(r, d.registries.Products, DeserializeSourceProductsTable)
	case SourceSideIronsTable:
		return dispatchSource(r, d.registries.SideIrons, DeserializeSourceSideIronsTable)
	case SourceMachinesTable:
		return dispatchSource(r, d.registries.Machines, DeserializeSourceMachinesTable)
	case SourceMachineDecksTable:
		return dispatchSource(r, d.registries.MachineDecks, DeserializeSourceMachineDecksTable)
	case SourceApertureShapesTable:
		return dispatchSource(r, d.registries.ApertureShapes, DeserializeSourceApertureShapesTable)
	case SourceBackingStripsTable:
		return dispatchSource(r, d.registries.BackingStrips, DeserializeSourceBackingStripsTable)
	case SourceStrapsTable:
		return dispatchSource(r, d.registries.Straps, DeserializeSourceStrapsTable)
	case SourceSideIronPricesTable:
		return dispatchSource(r, d.registries.SideIronPrices, DeserializeSourceSideIronPricesTable)
	case SourceExtraPricesTable:
		return dispatchSource(r, d.registries.ExtraPrices, DeserializeSourceExtraPricesTable)
	case SourcePowderCoatingPricesTable:
		return dispatchSource(r, d.registries.PowderCoatingPrices, DeserializeSourcePowderCoatingPricesTable)
	case SourceLabourTimesTable:
		return dispatchSource(r, d.registries.LabourTimes, DeserializeSourceLabourTimesTable)

	case DrawingSearchQuery:
		results, err := DeserializeSearchResults(r)
		if err != nil {
			return err
		}

		d.mu.Lock()
		cb := d.onSearchResults
		d.onSearchResults = nil
		d.mu.Unlock()

		if cb != nil {
			cb(results)
		}

		return nil

	case DrawingDetails:
		req, err := DeserializeDrawingRequest(r, d.registries)
		if err != nil {
			return err
		}

		d.mu.Lock()
		cb, ok := d.drawingCallbacks[req.EchoCode]
		delete(d.drawingCallbacks, req.EchoCode)
		d.mu.Unlock()

		if ok && cb != nil {
			cb(req)
		} else {
			d.logger.Warnf("dispatch: no pending drawing request for echo code %d", req.EchoCode)
		}

		return nil

	case DrawingInsert:
		resp, err := DeserializeDrawingInsertBody(r, d.registries)
		if err != nil {
			return err
		}

		d.mu.Lock()
		cb, ok := d.insertCallbacks[resp.EchoCode]
		delete(d.insertCallbacks, resp.EchoCode)
		d.mu.Unlock()

		if ok && cb != nil {
			cb(resp)
		} else {
			d.logger.Warnf("dispatch: no pending insert request for echo code %d", resp.EchoCode)
		}

		return nil

	case RepeatTokenRequest:
		resp, err := DeserializeRepeatToken(r)
		if err != nil {
			return err
		}

		d.mu.Lock()
		cb := d.onRepeatToken
		d.onRepeatToken = nil
		d.mu.Unlock()

		if cb != nil {
			cb(resp)
		}

		return nil

	case UserEmailRequest:
		resp, err := DeserializeUserEmail(r)
		if err != nil {
			return err
		}

		d.mu.Lock()
		cb := d.onUserEmail
		d.onUserEmail = nil
		d.mu.Unlock()

		if cb != nil {
			cb(resp)
		}

		return nil

	case CreateDatabaseBackup:
		resp, err := DeserializeDatabaseBackup(r)
		if err != nil {
			return err
		}

		d.mu.Lock()
		cb := d.onBackup
		d.onBackup = nil
		d.mu.Unlock()

		if cb != nil {
			cb(resp)
		}

		return nil

	case AddNewComponent:
		resp, err := DeserializeComponentInsert(r)
		if err != nil {
			return err
		}

		d.mu.Lock()
		cb := d.onComponentInsert
		d.onComponentInsert = nil
		d.mu.Unlock()

		if cb != nil {
			cb(resp)
		}

		return nil

	case GetNextDrawingNumber:
		resp, err := DeserializeNextDrawingNumber(r)
		if err != nil {
			return err
		}

		d.mu.Lock()
		cb := d.onNextDrawingNumber
		d.onNextDrawingNumber = nil
		d.mu.Unlock()

		if cb != nil {
			cb(resp)
		}

		return nil

	default:
		return merrors.NewDeserializationError("RequestType", "unknown tag")
	}
}

// dispatchSource decodes a SOURCE_*_TABLE body with decode and bulk-loads
// the result into reg, firing reg's own refresh callbacks.
func dispatchSource[T any](r *codec.Reader, reg *registry.Registry[T], decode func(*codec.Reader) (map[registry.ComponentID]T, error)) error {
	records, err := decode(r)
	if err != nil {
		return err
	}

	reg.Source(records)

	return nil
}
