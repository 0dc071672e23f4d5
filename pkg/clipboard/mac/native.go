//go:build darwin

// Package mac implements the clipboard over NSPasteboard through purego,
// avoiding cgo. The pasteboard is a buffered store: writes hand the data to
// the system and return, no ownership session involved.
package mac

import (
	"context"
	"fmt"
	"runtime"
	"time"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/ebitengine/purego/objc"
	"github.com/labi-le/ttybox/pkg/clip"
	"github.com/labi-le/ttybox/pkg/mime"
	"github.com/rs/zerolog"
)

const Name = "mac"

const (
	utiText = "public.utf8-plain-text"
	utiPNG  = "public.png"

	pollTick = 500 * time.Millisecond
)

var _ clip.Backend = (*Clipboard)(nil)

func init() {
	_, err := purego.Dlopen("/System/Library/Frameworks/AppKit.framework/AppKit", purego.RTLD_GLOBAL|purego.RTLD_LAZY)
	if err != nil {
		panic(fmt.Errorf("load AppKit: %w", err))
	}
}

// pasteboard caches the Objective-C classes and selectors used on every call.
type pasteboard struct {
	nsString objc.Class
	nsData   objc.Class

	general       objc.ID
	changeCount   objc.SEL
	clearContents objc.SEL
	stringForType objc.SEL
	dataForType   objc.SEL
	setString     objc.SEL
	setData       objc.SEL
	dataWithBytes objc.SEL
	utf8String    objc.SEL
	bytes         objc.SEL
	length        objc.SEL

	typeText objc.ID
	typePNG  objc.ID
}

func newPasteboard() *pasteboard {
	pb := &pasteboard{
		nsString:      objc.GetClass("NSString"),
		nsData:        objc.GetClass("NSData"),
		changeCount:   objc.RegisterName("changeCount"),
		clearContents: objc.RegisterName("clearContents"),
		stringForType: objc.RegisterName("stringForType:"),
		dataForType:   objc.RegisterName("dataForType:"),
		setString:     objc.RegisterName("setString:forType:"),
		setData:       objc.RegisterName("setData:forType:"),
		dataWithBytes: objc.RegisterName("dataWithBytes:length:"),
		utf8String:    objc.RegisterName("UTF8String"),
		bytes:         objc.RegisterName("bytes"),
		length:        objc.RegisterName("length"),
	}
	pb.general = objc.ID(objc.GetClass("NSPasteboard")).Send(objc.RegisterName("generalPasteboard"))
	pb.typeText = pb.str(utiText)
	pb.typePNG = pb.str(utiPNG)
	return pb
}

func (pb *pasteboard) str(s string) objc.ID {
	return objc.ID(pb.nsString).Send(objc.RegisterName("stringWithUTF8String:"), s)
}

func (pb *pasteboard) count() objc.ID {
	return pb.general.Send(pb.changeCount)
}

// read returns the richest available representation, PNG before text.
func (pb *pasteboard) read() ([]byte, string) {
	if nsData := pb.general.Send(pb.dataForType, pb.typePNG); nsData != 0 {
		if length := nsData.Send(pb.length); length > 0 {
			ptr := nsData.Send(pb.bytes)
			raw := unsafe.Slice((*byte)(unsafe.Pointer(ptr)), int(length))
			out := make([]byte, len(raw))
			copy(out, raw)
			return out, "image/png"
		}
	}

	if nsStr := pb.general.Send(pb.stringForType, pb.typeText); nsStr != 0 {
		if ptr := nsStr.Send(pb.utf8String); ptr != 0 {
			return goBytes(uintptr(ptr)), mime.TypeText
		}
	}
	return nil, ""
}

func (pb *pasteboard) write(p clip.Payload) bool {
	pb.general.Send(pb.clearContents)

	if p.MIME() == "image/png" {
		src := p.Bytes()
		var ptr unsafe.Pointer
		if len(src) > 0 {
			ptr = unsafe.Pointer(&src[0])
		}
		nsData := objc.ID(pb.nsData).Send(pb.dataWithBytes, uintptr(ptr), uintptr(len(src)))
		return pb.general.Send(pb.setData, nsData, pb.typePNG) != 0
	}

	return pb.general.Send(pb.setString, pb.str(string(p.Bytes())), pb.typeText) != 0
}

func goBytes(ptr uintptr) []byte {
	if ptr == 0 {
		return nil
	}
	var n int
	for *(*byte)(unsafe.Pointer(ptr + uintptr(n))) != 0 {
		n++
	}
	out := make([]byte, n)
	copy(out, unsafe.Slice((*byte)(unsafe.Pointer(ptr)), n))
	return out
}

type Clipboard struct {
	logger zerolog.Logger
	opts   clip.Options
	dedup  clip.Deduplicator
}

func New(logger zerolog.Logger, opts clip.Options) (*Clipboard, error) {
	if opts.Selection == clip.SelectionPrimary {
		return nil, fmt.Errorf("%w: no primary selection on this platform", clip.ErrUnsupported)
	}
	return &Clipboard{
		logger: logger.With().Str("component", Name).Logger(),
		opts:   opts,
	}, nil
}

func (c *Clipboard) Name() string      { return Name }
func (c *Clipboard) Model() clip.Model { return clip.ModelBuffered }

func (c *Clipboard) Get(ctx context.Context) (clip.Payload, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	data, typ := newPasteboard().read()
	if len(data) == 0 {
		return clip.Payload{}, nil
	}
	return clip.NewPayloadMime(data, typ)
}

func (c *Clipboard) Set(ctx context.Context, p clip.Payload) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if !newPasteboard().write(p) {
		return fmt.Errorf("%w: pasteboard rejected content", clip.ErrBackendUnavailable)
	}
	c.dedup.Mark(p.Bytes())
	return nil
}

func (c *Clipboard) Clear(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	newPasteboard().general.Send(objc.RegisterName("clearContents"))
	return nil
}

// Watch polls changeCount; NSPasteboard has no change notification API.
func (c *Clipboard) Watch(ctx context.Context, upd chan<- clip.Update) error {
	defer close(upd)

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	pb := newPasteboard()
	last := pb.count()

	tick := c.opts.PollTick
	if tick <= 0 {
		tick = pollTick
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			current := pb.count()
			if current == last {
				continue
			}
			last = current

			data, typ := pb.read()
			if len(data) == 0 {
				continue
			}
			h, changed := c.dedup.Check(data)
			if !changed {
				continue
			}

			p, err := clip.NewPayloadMime(data, typ)
			if err != nil {
				continue
			}
			select {
			case upd <- clip.Update{Payload: p, Hash: h}:
			case <-ctx.Done():
				return nil
			}
		}
	}
}
