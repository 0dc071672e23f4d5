// Package null is the backend of last resort when no clipboard service is
// reachable. Reads report an empty clipboard; writes are refused loudly
// rather than silently dropped.
package null

import (
	"context"

	"github.com/labi-le/ttybox/pkg/clip"
)

const Name = "null"

type Clipboard struct{}

func New() *Clipboard { return &Clipboard{} }

func (Clipboard) Name() string      { return Name }
func (Clipboard) Model() clip.Model { return clip.ModelBuffered }

func (Clipboard) Get(context.Context) (clip.Payload, error) {
	return clip.Payload{}, nil
}

func (Clipboard) Set(context.Context, clip.Payload) error {
	return clip.ErrNoBackend
}

func (Clipboard) Clear(context.Context) error {
	return nil
}

func (Clipboard) Watch(context.Context, chan<- clip.Update) error {
	return clip.ErrUnsupported
}
