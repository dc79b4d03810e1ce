package gpu

// BufferView is one channel's vertex source: a buffer, a byte offset and a stride.
type BufferView struct {
	Buffer *Buffer
	Offset uint32
	Stride uint32
}

// BufferStream is the ordered set of channel views a mesh binds for drawing.
type BufferStream struct {
	views []BufferView
}

// NewBufferStream builds a stream from per-channel views.
func NewBufferStream(views ...BufferView) BufferStream {
	return BufferStream{views: append([]BufferView(nil), views...)}
}

// Views returns the channel views.
func (s BufferStream) Views() []BufferView { return s.views }

// Len returns the number of channels.
func (s BufferStream) Len() int { return len(s.views) }

// MakeRangedStream returns the sub-stream starting at channel start. The
// returned stream still binds from channel start when passed to
// Batch.SetInputStream with that channel.
func (s BufferStream) MakeRangedStream(start int) BufferStream {
	if start >= len(s.views) {
		return BufferStream{}
	}
	return BufferStream{views: s.views[start:]}
}
