package frame

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"net"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/pulse/internal/wire"
)

func samplePayloads() []wire.Payload {
	return []wire.Payload{
		{Category: wire.ProcessSummary, Records: []wire.Record{
			wire.Measurement("CPU Usage", 12.5),
			wire.Measurement("MEM Usage", 3.2),
		}},
		{Category: wire.NetworkSummary},
		{Category: wire.ProcessList, Records: []wire.Record{
			wire.Text("12.0 3.1 chrome"),
			wire.Text("0.5 1.0 chrome"),
		}},
	}
}

func encodeAll(t *testing.T, payloads []wire.Payload) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, p := range payloads {
		require.NoError(t, w.Send(p))
	}
	return buf.Bytes()
}

func receiveAll(t *testing.T, r *Reader) []wire.Payload {
	t.Helper()
	var got []wire.Payload
	for {
		p, err := r.ReceiveOne()
		if errors.Is(err, ErrConnectionClosed) {
			return got
		}
		require.NoError(t, err)
		got = append(got, p)
	}
}

func TestSendReceive(t *testing.T) {
	stream := encodeAll(t, samplePayloads())

	r := NewReader(bytes.NewReader(stream))
	assert.Equal(t, samplePayloads(), receiveAll(t, r))
	assert.Equal(t, Stats{Frames: 3, Bytes: uint64(len(stream))}, r.Stats())
}

func TestSend_FrameLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).Send(wire.Payload{Category: wire.NetworkSummary}))
	assert.Equal(t, []byte{5, 0, 0, 0, 0x01, 0, 0, 0, 0}, buf.Bytes())
}

func TestReceiveOne_OneByteChunks(t *testing.T) {
	stream := encodeAll(t, samplePayloads())

	whole := receiveAll(t, NewReader(bytes.NewReader(stream)))
	chunked := receiveAll(t, NewReader(iotest.OneByteReader(bytes.NewReader(stream))))
	halves := receiveAll(t, NewReader(iotest.HalfReader(bytes.NewReader(stream))))

	assert.Equal(t, whole, chunked)
	assert.Equal(t, whole, halves)
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

// scriptedReader returns each chunk on its own Read call, with a timeout
// error between chunks.
type scriptedReader struct {
	chunks [][]byte
	pause  bool
}

func (s *scriptedReader) Read(p []byte) (int, error) {
	if s.pause {
		s.pause = false
		return 0, timeoutError{}
	}
	if len(s.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, s.chunks[0])
	s.chunks[0] = s.chunks[0][n:]
	if len(s.chunks[0]) == 0 {
		s.chunks = s.chunks[1:]
		s.pause = true
	}
	return n, nil
}

func TestReceiveOne_TimeoutKeepsPartialFrame(t *testing.T) {
	stream := encodeAll(t, samplePayloads()[:1])
	src := &scriptedReader{chunks: [][]byte{stream[:2], stream[2:7], stream[7:]}}
	r := NewReader(src)

	var timeouts int
	var got wire.Payload
	for {
		p, err := r.ReceiveOne()
		if IsTimeout(err) {
			timeouts++
			assert.Positive(t, r.Buffered())
			continue
		}
		require.NoError(t, err)
		got = p
		break
	}

	assert.Equal(t, 2, timeouts)
	assert.Equal(t, samplePayloads()[0], got)
	assert.Zero(t, r.Buffered())
}

func TestReceiveOne_DeadlineOverPipe(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	stream := encodeAll(t, samplePayloads()[:1])
	split := len(stream) / 2

	go func() {
		_, _ = server.Write(stream[:split])
	}()

	r := NewReader(client)
	var err error
	for i := 0; i < 50; i++ {
		require.NoError(t, client.SetReadDeadline(time.Now().Add(20*time.Millisecond)))
		_, err = r.ReceiveOne()
		if r.Buffered() == split {
			break
		}
	}
	require.Error(t, err)
	require.True(t, IsTimeout(err))
	require.Equal(t, split, r.Buffered())

	go func() {
		_, _ = server.Write(stream[split:])
	}()
	require.NoError(t, client.SetReadDeadline(time.Now().Add(5*time.Second)))
	got, err := r.ReceiveOne()
	require.NoError(t, err)
	assert.Equal(t, samplePayloads()[0], got)
}

func TestReceiveOne_EndOfStream(t *testing.T) {
	stream := encodeAll(t, samplePayloads()[:1])

	tests := []struct {
		name          string
		input         []byte
		wantErr       error
		wantDecodeErr bool
	}{
		{name: "clean close", input: nil, wantErr: ErrConnectionClosed},
		{name: "inside prefix", input: stream[:2], wantErr: wire.ErrTruncated, wantDecodeErr: true},
		{name: "inside body", input: stream[:len(stream)-1], wantErr: wire.ErrTruncated, wantDecodeErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(bytes.NewReader(tt.input)).ReceiveOne()
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantDecodeErr, wire.IsDecodeError(err))
		})
	}
}

func TestReceiveOne_FrameTooLarge(t *testing.T) {
	header := binary.LittleEndian.AppendUint32(nil, MaxFrameSize+1)
	_, err := NewReader(bytes.NewReader(header)).ReceiveOne()
	assert.ErrorIs(t, err, ErrFrameTooLarge)

	atLimit := binary.LittleEndian.AppendUint32(nil, MaxFrameSize)
	_, err = NewReader(bytes.NewReader(atLimit)).ReceiveOne()
	assert.ErrorIs(t, err, wire.ErrTruncated)
}

func TestReceiveOne_DecodeErrorPropagates(t *testing.T) {
	raw := []byte{0x05, 0, 0, 0, 0x09, 0, 0, 0, 0}

	_, err := NewReader(bytes.NewReader(raw)).ReceiveOne()
	assert.ErrorIs(t, err, wire.ErrUnknownCategory)
	assert.True(t, wire.IsDecodeError(err))
}

func TestReceiveOne_EmptyFrame(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte{0, 0, 0, 0})).ReceiveOne()
	assert.ErrorIs(t, err, wire.ErrTruncated)
}

// shortWriter accepts at most limit bytes per call.
type shortWriter struct {
	buf   bytes.Buffer
	limit int
	calls int
}

func (w *shortWriter) Write(p []byte) (int, error) {
	w.calls++
	if len(p) > w.limit {
		p = p[:w.limit]
	}
	return w.buf.Write(p)
}

func TestSend_ShortWrites(t *testing.T) {
	sw := &shortWriter{limit: 3}
	w := NewWriter(sw)
	for _, p := range samplePayloads() {
		require.NoError(t, w.Send(p))
	}

	assert.Equal(t, encodeAll(t, samplePayloads()), sw.buf.Bytes())
	assert.Greater(t, sw.calls, 3)
	assert.Equal(t, uint64(3), w.Stats().Frames)
	assert.Equal(t, uint64(sw.buf.Len()), w.Stats().Bytes)
}

func TestSend_ZeroByteWrite(t *testing.T) {
	err := NewWriter(&shortWriter{limit: 0}).Send(samplePayloads()[1])
	assert.ErrorIs(t, err, io.ErrShortWrite)
}

func TestSend_WriteError(t *testing.T) {
	client, server := net.Pipe()
	require.NoError(t, server.Close())

	w := NewWriter(client)
	err := w.Send(samplePayloads()[0])
	require.Error(t, err)
	assert.Zero(t, w.Stats().Frames)
}

func TestSend_UnknownCategory(t *testing.T) {
	var buf bytes.Buffer
	err := NewWriter(&buf).Send(wire.Payload{Category: wire.Category(7)})
	assert.ErrorIs(t, err, wire.ErrUnknownCategory)
	assert.Zero(t, buf.Len())
}

func TestIsTimeout(t *testing.T) {
	assert.False(t, IsTimeout(nil))
	assert.False(t, IsTimeout(io.EOF))
	assert.True(t, IsTimeout(timeoutError{}))
	assert.True(t, IsTimeout(&net.OpError{Op: "read", Err: timeoutError{}}))
}
