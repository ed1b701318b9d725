package consumer

import (
	"context"
	stderrors "errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/pulse/internal/errors"
	"github.com/rileyhilliard/pulse/internal/frame"
	"github.com/rileyhilliard/pulse/internal/logger"
	"github.com/rileyhilliard/pulse/internal/wire"
)

const waitFor = 5 * time.Second

type harness struct {
	consumer *Consumer
	renderer *recordingRenderer
	peer     net.Conn
	writer   *frame.Writer
	cancel   context.CancelFunc
	done     chan error
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newLoggedHarness(t, logger.Noop())
}

func newLoggedHarness(t *testing.T, log logger.Logger) *harness {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() {
		client.Close()
		server.Close()
	})

	rec := &recordingRenderer{}
	return &harness{
		consumer: New(client, NewLayout(rec), Options{PollInterval: 10 * time.Millisecond, Logger: log}),
		renderer: rec,
		peer:     server,
		writer:   frame.NewWriter(server),
		cancel:   func() {},
		done:     make(chan error, 1),
	}
}

func (h *harness) run(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h.cancel = cancel
	go func() { h.done <- h.consumer.Run(ctx) }()
}

// send writes from a goroutine since net.Pipe writes block until read.
func (h *harness) send(t *testing.T, payloads ...wire.Payload) {
	t.Helper()
	errc := make(chan error, 1)
	go func() {
		for _, p := range payloads {
			if err := h.writer.Send(p); err != nil {
				errc <- err
				return
			}
		}
		errc <- nil
	}()
	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(waitFor):
		t.Fatal("send blocked")
	}
}

func (h *harness) wait(t *testing.T) error {
	t.Helper()
	select {
	case err := <-h.done:
		return err
	case <-time.After(waitFor):
		t.Fatal("Run did not return")
		return nil
	}
}

func TestConsumer_RendersReceivedPayloads(t *testing.T) {
	h := newHarness(t)
	h.consumer.NotifyResize(200, 50)
	h.run(t)

	h.send(t, samplePayloads()...)
	require.Eventually(t, func() bool { return h.renderer.Len() == 3 }, waitFor, 5*time.Millisecond)

	calls := h.renderer.Calls()
	want := ComputeRegions(200, 50, wire.Categories())
	for i, p := range samplePayloads() {
		assert.Equal(t, p, calls[i].Payload)
		assert.Equal(t, want[i], calls[i].Region)
	}
	assert.Equal(t, uint64(3), h.consumer.Stats().Frames)
}

func TestConsumer_ResizeRedrawsCachedPayloads(t *testing.T) {
	h := newHarness(t)
	h.consumer.NotifyResize(200, 50)
	h.run(t)

	h.send(t, samplePayloads()...)
	require.Eventually(t, func() bool { return h.renderer.Len() == 3 }, waitFor, 5*time.Millisecond)

	// No new data arrives; the loop applies the resize on its next poll.
	h.consumer.NotifyResize(60, 60)
	require.Eventually(t, func() bool { return h.renderer.Len() == 6 }, waitFor, 5*time.Millisecond)

	for i, call := range h.renderer.Calls()[3:] {
		assert.Equal(t, samplePayloads()[i], call.Payload)
		assert.Equal(t, 60, call.Region.Width)
	}
}

func TestConsumer_ResizeNotifiedRepeatedlyKeepsLatest(t *testing.T) {
	h := newHarness(t)
	h.consumer.NotifyResize(200, 50)
	h.consumer.NotifyResize(10, 50)
	h.consumer.NotifyResize(65, 50)
	h.run(t)

	h.send(t, samplePayloads()[0])
	require.Eventually(t, func() bool { return h.renderer.Len() == 1 }, waitFor, 5*time.Millisecond)
	assert.Equal(t, 65, h.renderer.Calls()[0].Region.Width)
}

func TestConsumer_QuitReturnsNil(t *testing.T) {
	h := newHarness(t)
	h.run(t)

	time.Sleep(30 * time.Millisecond)
	h.consumer.Quit()
	h.consumer.Quit()
	assert.NoError(t, h.wait(t))
}

func TestConsumer_CancelReturnsNil(t *testing.T) {
	h := newHarness(t)
	h.run(t)

	h.cancel()
	assert.NoError(t, h.wait(t))
}

func TestConsumer_PeerCloseEndsWithConnectionClosed(t *testing.T) {
	h := newHarness(t)
	h.consumer.NotifyResize(200, 50)
	h.run(t)

	h.send(t, samplePayloads()[0])
	require.NoError(t, h.peer.Close())

	err := h.wait(t)
	assert.ErrorIs(t, err, frame.ErrConnectionClosed)
	assert.Equal(t, 1, h.renderer.Len())
}

func TestConsumer_MalformedFrameIsProtocolError(t *testing.T) {
	h := newHarness(t)
	h.run(t)

	go h.peer.Write([]byte{0x05, 0, 0, 0, 0x09, 0, 0, 0, 0})

	err := h.wait(t)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrProtocol))
	assert.ErrorIs(t, err, wire.ErrUnknownCategory)
}

func TestConsumer_FrameSpanningPolls(t *testing.T) {
	h := newHarness(t)
	h.consumer.NotifyResize(200, 50)
	h.run(t)

	body, err := wire.Encode(samplePayloads()[2])
	require.NoError(t, err)
	raw := append([]byte{byte(len(body)), 0, 0, 0}, body...)

	go func() {
		h.peer.Write(raw[:6])
		time.Sleep(50 * time.Millisecond) // several poll timeouts
		h.peer.Write(raw[6:])
	}()

	require.Eventually(t, func() bool { return h.renderer.Len() == 1 }, waitFor, 5*time.Millisecond)
	assert.Equal(t, samplePayloads()[2], h.renderer.Calls()[0].Payload)
}

func TestConsumer_LogsResizeFromPreviousSize(t *testing.T) {
	log := logger.NewBufferLogger()
	h := newLoggedHarness(t, log)
	h.consumer.NotifyResize(200, 50)
	h.run(t)

	require.Eventually(t, func() bool { return log.Contains("resize 0x0 -> 200x50") }, waitFor, 5*time.Millisecond)

	h.consumer.NotifyResize(80, 24)
	require.Eventually(t, func() bool { return log.Contains("resize 200x50 -> 80x24") }, waitFor, 5*time.Millisecond)
}

func TestConsumer_QuitDiscardsPartialFrame(t *testing.T) {
	log := logger.NewBufferLogger()
	h := newLoggedHarness(t, log)
	h.run(t)

	body, err := wire.Encode(samplePayloads()[0])
	require.NoError(t, err)
	raw := append([]byte{byte(len(body)), 0, 0, 0}, body...)

	written := make(chan struct{})
	go func() {
		h.peer.Write(raw[:6])
		close(written)
	}()
	select {
	case <-written:
	case <-time.After(waitFor):
		t.Fatal("partial frame not read")
	}

	h.consumer.Quit()
	assert.NoError(t, h.wait(t))
	assert.True(t, log.Contains("discarding 6 bytes of an incomplete frame"))
	assert.Zero(t, h.renderer.Len())
}

func TestClassify(t *testing.T) {
	assert.ErrorIs(t, classify(frame.ErrConnectionClosed), frame.ErrConnectionClosed)
	assert.False(t, errors.IsCode(classify(frame.ErrConnectionClosed), errors.ErrNet))

	tooLarge := classify(frame.ErrFrameTooLarge)
	assert.True(t, errors.IsCode(tooLarge, errors.ErrProtocol))

	reset := classify(stderrors.New("connection reset by peer"))
	assert.True(t, errors.IsCode(reset, errors.ErrNet))
}
