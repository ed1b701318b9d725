package consumer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/pulse/internal/wire"
)

type renderCall struct {
	Region  Region
	Payload wire.Payload
}

type recordingRenderer struct {
	mu    sync.Mutex
	calls []renderCall
}

func (r *recordingRenderer) Render(region Region, p wire.Payload) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, renderCall{Region: region, Payload: p})
}

func (r *recordingRenderer) Calls() []renderCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]renderCall(nil), r.calls...)
}

func (r *recordingRenderer) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func samplePayloads() []wire.Payload {
	return []wire.Payload{
		{Category: wire.ProcessSummary, Records: []wire.Record{wire.Measurement("CPU Usage", 12.5)}},
		{Category: wire.NetworkSummary, Records: []wire.Record{wire.Text("ESTAB 0 0 a:1 b:2")}},
		{Category: wire.ProcessList, Records: []wire.Record{wire.Text("12.0 3.1 chrome")}},
	}
}

func TestLayout_UpdateRendersOnlyItsRegion(t *testing.T) {
	rec := &recordingRenderer{}
	l := NewLayout(rec)
	l.Resize(200, 50)
	require.Zero(t, rec.Len(), "nothing cached yet")

	p := samplePayloads()[1]
	l.Update(p)

	calls := rec.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, Region{Category: wire.NetworkSummary, Y: 8, Width: 70, Height: 5}, calls[0].Region)
	assert.Equal(t, p, calls[0].Payload)

	last, ok := l.Last(wire.NetworkSummary)
	assert.True(t, ok)
	assert.Equal(t, p, last)
	_, ok = l.Last(wire.ProcessList)
	assert.False(t, ok)
}

func TestLayout_ResizeRedrawsFromCache(t *testing.T) {
	rec := &recordingRenderer{}
	l := NewLayout(rec)
	l.Resize(200, 50)
	for _, p := range samplePayloads() {
		l.Update(p)
	}
	require.Equal(t, 3, rec.Len())

	l.Resize(60, 60)

	calls := rec.Calls()[3:]
	require.Len(t, calls, 3)
	for i, p := range samplePayloads() {
		assert.Equal(t, p, calls[i].Payload)
		assert.Equal(t, 60, calls[i].Region.Width)
	}
	w, h := l.Size()
	assert.Equal(t, 60, w)
	assert.Equal(t, 60, h)
}

func TestLayout_LatestPayloadWins(t *testing.T) {
	rec := &recordingRenderer{}
	l := NewLayout(rec)
	l.Resize(200, 50)

	older := wire.Payload{Category: wire.ProcessSummary, Records: []wire.Record{wire.Measurement("CPU Usage", 1)}}
	newer := wire.Payload{Category: wire.ProcessSummary, Records: []wire.Record{wire.Measurement("CPU Usage", 2)}}
	l.Update(older)
	l.Update(newer)
	l.Resize(100, 50)

	calls := rec.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, newer, calls[2].Payload)
}

func TestLayout_UpdateBeforeResizeIsCachedNotDrawn(t *testing.T) {
	rec := &recordingRenderer{}
	l := NewLayout(rec)

	p := samplePayloads()[0]
	l.Update(p)
	assert.Zero(t, rec.Len())

	l.Resize(80, 24)
	calls := rec.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, p, calls[0].Payload)
}

func TestLayout_SkipsEmptyRegions(t *testing.T) {
	rec := &recordingRenderer{}
	l := NewLayout(rec)
	l.Resize(80, 10)

	for _, p := range samplePayloads() {
		l.Update(p)
	}
	// ProcessList has no rows left on a 10-row screen.
	calls := rec.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, wire.ProcessSummary, calls[0].Region.Category)
	assert.Equal(t, wire.NetworkSummary, calls[1].Region.Category)

	_, ok := l.Last(wire.ProcessList)
	assert.True(t, ok, "still cached for a later resize")
}

func TestLayout_IgnoresCategoriesOutsideLayout(t *testing.T) {
	rec := &recordingRenderer{}
	l := NewLayout(rec, wire.ProcessSummary)
	l.Resize(200, 50)

	l.Update(samplePayloads()[2])
	assert.Zero(t, rec.Len())
	_, ok := l.Last(wire.ProcessList)
	assert.False(t, ok)
	assert.Len(t, l.Regions(), 1)
}

func TestLayout_RegionsIsACopy(t *testing.T) {
	l := NewLayout(RenderFunc(func(Region, wire.Payload) {}))
	l.Resize(200, 50)

	regions := l.Regions()
	regions[0].Height = 99
	assert.Equal(t, 8, l.Regions()[0].Height)
}
