package rule

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// identity passes payloads through as maps.
var identity = RendererFunc(func(p Payload) (Output, error) {
	m := make(map[string]any, len(p))
	for k, v := range p {
		m[k] = map[string]any(v)
	}
	return MapOutput(m), nil
})

// keys renders the payload keys as a sequence.
var keys = RendererFunc(func(p Payload) (Output, error) {
	var seq []any
	for k := range p {
		seq = append(seq, k)
	}
	return SequenceOutput(seq), nil
})

// words renders "key=items" text, or "key" for actions.
var words = RendererFunc(func(p Payload) (Output, error) {
	var parts []string
	for k, attrs := range p {
		if items, ok := attrs[AttrItems]; ok {
			parts = append(parts, fmt.Sprintf("%s=%v", k, items))
		} else {
			parts = append(parts, k)
		}
	}
	sort.Strings(parts)
	return TextOutput(strings.Join(parts, " ")), nil
})

func newTestRule() *Rule {
	r := New(newFakeSystem())
	r.Modules.Set(KindProtocol, "tcp")
	r.Modules.Set(KindSource, "10.0.0.2")
	r.Modules.Set(KindSource, "10.0.0.1")
	r.Action = Drop{}
	return r
}

func TestNew_DefaultAction(t *testing.T) {
	r := New(newFakeSystem())
	assert.Equal(t, Accept{}, r.Action)
	assert.Zero(t, r.Modules.Len())
}

func TestExport_Map(t *testing.T) {
	r := newTestRule()
	r.Modules.Invert(KindProtocol, true)

	out, err := r.Export(identity)
	require.NoError(t, err)
	assert.Equal(t, ShapeMap, out.Shape)
	assert.Equal(t, map[string]any{
		"Protocol": map[string]any{"invert": true, "items": "tcp"},
		"Source":   map[string]any{"invert": false, "items": []string{"10.0.0.1", "10.0.0.2"}},
		"Drop":     map[string]any{},
	}, out.Map)
}

func TestExport_MapKeysPerKind(t *testing.T) {
	r := New(newFakeSystem())
	r.Modules.Set(KindInputInterface, "eth0")
	r.Modules.Set(KindDestination, "nas.lan")
	r.Modules.Set(KindOutputInterface, "wlan0")
	r.Action = NewGoTo("SERVICES")

	out, err := r.Export(identity)
	require.NoError(t, err)
	assert.Len(t, out.Map, 4, "one key per populated kind plus the action")
	assert.Contains(t, out.Map, "GoTo")
}

func TestExport_Sequence(t *testing.T) {
	r := newTestRule()

	out, err := r.Export(keys)
	require.NoError(t, err)
	assert.Equal(t, ShapeSequence, out.Shape)
	assert.Equal(t, []any{
		[]any{"Protocol"},
		[]any{"Source"},
		[]any{"Drop"},
	}, out.Sequence)
}

func TestExport_SequenceIncludesEmptyModules(t *testing.T) {
	r := New(newFakeSystem())
	r.Modules.Set(KindProtocol, "bogus123")

	out, err := r.Export(keys)
	require.NoError(t, err)
	assert.Len(t, out.Sequence, 2)
}

func TestExport_Text(t *testing.T) {
	r := newTestRule()

	out, err := r.Export(words)
	require.NoError(t, err)
	assert.Equal(t, ShapeText, out.Shape)
	assert.Equal(t, "Protocol=tcp Source=[10.0.0.1 10.0.0.2] Drop", out.Text)
}

func TestExport_TextSkipsEmptyModules(t *testing.T) {
	r := New(newFakeSystem())
	r.Modules.Set(KindProtocol, "bogus123")
	r.Modules.Set(KindSource, "10.0.0.1")
	r.Modules.Invert(KindDestination, true)

	out, err := r.Export(words)
	require.NoError(t, err)
	assert.Equal(t, "Source=10.0.0.1 Accept", out.Text)
}

func TestExport_TextActionOnly(t *testing.T) {
	out, err := New(newFakeSystem()).Export(words)
	require.NoError(t, err)
	assert.Equal(t, "Accept", out.Text)
}

func TestExport_NilActionIsAccept(t *testing.T) {
	r := New(newFakeSystem())
	r.Action = nil

	out, err := r.Export(words)
	require.NoError(t, err)
	assert.Equal(t, "Accept", out.Text)
}

func TestExport_UnrenderableShape(t *testing.T) {
	none := RendererFunc(func(p Payload) (Output, error) { return Output{}, nil })

	_, err := newTestRule().Export(none)
	assert.ErrorIs(t, err, ErrUnrenderableShape)
}

func TestExport_ShapeMustBeStable(t *testing.T) {
	// Text for the probe, map for anything else.
	unstable := RendererFunc(func(p Payload) (Output, error) {
		if len(p) == 0 {
			return TextOutput(""), nil
		}
		return MapOutput(nil), nil
	})

	_, err := newTestRule().Export(unstable)
	assert.ErrorIs(t, err, ErrUnrenderableShape)
}

func TestExport_RendererErrorPropagates(t *testing.T) {
	failing := RendererFunc(func(p Payload) (Output, error) {
		if _, ok := p["Drop"]; ok {
			return Output{}, fmt.Errorf("%w: Drop", ErrUnknownRenderKey)
		}
		return TextOutput(""), nil
	})

	_, err := newTestRule().Export(failing)
	assert.ErrorIs(t, err, ErrUnknownRenderKey)
	assert.ErrorContains(t, err, "render Drop")
}

func TestExport_ProbeError(t *testing.T) {
	boom := errors.New("boom")
	_, err := newTestRule().Export(RendererFunc(func(Payload) (Output, error) { return Output{}, boom }))
	assert.ErrorIs(t, err, boom)
}

func TestExport_ProbesWithEmptyPayload(t *testing.T) {
	r := &captureRenderer{}
	_, err := newTestRule().Export(r)
	require.NoError(t, err)
	require.NotEmpty(t, r.got)
	assert.Empty(t, r.got[0])
	assert.Len(t, r.got, 4, "probe, two modules, action")
}

func TestShape_String(t *testing.T) {
	assert.Equal(t, "map", ShapeMap.String())
	assert.Equal(t, "sequence", ShapeSequence.String())
	assert.Equal(t, "text", ShapeText.String())
	assert.Equal(t, "none", ShapeNone.String())
}

func TestExport_ZeroRule(t *testing.T) {
	r := &Rule{Action: Drop{}}

	out, err := r.Export(identity)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"Drop": map[string]any{}}, out.Map)

	out, err = r.Export(keys)
	require.NoError(t, err)
	assert.Len(t, out.Sequence, 1)

	out, err = r.Export(words)
	require.NoError(t, err)
	assert.Equal(t, "Drop", out.Text)

	var zero Rule
	out, err = zero.Export(words)
	require.NoError(t, err)
	assert.Equal(t, "Accept", out.Text)

	_, err = zero.Modules.Set(KindSource, "10.0.0.1")
	require.NoError(t, err)
	out, err = zero.Export(words)
	require.NoError(t, err)
	assert.Equal(t, "Source=10.0.0.1 Accept", out.Text)
}
