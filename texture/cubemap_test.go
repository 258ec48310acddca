package texture

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/glkit/graphics"
	"github.com/richinsley/glkit/graphics/graphicstest"
)

var faceSources = [6]string{"px", "py", "pz", "nx", "ny", "nz"}

// gatedLoader holds each load until its gate is opened.
type gatedLoader struct {
	gates map[string]chan error
}

func newGatedLoader() *gatedLoader {
	g := &gatedLoader{gates: make(map[string]chan error)}
	for _, s := range faceSources {
		g.gates[s] = make(chan error, 1)
	}
	return g
}

func (g *gatedLoader) Load(ctx context.Context, src string) (image.Image, error) {
	select {
	case err := <-g.gates[src]:
		if err != nil {
			return nil, err
		}
		return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (g *gatedLoader) open(src string, err error) { g.gates[src] <- err }

func TestCubeMapAnyOrder(t *testing.T) {
	orders := [][6]int{
		{0, 1, 2, 3, 4, 5},
		{5, 4, 3, 2, 1, 0},
		{2, 5, 0, 3, 1, 4},
	}
	for _, order := range orders {
		d := graphicstest.New()
		l := newGatedLoader()
		c := NewCubeMap(context.Background(), d, l, faceSources)

		for k, face := range order {
			l.open(faceSources[face], nil)
			if k < 5 {
				want := k + 1
				require.Eventually(t, func() bool {
					c.Update()
					return c.arrived == want
				}, time.Second, time.Millisecond)
				assert.Equal(t, Pending, c.State())
				assert.False(t, c.Handle().Valid())
				assert.Equal(t, 0, d.Count("CreateTexture"))
				assert.False(t, c.Bind(0))
			}
		}
		require.Eventually(t, func() bool { return c.Update() == Ready }, time.Second, time.Millisecond)

		for i := 0; i < 3; i++ {
			c.Update()
		}
		assert.Equal(t, 1, d.Count("CreateTexture"), "built exactly once")
		assert.Equal(t, 1, d.Count("GenerateMipmap"))
		uploads := d.Named("TexImage2D")
		require.Len(t, uploads, 6)
		for i, u := range uploads {
			assert.Equal(t, FaceTargets[i], u.Args[0])
		}
		assert.Equal(t, 4, c.Size())
		assert.NoError(t, c.Err())

		select {
		case <-c.Ready():
		default:
			t.Fatal("ready channel not closed")
		}
		assert.True(t, c.Bind(2))
		assert.Equal(t, 2, c.BoundUnit())
	}
}

func TestCubeMapWait(t *testing.T) {
	d := graphicstest.New()
	l := newGatedLoader()
	c := NewCubeMap(context.Background(), d, l, faceSources)

	for _, s := range faceSources {
		l.open(s, nil)
	}
	require.NoError(t, c.Wait(context.Background()))
	assert.Equal(t, Ready, c.State())
	assert.True(t, c.Handle().Valid())
}

func TestCubeMapWaitContext(t *testing.T) {
	d := graphicstest.New()
	l := newGatedLoader()
	c := NewCubeMap(context.Background(), d, l, faceSources)
	l.open("px", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.Wait(ctx), context.DeadlineExceeded)
	assert.Equal(t, Pending, c.State())
	assert.Equal(t, 0, d.Count("CreateTexture"))
}

func TestCubeMapLoadFailure(t *testing.T) {
	d := graphicstest.New()
	l := newGatedLoader()
	c := NewCubeMap(context.Background(), d, l, faceSources)

	boom := errors.New("decode failed")
	l.open("py", nil)
	l.open("nz", boom)
	for _, s := range []string{"px", "pz", "nx", "ny"} {
		l.open(s, nil)
	}

	err := c.Wait(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, Failed, c.State())

	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, Failed, c.Update())
	assert.Equal(t, 0, d.Count("CreateTexture"))
	assert.False(t, c.Bind(0))
}

func TestCubeMapCancelledLoads(t *testing.T) {
	d := graphicstest.New()
	ctx, cancel := context.WithCancel(context.Background())
	c := NewCubeMap(ctx, d, newGatedLoader(), faceSources)
	cancel()

	err := c.Wait(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Failed, c.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "ready", Ready.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, graphics.Enum(graphics.TEXTURE_CUBE_MAP_NEGATIVE_Z), FaceTargets[5])
}
