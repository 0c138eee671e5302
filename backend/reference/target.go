// Copyright 2024 The Vesper Authors. All rights reserved.

package reference

import (
	"github.com/vesper3d/vesper/driver"
	"github.com/vesper3d/vesper/wsi"
)

// Target is a render destination for the reference backend: either an
// onscreen swapchain bound to a wsi.Window, or a single offscreen HDR
// image (spec.md's supplemented onscreen/offscreen split, grounded on
// engine/renderer.go's Onscreen/Offscreen, which embed the same
// Renderer and differ only in how the final image reaches the screen).
type Target struct {
	pass driver.RenderPass

	swap   driver.Swapchain // nil for an offscreen target
	fbs    []driver.Framebuf
	img    driver.Image // non-nil only for an offscreen target
	view   driver.ImageView
	width  int
	height int

	cur int // index of the framebuffer currently being drawn to
}

const colorFormat = driver.RGBA16f

func newRenderPass(gpu driver.GPU) (driver.RenderPass, error) {
	return gpu.NewRenderPass(
		[]driver.Attachment{{
			Format:  colorFormat,
			Samples: 1,
			Load:    [2]driver.LoadOp{driver.LClear, driver.LDontCare},
			Store:   [2]driver.StoreOp{driver.SStore, driver.SDontCare},
		}},
		[]driver.Subpass{{Color: []int{0}, DS: -1}},
	)
}

// NewOnscreenTarget creates a swapchain-backed target presenting to win
// (spec.md's onscreen render target).
func NewOnscreenTarget(r *Reference, win wsi.Window, imageCount int) (*Target, error) {
	pass, err := newRenderPass(r.gpu)
	if err != nil {
		return nil, err
	}
	pres, ok := r.gpu.(driver.Presenter)
	if !ok {
		pass.Destroy()
		return nil, driver.ErrCannotPresent
	}
	swap, err := pres.NewSwapchain(win, imageCount)
	if err != nil {
		pass.Destroy()
		return nil, err
	}
	width, height := win.Width(), win.Height()
	t := &Target{pass: pass, swap: swap, width: width, height: height}
	for _, v := range swap.Views() {
		fb, err := pass.NewFB([]driver.ImageView{v}, width, height, 1)
		if err != nil {
			t.Destroy()
			return nil, err
		}
		t.fbs = append(t.fbs, fb)
	}
	return t, nil
}

// NewOffscreenTarget creates a single HDR image target of the given
// dimensions (spec.md's offscreen render target, e.g. for render-to-
// texture or headless tests).
func NewOffscreenTarget(r *Reference, width, height int) (*Target, error) {
	pass, err := newRenderPass(r.gpu)
	if err != nil {
		return nil, err
	}
	img, err := r.gpu.NewImage(colorFormat, driver.Dim3D{Width: width, Height: height, Depth: 1}, 1, 1, 1, driver.URenderTarget|driver.UShaderSample)
	if err != nil {
		pass.Destroy()
		return nil, err
	}
	view, err := img.NewView(driver.IView2D, 0, 1, 0, 1)
	if err != nil {
		img.Destroy()
		pass.Destroy()
		return nil, err
	}
	fb, err := pass.NewFB([]driver.ImageView{view}, width, height, 1)
	if err != nil {
		view.Destroy()
		img.Destroy()
		pass.Destroy()
		return nil, err
	}
	return &Target{pass: pass, img: img, view: view, width: width, height: height, fbs: []driver.Framebuf{fb}}, nil
}

// Acquire selects the framebuffer the next frame should draw into,
// waiting on the swapchain if this is an onscreen target.
func (t *Target) Acquire(cb driver.CmdBuffer) (driver.Framebuf, error) {
	if t.swap == nil {
		return t.fbs[0], nil
	}
	idx, err := t.swap.Next(cb)
	if err != nil {
		return nil, err
	}
	t.cur = idx
	return t.fbs[idx], nil
}

// Present presents the most recently acquired framebuffer; it is a
// no-op for an offscreen target.
func (t *Target) Present(cb driver.CmdBuffer) error {
	if t.swap == nil {
		return nil
	}
	return t.swap.Present(t.cur, cb)
}

// RenderPass returns the target's render pass, for building a
// compatible driver.Pipeline.
func (t *Target) RenderPass() driver.RenderPass { return t.pass }

// Destroy releases every GPU resource the target owns.
func (t *Target) Destroy() {
	for _, fb := range t.fbs {
		fb.Destroy()
	}
	if t.view != nil {
		t.view.Destroy()
	}
	if t.img != nil {
		t.img.Destroy()
	}
	if t.swap != nil {
		t.swap.Destroy()
	}
	if t.pass != nil {
		t.pass.Destroy()
	}
}
