// Copyright 2024 The Vesper Authors. All rights reserved.

// Package glfwx implements wsi.Window on top of GLFW, grounded on
// Carmen-Shannon-oxy-go/engine/window/window_glfw.go's
// init/CreateWindow/PollEvents/Destroy sequence. wsi's own platform
// dispatch (wsi.init_linux.go etc.) only wires its unexported newWindow
// var to the driver's native XCB/Wayland/Win32 backends, so this
// package is a second, independent wsi.Window implementation meant to
// be constructed directly by a host application (cmd/vesperd) rather
// than routed through wsi.NewWindow.
package glfwx

import (
	"fmt"
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/vesper3d/vesper/wsi"
)

var initOnce sync.Once
var initErr error

func ensureInit() error {
	initOnce.Do(func() {
		initErr = glfw.Init()
		if initErr == nil {
			// This module targets the driver package's own GPU
			// abstraction, not OpenGL, so GLFW must not create a
			// context of its own (mirrors oxy-go's WebGPU windows).
			glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
		}
	})
	return initErr
}

// Window is a GLFW-backed wsi.Window.
type Window struct {
	win   *glfw.Window
	title string
}

// NewWindow creates and shows a GLFW window of the given size and
// title.
func NewWindow(width, height int, title string) (wsi.Window, error) {
	if err := ensureInit(); err != nil {
		return nil, fmt.Errorf("glfwx: init GLFW: %w", err)
	}
	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("glfwx: create window: %w", err)
	}
	return &Window{win: win, title: title}, nil
}

// Map implements wsi.Window.
func (w *Window) Map() error {
	w.win.Show()
	return nil
}

// Unmap implements wsi.Window.
func (w *Window) Unmap() error {
	w.win.Hide()
	return nil
}

// Resize implements wsi.Window.
func (w *Window) Resize(width, height int) error {
	w.win.SetSize(width, height)
	return nil
}

// SetTitle implements wsi.Window.
func (w *Window) SetTitle(title string) error {
	w.win.SetTitle(title)
	w.title = title
	return nil
}

// Close implements wsi.Window.
func (w *Window) Close() { w.win.Destroy() }

// Width implements wsi.Window.
func (w *Window) Width() int {
	width, _ := w.win.GetSize()
	return width
}

// Height implements wsi.Window.
func (w *Window) Height() int {
	_, height := w.win.GetSize()
	return height
}

// Title implements wsi.Window.
func (w *Window) Title() string { return w.title }

// PollEvents drains GLFW's event queue, dispatching any callbacks
// registered on windows created by this package.
func PollEvents() { glfw.PollEvents() }

// ShouldClose reports whether the user has requested the window be
// closed (e.g. clicked its close button).
func (w *Window) ShouldClose() bool { return w.win.ShouldClose() }

var _ wsi.Window = (*Window)(nil)
