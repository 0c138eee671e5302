// Copyright 2024 The Vesper Authors. All rights reserved.

package renderengine

import (
	"context"
	"sync/atomic"

	"github.com/vesper3d/vesper/backend"
	"github.com/vesper3d/vesper/cache"
	"github.com/vesper3d/vesper/renderscene"
	"github.com/vesper3d/vesper/scenegraph"
)

// Engine owns the render thread and mediates every frame's handoff
// between the game thread and it, via exactly two binary semaphores
// (spec.md §4.5).
type Engine struct {
	backend  backend.Backend
	scene    *renderscene.RenderScene
	graph    *scenegraph.SceneGraph
	textures *cache.TextureCache

	caller        binarySemaphore // initial 0
	render        binarySemaphore // initial 1
	running       atomic.Bool
	renderWaiting atomic.Bool

	done chan struct{}

	camera renderscene.FrameCamera
}

// New creates an engine that drives b and scene, and starts the render
// thread. The caller must have already called scene.SetSceneGraph(g).
func New(b backend.Backend, scene *renderscene.RenderScene, graph *scenegraph.SceneGraph, textures *cache.TextureCache) *Engine {
	e := &Engine{
		backend:  b,
		scene:    scene,
		graph:    graph,
		textures: textures,
		caller:   newBinarySemaphore(0),
		render:   newBinarySemaphore(1),
		done:     make(chan struct{}),
	}
	e.running.Store(true)
	go e.renderThreadMain()
	return e
}

// SubmitFrame runs the game-thread half of one frame (spec.md §4.5:
// "Per-frame from the game thread"):
//  1. acquire the render semaphore (blocks until the render thread
//     finished the previous frame's Stage 2 read);
//  2. update transforms, run render-scene Stage 1 (which drains the
//     scene graph's patch log and queues cache tasks), and snapshot
//     the render camera;
//  3. release the caller semaphore.
func (e *Engine) SubmitFrame() {
	e.render.acquire()

	e.graph.UpdateTransforms()
	e.scene.Stage1()
	e.camera = e.scene.SelectCamera()

	e.caller.release()
}

// renderThreadMain is the render thread's loop (spec.md §4.5: "Render
// thread loop").
func (e *Engine) renderThreadMain() {
	for e.running.Load() {
		e.renderWaiting.Store(true)
		e.caller.acquire()
		e.renderWaiting.Store(false)
		if !e.running.Load() {
			break
		}

		if err := e.scene.Stage2(context.Background(), e.textures); err != nil {
			panic(err)
		}
		e.backend.Render(e.camera, e.scene.Bundles())
		e.backend.SwapBuffers()

		e.render.release()
	}
	close(e.done)
}

// Shutdown is cooperative: it clears running, releases the caller
// semaphore once if the render thread is currently waiting on it (to
// unblock it), joins the render thread, then destroys the backend
// context (spec.md §4.5: "Shutdown").
func (e *Engine) Shutdown() {
	e.running.Store(false)
	if e.renderWaiting.Load() {
		e.caller.release()
	}
	<-e.done
	e.backend.DestroyContext()
}
