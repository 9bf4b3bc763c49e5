// Package grapher renders function plots described by Lua scene files.
//
// A scene sets the window, the axis ranges and a list of curves and point
// datasets on the global plot table. Curves are Lua functions or expression
// strings sampled once per pixel column (or row, for curves oriented along
// y). The Grapher owns the scene's Lua runtime and draws it onto a canvas
// every frame.
//
// # Loading Scenes
//
//	g, err := grapher.New("scene.lua", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer g.Close()
//
// Scenes can also come from an [io/fs.FS] with [NewFromFS], from an
// [io.Reader] with [NewFromReader], or from the built-in default scene with
// [NewDefault].
//
// # Rendering
//
// [Grapher.Run] drives the frame loop against any surface:
//
//	win, _ := surface.NewWindow(surface.Options{Width: 720, Height: 540})
//	go g.Run(ctx, win)
//	win.Run() // on the main goroutine
//
// [Grapher.RenderFrame] draws a single frame onto a caller-owned canvas,
// which is what tests and offline renderers use.
//
// # Reloading
//
// [Grapher.ReloadConfig] parses the scene source again and swaps it in
// between frames. A scene that fails to load leaves the current one in
// place. With Options.WatchConfig set, file-backed scenes reload on save.
//
// # Lifecycle Hooks
//
// A scene may define global functions plot_startup, plot_frame(n) and
// plot_shutdown. plot_frame runs before every frame, so a curve reading
// state it updates is animated.
package grapher
