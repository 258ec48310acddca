package graphics

// Context defines the interface for an OpenGL context. Every Driver call must
// be made on the thread the context was made current on.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	EndFrame()
	GetFramebufferSize() (int, int)
	Time() float64
	IsGLES() bool
}
