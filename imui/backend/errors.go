package backend

import "errors"

// Sentinel errors returned by the backends.
var (
	// ErrNoContext is returned when Init is given a nil UI context.
	ErrNoContext = errors.New("backend: nil UI context")

	// ErrNoWindow is returned when the platform backend is given no window.
	ErrNoWindow = errors.New("backend: no window handle")

	// ErrNoDevice is returned when the renderer backend is given no device.
	ErrNoDevice = errors.New("backend: no device")

	// ErrAlreadyInitialized is returned by Init on an initialized backend.
	ErrAlreadyInitialized = errors.New("backend: already initialized")

	// ErrNotInitialized is returned by renderer calls before Init.
	ErrNotInitialized = errors.New("backend: not initialized")

	// ErrShaderCompile wraps WGSL to HLSL translation failures.
	ErrShaderCompile = errors.New("backend: shader compilation failed")
)
